package ziwei

import "github.com/rcliao/ziwei/internal/model"

// TransformationStars returns the four target stars for a year stem.
func TransformationStars(yearStem int) ([4]string, error) {
	if yearStem < 0 || yearStem >= len(transformationTable) {
		return [4]string{}, lookupMiss("ziwei.transformation_stars", "transformationTable", yearStem)
	}
	return transformationTable[yearStem], nil
}

// resolveTransformations locates each target star through the placement
// index and tags the palace holding it. A star that was never placed is
// recorded with Branch -1.
func (b *board) resolveTransformations(yearStem int) (model.FourTransformations, error) {
	var out model.FourTransformations
	targets, err := TransformationStars(yearStem)
	if err != nil {
		return out, err
	}
	for i, star := range targets {
		tag := model.TransformationTags[i]
		out[i] = model.Transformation{Tag: tag, Star: star, Branch: -1}

		at, ok := b.index[star]
		if !ok {
			continue
		}
		out[i].Branch = at.Branch
		b.mark(at.Branch, tag)
	}
	return out, nil
}

func (b *board) mark(branch int, tag string) {
	p := &b.palaces[branch]
	if p.Transformations == model.NoTransformation {
		p.Transformations = tag
		return
	}
	p.Transformations += " " + tag
}
