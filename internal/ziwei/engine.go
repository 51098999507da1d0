package ziwei

import (
	"strings"

	"github.com/rcliao/ziwei/internal/model"
)

// Calendar converts birth input into the lunar date the chart is built on.
type Calendar interface {
	Convert(in model.BirthInput) (model.LunarDate, error)
}

// Calculator wires a calendar service to the chart computation.
type Calculator struct {
	cal Calendar
}

// NewCalculator returns a Calculator backed by cal.
func NewCalculator(cal Calendar) *Calculator {
	return &Calculator{cal: cal}
}

// Calculate validates the input, converts it and computes the reading.
func (c *Calculator) Calculate(in model.BirthInput) (*model.Reading, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	ld, err := c.cal.Convert(in)
	if err != nil {
		if IsKind(err, KindInvalidInput) {
			return nil, err
		}
		return nil, &Error{Op: "ziwei.convert", Kind: KindInvalidInput, Err: err}
	}
	return Compute(in, ld)
}

// ValidateInput checks the caller-supplied fields that do not need a calendar.
func ValidateInput(in model.BirthInput) error {
	const op = "ziwei.validate"
	if in.Gender != model.Male && in.Gender != model.Female {
		return invalid(op, "unknown gender %q", in.Gender)
	}
	if in.Calendar != model.Solar && in.Calendar != model.Lunar {
		return invalid(op, "unknown calendar system %q", in.Calendar)
	}
	if in.LeapMonth && in.Calendar != model.Lunar {
		return invalid(op, "leap month flag requires the lunar calendar")
	}
	if !in.Hour.Valid() {
		return invalid(op, "hour slot %d out of range 0-11", int(in.Hour))
	}
	if in.Month < 1 || in.Month > 12 {
		return invalid(op, "month %d out of range 1-12", in.Month)
	}
	maxDay := 31
	if in.Calendar == model.Lunar {
		maxDay = 30
	}
	if in.Day < 1 || in.Day > maxDay {
		return invalid(op, "day %d out of range 1-%d", in.Day, maxDay)
	}
	return nil
}

// Compute builds the profile and chart for a converted lunar date.
func Compute(in model.BirthInput, ld model.LunarDate) (*model.Reading, error) {
	const op = "ziwei.compute"
	if !in.Hour.Valid() {
		return nil, invalid(op, "hour slot %d out of range 0-11", int(in.Hour))
	}
	if ld.Month < 1 || ld.Month > 12 {
		return nil, invalid(op, "lunar month %d out of range 1-12", ld.Month)
	}
	if ld.Day < 1 || ld.Day > 30 {
		return nil, invalid(op, "lunar day %d out of range 1-30", ld.Day)
	}

	hour := int(in.Hour)
	month := EffectiveMonth(ld.Month, ld.Day, ld.Leap)
	life := LifePalace(month, hour)
	body := BodyPalace(month, hour)

	stems, err := PalaceStems(ld.YearStem)
	if err != nil {
		return nil, err
	}
	bureau, err := ResolveBureau(stems[life], life)
	if err != nil {
		return nil, err
	}
	purple, err := PurpleStar(bureau.Number, ld.Day)
	if err != nil {
		return nil, err
	}

	b := newBoard()
	for i := range b.palaces {
		b.palaces[i] = model.Palace{
			Name:            PalaceName(life, i),
			Branch:          model.Branches[i],
			BranchIndex:     i,
			Stem:            model.Stems[stems[i]],
			StemIndex:       stems[i],
			MajorStars:      []model.Star{},
			MinorStars:      []model.Star{},
			Transformations: model.NoTransformation,
		}
	}
	if err := b.placeMajorStars(purple); err != nil {
		return nil, err
	}
	if err := b.placeMinorStars(hour, month, ld.YearStem, ld.YearBranch); err != nil {
		return nil, err
	}
	four, err := b.resolveTransformations(ld.YearStem)
	if err != nil {
		return nil, err
	}

	return &model.Reading{
		Profile: model.Profile{
			Name:          in.Name,
			Gender:        in.Gender,
			LunarDateTime: dateTimeLabel(ld, in.Hour, month != ld.Month),
			Bureau:        bureau.Name,
			BureauNumber:  bureau.Number,
		},
		Chart: model.Chart{
			LifePalace:          model.Branches[life],
			LifeBranch:          life,
			BodyPalace:          model.Branches[body],
			BodyBranch:          body,
			FourTransformations: four,
			Palaces:             b.palaces,
		},
	}, nil
}

func dateTimeLabel(ld model.LunarDate, hour model.HourSlot, shifted bool) string {
	parts := []string{ld.Label, hour.Label()}
	if shifted {
		parts = append(parts, "(閏月修正)")
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
