package ziwei

import (
	"fmt"

	"github.com/rcliao/ziwei/internal/model"
)

// Tier separates major stars from auxiliary ones.
type Tier int

const (
	TierMajor Tier = iota
	TierMinor
)

// Placement records where a star landed.
type Placement struct {
	Branch int
	Tier   Tier
}

// board accumulates placed stars and indexes them by name.
type board struct {
	palaces [12]model.Palace
	index   map[string]Placement
}

func newBoard() *board {
	return &board{index: make(map[string]Placement, len(MajorStars)+len(MinorStars))}
}

func (b *board) place(name string, branch int, tier Tier) error {
	const op = "ziwei.place"
	if branch < 0 || branch > 11 {
		return lookupMiss(op, "palaces", branch)
	}
	if prev, dup := b.index[name]; dup {
		return &Error{Op: op, Kind: KindLookupMiss, Err: fmt.Errorf("%s already placed at %s", name, model.Branches[prev.Branch])}
	}
	brightness, _ := BrightnessOf(name, branch)
	star := model.Star{Name: name, Brightness: brightness}

	p := &b.palaces[branch]
	if tier == TierMajor {
		p.MajorStars = append(p.MajorStars, star)
	} else {
		p.MinorStars = append(p.MinorStars, star)
	}
	b.index[name] = Placement{Branch: branch, Tier: tier}
	return nil
}

func (b *board) placeGroup(g offsetGroup, anchor int) error {
	for i, name := range g.names {
		if err := b.place(name, Normalize12(anchor+g.offsets[i]), TierMajor); err != nil {
			return err
		}
	}
	return nil
}

// placeMajorStars places the 紫微 group and the 天府 group.
func (b *board) placeMajorStars(purple int) error {
	if err := b.placeGroup(ziweiGroup, purple); err != nil {
		return err
	}
	return b.placeGroup(tianfuGroup, TianFu(purple))
}

func wenchangPos(hour int) int { return Normalize12(10 - hour) }
func wenquPos(hour int) int    { return Normalize12(4 + hour) }
func zuofuPos(month int) int   { return Normalize12(4 + (month - 1)) }
func youbiPos(month int) int   { return Normalize12(10 - (month - 1)) }
func dikongPos(hour int) int   { return Normalize12(11 - hour) }
func dijiePos(hour int) int    { return Normalize12(11 + hour) }

func huoLingPos(yearBranch, hour int) (huo, ling int) {
	start := huoLingStart[yearBranch]
	return Normalize12(start[0] + hour), Normalize12(start[1] - hour)
}

// minorPlacement is a star and its computed branch.
type minorPlacement struct {
	name   string
	branch int
}

// minorPositions evaluates the auxiliary rules in placement order.
func minorPositions(hour, month, yearStem, yearBranch int) ([]minorPlacement, error) {
	const op = "ziwei.minor_positions"
	if yearStem < 0 || yearStem > 9 {
		return nil, lookupMiss(op, "yearStem", yearStem)
	}
	if yearBranch < 0 || yearBranch > 11 {
		return nil, lookupMiss(op, "yearBranch", yearBranch)
	}

	kuiYue := kuiYueTable[yearStem]
	lucun := lucunTable[yearStem]
	huo, ling := huoLingPos(yearBranch, hour)

	return []minorPlacement{
		{Wenchang, wenchangPos(hour)},
		{Wenqu, wenquPos(hour)},
		{Zuofu, zuofuPos(month)},
		{Youbi, youbiPos(month)},
		{Tiankui, kuiYue[0]},
		{Tianyue, kuiYue[1]},
		{Lucun, lucun},
		{Qingyang, Normalize12(lucun + 1)},
		{Tuoluo, Normalize12(lucun - 1)},
		{Huoxing, huo},
		{Lingxing, ling},
		{Dikong, dikongPos(hour)},
		{Dijie, dijiePos(hour)},
	}, nil
}

func (b *board) placeMinorStars(hour, month, yearStem, yearBranch int) error {
	positions, err := minorPositions(hour, month, yearStem, yearBranch)
	if err != nil {
		return err
	}
	for _, mp := range positions {
		if err := b.place(mp.name, mp.branch, TierMinor); err != nil {
			return err
		}
	}
	return nil
}
