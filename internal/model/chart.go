// Package model defines the chart, profile and input data types.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Branches are the 12 earthly branches in chart coordinate order.
var Branches = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

// Stems are the 10 heavenly stems.
var Stems = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

// BranchIndex returns the position of a branch label, or -1.
func BranchIndex(label string) int {
	for i, b := range Branches {
		if b == label {
			return i
		}
	}
	return -1
}

// StemIndex returns the position of a stem label, or -1.
func StemIndex(label string) int {
	for i, s := range Stems {
		if s == label {
			return i
		}
	}
	return -1
}

// Brightness is a star's strength state at its placed branch.
type Brightness string

const (
	Temple       Brightness = "廟"
	Prosperous   Brightness = "旺"
	Gain         Brightness = "得"
	Favorable    Brightness = "利"
	Level        Brightness = "平"
	Unfavorable  Brightness = "不"
	Trapped      Brightness = "陷"
	NoBrightness Brightness = ""
)

// Star is a placed star. It serializes as its display label.
type Star struct {
	Name       string
	Brightness Brightness
}

// Label returns "name(brightness)", or the bare name when no brightness is defined.
func (s Star) Label() string {
	if s.Brightness == NoBrightness {
		return s.Name
	}
	return s.Name + "(" + string(s.Brightness) + ")"
}

func (s Star) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Label())
}

func (s *Star) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err != nil {
		return err
	}
	*s = ParseStar(label)
	return nil
}

// ParseStar parses a display label back into a Star.
func ParseStar(label string) Star {
	open := strings.Index(label, "(")
	if open < 0 || !strings.HasSuffix(label, ")") {
		return Star{Name: label}
	}
	return Star{
		Name:       label[:open],
		Brightness: Brightness(label[open+len("(") : len(label)-len(")")]),
	}
}

// NoTransformation is the marker of a palace holding no transformation.
const NoTransformation = "否"

// Palace is one of the 12 chart sectors.
type Palace struct {
	Name            string `json:"name"`
	Branch          string `json:"branch"`
	BranchIndex     int    `json:"branch_index"`
	Stem            string `json:"stem"`
	StemIndex       int    `json:"stem_index"`
	MajorStars      []Star `json:"major_stars"`
	MinorStars      []Star `json:"minor_stars"`
	Transformations string `json:"is_four_transformed"`
}

// Tags returns the transformation tags held by the palace.
func (p Palace) Tags() []string {
	if p.Transformations == "" || p.Transformations == NoTransformation {
		return nil
	}
	return strings.Fields(p.Transformations)
}

// Empty reports whether the palace holds no major star.
func (p Palace) Empty() bool {
	return len(p.MajorStars) == 0
}

// Transformation tags in table order.
const (
	HuaLu   = "化祿"
	HuaQuan = "化權"
	HuaKe   = "化科"
	HuaJi   = "化忌"
)

// TransformationTags lists the four tags in resolution order.
var TransformationTags = [4]string{HuaLu, HuaQuan, HuaKe, HuaJi}

var transformationKeys = [4]string{"HUA_LU", "HUA_QUAN", "HUA_KE", "HUA_JI"}

// NotPlaced is the branch label recorded for a transformation whose star is absent.
const NotPlaced = "未顯示"

// Transformation is one resolved entry of the four transformations.
type Transformation struct {
	Tag    string
	Star   string
	Branch int // -1 when the star is not placed
}

// Found reports whether the target star was located in the chart.
func (t Transformation) Found() bool {
	return t.Branch >= 0
}

func (t Transformation) String() string {
	if !t.Found() {
		return fmt.Sprintf("%s (%s)", t.Star, NotPlaced)
	}
	return fmt.Sprintf("%s (%s)", t.Star, Branches[t.Branch])
}

// FourTransformations holds the Lu, Quan, Ke and Ji results in that order.
type FourTransformations [4]Transformation

func (f FourTransformations) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(f))
	for i, t := range f {
		out[transformationKeys[i]] = t.String()
	}
	return json.Marshal(out)
}

func (f *FourTransformations) UnmarshalJSON(b []byte) error {
	var in map[string]string
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	for i, key := range transformationKeys {
		v, ok := in[key]
		if !ok {
			return fmt.Errorf("four transformations: missing %s", key)
		}
		t, err := parseTransformation(v)
		if err != nil {
			return fmt.Errorf("four transformations: %s: %w", key, err)
		}
		t.Tag = TransformationTags[i]
		f[i] = t
	}
	return nil
}

func parseTransformation(s string) (Transformation, error) {
	open := strings.LastIndex(s, " (")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Transformation{}, fmt.Errorf("malformed entry %q", s)
	}
	t := Transformation{Star: s[:open], Branch: -1}
	label := s[open+len(" (") : len(s)-len(")")]
	if label == NotPlaced {
		return t, nil
	}
	if t.Branch = BranchIndex(label); t.Branch < 0 {
		return Transformation{}, fmt.Errorf("unknown branch %q", label)
	}
	return t, nil
}

// Found returns how many of the four transformations located their star.
func (f FourTransformations) Found() int {
	n := 0
	for _, t := range f {
		if t.Found() {
			n++
		}
	}
	return n
}

// Chart is the computed 12-palace chart.
type Chart struct {
	LifePalace          string              `json:"life_palace_location"`
	LifeBranch          int                 `json:"life_palace_index"`
	BodyPalace          string              `json:"body_palace_location"`
	BodyBranch          int                 `json:"body_palace_index"`
	FourTransformations FourTransformations `json:"four_transformations"`
	Palaces             [12]Palace          `json:"all_palaces"`
}

// PalaceByName returns the palace carrying the given role name.
func (c *Chart) PalaceByName(name string) (Palace, bool) {
	for _, p := range c.Palaces {
		if p.Name == name {
			return p, true
		}
	}
	return Palace{}, false
}

// Opposite returns the palace across the board from branch i.
func (c *Chart) Opposite(i int) Palace {
	return c.Palaces[(i+6)%12]
}

// Profile summarizes the subject of a chart.
type Profile struct {
	Name          string `json:"name"`
	Gender        Gender `json:"gender"`
	LunarDateTime string `json:"lunar_date_time"`
	Bureau        string `json:"five_elements_bureau"`
	BureauNumber  int    `json:"bureau_number"`
}

// Reading is a computed profile and chart, optionally with its interpretation.
type Reading struct {
	Profile        Profile         `json:"profile"`
	Chart          Chart           `json:"palace_chart_data"`
	Interpretation *Interpretation `json:"analysis_interpretation,omitempty"`
}
