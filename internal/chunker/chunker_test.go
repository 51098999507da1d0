package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rcliao/ziwei/internal/model"
)

func testReading() *model.Reading {
	r := &model.Reading{}
	for i := range r.Chart.Palaces {
		r.Chart.Palaces[i] = model.Palace{
			Name:            "p" + model.Branches[i],
			Branch:          model.Branches[i],
			BranchIndex:     i,
			Stem:            "甲",
			Transformations: model.NoTransformation,
		}
	}
	life := &r.Chart.Palaces[3]
	life.Name = "命宮"
	life.Stem = "己"
	life.MajorStars = []model.Star{{Name: "太陽", Brightness: model.Prosperous}, {Name: "天梁", Brightness: model.Temple}}
	life.MinorStars = []model.Star{{Name: "祿存"}}
	life.Transformations = "化祿 化權"
	r.Chart.LifeBranch = 3
	r.Chart.BodyBranch = 3
	return r
}

func TestChunk_Nil(t *testing.T) {
	if got := Chunk(nil, DefaultOptions()); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestChunk_OnePerPalace(t *testing.T) {
	result := Chunk(testReading(), DefaultOptions())
	if len(result) != 12 {
		t.Fatalf("expected 12 chunks, got %d", len(result))
	}
	life := result[3]
	want := "命宮 己卯 太陽(旺) 天梁(廟) 祿存 化祿 化權 身宮"
	if life.Text != want {
		t.Errorf("expected %q, got %q", want, life.Text)
	}
	if life.Branch != 3 || life.Palace != "命宮" {
		t.Errorf("unexpected location %+v", life)
	}
	if !strings.Contains(result[0].Text, "空宮") {
		t.Errorf("empty palace should be marked, got %q", result[0].Text)
	}
}

func TestChunk_Interpretation(t *testing.T) {
	r := testReading()
	r.Interpretation = &model.Interpretation{
		OverallDestiny: "殺破狼格局。主變動。",
		Palaces: []model.PalaceAnalysis{
			{PalaceName: "命宮", Summary: "太陽坐命。", StarsDetail: []model.StarInfluence{{Name: "太陽", Influence: "光明磊落"}}},
			{PalaceName: "不存在", Summary: "無。"},
		},
	}
	result := Chunk(r, DefaultOptions())
	if len(result) != 15 {
		t.Fatalf("expected 12 palace + 3 interpretation chunks, got %d", len(result))
	}
	if result[12].Branch != -1 {
		t.Errorf("overall destiny should not belong to a palace")
	}
	if result[13].Branch != 3 || !strings.Contains(result[13].Text, "太陽: 光明磊落") {
		t.Errorf("unexpected palace analysis chunk %+v", result[13])
	}
	if result[14].Branch != -1 {
		t.Errorf("unknown palace name should map to -1, got %d", result[14].Branch)
	}
}

func TestSplit_RespectsMaxSize(t *testing.T) {
	text := strings.Repeat("這是一句話。", 40) // 240 runes
	result := split(text, 50)
	if len(result) < 4 {
		t.Fatalf("expected at least 4 chunks, got %d", len(result))
	}
	for _, c := range result {
		if n := utf8.RuneCountInString(c); n > 50 {
			t.Errorf("chunk of %d runes exceeds max", n)
		}
	}
	if strings.Join(result, "") != text {
		t.Error("chunks should reassemble to the original text")
	}
}

func TestSplit_LongSentence(t *testing.T) {
	text := strings.Repeat("長", 120)
	result := split(text, 50)
	if len(result) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(result))
	}
}

func TestSplit_Short(t *testing.T) {
	if got := split("  短  ", 50); len(got) != 1 || got[0] != "短" {
		t.Errorf("unexpected %q", got)
	}
	if got := split("", 50); got != nil {
		t.Errorf("expected nil, got %q", got)
	}
}
