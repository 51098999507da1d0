// Package chunker splits readings into per-palace text chunks for search indexing.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/rcliao/ziwei/internal/model"
)

const (
	DefaultMaxSize = 300 // runes
)

// Options configures chunking behavior.
type Options struct {
	MaxSize int
}

// DefaultOptions returns default chunking options.
func DefaultOptions() Options {
	return Options{MaxSize: DefaultMaxSize}
}

// ChunkResult is one indexed piece of a reading. Branch is -1 for text that
// does not belong to a single palace.
type ChunkResult struct {
	Text   string
	Palace string
	Branch int
}

// Chunk returns one chunk per palace, followed by the interpretation split
// into paragraphs no longer than opts.MaxSize.
func Chunk(r *model.Reading, opts Options) []ChunkResult {
	if opts.MaxSize == 0 {
		opts = DefaultOptions()
	}
	if r == nil {
		return nil
	}

	chunks := make([]ChunkResult, 0, 12)
	for _, p := range r.Chart.Palaces {
		chunks = append(chunks, ChunkResult{Text: palaceText(r.Chart, p), Palace: p.Name, Branch: p.BranchIndex})
	}
	if r.Interpretation != nil {
		chunks = append(chunks, interpretationChunks(r.Chart, r.Interpretation, opts)...)
	}
	return chunks
}

// palaceText renders a palace as "命宮 己卯 太陽(旺) 天梁(廟) 文昌(陷) 化祿 身宮".
func palaceText(c model.Chart, p model.Palace) string {
	fields := []string{p.Name, p.Stem + p.Branch}
	for _, s := range p.MajorStars {
		fields = append(fields, s.Label())
	}
	if p.Empty() {
		fields = append(fields, "空宮")
	}
	for _, s := range p.MinorStars {
		fields = append(fields, s.Label())
	}
	fields = append(fields, p.Tags()...)
	if p.BranchIndex == c.BodyBranch {
		fields = append(fields, "身宮")
	}
	return strings.Join(fields, " ")
}

func interpretationChunks(c model.Chart, in *model.Interpretation, opts Options) []ChunkResult {
	var out []ChunkResult
	for _, text := range split(in.OverallDestiny, opts.MaxSize) {
		out = append(out, ChunkResult{Text: text, Branch: -1})
	}
	for _, pa := range in.Palaces {
		branch := -1
		if p, ok := c.PalaceByName(strings.TrimSuffix(pa.PalaceName, "宮")); ok {
			branch = p.BranchIndex
		} else if p, ok := c.PalaceByName(pa.PalaceName); ok {
			branch = p.BranchIndex
		}
		var b strings.Builder
		b.WriteString(pa.Summary)
		for _, sd := range pa.StarsDetail {
			b.WriteString("\n")
			b.WriteString(sd.Name)
			b.WriteString(": ")
			b.WriteString(sd.Influence)
		}
		for _, text := range split(b.String(), opts.MaxSize) {
			out = append(out, ChunkResult{Text: text, Palace: pa.PalaceName, Branch: branch})
		}
	}
	return out
}

// split breaks text on sentence ends and newlines, packing pieces up to max
// runes. A single sentence longer than max is cut at max.
func split(text string, max int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= max {
		return []string{text}
	}

	var out []string
	var cur strings.Builder
	flush := func() {
		if t := strings.TrimSpace(cur.String()); t != "" {
			out = append(out, t)
		}
		cur.Reset()
	}
	for _, s := range sentences(text) {
		for utf8.RuneCountInString(s) > max {
			flush()
			r := []rune(s)
			out = append(out, string(r[:max]))
			s = string(r[max:])
		}
		if utf8.RuneCountInString(cur.String())+utf8.RuneCountInString(s) > max {
			flush()
		}
		cur.WriteString(s)
	}
	flush()
	return out
}

func sentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '。' || r == '！' || r == '？' || r == '\n' || r == '.' {
			end := i + utf8.RuneLen(r)
			out = append(out, text[start:end])
			start = end
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}
