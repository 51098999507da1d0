// Package interpret turns a computed chart into prose analysis using a
// language model.
package interpret

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rcliao/ziwei/internal/model"
)

// ErrNoAPIKey is returned when no model credentials are configured.
var ErrNoAPIKey = errors.New("interpret: API key is missing (set GEMINI_API_KEY or API_KEY)")

// Interpreter produces an interpretation for a profile and chart.
type Interpreter interface {
	Interpret(ctx context.Context, p model.Profile, c model.Chart) (*model.Interpretation, error)
}

// SystemInstruction frames the model as a 飛星派 practitioner and fixes the
// shape of the analysis.
const SystemInstruction = `角色： 精通「飛星派紫微斗數」的大師。
任務： 解析命盤，提供結構化的數據。

核心分析要求：
1. overall_destiny（本命特點與格局分析）：
   - 必須分析「三方四正」（命宮、財帛、官祿、遷移）的整體架構。
   - 必須判斷是否存在特殊格局（例如：殺破狼、機月同梁、紫府同宮、日月並明、巨日同宮、石中隱玉等）。
   - 若有格局，說明該格局的特質（如：殺破狼主變動、開創；機月同梁主穩健）。
   - 字數控制在 150-200 字。

2. palaces（宮位解析）：
   - 順序：命宮、財帛宮、官祿宮，其餘按順序。
   - stars_detail：針對宮內每顆星曜（主星、吉煞星）進行影響分析，結合亮度（廟旺利陷）與四化（祿權科忌）的交互影響。
   - 空宮處理：若該宮位無主星，參考提供的「借對宮主星」資訊進行分析，並說明是借用對宮力量，力量會有所折損。
   - 風格：現代、口語、實用，直接給予生活建議。`

// BuildPrompt describes the chart for the model: the profile, the four
// transformations and every palace in branch order. Empty palaces carry the
// major stars of the opposite palace.
func BuildPrompt(p model.Profile, c model.Chart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "使用者：%s, %s, %s, 農曆：%s\n\n", p.Name, p.Gender, p.Bureau, p.LunarDateTime)

	b.WriteString("四化星：\n")
	for i, label := range [4]string{"祿", "權", "科", "忌"} {
		fmt.Fprintf(&b, "%s：%s\n", label, c.FourTransformations[i])
	}

	b.WriteString("\n各宮位詳細星曜與狀態：\n")
	for i, pal := range c.Palaces {
		fmt.Fprintf(&b, "【%s】(%s%s):\n", pal.Name, pal.Stem, pal.Branch)
		if pal.Empty() {
			opp := c.Opposite(i)
			fmt.Fprintf(&b, "  主星: [無] (空宮)\n  借對宮主星參考: [%s] (來自%s)\n", labels(opp.MajorStars), opp.Name)
		} else {
			fmt.Fprintf(&b, "  主星: [%s]\n", labels(pal.MajorStars))
		}
		fmt.Fprintf(&b, "  輔/煞/雜星: [%s]\n", labels(pal.MinorStars))
		fmt.Fprintf(&b, "  四化標記: %s\n", pal.Transformations)
		if pal.Empty() {
			b.WriteString("  指令：此為空宮，請借對宮主星進行分析，但請註明影響力較弱（約七成）。\n")
		}
	}
	return b.String()
}

func labels(stars []model.Star) string {
	out := make([]string, len(stars))
	for i, s := range stars {
		out[i] = s.Label()
	}
	return strings.Join(out, ", ")
}

// Decode parses a model response into an Interpretation. Fenced code blocks
// around the JSON are tolerated.
func Decode(text string) (*model.Interpretation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("interpret: empty response")
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var in model.Interpretation
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &in); err != nil {
		return nil, fmt.Errorf("interpret: decode response: %w", err)
	}
	if in.OverallDestiny == "" {
		return nil, errors.New("interpret: response has no overall_destiny")
	}
	return &in, nil
}
