package interpret

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/rcliao/ziwei/internal/config"
	"github.com/rcliao/ziwei/internal/logging"
	"github.com/rcliao/ziwei/internal/model"
)

// generator is the slice of the genai Models service used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiInterpreter interprets charts with a Gemini model and a JSON response schema.
type GeminiInterpreter struct {
	models         generator
	model          string
	thinkingBudget int32
	timeout        time.Duration
	maxAttempts    int
	backoff        time.Duration
	log            *zap.Logger
}

// NewGeminiInterpreter creates an interpreter backed by the Gemini API.
func NewGeminiInterpreter(ctx context.Context, cfg config.GeminiConfig, log *zap.Logger) (*GeminiInterpreter, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGemini(client.Models, cfg, log), nil
}

func newGemini(models generator, cfg config.GeminiConfig, log *zap.Logger) *GeminiInterpreter {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &GeminiInterpreter{
		models:         models,
		model:          cfg.Model,
		thinkingBudget: cfg.ThinkingBudget,
		timeout:        cfg.Timeout,
		maxAttempts:    attempts,
		backoff:        time.Second,
		log:            logging.OrNop(log).Named("interpret"),
	}
}

// Interpret sends the chart description and returns the decoded analysis.
// Failed attempts are retried with exponential backoff until the context ends.
func (g *GeminiInterpreter) Interpret(ctx context.Context, p model.Profile, c model.Chart) (*model.Interpretation, error) {
	prompt := BuildPrompt(p, c)
	cfg := g.requestConfig()

	var lastErr error
	for i := 0; i < g.maxAttempts; i++ {
		if i > 0 {
			wait := g.backoff << uint(i-1)
			g.log.Warn("retrying interpretation",
				zap.Int("attempt", i+1), zap.Duration("wait", wait), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		start := time.Now()
		in, err := g.attempt(ctx, prompt, cfg)
		if err == nil {
			g.log.Debug("interpretation complete",
				zap.String("model", g.model), zap.Duration("elapsed", time.Since(start)),
				zap.Int("palaces", len(in.Palaces)))
			return in, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, fmt.Errorf("interpret: %d attempts failed: %w", g.maxAttempts, lastErr)
}

func (g *GeminiInterpreter) attempt(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (*model.Interpretation, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return nil, errors.New("interpret: no response from model")
	}
	return Decode(resp.Text())
}

func (g *GeminiInterpreter) requestConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    ResponseSchema(),
	}
	if g.thinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(g.thinkingBudget)}
	}
	return cfg
}

// ResponseSchema is the structured output the model must return.
func ResponseSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	star := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":       str(""),
			"brightness": str(""),
			"influence":  str("Specific impact of this star in this palace."),
		},
		Required: []string{"name", "influence"},
	}
	palace := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"palace_name":  str(""),
			"summary":      str("A concise summary of this palace's state."),
			"stars_detail": {Type: genai.TypeArray, Items: star},
		},
		Required: []string{"palace_name", "summary", "stars_detail"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"overall_destiny": str("A summary of the person's overall destiny, identifying patterns such as 殺破狼 or 三方四正."),
			"palaces":         {Type: genai.TypeArray, Items: palace},
		},
		Required: []string{"overall_destiny", "palaces"},
	}
}

// NewFromConfig creates the configured interpreter. Returns ErrNoAPIKey when
// interpretation is not configured.
func NewFromConfig(ctx context.Context, cfg config.Config, log *zap.Logger) (Interpreter, error) {
	g, err := NewGeminiInterpreter(ctx, cfg.Gemini, log)
	if err != nil {
		return nil, err
	}
	return g, nil
}
