package continuity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"scenevalidator/internal/scene"
)

const defaultGeminiModel = "gemini-2.5-pro"

// GeminiConfig configures the Gemini-backed analyzer.
type GeminiConfig struct {
	// APIKey for the Gemini API. Falls back to the GEMINI_API_KEY
	// environment variable when empty.
	APIKey string
	Model  string
}

// GeminiAnalyzer implements Analyzer against the Gemini API.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiAnalyzer constructs the analyzer. A missing API key is a
// configuration error and is returned to the caller rather than degraded.
func NewGeminiAnalyzer(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiAnalyzer, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("gemini API key is required: pass --api-key or set GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GeminiAnalyzer{client: client, model: model, logger: logger}, nil
}

// AnalyzeContinuity sends one synchronous analysis request. No retries; any
// failure is the caller's to downgrade.
func (g *GeminiAnalyzer) AnalyzeContinuity(ctx context.Context, current *scene.Scene, previous []json.RawMessage) (Findings, error) {
	prompt := BuildPrompt(current, previous)

	g.logger.Debug("requesting continuity analysis",
		zap.String("model", g.model),
		zap.Int("previous_scenes", len(previous)))

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		return Findings{}, fmt.Errorf("gemini generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return Findings{}, errors.New("empty continuity response")
	}

	findings, err := ParseFindings(text)
	if err != nil {
		return Findings{}, err
	}

	g.logger.Debug("continuity analysis complete",
		zap.Int("errors", len(findings.Errors)),
		zap.Int("warnings", len(findings.Warnings)))
	return findings, nil
}
