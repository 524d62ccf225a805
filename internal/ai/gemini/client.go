package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/skybrief/wx-hub/internal/ai"
	"github.com/skybrief/wx-hub/pkg/logger"
)

const systemPrompt = `You are an aviation weather briefer. Given a coded aviation
weather report (METAR, TAF, or PIREP) and its field-by-field decoding, write a
short plain-language briefing for a general-aviation pilot: 2-4 sentences, no
markdown, leading with the operationally significant conditions. Do not repeat
the raw code.`

// Client generates pilot briefings with the Gemini API
type Client struct {
	genai   *genai.Client
	config  ai.SummaryConfig
	timeout time.Duration
	logger  *logger.Logger
}

// NewClient creates a new Gemini summarizer. The API key may be empty when
// the GEMINI_API_KEY environment variable is set; the SDK picks it up.
func NewClient(ctx context.Context, apiKey string, config ai.SummaryConfig, timeout time.Duration, log *logger.Logger) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		genai:   gc,
		config:  config,
		timeout: timeout,
		logger:  log.Named("gemini"),
	}, nil
}

// Summarize implements ai.Summarizer.
func (c *Client) Summarize(ctx context.Context, req ai.BriefingRequest) (string, error) {
	if strings.TrimSpace(req.Raw) == "" {
		return "", fmt.Errorf("empty report")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf("Station: %s\nProduct: %s\nRaw report: %s\nDecoded: %s",
		req.Station, strings.ToUpper(req.Product), req.Raw, req.Decoded)

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.config.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(c.config.Temperature),
		MaxOutputTokens:   c.config.MaxTokens,
	})
	if err != nil {
		c.logger.Warn("Gemini summary request failed",
			logger.String("station", req.Station),
			logger.String("product", req.Product),
			logger.Error(err))
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	c.logger.Debug("Generated AI briefing",
		logger.String("station", req.Station),
		logger.String("product", req.Product),
		logger.Duration("duration", time.Since(start)))
	return text, nil
}
