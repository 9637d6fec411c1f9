package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o"

type OpenAI struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

func NewOpenAI(cfg Config, logger *slog.Logger) *OpenAI {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.Retries),
		option.WithRequestTimeout(cfg.timeout()),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger.With("component", "openai"),
	}
}

func (c *OpenAI) Name() string { return KindOpenAI }

func (c *OpenAI) AnalyzeImage(ctx context.Context, req *analysis.Request) *analysis.Response {
	if req == nil || len(req.ImageData) == 0 {
		return analysis.NewFailure("OpenAI error: no image data provided")
	}

	dataURL := "data:" + req.MediaType() + ";base64," + base64.StdEncoding.EncodeToString(req.ImageData)

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
				openai.TextContentPart(req.UserMessage()),
			}),
		},
		MaxCompletionTokens: openai.Int(int64(req.MaxTokens)),
		Temperature:         openai.Float(req.Temperature),
		TopP:                openai.Float(req.TopP),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		c.logger.Warn("openai analysis failed", "model", c.model, "error", err)
		return analysis.NewFailuref("OpenAI error: %s", err)
	}
	if len(resp.Choices) == 0 {
		return analysis.NewFailure("OpenAI error: no choices in response")
	}

	c.logger.DebugContext(ctx, "analysis completed",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens)

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		text = "No content returned."
	}
	return analysis.NewSuccess(text, int(resp.Usage.TotalTokens))
}
