package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const defaultOllamaModel = "qwen2.5vl"

type Ollama struct {
	httpClient *retryablehttp.Client
	baseURL    string
	model      string
	logger     *slog.Logger
}

func NewOllama(cfg Config, logger *slog.Logger) *Ollama {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "ollama")

	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	baseURL := strings.TrimRight(cfg.OllamaURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	client := retryablehttp.NewClient()
	client.Logger = logger
	client.RetryMax = cfg.Retries
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = cfg.timeout()
	// Hand the last response back once retries are exhausted so the backend's
	// error body is still readable.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Ollama{
		httpClient: client,
		baseURL:    baseURL,
		model:      model,
		logger:     logger,
	}
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Images  []string      `json:"images,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

func (o *Ollama) Name() string { return KindOllama }

func (o *Ollama) AnalyzeImage(ctx context.Context, req *analysis.Request) *analysis.Response {
	text, tokens, err := o.generate(ctx, req)
	if err != nil {
		o.logger.Warn("ollama analysis failed", "model", o.model, "error", err)
		return analysis.NewFailuref("Ollama error: %s", err)
	}
	return analysis.NewSuccess(text, tokens)
}

func (o *Ollama) generate(ctx context.Context, req *analysis.Request) (string, int, error) {
	if req == nil || len(req.ImageData) == 0 {
		return "", 0, fmt.Errorf("no image data provided")
	}

	body, err := json.Marshal(ollamaRequest{
		Model:  o.model,
		System: req.SystemPrompt,
		Prompt: req.UserMessage(),
		Images: []string{base64.StdEncoding.EncodeToString(req.ImageData)},
		Stream: false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			TopP:        req.TopP,
			NumPredict:  req.MaxTokens,
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	o.logger.Debug("sending analysis request", "model", o.model, "image_bytes", len(req.ImageData))

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(raw, "error").String(); msg != "" {
			return "", 0, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, msg)
		}
		return "", 0, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	if !gjson.ValidBytes(raw) {
		return "", 0, fmt.Errorf("decode response: invalid json")
	}

	result := gjson.GetManyBytes(raw, "response", "prompt_eval_count", "eval_count")
	text := result[0].String()
	if strings.TrimSpace(text) == "" {
		text = "No content returned."
	}
	tokens := int(result[1].Int() + result[2].Int())

	return text, tokens, nil
}

func (o *Ollama) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := o.httpClient.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
