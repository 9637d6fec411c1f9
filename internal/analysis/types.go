package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eleven-am/cortexview/internal/shared"
)

const (
	FormatPNG = "PNG"

	DefaultTemperature = 0.5
	DefaultTopP        = 1.0
	DefaultMaxTokens   = 1000

	failedSuggestion = "Analysis failed."
)

// Preamble is sent with every request so the analyzer ignores window chrome.
const Preamble = "This is a public technical image. " +
	"Ignore browser address bars, interface buttons, and file paths. " +
	"They are irrelevant context. " +
	"Focus STRICTLY on the content/code and perform the task defined in the System Prompt."

type Analyzer interface {
	AnalyzeImage(ctx context.Context, req *Request) *Response
}

type Persona struct {
	Name         string  `json:"name"`
	SystemPrompt string  `json:"system_prompt"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
	MaxTokens    int     `json:"max_tokens"`
}

func NewPersona(name, systemPrompt string) Persona {
	return Persona{
		Name:         name,
		SystemPrompt: systemPrompt,
		Temperature:  DefaultTemperature,
		TopP:         DefaultTopP,
		MaxTokens:    DefaultMaxTokens,
	}
}

func (p *Persona) Validate() error {
	if p == nil {
		return fmt.Errorf("persona is required: %w", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("persona name is blank: %w", shared.ErrInvalidInput)
	}
	return validateSampling(p.SystemPrompt, p.Temperature, p.TopP, p.MaxTokens)
}

func (p Persona) String() string {
	return p.Name
}

type Request struct {
	ImageData    []byte
	ImageFormat  string
	WindowTitle  string
	SystemPrompt string
	UserPrompt   string
	OCRText      string
	Temperature  float64
	TopP         float64
	MaxTokens    int
}

// NewRequest builds a request carrying the persona's prompt and sampling parameters.
func NewRequest(image []byte, title string, persona Persona, ocrText string) *Request {
	return &Request{
		ImageData:    image,
		ImageFormat:  FormatPNG,
		WindowTitle:  title,
		SystemPrompt: persona.SystemPrompt,
		UserPrompt:   Preamble,
		OCRText:      ocrText,
		Temperature:  persona.Temperature,
		TopP:         persona.TopP,
		MaxTokens:    persona.MaxTokens,
	}
}

func (r *Request) Validate() error {
	if r == nil || len(r.ImageData) == 0 {
		return fmt.Errorf("image data is empty: %w", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(r.WindowTitle) == "" {
		return fmt.Errorf("window title is blank: %w", shared.ErrInvalidInput)
	}
	return validateSampling(r.SystemPrompt, r.Temperature, r.TopP, r.MaxTokens)
}

// MediaType returns the MIME type for the request's image format, e.g. image/png.
func (r *Request) MediaType() string {
	format := r.ImageFormat
	if format == "" {
		format = FormatPNG
	}
	return "image/" + strings.ToLower(format)
}

// UserMessage renders the text part sent alongside the image.
func (r *Request) UserMessage() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Window Title: %s\n", r.WindowTitle)
	fmt.Fprintf(&sb, "Context: %s\n", r.UserPrompt)
	if strings.TrimSpace(r.OCRText) != "" {
		fmt.Fprintf(&sb, "Extracted Text: %s\n", r.OCRText)
	}
	return sb.String()
}

func validateSampling(systemPrompt string, temperature, topP float64, maxTokens int) error {
	if strings.TrimSpace(systemPrompt) == "" {
		return fmt.Errorf("system prompt is blank: %w", shared.ErrInvalidInput)
	}
	if temperature < 0 || temperature > 1 {
		return fmt.Errorf("temperature %.2f outside [0,1]: %w", temperature, shared.ErrInvalidInput)
	}
	if topP < 0 || topP > 1 {
		return fmt.Errorf("top_p %.2f outside [0,1]: %w", topP, shared.ErrInvalidInput)
	}
	if maxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive: %w", shared.ErrInvalidInput)
	}
	return nil
}

type Response struct {
	Success         bool      `json:"success"`
	SuggestionText  string    `json:"suggestion_text"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	TokenUsage      int       `json:"token_usage"`
	Timestamp       time.Time `json:"timestamp"`
	ImagePath       string    `json:"image_path,omitempty"`
	ChangedFraction *float64  `json:"changed_fraction,omitempty"`
}

func NewSuccess(suggestion string, tokenUsage int) *Response {
	return &Response{
		Success:        true,
		SuggestionText: suggestion,
		TokenUsage:     tokenUsage,
		Timestamp:      time.Now().UTC(),
	}
}

func NewFailure(message string) *Response {
	return &Response{
		Success:        false,
		SuggestionText: failedSuggestion,
		ErrorMessage:   message,
		Timestamp:      time.Now().UTC(),
	}
}

func NewFailuref(format string, args ...any) *Response {
	return NewFailure(fmt.Sprintf(format, args...))
}

// WithImagePath returns a copy of r that records where the screenshot was stored.
func (r *Response) WithImagePath(path string) *Response {
	cp := *r
	cp.ImagePath = path
	return &cp
}

// WithChangedFraction returns a copy of r carrying the gate's observed fraction.
func (r *Response) WithChangedFraction(fraction float64) *Response {
	cp := *r
	cp.ChangedFraction = &fraction
	return &cp
}

type AuditEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	Persona        string    `json:"persona"`
	ImagePath      string    `json:"image_path,omitempty"`
	TokenUsage     int       `json:"token_usage"`
	RequestContext string    `json:"request_context"`
}
