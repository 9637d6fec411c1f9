package history

import (
	"time"

	"github.com/eleven-am/cortexview/internal/pipeline"
)

type Record struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	RunID           string    `gorm:"not null;index" json:"run_id"`
	Handle          int64     `gorm:"not null;index" json:"handle"`
	WindowTitle     string    `gorm:"not null" json:"window_title"`
	Persona         string    `gorm:"not null;index" json:"persona"`
	Suggestion      string    `gorm:"type:text" json:"suggestion"`
	TokenUsage      int       `json:"token_usage"`
	ImagePath       string    `json:"image_path,omitempty"`
	ChangedFraction *float64  `json:"changed_fraction,omitempty"`
	Forced          bool      `json:"forced"`
	Retry           bool      `json:"retry"`
	DurationMs      int64     `json:"duration_ms"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

func FromResult(result pipeline.Result) *Record {
	rec := &Record{
		RunID:       result.RunID,
		Handle:      int64(result.Handle),
		WindowTitle: result.Title,
		Persona:     result.Persona,
		Forced:      result.Forced,
		Retry:       result.Retry,
		DurationMs:  result.Duration.Milliseconds(),
	}
	if resp := result.Response; resp != nil {
		rec.Suggestion = resp.SuggestionText
		rec.TokenUsage = resp.TokenUsage
		rec.ImagePath = resp.ImagePath
		rec.ChangedFraction = resp.ChangedFraction
		rec.CreatedAt = resp.Timestamp
	}
	return rec
}

type Usage struct {
	Persona    string `json:"persona"`
	Analyses   int64  `json:"analyses"`
	TokenUsage int64  `json:"token_usage"`
}
