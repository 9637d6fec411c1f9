package dto

type HistoryEntry struct {
	ID              string   `json:"id" example:"hist_abc123"`
	RunID           string   `json:"run_id" example:"run_abc123"`
	Handle          int64    `json:"handle" example:"0"`
	WindowTitle     string   `json:"window_title" example:"main.go - Visual Studio Code"`
	Persona         string   `json:"persona" example:"Code Reviewer"`
	Suggestion      string   `json:"suggestion" example:"Consider extracting this loop into a helper."`
	TokenUsage      int      `json:"token_usage" example:"512"`
	ImagePath       string   `json:"image_path,omitempty"`
	ChangedFraction *float64 `json:"changed_fraction,omitempty" example:"0.42"`
	Forced          bool     `json:"forced" example:"false"`
	Retry           bool     `json:"retry" example:"false"`
	DurationMs      int64    `json:"duration_ms" example:"2100"`
	CreatedAt       string   `json:"created_at" example:"2026-01-15T10:30:00Z"`
}

type HistoryListResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

type PruneResponse struct {
	Deleted int64  `json:"deleted" example:"42"`
	Before  string `json:"before" example:"2026-01-08T00:00:00Z"`
}

type UsageEntry struct {
	Persona    string `json:"persona" example:"Code Reviewer"`
	Analyses   int64  `json:"analyses" example:"12"`
	TokenUsage int64  `json:"token_usage" example:"6400"`
}

type UsageResponse struct {
	Since string       `json:"since" example:"2026-01-08T00:00:00Z"`
	Usage []UsageEntry `json:"usage"`
}
