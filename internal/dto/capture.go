package dto

type CaptureRequest struct {
	Handle    int64    `json:"handle" example:"0"`
	Title     string   `json:"title" example:"main.go - Visual Studio Code"`
	Persona   string   `json:"persona,omitempty" example:"Code Reviewer"`
	Threshold *float64 `json:"threshold,omitempty" example:"0.05"`
	Force     *bool    `json:"force,omitempty" example:"true"`
}

type RetryRequest struct {
	Handle  int64  `json:"handle" example:"0"`
	Title   string `json:"title" example:"main.go - Visual Studio Code"`
	Persona string `json:"persona,omitempty" example:"Code Reviewer"`
}

type AnalysisResponse struct {
	Success         bool     `json:"success" example:"true"`
	SuggestionText  string   `json:"suggestion_text" example:"Consider extracting this loop into a helper."`
	ErrorMessage    string   `json:"error_message,omitempty" example:""`
	TokenUsage      int      `json:"token_usage" example:"512"`
	Timestamp       string   `json:"timestamp" example:"2026-01-15T10:30:00Z"`
	ImagePath       string   `json:"image_path,omitempty" example:"/home/me/CortexView_Captures/2026-01-15_10-30-00_Code Reviewer.png"`
	ChangedFraction *float64 `json:"changed_fraction,omitempty" example:"0.42"`
}

type WindowResponse struct {
	Handle int64 `json:"handle" example:"0"`
	X      int   `json:"x" example:"0"`
	Y      int   `json:"y" example:"0"`
	Width  int   `json:"width" example:"1920"`
	Height int   `json:"height" example:"1080"`
}

type PinWindowRequest struct {
	X      int `json:"x" example:"100"`
	Y      int `json:"y" example:"80"`
	Width  int `json:"width" example:"1280"`
	Height int `json:"height" example:"720"`
}
