package dto

type MonitorTarget struct {
	Handle    int64   `json:"handle" example:"0"`
	Title     string  `json:"title" example:"main.go - Visual Studio Code"`
	Persona   string  `json:"persona" example:"Code Reviewer"`
	Threshold float64 `json:"threshold" example:"0.05"`
}

type MonitorStatusResponse struct {
	Running    bool           `json:"running" example:"true"`
	IntervalMs int64          `json:"interval_ms" example:"5000"`
	Skipped    int64          `json:"skipped" example:"0"`
	Busy       bool           `json:"busy" example:"false"`
	Stage      string         `json:"stage" example:"idle"`
	Target     *MonitorTarget `json:"target,omitempty"`
}

type SetTargetRequest struct {
	Handle    int64    `json:"handle" example:"0"`
	Title     string   `json:"title" example:"main.go - Visual Studio Code"`
	Persona   string   `json:"persona,omitempty" example:"Code Reviewer"`
	Threshold *float64 `json:"threshold,omitempty" example:"0.05"`
}

type SetIntervalRequest struct {
	IntervalMs int64 `json:"interval_ms" example:"5000"`
}
