package dto

type PersonaResponse struct {
	Name         string  `json:"name" example:"Code Reviewer"`
	SystemPrompt string  `json:"system_prompt" example:"You review code for bugs."`
	Temperature  float64 `json:"temperature" example:"0.7"`
	TopP         float64 `json:"top_p" example:"0.9"`
	MaxTokens    int     `json:"max_tokens" example:"1024"`
}

type PersonaListResponse struct {
	Personas []PersonaResponse `json:"personas"`
}
