package dto

type StorageResponse struct {
	Status string `json:"status" example:"ok"`
	Path   string `json:"path" example:"/home/me/CortexView_Captures"`
}
