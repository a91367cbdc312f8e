package api

import "github.com/molodeztom/expense-splitting-app/internal/models"

type GetSettingsRequest struct{}

type GetSettingsResponse struct {
	Settings *models.Settings `json:"settings"`
}

type UpdateSettingsRequest struct {
	Settings models.Settings `json:"settings"`
}

type UpdateSettingsResponse struct {
	Settings *models.Settings `json:"settings"`
}
