package dto

import "time"

// AnalysisExportRequest captures POST /exports/analysis.
type AnalysisExportRequest struct {
	Threshold int `json:"threshold" validate:"omitempty,min=1,max=60"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// ExportStatusResponse exposes job progress and, once done, a signed download URL.
type ExportStatusResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Attempt     int        `json:"attempt"`
	Error       string     `json:"error,omitempty"`
	DownloadURL string     `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TokenRequest asks the CLI or an operator endpoint for an access token.
type TokenRequest struct {
	Subject string `json:"subject" validate:"required"`
	Role    string `json:"role" validate:"required,oneof=ADMIN VIEWER"`
}

// TokenResponse carries a signed access token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
