// Package models holds the client-side views of API payloads.
package models

import "time"

// User is the signed-in user as reported by the server. Email is only
// present on the login response.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Tool struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	Designation   string    `json:"designation"`
	Category      string    `json:"category"`
	CategoryLabel string    `json:"category_label"`
	Status        string    `json:"status"`
	StatusLabel   string    `json:"status_label"`
	Type          *Ref      `json:"type,omitempty"`
	AssignedUser  *Ref      `json:"assigned_user,omitempty"`
	Stock         int64     `json:"stock"`
	HasDocument   bool      `json:"has_document"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ToolPage struct {
	Tools []Tool `json:"tools"`
	Total int    `json:"total"`
}

// NewTool is what the CLI collects for a new tool.
type NewTool struct {
	Number      string `json:"number"`
	Designation string `json:"designation"`
	Category    string `json:"category,omitempty"`
	StatusID    string `json:"status_id,omitempty"`
	Stock       int64  `json:"stock"`
}

// DocumentUpload is a presigned PUT target for a tool document.
type DocumentUpload struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
	ExpiresIn int    `json:"expires_in"`
}

type DocumentLink struct {
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in"`
}
