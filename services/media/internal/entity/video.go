package entity

import "time"

type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Alt          string    `json:"alt"`
	Src          string    `json:"src"`
	Filename     string    `json:"filename"`
	Size         int64     `json:"size"`
	UploadID     string    `json:"upload_id"`
	UploaderID   string    `json:"uploader_id"`
	UploaderRole string    `json:"uploader_role"`
	MirrorURL    string    `json:"mirror_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
