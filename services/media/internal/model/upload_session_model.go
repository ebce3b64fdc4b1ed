package model

import "time"

type UploadSessionModel struct {
	ID               string    `gorm:"type:varchar(255);primary_key"`
	Kind             string    `gorm:"type:varchar(20);not null"`
	OwnerID          string    `gorm:"type:varchar(64);not null;index"`
	OwnerRole        string    `gorm:"type:varchar(20);not null"`
	OriginalFilename string    `gorm:"type:varchar(255)"`
	TotalChunks      int       `gorm:"not null"`
	State            string    `gorm:"type:varchar(20);not null;default:'collecting';index"`
	FinalFilename    string    `gorm:"type:varchar(255)"`
	Size             int64     `gorm:"default:0"`
	FailureReason    string    `gorm:"type:text"`
	LastActivity     time.Time `gorm:"not null;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (UploadSessionModel) TableName() string {
	return "upload_sessions"
}
