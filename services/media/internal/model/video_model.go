package model

import "time"

type VideoModel struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description"`
	Alt          string    `bson:"alt"`
	Src          string    `bson:"src"`
	Filename     string    `bson:"filename"`
	Size         int64     `bson:"size"`
	UploadID     string    `bson:"uploadId"`
	UploaderID   string    `bson:"uploaderId"`
	UploaderRole string    `bson:"uploaderRole"`
	MirrorURL    string    `bson:"mirrorUrl,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}
