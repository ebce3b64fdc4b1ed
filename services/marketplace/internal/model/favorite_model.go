package model

import "time"

type FavoriteModel struct {
	UserID    string    `bson:"_id"`
	PosterIDs []string  `bson:"posterIds"`
	UpdatedAt time.Time `bson:"updatedAt"`
}
