package model

import "time"

type CategoryModel struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	ParentID  string    `bson:"parentId,omitempty"`
	Order     int       `bson:"order"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}
