package model

import "time"

type UserModel struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Phone     string    `bson:"phone"`
	Password  string    `bson:"password"`
	Role      string    `bson:"role"`
	Favorites []string  `bson:"favorites"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}
