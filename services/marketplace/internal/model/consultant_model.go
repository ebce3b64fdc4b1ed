package model

import "time"

type ConsultantModel struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	Phone      string    `bson:"phone"`
	Avatar     string    `bson:"avatar"`
	Bio        string    `bson:"bio"`
	Experience int       `bson:"experience"`
	IsActive   bool      `bson:"isActive"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

// TopConsultantModel is keyed by rank so each rank exists at most once.
type TopConsultantModel struct {
	Rank         int       `bson:"_id"`
	ConsultantID string    `bson:"consultantId"`
	IsActive     bool      `bson:"isActive"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}
