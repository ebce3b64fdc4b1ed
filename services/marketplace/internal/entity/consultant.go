package entity

import "time"

type Consultant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Avatar     string    `json:"avatar"`
	Bio        string    `json:"bio"`
	Experience int       `json:"experience"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

const (
	MinTopRank = 1
	MaxTopRank = 3
)

type TopConsultant struct {
	Rank         int         `json:"rank"`
	ConsultantID string      `json:"consultantId"`
	IsActive     bool        `json:"isActive"`
	Consultant   *Consultant `json:"consultant,omitempty"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
