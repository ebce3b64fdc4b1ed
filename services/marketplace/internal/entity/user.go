package entity

import (
	"time"

	"estate-market/pkg/models"
)

type User struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Password  string          `json:"-"`
	Role      models.UserRole `json:"role"`
	Favorites []string        `json:"favorites"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
