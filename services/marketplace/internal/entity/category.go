package entity

import "time"

// MaxCategoryDepth counts the root as level 1.
const MaxCategoryDepth = 3

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parentId,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryNode is a category with its children, as returned by the tree endpoint.
type CategoryNode struct {
	*Category
	Children []*CategoryNode `json:"children"`
}
