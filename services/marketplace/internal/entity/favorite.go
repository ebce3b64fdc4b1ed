package entity

type Favorite struct {
	UserID    string   `json:"userId"`
	PosterIDs []string `json:"posterIds"`
}
