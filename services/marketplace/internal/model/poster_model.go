package model

import "time"

// GeoPoint is stored as GeoJSON so the collection can carry a 2dsphere index.
type GeoPoint struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"` // [lng, lat]
}

type PosterModel struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description"`
	Images       []string  `bson:"images"`
	Area         float64   `bson:"area"`
	Rooms        int       `bson:"rooms"`
	BuildingDate int       `bson:"buildingDate"`
	TotalPrice   int64     `bson:"totalPrice"`
	PricePerM2   int64     `bson:"pricePerMeter"`
	Deposit      int64     `bson:"deposit"`
	Rent         int64     `bson:"rent"`
	ParentType   string    `bson:"parentType"`
	TradeType    string    `bson:"tradeType"`
	Status       string    `bson:"status"`
	CategoryID   string    `bson:"categoryId,omitempty"`
	Address      string    `bson:"address"`
	Location     GeoPoint  `bson:"location"`
	UserID       string    `bson:"userId"`
	Views        int64     `bson:"views"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}
