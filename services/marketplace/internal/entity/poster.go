package entity

import "time"

type ParentType string

const (
	ParentResidential ParentType = "residential"
	ParentCommercial  ParentType = "commercial"
	ParentLand        ParentType = "land"
	ParentIndustrial  ParentType = "industrial"
)

func (p ParentType) Valid() bool {
	switch p {
	case ParentResidential, ParentCommercial, ParentLand, ParentIndustrial:
		return true
	}
	return false
}

type TradeType string

const (
	TradeSale     TradeType = "sale"
	TradeRent     TradeType = "rent"
	TradeMortgage TradeType = "mortgage"
	TradePresale  TradeType = "presale"
)

func (t TradeType) Valid() bool {
	switch t {
	case TradeSale, TradeRent, TradeMortgage, TradePresale:
		return true
	}
	return false
}

type PosterStatus string

const (
	StatusPending   PosterStatus = "pending"
	StatusPublished PosterStatus = "published"
	StatusRejected  PosterStatus = "rejected"
)

func (s PosterStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPublished, StatusRejected:
		return true
	}
	return false
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

type Poster struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Images       []string     `json:"images"`
	Area         float64      `json:"area"`
	Rooms        int          `json:"rooms"`
	BuildingDate int          `json:"buildingDate"`
	TotalPrice   int64        `json:"totalPrice"`
	PricePerM2   int64        `json:"pricePerMeter"`
	Deposit      int64        `json:"deposit"`
	Rent         int64        `json:"rent"`
	ParentType   ParentType   `json:"parentType"`
	TradeType    TradeType    `json:"tradeType"`
	Status       PosterStatus `json:"status"`
	CategoryID   string       `json:"categoryId,omitempty"`
	Address      string       `json:"address"`
	Location     Location     `json:"location"`
	UserID       string       `json:"userId"`
	Views        int64        `json:"views"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// PosterFilter narrows a poster listing. Zero values mean "any".
type PosterFilter struct {
	TradeType  TradeType
	ParentType ParentType
	CategoryID string
	Status     PosterStatus
	UserID     string
	MinPrice   int64
	MaxPrice   int64
	MinArea    float64
	MaxArea    float64
	Rooms      int
	Query      string
	Limit      int
	Offset     int
}
