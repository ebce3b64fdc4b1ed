package model

import "time"

type MessageModel struct {
	ID         string    `bson:"id"`
	SenderID   string    `bson:"senderId"`
	ReceiverID string    `bson:"receiverId"`
	Text       string    `bson:"text"`
	CreatedAt  time.Time `bson:"createdAt"`
}

type ChatRoomModel struct {
	ID string `bson:"_id"`
	// Participants is kept sorted; PairKey is "<a>:<b>" of the sorted pair.
	Participants []string       `bson:"participants"`
	PairKey      string         `bson:"pairKey"`
	Messages     []MessageModel `bson:"messages"`
	CreatedAt    time.Time      `bson:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt"`
}
