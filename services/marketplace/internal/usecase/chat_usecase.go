package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"estate-market/pkg/guard"
	"estate-market/pkg/logger"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/repo/persistent"
)

const MaxMessageLength = 2000

type ChatUseCase interface {
	Open(ctx context.Context, caller *guard.Identity, participantID string) (*entity.ChatRoom, error)
	List(ctx context.Context, caller *guard.Identity) ([]*entity.ChatRoom, error)
	Get(ctx context.Context, caller *guard.Identity, id string) (*entity.ChatRoom, error)
	Send(ctx context.Context, caller *guard.Identity, id, text string) (*entity.Message, error)
}

type chatUseCase struct {
	rooms  persistent.ChatRoomRepository
	users  persistent.UserRepository
	logger *logger.Logger
}

func NewChatUseCase(rooms persistent.ChatRoomRepository, users persistent.UserRepository, logger *logger.Logger) ChatUseCase {
	return &chatUseCase{
		rooms:  rooms,
		users:  users,
		logger: logger,
	}
}

func (uc *chatUseCase) Open(ctx context.Context, caller *guard.Identity, participantID string) (*entity.ChatRoom, error) {
	if caller == nil {
		return nil, ErrForbidden
	}
	if participantID == "" || participantID == caller.UserID {
		return nil, fmt.Errorf("%w: invalid participant", ErrValidation)
	}
	if _, err := uc.users.GetByID(ctx, participantID); err != nil {
		return nil, notFound(err)
	}
	return uc.rooms.FindOrCreate(ctx, caller.UserID, participantID)
}

func (uc *chatUseCase) List(ctx context.Context, caller *guard.Identity) ([]*entity.ChatRoom, error) {
	if caller == nil {
		return nil, ErrForbidden
	}
	return uc.rooms.ListByParticipant(ctx, caller.UserID)
}

// Get is open to participants; admins may read any room.
func (uc *chatUseCase) Get(ctx context.Context, caller *guard.Identity, id string) (*entity.ChatRoom, error) {
	room, err := uc.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if caller == nil || (!room.HasParticipant(caller.UserID) && !caller.IsAdmin()) {
		return nil, ErrForbidden
	}
	return room, nil
}

// Send is for participants only; the receiver is the other participant.
func (uc *chatUseCase) Send(ctx context.Context, caller *guard.Identity, id, text string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > MaxMessageLength {
		return nil, fmt.Errorf("%w: message must be 1-%d characters", ErrValidation, MaxMessageLength)
	}

	room, err := uc.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if caller == nil || !room.HasParticipant(caller.UserID) {
		return nil, ErrForbidden
	}

	msg := &entity.Message{
		SenderID:   caller.UserID,
		ReceiverID: room.Other(caller.UserID),
		Text:       text,
	}
	if err := uc.rooms.AppendMessage(ctx, id, msg); err != nil {
		return nil, notFound(err)
	}
	return msg, nil
}
