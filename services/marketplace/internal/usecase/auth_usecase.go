package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"estate-market/pkg/guard"
	"estate-market/pkg/logger"
	"estate-market/pkg/models"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// bcrypt rejects longer input.
	MaxPasswordLength = 72
)

// TokenIssuer is satisfied by *jwt.Service.
type TokenIssuer interface {
	GenerateToken(userID, role string) (string, error)
}

type AuthUseCase interface {
	Register(ctx context.Context, name, phone, password string) (*entity.User, string, error)
	Login(ctx context.Context, phone, password string) (*entity.User, string, error)
	CreateUser(ctx context.Context, name, phone, password string, role models.UserRole) (*entity.User, error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*entity.User, int64, error)
	ChangeRole(ctx context.Context, actor *guard.Identity, id string, role models.UserRole) (*entity.User, error)
	DeleteUser(ctx context.Context, actor *guard.Identity, id string) error
}

type authUseCase struct {
	users  persistent.UserRepository
	tokens TokenIssuer
	logger *logger.Logger
}

func NewAuthUseCase(users persistent.UserRepository, tokens TokenIssuer, logger *logger.Logger) AuthUseCase {
	return &authUseCase{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// NormalizePhone strips spaces and dashes so one number has one spelling.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
}

func (uc *authUseCase) Register(ctx context.Context, name, phone, password string) (*entity.User, string, error) {
	user, err := uc.CreateUser(ctx, name, phone, password, models.RoleUser)
	if err != nil {
		return nil, "", err
	}

	token, err := uc.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

func (uc *authUseCase) CreateUser(ctx context.Context, name, phone, password string, role models.UserRole) (*entity.User, error) {
	name = strings.TrimSpace(name)
	phone = NormalizePhone(phone)
	if name == "" || phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", ErrValidation)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password too short", ErrValidation)
	}
	if len(password) > MaxPasswordLength {
		return nil, fmt.Errorf("%w: password longer than %d bytes", ErrValidation, MaxPasswordLength)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	if _, err := uc.users.GetByPhone(ctx, phone); err == nil {
		return nil, fmt.Errorf("%w: phone already registered", ErrConflict)
	} else if !errors.Is(err, persistent.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Name:      name,
		Phone:     phone,
		Password:  string(hashedPassword),
		Role:      role,
		Favorites: []string{},
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, persistent.ErrDuplicate) {
			return nil, fmt.Errorf("%w: phone already registered", ErrConflict)
		}
		return nil, err
	}

	uc.logger.Info("[AUTH] Created %s user %s", user.Role, user.ID)
	user.Password = ""
	return user, nil
}

func (uc *authUseCase) Login(ctx context.Context, phone, password string) (*entity.User, string, error) {
	user, err := uc.users.GetByPhone(ctx, NormalizePhone(phone))
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	user.Password = ""
	return user, nil
}

func (uc *authUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	users, total, err := uc.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, total, nil
}

func (uc *authUseCase) ChangeRole(ctx context.Context, actor *guard.Identity, id string, role models.UserRole) (*entity.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if actor != nil && actor.UserID == id {
		return nil, fmt.Errorf("%w: cannot change own role", ErrForbidden)
	}

	if err := uc.users.UpdateRole(ctx, id, role); err != nil {
		return nil, notFound(err)
	}
	uc.logger.Info("[AUTH] Role of %s set to %s", id, role)
	return uc.GetUser(ctx, id)
}

func (uc *authUseCase) DeleteUser(ctx context.Context, actor *guard.Identity, id string) error {
	if actor != nil && actor.UserID == id {
		return fmt.Errorf("%w: cannot delete own account", ErrForbidden)
	}
	if err := uc.users.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	uc.logger.Info("[AUTH] Deleted user %s", id)
	return nil
}
