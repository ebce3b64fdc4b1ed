package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"estate-market/pkg/logger"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/repo/cache"
	"estate-market/services/marketplace/internal/repo/persistent"
)

type ConsultantInput struct {
	Name       string
	Phone      string
	Avatar     string
	Bio        string
	Experience int
	IsActive   bool
}

type ConsultantUseCase interface {
	List(ctx context.Context, includeInactive bool) ([]*entity.Consultant, error)
	Get(ctx context.Context, id string) (*entity.Consultant, error)
	Create(ctx context.Context, in ConsultantInput) (*entity.Consultant, error)
	Update(ctx context.Context, id string, in ConsultantInput) (*entity.Consultant, error)
	Delete(ctx context.Context, id string) error

	TopConsultants(ctx context.Context) ([]*entity.TopConsultant, error)
	SetTop(ctx context.Context, rank int, consultantID string, isActive bool) (*entity.TopConsultant, error)
	RemoveTop(ctx context.Context, rank int) error
}

type consultantUseCase struct {
	consultants persistent.ConsultantRepository
	tops        persistent.TopConsultantRepository
	topCache    cache.TopConsultantCache
	logger      *logger.Logger
}

func NewConsultantUseCase(
	consultants persistent.ConsultantRepository,
	tops persistent.TopConsultantRepository,
	topCache cache.TopConsultantCache,
	logger *logger.Logger,
) ConsultantUseCase {
	return &consultantUseCase{
		consultants: consultants,
		tops:        tops,
		topCache:    topCache,
		logger:      logger,
	}
}

func (uc *consultantUseCase) List(ctx context.Context, includeInactive bool) ([]*entity.Consultant, error) {
	return uc.consultants.List(ctx, !includeInactive)
}

func (uc *consultantUseCase) Get(ctx context.Context, id string) (*entity.Consultant, error) {
	consultant, err := uc.consultants.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return consultant, nil
}

func normalizeConsultant(in *ConsultantInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = NormalizePhone(in.Phone)
	if in.Name == "" || in.Phone == "" {
		return fmt.Errorf("%w: name and phone are required", ErrValidation)
	}
	if in.Experience < 0 {
		return fmt.Errorf("%w: negative experience", ErrValidation)
	}
	return nil
}

func (uc *consultantUseCase) Create(ctx context.Context, in ConsultantInput) (*entity.Consultant, error) {
	if err := normalizeConsultant(&in); err != nil {
		return nil, err
	}

	consultant := &entity.Consultant{
		Name:       in.Name,
		Phone:      in.Phone,
		Avatar:     in.Avatar,
		Bio:        in.Bio,
		Experience: in.Experience,
		IsActive:   in.IsActive,
	}
	if err := uc.consultants.Create(ctx, consultant); err != nil {
		if errors.Is(err, persistent.ErrDuplicate) {
			return nil, fmt.Errorf("%w: phone already registered", ErrConflict)
		}
		return nil, err
	}
	return consultant, nil
}

func (uc *consultantUseCase) Update(ctx context.Context, id string, in ConsultantInput) (*entity.Consultant, error) {
	if err := normalizeConsultant(&in); err != nil {
		return nil, err
	}
	consultant, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	consultant.Name = in.Name
	consultant.Phone = in.Phone
	consultant.Avatar = in.Avatar
	consultant.Bio = in.Bio
	consultant.Experience = in.Experience
	consultant.IsActive = in.IsActive
	if err := uc.consultants.Update(ctx, consultant); err != nil {
		if errors.Is(err, persistent.ErrDuplicate) {
			return nil, fmt.Errorf("%w: phone already registered", ErrConflict)
		}
		return nil, notFound(err)
	}

	uc.invalidateTops(ctx)
	return consultant, nil
}

func (uc *consultantUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.consultants.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	if err := uc.tops.DeleteByConsultant(ctx, id); err != nil {
		uc.logger.Error("[CONSULTANT] Failed to drop ranks of %s: %v", id, err)
	}
	uc.invalidateTops(ctx)
	uc.logger.Info("[CONSULTANT] Deleted %s", id)
	return nil
}

// TopConsultants returns active ranks with an active consultant attached, ordered by rank.
func (uc *consultantUseCase) TopConsultants(ctx context.Context) ([]*entity.TopConsultant, error) {
	if tops, ok, err := uc.topCache.Get(ctx); err != nil {
		uc.logger.Warn("[CONSULTANT] Top consultant cache read failed: %v", err)
	} else if ok {
		return tops, nil
	}

	tops, err := uc.tops.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(tops))
	for _, t := range tops {
		ids = append(ids, t.ConsultantID)
	}
	consultants, err := uc.consultants.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Consultant, len(consultants))
	for _, c := range consultants {
		byID[c.ID] = c
	}

	result := make([]*entity.TopConsultant, 0, len(tops))
	for _, t := range tops {
		c, ok := byID[t.ConsultantID]
		if !t.IsActive || !ok || !c.IsActive {
			continue
		}
		t.Consultant = c
		result = append(result, t)
	}

	if err := uc.topCache.Set(ctx, result); err != nil {
		uc.logger.Warn("[CONSULTANT] Top consultant cache write failed: %v", err)
	}
	return result, nil
}

func (uc *consultantUseCase) SetTop(ctx context.Context, rank int, consultantID string, isActive bool) (*entity.TopConsultant, error) {
	if rank < entity.MinTopRank || rank > entity.MaxTopRank {
		return nil, fmt.Errorf("%w: rank must be between %d and %d", ErrValidation, entity.MinTopRank, entity.MaxTopRank)
	}
	consultant, err := uc.Get(ctx, consultantID)
	if err != nil {
		return nil, err
	}

	top := &entity.TopConsultant{Rank: rank, ConsultantID: consultantID, IsActive: isActive}
	if err := uc.tops.Set(ctx, top); err != nil {
		if errors.Is(err, persistent.ErrDuplicate) {
			return nil, fmt.Errorf("%w: consultant already holds a rank", ErrConflict)
		}
		return nil, err
	}

	uc.invalidateTops(ctx)
	top.Consultant = consultant
	return top, nil
}

func (uc *consultantUseCase) RemoveTop(ctx context.Context, rank int) error {
	if rank < entity.MinTopRank || rank > entity.MaxTopRank {
		return fmt.Errorf("%w: rank must be between %d and %d", ErrValidation, entity.MinTopRank, entity.MaxTopRank)
	}
	if err := uc.tops.Delete(ctx, rank); err != nil {
		return notFound(err)
	}
	uc.invalidateTops(ctx)
	return nil
}

func (uc *consultantUseCase) invalidateTops(ctx context.Context) {
	if err := uc.topCache.Invalidate(ctx); err != nil {
		uc.logger.Warn("[CONSULTANT] Top consultant cache invalidation failed: %v", err)
	}
}
