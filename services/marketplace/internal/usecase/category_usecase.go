package usecase

import (
	"context"
	"fmt"
	"strings"

	"estate-market/pkg/logger"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/repo/persistent"
)

type CategoryInput struct {
	Name     string
	ParentID string
	Order    int
}

type CategoryUseCase interface {
	List(ctx context.Context, parentID *string) ([]*entity.Category, error)
	Tree(ctx context.Context) ([]*entity.CategoryNode, error)
	Get(ctx context.Context, id string) (*entity.Category, error)
	Create(ctx context.Context, in CategoryInput) (*entity.Category, error)
	Update(ctx context.Context, id string, in CategoryInput) (*entity.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryUseCase struct {
	categories persistent.CategoryRepository
	posters    persistent.PosterRepository
	logger     *logger.Logger
}

func NewCategoryUseCase(categories persistent.CategoryRepository, posters persistent.PosterRepository, logger *logger.Logger) CategoryUseCase {
	return &categoryUseCase{
		categories: categories,
		posters:    posters,
		logger:     logger,
	}
}

func (uc *categoryUseCase) List(ctx context.Context, parentID *string) ([]*entity.Category, error) {
	return uc.categories.List(ctx, parentID)
}

func (uc *categoryUseCase) Get(ctx context.Context, id string) (*entity.Category, error) {
	category, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return category, nil
}

// BuildTree nests categories under their parents, keeping the input order.
// Categories whose parent is missing are treated as roots.
func BuildTree(categories []*entity.Category) []*entity.CategoryNode {
	nodes := make(map[string]*entity.CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &entity.CategoryNode{Category: c, Children: []*entity.CategoryNode{}}
	}

	roots := []*entity.CategoryNode{}
	for _, c := range categories {
		node := nodes[c.ID]
		if parent, ok := nodes[c.ParentID]; ok && c.ParentID != "" {
			parent.Children = append(parent.Children, node)
			continue
		}
		roots = append(roots, node)
	}
	return roots
}

func (uc *categoryUseCase) Tree(ctx context.Context) ([]*entity.CategoryNode, error) {
	all, err := uc.categories.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return BuildTree(all), nil
}

type categoryIndex map[string]*entity.Category

func (uc *categoryUseCase) index(ctx context.Context) (categoryIndex, error) {
	all, err := uc.categories.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	idx := make(categoryIndex, len(all))
	for _, c := range all {
		idx[c.ID] = c
	}
	return idx, nil
}

// depth returns the level of id (root = 1). It fails if the ancestor chain
// passes through self, which would close a cycle.
func (idx categoryIndex) depth(id, self string) (int, error) {
	level := 0
	for cur := id; cur != ""; {
		if cur == self {
			return 0, fmt.Errorf("%w: category cannot be its own ancestor", ErrValidation)
		}
		c, ok := idx[cur]
		if !ok {
			return 0, fmt.Errorf("%w: unknown parent", ErrValidation)
		}
		level++
		if level > len(idx) {
			return 0, fmt.Errorf("%w: category cycle", ErrValidation)
		}
		cur = c.ParentID
	}
	return level, nil
}

// height is the number of levels in the subtree rooted at id, including id.
func (idx categoryIndex) height(id string) int {
	h := 1
	for _, c := range idx {
		if c.ParentID == id {
			if sub := idx.height(c.ID) + 1; sub > h {
				h = sub
			}
		}
	}
	return h
}

func (uc *categoryUseCase) Create(ctx context.Context, in CategoryInput) (*entity.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	if in.ParentID != "" {
		idx, err := uc.index(ctx)
		if err != nil {
			return nil, err
		}
		parentDepth, err := idx.depth(in.ParentID, "")
		if err != nil {
			return nil, err
		}
		if parentDepth+1 > entity.MaxCategoryDepth {
			return nil, fmt.Errorf("%w: categories nest at most %d levels", ErrValidation, entity.MaxCategoryDepth)
		}
	}

	category := &entity.Category{Name: in.Name, ParentID: in.ParentID, Order: in.Order}
	if err := uc.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (uc *categoryUseCase) Update(ctx context.Context, id string, in CategoryInput) (*entity.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	idx, err := uc.index(ctx)
	if err != nil {
		return nil, err
	}
	category, ok := idx[id]
	if !ok {
		return nil, ErrNotFound
	}

	if in.ParentID != "" {
		parentDepth, err := idx.depth(in.ParentID, id)
		if err != nil {
			return nil, err
		}
		if parentDepth+idx.height(id) > entity.MaxCategoryDepth {
			return nil, fmt.Errorf("%w: categories nest at most %d levels", ErrValidation, entity.MaxCategoryDepth)
		}
	} else if idx.height(id) > entity.MaxCategoryDepth {
		return nil, fmt.Errorf("%w: categories nest at most %d levels", ErrValidation, entity.MaxCategoryDepth)
	}

	category.Name = in.Name
	category.ParentID = in.ParentID
	category.Order = in.Order
	if err := uc.categories.Update(ctx, category); err != nil {
		return nil, notFound(err)
	}
	return category, nil
}

// Delete refuses while the category still has children or posters.
func (uc *categoryUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}

	children, err := uc.categories.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: category has %d children", ErrConflict, children)
	}

	posters, err := uc.posters.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if posters > 0 {
		return fmt.Errorf("%w: category is used by %d posters", ErrConflict, posters)
	}

	if err := uc.categories.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	uc.logger.Info("[CATEGORY] Deleted %s", id)
	return nil
}
