package cli

import (
	"context"
	"errors"
	"fmt"

	"estate-market/pkg/guard"
	"estate-market/pkg/models"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/usecase"

	"github.com/spf13/cobra"
)

type seedCategory struct {
	name     string
	children []seedCategory
}

var seedCategories = []seedCategory{
	{name: "مسکونی", children: []seedCategory{
		{name: "آپارتمان", children: []seedCategory{{name: "پنت‌هاوس"}}},
		{name: "ویلا"},
	}},
	{name: "تجاری", children: []seedCategory{{name: "مغازه"}, {name: "دفتر کار"}}},
	{name: "زمین"},
}

var seedConsultants = []usecase.ConsultantInput{
	{Name: "رضا احمدی", Phone: "09121000001", Experience: 12, Bio: "مشاور املاک مسکونی شمال تهران", IsActive: true},
	{Name: "مریم کریمی", Phone: "09121000002", Experience: 8, Bio: "متخصص املاک تجاری", IsActive: true},
	{Name: "علی رستمی", Phone: "09121000003", Experience: 5, Bio: "پیش‌فروش و مشارکت در ساخت", IsActive: true},
}

const (
	demoPhone    = "09120000000"
	demoPassword = "password123"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo categories, consultants and posters",
		Long: `Populate an empty marketplace with a category tree, three ranked
consultants and a demo user owning a few published posters.

Each group is skipped when the store already holds data for it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect()
			if err != nil {
				return err
			}
			defer e.close()

			ctx := cmd.Context()
			categoryIDs, err := seedCategoryTree(ctx, e)
			if err != nil {
				return err
			}
			if err := seedTopConsultants(ctx, e); err != nil {
				return err
			}
			if err := seedPosters(ctx, e, categoryIDs); err != nil {
				return err
			}

			e.log.Info("[SEED] Done")
			return nil
		},
	}
}

// seedCategoryTree returns category ids keyed by name.
func seedCategoryTree(ctx context.Context, e *env) (map[string]string, error) {
	existing, err := e.categories.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(existing))
	for _, c := range existing {
		ids[c.Name] = c.ID
	}
	if len(existing) > 0 {
		e.log.Info("[SEED] Categories present, skipping")
		return ids, nil
	}

	var create func(nodes []seedCategory, parentID string) error
	create = func(nodes []seedCategory, parentID string) error {
		for i, n := range nodes {
			c, err := e.categories.Create(ctx, usecase.CategoryInput{Name: n.name, ParentID: parentID, Order: i})
			if err != nil {
				return fmt.Errorf("create category %s: %w", n.name, err)
			}
			ids[c.Name] = c.ID
			if err := create(n.children, c.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if err := create(seedCategories, ""); err != nil {
		return nil, err
	}
	e.log.Info("[SEED] Created %d categories", len(ids))
	return ids, nil
}

func seedTopConsultants(ctx context.Context, e *env) error {
	existing, err := e.consultants.List(ctx, true)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		e.log.Info("[SEED] Consultants present, skipping")
		return nil
	}

	for i, in := range seedConsultants {
		c, err := e.consultants.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("create consultant %s: %w", in.Name, err)
		}
		if _, err := e.consultants.SetTop(ctx, entity.MinTopRank+i, c.ID, true); err != nil {
			return fmt.Errorf("rank consultant %s: %w", in.Name, err)
		}
	}
	e.log.Info("[SEED] Created %d ranked consultants", len(seedConsultants))
	return nil
}

func seedPosters(ctx context.Context, e *env, categoryIDs map[string]string) error {
	user, err := e.auth.CreateUser(ctx, "کاربر نمونه", demoPhone, demoPassword, models.RoleUser)
	if errors.Is(err, usecase.ErrConflict) {
		e.log.Info("[SEED] Demo user present, skipping posters")
		return nil
	}
	if err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}
	owner := &guard.Identity{UserID: user.ID, Role: user.Role}

	posters := []usecase.PosterInput{
		{
			Title: "آپارتمان ۱۲۰ متری ونک", Area: 120, Rooms: 3, BuildingDate: 1398,
			TotalPrice: 18_000_000_000, PricePerM2: 150_000_000,
			ParentType: entity.ParentResidential, TradeType: entity.TradeSale,
			CategoryID: categoryIDs["آپارتمان"], Address: "تهران، ونک",
			Location: entity.Location{Latitude: 35.7575, Longitude: 51.4098},
		},
		{
			Title: "ویلا باغ در لواسان", Area: 450, Rooms: 4, BuildingDate: 1395,
			Deposit: 2_000_000_000, Rent: 90_000_000,
			ParentType: entity.ParentResidential, TradeType: entity.TradeRent,
			CategoryID: categoryIDs["ویلا"], Address: "لواسان",
			Location: entity.Location{Latitude: 35.8226, Longitude: 51.6250},
		},
		{
			Title: "مغازه بر خیابان انقلاب", Area: 35,
			TotalPrice: 9_500_000_000, PricePerM2: 271_000_000,
			ParentType: entity.ParentCommercial, TradeType: entity.TradeSale,
			CategoryID: categoryIDs["مغازه"], Address: "تهران، انقلاب",
			Location: entity.Location{Latitude: 35.7009, Longitude: 51.3912},
		},
	}

	for _, in := range posters {
		p, err := e.posters.Create(ctx, owner, in)
		if err != nil {
			return fmt.Errorf("create poster %s: %w", in.Title, err)
		}
		if _, err := e.posters.SetStatus(ctx, p.ID, entity.StatusPublished); err != nil {
			return fmt.Errorf("publish poster %s: %w", in.Title, err)
		}
	}
	e.log.Info("[SEED] Demo user %s with %d published posters (password %s)", demoPhone, len(posters), demoPassword)
	return nil
}
