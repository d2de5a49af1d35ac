// Package schema creates the tables on startup when asked to.
package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	bidrepo "github.com/clay099/work-order-backend/internal/bid/repo"
	chatrepo "github.com/clay099/work-order-backend/internal/chat/repo"
	photorepo "github.com/clay099/work-order-backend/internal/photo/repo"
	projectrepo "github.com/clay099/work-order-backend/internal/project/repo"
	reviewrepo "github.com/clay099/work-order-backend/internal/review/repo"
	tradesmanrepo "github.com/clay099/work-order-backend/internal/tradesman/repo"
	userrepo "github.com/clay099/work-order-backend/internal/user/repo"
)

type tableOwner interface {
	EnsureTable(ctx context.Context) error
}

// Ensure creates every table that does not exist yet, parents before the
// tables referencing them.
func Ensure(ctx context.Context, db *sqlx.DB) error {
	owners := []struct {
		name string
		repo tableOwner
	}{
		{"users", userrepo.NewUserRepo(db)},
		{"tradesmen", tradesmanrepo.NewTradesmanRepo(db)},
		{"projects", projectrepo.NewProjectRepo(db)},
		{"bids", bidrepo.NewBidRepo(db)},
		{"chat", chatrepo.NewChatRepo(db)},
		{"photos", photorepo.NewPhotoRepo(db)},
		{"reviews", reviewrepo.NewReviewRepo(db)},
	}
	for _, o := range owners {
		if err := o.repo.EnsureTable(ctx); err != nil {
			return fmt.Errorf("ensure %s: %w", o.name, err)
		}
	}
	return nil
}
