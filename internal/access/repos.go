package access

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/auth"
	bidrepo "github.com/clay099/work-order-backend/internal/bid/repo"
	chatrepo "github.com/clay099/work-order-backend/internal/chat/repo"
	photorepo "github.com/clay099/work-order-backend/internal/photo/repo"
	projectrepo "github.com/clay099/work-order-backend/internal/project/repo"
	reviewrepo "github.com/clay099/work-order-backend/internal/review/repo"
	tradesmanrepo "github.com/clay099/work-order-backend/internal/tradesman/repo"
	userrepo "github.com/clay099/work-order-backend/internal/user/repo"
)

// NewStoreGuard builds a Guard whose scans read the database.
func NewStoreGuard(db *sqlx.DB, logger *zap.SugaredLogger) *Guard {
	users := userrepo.NewUserRepo(db)
	tradesmen := tradesmanrepo.NewTradesmanRepo(db)
	projects := projectrepo.NewProjectRepo(db)
	bids := bidrepo.NewBidRepo(db)
	chats := chatrepo.NewChatRepo(db)
	photos := photorepo.NewPhotoRepo(db)
	reviews := reviewrepo.NewReviewRepo(db)

	return NewGuard(map[Kind]ScanFunc{
		KindUser: identity(auth.RoleUser, func(ctx context.Context, id int64) (string, error) {
			u, err := users.Get(ctx, id)
			if err != nil {
				return "", err
			}
			return u.Email, nil
		}),
		KindTradesman: identity(auth.RoleTradesman, func(ctx context.Context, id int64) (string, error) {
			t, err := tradesmen.Get(ctx, id)
			if err != nil {
				return "", err
			}
			return t.Email, nil
		}),
		KindProject:      byRole(projects.IDsForUser, projects.IDsForTradesman),
		KindOwnedProject: byRole(projects.IDsForUser, nil),
		KindBid:          byRole(nil, bids.IDsForTradesman),
		KindChat:         byRole(chats.IDsByUser, chats.IDsByTradesman),
		KindPhoto:        byRole(photos.IDsByUser, nil),
		KindReview:       byRole(reviews.ProjectIDsByUser, nil),
	}, logger)
}

type idLister func(ctx context.Context, id int64) ([]int64, error)

// byRole picks the lister for the principal's role; a nil lister owns nothing.
func byRole(forUser, forTradesman idLister) ScanFunc {
	return func(ctx context.Context, p auth.Principal) ([]int64, error) {
		list := forUser
		if p.IsTradesman() {
			list = forTradesman
		}
		if list == nil {
			return nil, nil
		}
		return list(ctx, p.ID)
	}
}

// identity owns exactly the principal's own record, provided it still
// carries the email the token was issued for.
func identity(role auth.Role, email func(ctx context.Context, id int64) (string, error)) ScanFunc {
	return func(ctx context.Context, p auth.Principal) ([]int64, error) {
		if p.Role != role {
			return nil, nil
		}
		stored, err := email(ctx, p.ID)
		if err != nil {
			if apperror.Is(err, http.StatusNotFound) {
				return nil, nil
			}
			return nil, err
		}
		if stored != p.Email {
			return nil, nil
		}
		return []int64{p.ID}, nil
	}
}
