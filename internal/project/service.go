package project

import (
	"context"
	"time"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/auth"
	"github.com/clay099/work-order-backend/internal/base"
	"github.com/clay099/work-order-backend/internal/project/entity"
	projectrepo "github.com/clay099/work-order-backend/internal/project/repo"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

// Service holds the project rules: one project per description per user and
// forward-only status changes.
type Service struct {
	repo *projectrepo.ProjectRepo
	now  func() time.Time
}

func NewService(r *projectrepo.ProjectRepo) *Service {
	return &Service{repo: r, now: time.Now}
}

// ListFor returns the projects p takes part in, by role.
func (s *Service) ListFor(ctx context.Context, p auth.Principal) ([]entity.Project, error) {
	if p.IsUser() {
		return s.repo.AllForUser(ctx, p.ID)
	}
	return s.repo.AllForTradesman(ctx, p.ID)
}

func (s *Service) OpenForBidding(ctx context.Context) ([]entity.Project, error) {
	return s.repo.OpenForBidding(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Project, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a project for userID. A second project with the same
// description is rejected; the unique constraint covers concurrent creates.
func (s *Service) Create(ctx context.Context, userID int64, fields []qb.Field) (*entity.Project, error) {
	desc := ""
	for _, f := range fields {
		if f.Column == "description" {
			desc, _ = f.Value.(string)
		}
	}
	if err := s.checkDuplicate(ctx, userID, desc); err != nil {
		return nil, err
	}

	fields = append(fields, qb.Field{Column: "user_id", Value: userID})
	p, err := s.repo.Create(ctx, fields)
	if err != nil {
		if base.IsUniqueViolation(err) {
			if dupErr := s.checkDuplicate(ctx, userID, desc); dupErr != nil {
				return nil, dupErr
			}
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) checkDuplicate(ctx context.Context, userID int64, desc string) error {
	existing, err := s.repo.ByDescription(ctx, userID, desc)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.BadRequest("project '%s' already created under project id '%d'", existing.Description, existing.ID)
	}
	return nil
}

// Update applies fields to project id after checking the status change.
// Completing a project without completed_at stamps the current time.
func (s *Service) Update(ctx context.Context, id int64, fields []qb.Field) (*entity.Project, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	for _, f := range fields {
		apply(&next, f)
	}
	if err := entity.CheckTransition(current.Status, next.Status); err != nil {
		return nil, err
	}
	if next.Status == entity.StatusCompleted && next.CompletedAt == nil {
		now := s.now().UTC()
		next.CompletedAt = &now
		fields = append(fields, qb.Field{Column: "completed_at", Value: now})
	}
	if err := next.Check(); err != nil {
		return nil, err
	}
	return s.repo.UpdateByKey(ctx, id, fields)
}

// Accept assigns the tradesman and price of an accepted bid.
func (s *Service) Accept(ctx context.Context, id, tradesmanID int64, price float64) (*entity.Project, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.OpenForBidding() {
		return nil, apperror.BadRequest("Project id: %d is not open for bidding", id)
	}
	return s.Update(ctx, id, []qb.Field{
		{Column: "tradesmen_id", Value: tradesmanID},
		{Column: "price", Value: price},
		{Column: "status", Value: string(entity.StatusAccepted)},
	})
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.repo.RemoveByKey(ctx, id)
}

func apply(p *entity.Project, f qb.Field) {
	switch f.Column {
	case "status":
		if v, ok := f.Value.(string); ok {
			p.Status = entity.Status(v)
		}
	case "tradesmen_id":
		if v, ok := f.Value.(int64); ok {
			p.TradesmenID = &v
		} else {
			p.TradesmenID = nil
		}
	case "price":
		if v, ok := f.Value.(float64); ok {
			p.Price = &v
		} else {
			p.Price = nil
		}
	case "completed_at":
		if v, ok := f.Value.(time.Time); ok {
			p.CompletedAt = &v
		} else {
			p.CompletedAt = nil
		}
	}
}
