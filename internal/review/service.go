package review

import (
	"context"
	"net/http"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/base"
	projectentity "github.com/clay099/work-order-backend/internal/project/entity"
	"github.com/clay099/work-order-backend/internal/review/entity"
	reviewrepo "github.com/clay099/work-order-backend/internal/review/repo"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

type Projects interface {
	Get(ctx context.Context, id int64) (*projectentity.Project, error)
}

// Ratings keeps a tradesman's aggregate rating in step with their reviews.
type Ratings interface {
	RefreshRating(ctx context.Context, tradesmanID int64) error
}

type Service struct {
	repo     *reviewrepo.ReviewRepo
	projects Projects
	ratings  Ratings
}

func NewService(r *reviewrepo.ReviewRepo, projects Projects, ratings Ratings) *Service {
	return &Service{repo: r, projects: projects, ratings: ratings}
}

// Create reviews a completed project on behalf of its owner. The reviewed
// tradesman is always the one assigned to the project.
func (s *Service) Create(ctx context.Context, userID int64, fields []qb.Field) (*entity.Review, error) {
	var projectID int64
	for _, f := range fields {
		if f.Column == "project_id" {
			projectID, _ = f.Value.(int64)
		}
	}
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.Status != projectentity.StatusCompleted || p.TradesmenID == nil {
		return nil, apperror.BadRequest("Project id: %d must be completed before it can be reviewed", projectID)
	}
	_, err = s.repo.Get(ctx, projectID)
	switch {
	case err == nil:
		return nil, duplicate(projectID)
	case !apperror.Is(err, http.StatusNotFound):
		return nil, err
	}

	fields = append(fields,
		qb.Field{Column: "user_id", Value: userID},
		qb.Field{Column: "tradesmen_id", Value: *p.TradesmenID},
	)
	rv, err := s.repo.Create(ctx, fields)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return nil, duplicate(projectID)
		}
		return nil, err
	}
	if err := s.ratings.RefreshRating(ctx, rv.TradesmenID); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) Get(ctx context.Context, projectID int64) (*entity.Review, error) {
	return s.repo.Get(ctx, projectID)
}

func (s *Service) ForTradesman(ctx context.Context, tradesmanID int64) ([]entity.Review, error) {
	return s.repo.ForTradesman(ctx, tradesmanID)
}

func (s *Service) Update(ctx context.Context, projectID int64, fields []qb.Field) (*entity.Review, error) {
	rv, err := s.repo.UpdateByKey(ctx, projectID, fields)
	if err != nil {
		return nil, err
	}
	if err := s.ratings.RefreshRating(ctx, rv.TradesmenID); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) Remove(ctx context.Context, projectID int64) error {
	rv, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveByKey(ctx, projectID); err != nil {
		return err
	}
	return s.ratings.RefreshRating(ctx, rv.TradesmenID)
}

func duplicate(projectID int64) error {
	return apperror.BadRequest("review already created for project id '%d'", projectID)
}
