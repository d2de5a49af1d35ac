package bid

import (
	"context"
	"fmt"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/base"
	"github.com/clay099/work-order-backend/internal/bid/entity"
	bidrepo "github.com/clay099/work-order-backend/internal/bid/repo"
	projectentity "github.com/clay099/work-order-backend/internal/project/entity"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

// Projects is the part of the project service bidding relies on.
type Projects interface {
	Get(ctx context.Context, id int64) (*projectentity.Project, error)
	Accept(ctx context.Context, id, tradesmanID int64, price float64) (*projectentity.Project, error)
}

type Service struct {
	repo     *bidrepo.BidRepo
	projects Projects
}

func NewService(r *bidrepo.BidRepo, projects Projects) *Service {
	return &Service{repo: r, projects: projects}
}

// Place stores a bid from tradesmanID. The project must exist and still be
// in auction.
func (s *Service) Place(ctx context.Context, tradesmanID int64, fields []qb.Field) (*entity.Bid, error) {
	var projectID int64
	for _, f := range fields {
		if f.Column == "project_id" {
			projectID, _ = f.Value.(int64)
		}
	}
	if err := s.checkOpen(ctx, projectID); err != nil {
		return nil, err
	}
	fields = append(fields, qb.Field{Column: "tradesmen_id", Value: tradesmanID})
	b, err := s.repo.Create(ctx, fields)
	if err != nil {
		if base.IsUniqueViolation(err) {
			msg := fmt.Sprintf("bid already placed on project id '%d'", projectID)
			return nil, apperror.Conflict(msg).Wrap(err)
		}
		return nil, err
	}
	return b, nil
}

// ForProject lists the bids on a project; none is a valid answer.
func (s *Service) ForProject(ctx context.Context, projectID int64) ([]entity.BidWithTradesman, error) {
	return s.repo.ForProject(ctx, projectID)
}

// Project resolves the project a bid listing is requested for.
func (s *Service) Project(ctx context.Context, id int64) (*projectentity.Project, error) {
	return s.projects.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Bid, error) {
	return s.repo.Get(ctx, id)
}

// Update changes the amount while the project is still in auction.
func (s *Service) Update(ctx context.Context, id int64, fields []qb.Field) (*entity.Bid, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOpen(ctx, current.ProjectID); err != nil {
		return nil, err
	}
	return s.repo.UpdateByKey(ctx, id, fields)
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.repo.RemoveByKey(ctx, id)
}

// Accept hands the bid's project to its tradesman at the bid price.
func (s *Service) Accept(ctx context.Context, b *entity.Bid) (*projectentity.Project, error) {
	return s.projects.Accept(ctx, b.ProjectID, b.TradesmenID, b.Bid)
}

func (s *Service) checkOpen(ctx context.Context, projectID int64) error {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if !p.OpenForBidding() {
		return apperror.BadRequest("Project id: %d is not open for bidding", projectID)
	}
	return nil
}
