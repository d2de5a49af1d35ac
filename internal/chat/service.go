package chat

import (
	"context"

	"github.com/clay099/work-order-backend/internal/auth"
	"github.com/clay099/work-order-backend/internal/chat/entity"
	chatrepo "github.com/clay099/work-order-backend/internal/chat/repo"
	projectentity "github.com/clay099/work-order-backend/internal/project/entity"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

// Projects resolves the project a conversation belongs to.
type Projects interface {
	Get(ctx context.Context, id int64) (*projectentity.Project, error)
}

type Service struct {
	repo     *chatrepo.ChatRepo
	projects Projects
}

func NewService(r *chatrepo.ChatRepo, projects Projects) *Service {
	return &Service{repo: r, projects: projects}
}

// Post stores a comment written by p; the author column follows p's role.
func (s *Service) Post(ctx context.Context, p auth.Principal, fields []qb.Field) (*entity.Chat, error) {
	author := "user_id"
	if p.IsTradesman() {
		author = "tradesmen_id"
	}
	fields = append(fields, qb.Field{Column: author, Value: p.ID})
	return s.repo.Create(ctx, fields)
}

func (s *Service) Project(ctx context.Context, id int64) (*projectentity.Project, error) {
	return s.projects.Get(ctx, id)
}

func (s *Service) ForProject(ctx context.Context, projectID int64) ([]entity.Chat, error) {
	return s.repo.ForProject(ctx, projectID)
}

func (s *Service) Update(ctx context.Context, id int64, fields []qb.Field) (*entity.Chat, error) {
	return s.repo.UpdateByKey(ctx, id, fields)
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.repo.RemoveByKey(ctx, id)
}
