package photo

import (
	"context"

	"github.com/clay099/work-order-backend/internal/photo/entity"
	photorepo "github.com/clay099/work-order-backend/internal/photo/repo"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

type Service struct {
	repo *photorepo.PhotoRepo
}

func NewService(r *photorepo.PhotoRepo) *Service {
	return &Service{repo: r}
}

// Add stores a photo uploaded by userID.
func (s *Service) Add(ctx context.Context, userID int64, fields []qb.Field) (*entity.Photo, error) {
	fields = append(fields, qb.Field{Column: "user_id", Value: userID})
	return s.repo.Create(ctx, fields)
}

func (s *Service) List(ctx context.Context) ([]entity.Photo, error) {
	return s.repo.All(ctx)
}

func (s *Service) ForProject(ctx context.Context, projectID int64) ([]entity.Photo, error) {
	return s.repo.ForProject(ctx, projectID)
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Photo, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, fields []qb.Field) (*entity.Photo, error) {
	return s.repo.UpdateByKey(ctx, id, fields)
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.repo.RemoveByKey(ctx, id)
}
