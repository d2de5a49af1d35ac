package tradesman

import (
	"context"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/auth"
	"github.com/clay099/work-order-backend/internal/tradesman/entity"
	tradesmanrepo "github.com/clay099/work-order-backend/internal/tradesman/repo"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

var ErrBadCredentials = apperror.BadRequest("Invalid email/password")

// Service orchestrates tradesman lifecycle and password login.
type Service struct {
	repo       *tradesmanrepo.TradesmanRepo
	hasher     auth.PasswordHasher
	tokens     *auth.TokenService
	checkEmail func(string) error
}

func NewService(r *tradesmanrepo.TradesmanRepo, hasher auth.PasswordHasher, tokens *auth.TokenService, checkEmail func(string) error) *Service {
	if hasher == nil {
		hasher = auth.BcryptHasher{Cost: 12}
	}
	return &Service{repo: r, hasher: hasher, tokens: tokens, checkEmail: checkEmail}
}

func (s *Service) Create(ctx context.Context, fields []qb.Field) (*entity.Tradesman, string, error) {
	if err := auth.SecureFields(s.hasher, s.checkEmail, fields); err != nil {
		return nil, "", err
	}
	t, err := s.repo.Create(ctx, fields)
	if err != nil {
		return nil, "", err
	}
	tok, err := s.issue(t)
	if err != nil {
		return nil, "", err
	}
	return t, tok, nil
}

func (s *Service) List(ctx context.Context) ([]entity.Tradesman, error) {
	return s.repo.All(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Tradesman, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, fields []qb.Field) (*entity.Tradesman, string, error) {
	if err := auth.SecureFields(s.hasher, s.checkEmail, fields); err != nil {
		return nil, "", err
	}
	t, err := s.repo.UpdateByKey(ctx, id, fields)
	if err != nil {
		return nil, "", err
	}
	tok, err := s.issue(t)
	if err != nil {
		return nil, "", err
	}
	return t, tok, nil
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.repo.RemoveByKey(ctx, id)
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*auth.Login, error) {
	c, err := s.repo.CredentialsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(c.Password, password) {
		return nil, ErrBadCredentials
	}
	p := auth.Principal{ID: c.ID, Email: c.Email, Role: auth.RoleTradesman}
	tok, err := s.tokens.Issue(p)
	if err != nil {
		return nil, err
	}
	return &auth.Login{Token: tok, UserType: p.Role, Email: p.Email, ID: p.ID}, nil
}

func (s *Service) issue(t *entity.Tradesman) (string, error) {
	return s.tokens.Issue(auth.Principal{ID: t.ID, Email: t.Email, Role: auth.RoleTradesman})
}
