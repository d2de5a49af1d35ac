package user

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/user/entity"
	userrepo "github.com/clay099/work-order-backend/internal/user/repo"
	"github.com/clay099/work-order-backend/internal/validation"
	"github.com/clay099/work-order-backend/internal/web"
)

// Handler exposes HTTP endpoints for users and user login.
type Handler struct {
	svc    *Service
	v      *validation.Validator
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, v *validation.Validator, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, v: v, logger: logger}
}

type userResponse struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

// Create handles POST /users.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := web.ReadPayload(r)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.v.Validate(r.Context(), validation.User, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	delete(p.Values, "id")
	fields, err := userrepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	u, tok, err := h.svc.Create(r.Context(), fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	h.logger.Infow("user created", "id", u.ID)
	web.JSON(w, http.StatusCreated, userResponse{User: u, Token: tok})
}

// List handles GET /users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{"users": users})
}

// Get handles GET /users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, userResponse{User: u})
}

// Update handles PATCH /users/{id}; the route is guarded by identity match.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	p, err := web.ReadPayload(r)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if p.Has("id") {
		web.Error(w, r, h.logger, apperror.BadRequest("Not allowed to change 'ID'"))
		return
	}
	if err := h.v.Validate(r.Context(), validation.UserUpdate, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	fields, err := userrepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	u, tok, err := h.svc.Update(r.Context(), id, fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, userResponse{User: u, Token: tok})
}

// Delete handles DELETE /users/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.svc.Remove(r.Context(), id); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	h.logger.Infow("user deleted", "id", id)
	web.Message(w, "User deleted")
}

// Login handles POST /login/user.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	p, err := web.ReadPayload(r)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.v.Validate(r.Context(), validation.Login, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	login, err := h.svc.Authenticate(r.Context(), p.String("email"), p.String("password"))
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, login)
}
