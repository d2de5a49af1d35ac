package project

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/access"
	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/auth"
	"github.com/clay099/work-order-backend/internal/project/entity"
	projectrepo "github.com/clay099/work-order-backend/internal/project/repo"
	"github.com/clay099/work-order-backend/internal/validation"
	"github.com/clay099/work-order-backend/internal/web"
)

type Handler struct {
	svc    *Service
	guard  *access.Guard
	v      *validation.Validator
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, guard *access.Guard, v *validation.Validator, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, guard: guard, v: v, logger: logger}
}

type projectResponse struct {
	Project *entity.Project `json:"project"`
}

type projectsResponse struct {
	Projects []entity.Project `json:"projects"`
}

// List handles GET /projects: the caller's own projects, by role.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	projects, err := h.svc.ListFor(r.Context(), p)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, projectsResponse{Projects: projects})
}

// ListOpen handles GET /projects/new for tradesmen looking for work.
func (h *Handler) ListOpen(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.OpenForBidding(r.Context())
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, projectsResponse{Projects: projects})
}

// Create handles POST /projects.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())
	p, err := web.ReadPayload(r)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.v.Validate(r.Context(), validation.Project, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	// the owner always comes from the token and every project opens in auction
	for _, k := range []string{"id", "user_id", "created_at", "price", "tradesmen_id", "status", "completed_at"} {
		delete(p.Values, k)
	}
	fields, err := projectrepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	project, err := h.svc.Create(r.Context(), principal.ID, fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	h.logger.Infow("project created", "id", project.ID, "user_id", principal.ID)
	web.JSON(w, http.StatusCreated, projectResponse{Project: project})
}

// Get handles GET /projects/{id}. Existence is resolved before ownership.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	project, err := h.svc.Get(r.Context(), id)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.guard.AllowRequest(r, access.KindProject, id); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, projectResponse{Project: project})
}

// Update handles PATCH /projects/{id}.
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
	if p.Has("user_id") || p.Has("tradesmen_id") {
		web.Error(w, r, h.logger, apperror.BadRequest("Not allowed to change 'user_id' or 'tradesmen_id'"))
		return
	}
	if err := h.v.Validate(r.Context(), validation.ProjectUpdate, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	fields, err := projectrepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	project, err := h.svc.Update(r.Context(), id, fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, projectResponse{Project: project})
}

// Delete handles DELETE /projects/{id}.
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
	h.logger.Infow("project deleted", "id", id)
	web.Message(w, "Project deleted")
}
