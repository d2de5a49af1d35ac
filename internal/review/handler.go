package review

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/auth"
	"github.com/clay099/work-order-backend/internal/review/entity"
	reviewrepo "github.com/clay099/work-order-backend/internal/review/repo"
	"github.com/clay099/work-order-backend/internal/validation"
	"github.com/clay099/work-order-backend/internal/web"
)

type Handler struct {
	svc    *Service
	v      *validation.Validator
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, v *validation.Validator, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, v: v, logger: logger}
}

type reviewResponse struct {
	Review *entity.Review `json:"review"`
}

// Create handles POST /reviews; the route checks the caller owns the project.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())
	p, err := web.ReadPayload(r)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.v.Validate(r.Context(), validation.Review, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	delete(p.Values, "user_id")
	delete(p.Values, "tradesmen_id")
	fields, err := reviewrepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	rv, err := h.svc.Create(r.Context(), principal.ID, fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	h.logger.Infow("review created", "project_id", rv.ProjectID, "tradesmen_id", rv.TradesmenID)
	web.JSON(w, http.StatusCreated, reviewResponse{Review: rv})
}

// Get handles GET /reviews/{id}, where id is the reviewed project.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	rv, err := h.svc.Get(r.Context(), projectID)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, reviewResponse{Review: rv})
}

// ListForTradesman handles GET /tradesmen/{id}/reviews.
func (h *Handler) ListForTradesman(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	reviews, err := h.svc.ForTradesman(r.Context(), id)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

// Update handles PATCH /reviews/{projectId}; the route is guarded by authorship.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, err := web.PathID(r, "projectId")
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	p, err := web.ReadPayload(r)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if p.Has("user_id") || p.Has("tradesmen_id") || p.Has("project_id") {
		web.Error(w, r, h.logger, apperror.BadRequest("Not allowed to change 'user_id', 'tradesmen_id' or 'project_id'"))
		return
	}
	if err := h.v.Validate(r.Context(), validation.ReviewUpdate, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	fields, err := reviewrepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	rv, err := h.svc.Update(r.Context(), projectID, fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, reviewResponse{Review: rv})
}

// Delete handles DELETE /reviews/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.svc.Remove(r.Context(), projectID); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	h.logger.Infow("review deleted", "project_id", projectID)
	web.Message(w, "review deleted")
}
