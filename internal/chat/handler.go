package chat

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/access"
	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/auth"
	"github.com/clay099/work-order-backend/internal/chat/entity"
	chatrepo "github.com/clay099/work-order-backend/internal/chat/repo"
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

type chatResponse struct {
	Chat *entity.Chat `json:"chat"`
}

// Create handles POST /chat; the route checks the caller is a party to the
// project named in the body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())
	p, err := web.ReadPayload(r)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.v.Validate(r.Context(), validation.Chat, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	for _, k := range []string{"id", "user_id", "tradesmen_id", "sent_at"} {
		delete(p.Values, k)
	}
	fields, err := chatrepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	c, err := h.svc.Post(r.Context(), principal, fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusCreated, chatResponse{Chat: c})
}

// ListForProject handles GET /chat/{projectId}.
func (h *Handler) ListForProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := web.PathID(r, "projectId")
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if _, err := h.svc.Project(r.Context(), projectID); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.guard.AllowRequest(r, access.KindProject, projectID); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	chat, err := h.svc.ForProject(r.Context(), projectID)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{"chat": chat})
}

// Update handles PATCH /chat/{id}; the route is guarded by authorship.
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
	if p.Has("id") || p.Has("project_id") {
		web.Error(w, r, h.logger, apperror.BadRequest("Not allowed to change 'ID' or 'project_ID'"))
		return
	}
	if err := h.v.Validate(r.Context(), validation.ChatUpdate, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	fields, err := chatrepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	c, err := h.svc.Update(r.Context(), id, fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, chatResponse{Chat: c})
}

// Delete handles DELETE /chat/{id}.
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
	h.logger.Infow("comment deleted", "id", id)
	web.Message(w, "Comment deleted")
}
