package photo

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/access"
	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/auth"
	"github.com/clay099/work-order-backend/internal/photo/entity"
	photorepo "github.com/clay099/work-order-backend/internal/photo/repo"
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

type photoResponse struct {
	Photo *entity.Photo `json:"photo"`
}

// List handles GET /photos. With ?project_id= the listing is narrowed to one
// project and only its parties may see it.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("project_id")
	if raw == "" {
		photos, err := h.svc.List(r.Context())
		if err != nil {
			web.Error(w, r, h.logger, err)
			return
		}
		web.JSON(w, http.StatusOK, map[string]any{"photos": photos})
		return
	}
	projectID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		web.Error(w, r, h.logger, apperror.BadRequest("project_id must be an integer"))
		return
	}
	if err := h.guard.AllowRequest(r, access.KindProject, projectID); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	photos, err := h.svc.ForProject(r.Context(), projectID)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{"photos": photos})
}

// Create handles POST /photos; the route checks the caller owns the project.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())
	p, err := web.ReadPayload(r)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.v.Validate(r.Context(), validation.Photo, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	delete(p.Values, "user_id")
	fields, err := photorepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	photo, err := h.svc.Add(r.Context(), principal.ID, fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusCreated, photoResponse{Photo: photo})
}

// Get handles GET /photos/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	photo, err := h.svc.Get(r.Context(), id)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, photoResponse{Photo: photo})
}

// Update handles PATCH /photos/{id}; the route is guarded by authorship.
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
	if err := h.v.Validate(r.Context(), validation.PhotoUpdate, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	fields, err := photorepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	photo, err := h.svc.Update(r.Context(), id, fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, photoResponse{Photo: photo})
}

// Delete handles DELETE /photos/{id}.
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
	h.logger.Infow("photo deleted", "id", id)
	web.Message(w, "Photo deleted")
}
