package bid

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/access"
	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/auth"
	"github.com/clay099/work-order-backend/internal/bid/entity"
	bidrepo "github.com/clay099/work-order-backend/internal/bid/repo"
	projectentity "github.com/clay099/work-order-backend/internal/project/entity"
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

type bidResponse struct {
	Bid *entity.Bid `json:"bid"`
}

// Create handles POST /bid. The bidder is always the calling tradesman.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())
	p, err := web.ReadPayload(r)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.v.Validate(r.Context(), validation.Bid, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	delete(p.Values, "tradesmen_id")
	fields, err := bidrepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	b, err := h.svc.Place(r.Context(), principal.ID, fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	h.logger.Infow("bid placed", "id", b.ID, "project_id", b.ProjectID, "tradesmen_id", principal.ID)
	web.JSON(w, http.StatusCreated, bidResponse{Bid: b})
}

// ListForProject handles GET /bid/{projectId} for the project owner.
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
	if err := h.guard.AllowRequest(r, access.KindOwnedProject, projectID); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	bids, err := h.svc.ForProject(r.Context(), projectID)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{"bids": bids})
}

// Update handles PATCH /bid/{id}; the route is guarded by bid authorship.
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
	if p.Has("id") || p.Has("project_id") || p.Has("tradesmen_id") {
		web.Error(w, r, h.logger, apperror.BadRequest("Not allowed to change 'ID' or 'project_id' or 'tradesmen_id'"))
		return
	}
	if err := h.v.Validate(r.Context(), validation.BidUpdate, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	fields, err := bidrepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	b, err := h.svc.Update(r.Context(), id, fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, bidResponse{Bid: b})
}

// Delete handles DELETE /bid/{id}.
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
	h.logger.Infow("bid deleted", "id", id)
	web.Message(w, "Bid deleted")
}

// Accept handles POST /bid/{id}/accept. Only the owner of the bid's project
// may accept; an unknown bid is treated the same as someone else's.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if apperror.Is(err, http.StatusNotFound) {
			err = apperror.Unauthorized()
		}
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.guard.AllowRequest(r, access.KindOwnedProject, b.ProjectID); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	project, err := h.svc.Accept(r.Context(), b)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	h.logger.Infow("bid accepted", "id", id, "project_id", project.ID, "tradesmen_id", b.TradesmenID)
	web.JSON(w, http.StatusOK, struct {
		Project *projectentity.Project `json:"project"`
		Bid     *entity.Bid            `json:"bid"`
	}{project, b})
}
