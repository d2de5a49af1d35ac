package tradesman

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/tradesman/entity"
	tradesmanrepo "github.com/clay099/work-order-backend/internal/tradesman/repo"
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

type tradesmanResponse struct {
	Tradesman *entity.Tradesman `json:"tradesman"`
	Token     string            `json:"token,omitempty"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := web.ReadPayload(r)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	if err := h.v.Validate(r.Context(), validation.Tradesman, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	// rating is earned through reviews and blocking is administrative
	for _, k := range []string{"id", "rating", "is_blocked"} {
		delete(p.Values, k)
	}
	fields, err := tradesmanrepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	t, tok, err := h.svc.Create(r.Context(), fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	h.logger.Infow("tradesman created", "id", t.ID)
	web.JSON(w, http.StatusCreated, tradesmanResponse{Tradesman: t, Token: tok})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{"tradesmen": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, tradesmanResponse{Tradesman: t})
}

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
	if err := h.v.Validate(r.Context(), validation.TradesmanUpdate, p.Raw); err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	fields, err := tradesmanrepo.Table.Fields(p.Values)
	if err != nil {
		web.Error(w, r, h.logger, apperror.Validation(err.Error()))
		return
	}
	t, tok, err := h.svc.Update(r.Context(), id, fields)
	if err != nil {
		web.Error(w, r, h.logger, err)
		return
	}
	web.JSON(w, http.StatusOK, tradesmanResponse{Tradesman: t, Token: tok})
}

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
	h.logger.Infow("tradesman deleted", "id", id)
	web.Message(w, "Tradesman deleted")
}

// Login handles POST /login/tradesmen.
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
