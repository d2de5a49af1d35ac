package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/access"
	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/auth"
	"github.com/clay099/work-order-backend/internal/bid"
	bidrepo "github.com/clay099/work-order-backend/internal/bid/repo"
	"github.com/clay099/work-order-backend/internal/chat"
	chatrepo "github.com/clay099/work-order-backend/internal/chat/repo"
	"github.com/clay099/work-order-backend/internal/config"
	"github.com/clay099/work-order-backend/internal/photo"
	photorepo "github.com/clay099/work-order-backend/internal/photo/repo"
	"github.com/clay099/work-order-backend/internal/project"
	projectrepo "github.com/clay099/work-order-backend/internal/project/repo"
	"github.com/clay099/work-order-backend/internal/review"
	reviewrepo "github.com/clay099/work-order-backend/internal/review/repo"
	"github.com/clay099/work-order-backend/internal/tradesman"
	tradesmanrepo "github.com/clay099/work-order-backend/internal/tradesman/repo"
	"github.com/clay099/work-order-backend/internal/user"
	userrepo "github.com/clay099/work-order-backend/internal/user/repo"
	"github.com/clay099/work-order-backend/internal/validation"
	"github.com/clay099/work-order-backend/internal/web"
)

type middleware = func(http.Handler) http.Handler

// with wraps h so the first middleware runs first.
func with(h http.HandlerFunc, mws ...middleware) http.Handler {
	var out http.Handler = h
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// RegisterRoutes wires repositories, services and handlers onto a gorilla/mux
// router and wraps it in the process middleware.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB, cfg *config.Config) http.Handler {
	v := validation.MustNew()
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.BcryptHasher{Cost: cfg.BcryptCost}
	guard := access.NewStoreGuard(db, logger)

	tradesmen := tradesmanrepo.NewTradesmanRepo(db)
	projectSvc := project.NewService(projectrepo.NewProjectRepo(db))

	users := user.NewHandler(user.NewService(userrepo.NewUserRepo(db), hasher, tokens, v.Email), v, logger)
	trades := tradesman.NewHandler(tradesman.NewService(tradesmen, hasher, tokens, v.Email), v, logger)
	projects := project.NewHandler(projectSvc, guard, v, logger)
	bids := bid.NewHandler(bid.NewService(bidrepo.NewBidRepo(db), projectSvc), guard, v, logger)
	chats := chat.NewHandler(chat.NewService(chatrepo.NewChatRepo(db), projectSvc), guard, v, logger)
	photos := photo.NewHandler(photo.NewService(photorepo.NewPhotoRepo(db)), guard, v, logger)
	reviews := review.NewHandler(review.NewService(reviewrepo.NewReviewRepo(db), projectSvc, tradesmen), v, logger)

	login := auth.RequireLogin(logger)
	asUser := auth.RequireRole(logger, auth.RoleUser)
	asTradesman := auth.RequireRole(logger, auth.RoleTradesman)
	owns := func(kind access.Kind, from access.IDSource) middleware {
		return guard.Require(access.Rule{Kind: kind, From: from})
	}
	byID := access.RouteVar("id")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := newMetrics(reg)

	r := mux.NewRouter()
	r.Use(m.middleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		web.Error(w, req, logger, apperror.NotFound("Not Found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		web.Error(w, req, logger, apperror.New(http.StatusMethodNotAllowed, "Method Not Allowed"))
	})

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// auth
	r.HandleFunc("/login/user", users.Login).Methods(http.MethodPost)
	r.HandleFunc("/login/tradesmen", trades.Login).Methods(http.MethodPost)

	// users
	r.HandleFunc("/users", users.List).Methods(http.MethodGet)
	r.HandleFunc("/users", users.Create).Methods(http.MethodPost)
	r.HandleFunc("/users/{id:[0-9]+}", users.Get).Methods(http.MethodGet)
	r.Handle("/users/{id:[0-9]+}", with(users.Update, owns(access.KindUser, byID))).Methods(http.MethodPatch)
	r.Handle("/users/{id:[0-9]+}", with(users.Delete, owns(access.KindUser, byID))).Methods(http.MethodDelete)

	// tradesmen
	r.HandleFunc("/tradesmen", trades.List).Methods(http.MethodGet)
	r.HandleFunc("/tradesmen", trades.Create).Methods(http.MethodPost)
	r.HandleFunc("/tradesmen/{id:[0-9]+}", trades.Get).Methods(http.MethodGet)
	r.HandleFunc("/tradesmen/{id:[0-9]+}/reviews", reviews.ListForTradesman).Methods(http.MethodGet)
	r.Handle("/tradesmen/{id:[0-9]+}", with(trades.Update, owns(access.KindTradesman, byID))).Methods(http.MethodPatch)
	r.Handle("/tradesmen/{id:[0-9]+}", with(trades.Delete, owns(access.KindTradesman, byID))).Methods(http.MethodDelete)

	// projects; /projects/new is registered before the id routes
	r.Handle("/projects", with(projects.List, login)).Methods(http.MethodGet)
	r.Handle("/projects", with(projects.Create, asUser)).Methods(http.MethodPost)
	r.Handle("/projects/new", with(projects.ListOpen, asTradesman)).Methods(http.MethodGet)
	r.Handle("/projects/{id:[0-9]+}", with(projects.Get, login)).Methods(http.MethodGet)
	r.Handle("/projects/{id:[0-9]+}", with(projects.Update, owns(access.KindProject, byID))).Methods(http.MethodPatch)
	r.Handle("/projects/{id:[0-9]+}", with(projects.Delete, owns(access.KindProject, byID))).Methods(http.MethodDelete)

	// bids
	r.Handle("/bid", with(bids.Create, asTradesman)).Methods(http.MethodPost)
	r.Handle("/bid/{projectId:[0-9]+}", with(bids.ListForProject, asUser)).Methods(http.MethodGet)
	r.Handle("/bid/{id:[0-9]+}", with(bids.Update, owns(access.KindBid, byID))).Methods(http.MethodPatch)
	r.Handle("/bid/{id:[0-9]+}", with(bids.Delete, owns(access.KindBid, byID))).Methods(http.MethodDelete)
	r.Handle("/bid/{id:[0-9]+}/accept", with(bids.Accept, asUser)).Methods(http.MethodPost)

	// chat
	r.Handle("/chat", with(chats.Create, owns(access.KindProject, access.BodyField("project_id")))).Methods(http.MethodPost)
	r.Handle("/chat/{projectId:[0-9]+}", with(chats.ListForProject, login)).Methods(http.MethodGet)
	r.Handle("/chat/{id:[0-9]+}", with(chats.Update, owns(access.KindChat, byID))).Methods(http.MethodPatch)
	r.Handle("/chat/{id:[0-9]+}", with(chats.Delete, owns(access.KindChat, byID))).Methods(http.MethodDelete)

	// photos
	r.HandleFunc("/photos", photos.List).Methods(http.MethodGet)
	r.Handle("/photos", with(photos.Create, asUser, owns(access.KindOwnedProject, access.BodyField("project_id")))).Methods(http.MethodPost)
	r.Handle("/photos/{id:[0-9]+}", with(photos.Get, login)).Methods(http.MethodGet)
	r.Handle("/photos/{id:[0-9]+}", with(photos.Update, owns(access.KindPhoto, byID))).Methods(http.MethodPatch)
	r.Handle("/photos/{id:[0-9]+}", with(photos.Delete, owns(access.KindPhoto, byID))).Methods(http.MethodDelete)

	// reviews
	r.Handle("/reviews", with(reviews.Create, asUser, owns(access.KindOwnedProject, access.BodyField("project_id")))).Methods(http.MethodPost)
	r.Handle("/reviews/{id:[0-9]+}", with(reviews.Get, login)).Methods(http.MethodGet)
	r.Handle("/reviews/{projectId:[0-9]+}", with(reviews.Update, owns(access.KindReview, access.RouteVar("projectId")))).Methods(http.MethodPatch)
	r.Handle("/reviews/{id:[0-9]+}", with(reviews.Delete, owns(access.KindReview, byID))).Methods(http.MethodDelete)

	return with(r.ServeHTTP,
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		RecoveryMiddleware(logger),
		SecurityHeadersMiddleware(),
		CORSMiddleware(cfg.CORSOrigins),
		auth.Authenticate(tokens, logger),
	)
}
