// Package access decides whether a principal may act on a resource. Every
// check is the same scan: list the ids of a kind the principal owns or takes
// part in, then look for the target id. Anything else is 401.
package access

import (
	"context"
	"net/http"
	"slices"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/auth"
	"github.com/clay099/work-order-backend/internal/web"
)

// Kind is a resource family with its own ownership rule.
type Kind int

const (
	// KindUser: the user profile whose id and email match the token.
	KindUser Kind = iota
	// KindTradesman: the tradesman profile whose id and email match the token.
	KindTradesman
	// KindProject: projects the principal requested or is assigned to.
	KindProject
	// KindOwnedProject: projects the principal requested (users only).
	KindOwnedProject
	// KindBid: bids the principal placed (tradesmen only).
	KindBid
	// KindChat: comments the principal wrote, by role-specific author column.
	KindChat
	// KindPhoto: photos the principal uploaded (users only).
	KindPhoto
	// KindReview: reviews the principal wrote, keyed by project id (users only).
	KindReview
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindTradesman:
		return "tradesman"
	case KindProject:
		return "project"
	case KindOwnedProject:
		return "owned project"
	case KindBid:
		return "bid"
	case KindChat:
		return "chat"
	case KindPhoto:
		return "photo"
	case KindReview:
		return "review"
	}
	return "unknown"
}

// ScanFunc lists the ids of one kind that p may act on.
type ScanFunc func(ctx context.Context, p auth.Principal) ([]int64, error)

// Guard evaluates ownership for every kind.
type Guard struct {
	scans  map[Kind]ScanFunc
	logger *zap.SugaredLogger
}

func NewGuard(scans map[Kind]ScanFunc, logger *zap.SugaredLogger) *Guard {
	return &Guard{scans: scans, logger: logger}
}

// Allow returns nil when p may act on the id of kind, otherwise Unauthorized.
// Lookup failures are logged and deny.
func (g *Guard) Allow(ctx context.Context, p auth.Principal, kind Kind, id int64) error {
	scan, ok := g.scans[kind]
	if !ok {
		g.logger.Errorw("no ownership rule", "kind", kind.String())
		return apperror.Unauthorized()
	}
	owned, err := scan(ctx, p)
	if err != nil {
		g.logger.Warnw("ownership lookup failed", "kind", kind.String(), "principal", p.ID, "err", err)
		return apperror.Unauthorized()
	}
	if !slices.Contains(owned, id) {
		g.logger.Debugw("access denied", "kind", kind.String(), "principal", p.ID, "role", p.Role, "target", id)
		return apperror.Unauthorized()
	}
	return nil
}

// AllowRequest is Allow for the principal on r.
func (g *Guard) AllowRequest(r *http.Request, kind Kind, id int64) error {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		return apperror.Unauthorized()
	}
	return g.Allow(r.Context(), p, kind, id)
}

// IDSource pulls the target id out of a request.
type IDSource func(r *http.Request) (int64, bool)

// RouteVar reads a numeric route variable.
func RouteVar(name string) IDSource {
	return func(r *http.Request) (int64, bool) {
		id, err := web.PathID(r, name)
		return id, err == nil
	}
}

// BodyField reads an integer field of the JSON body.
func BodyField(name string) IDSource {
	return func(r *http.Request) (int64, bool) {
		p, err := web.ReadPayload(r)
		if err != nil {
			return 0, false
		}
		return p.Int(name)
	}
}

// Rule binds a kind to where its target id comes from.
type Rule struct {
	Kind Kind
	From IDSource
}

// Require is route middleware enforcing rule before the handler runs.
func (g *Guard) Require(rule Rule) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := rule.From(r)
			if !ok {
				web.Error(w, r, g.logger, apperror.Unauthorized())
				return
			}
			if err := g.AllowRequest(r, rule.Kind, id); err != nil {
				web.Error(w, r, g.logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
