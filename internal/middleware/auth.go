package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/fitnesstracker/internal/apierr"
	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type authenticator interface {
	Authenticate(ctx context.Context, authHeader string) (*auth.Caller, error)
}

// publicRoute is a path (and everything below it) reachable without credentials for the given methods.
type publicRoute struct {
	path    string
	methods map[string]bool
}

func (pr publicRoute) matches(r *http.Request) bool {
	if !pr.methods[r.Method] {
		return false
	}
	return r.URL.Path == pr.path || strings.HasPrefix(r.URL.Path, pr.path+"/")
}

type AuthMiddlewareHandler struct {
	authenticator authenticator
	publicRoutes  []publicRoute
}

func NewAuthMiddlewareHandler(authenticator authenticator) *AuthMiddlewareHandler {
	readOnly := map[string]bool{http.MethodGet: true, http.MethodHead: true}
	postOnly := map[string]bool{http.MethodPost: true}
	return &AuthMiddlewareHandler{
		authenticator: authenticator,
		publicRoutes: []publicRoute{
			// catalog: open read, authenticated write
			{path: "/api/muscle-groups", methods: readOnly},
			{path: "/api/exercises", methods: readOnly},

			// account creation and login
			{path: "/api/user/create", methods: postOnly},
			{path: "/api/user/token", methods: postOnly},

			{path: "/health", methods: readOnly},
		},
	}
}

func (h *AuthMiddlewareHandler) isPublic(r *http.Request) bool {
	for _, route := range h.publicRoutes {
		if route.matches(r) {
			return true
		}
	}
	return false
}

// AuthCheck attaches the authenticated caller to the request context. Requests with
// credentials that do not resolve are rejected everywhere; requests without any are
// let through only on public routes.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if h.isPublic(r) {
					span.SetStatus(codes.Ok, "public")
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				log.Tracef("[missing credentials] [auth middleware] unauthorized => %s %s", r.Method, r.URL.Path)
				span.SetStatus(codes.Error, "missing-credentials")
				apierr.WriteError(w, r, apierr.ErrNotAuthenticated)
				return
			}

			caller, err := h.authenticator.Authenticate(ctx, authHeader)
			if err != nil {
				span.SetStatus(codes.Error, "authenticate-failed")
				span.RecordError(err)
				apierr.WriteError(w, r, err)
				return
			}

			span.SetAttributes(attribute.Int("account.id", caller.AccountID))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithCaller(ctx, caller)))
		})
	}
}
