package users

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/fitnesstracker/internal/apierr"
	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/middleware"
	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=users_test

type accountService interface {
	CreateAccount(ctx context.Context, email, password string, extra auth.AccountExtra) (*auth.Account, error)
	Authenticate(ctx context.Context, email, password string) (*auth.Account, error)
	GetAccount(ctx context.Context, id int) (*auth.Account, error)
	UpdateAccount(ctx context.Context, id int, update auth.AccountUpdate) (*auth.Account, error)
	DeleteAccount(ctx context.Context, id int) error
}

type sessionManager interface {
	Login(ctx context.Context, accountID int, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) error
}

type accessTokenIssuer interface {
	Issue(account *auth.Account) (string, time.Time, error)
}

const msgUnableToLogin = "Unable to authenticate with provided credentials."

type Handler struct {
	accounts accountService
	sessions sessionManager
	tokens   accessTokenIssuer
	metrics  *metrics.Manager
}

func NewHandler(
	accounts accountService,
	sessions sessionManager,
	tokens accessTokenIssuer,
	metrics *metrics.Manager,
) *Handler {
	return &Handler{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		metrics:  metrics,
	}
}

// SetupRoutes registers the /user routes. Account creation and token requests are rate limited per client IP.
func (handler *Handler) SetupRoutes(
	r *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	userRouter := r.PathPrefix("/user").Subrouter()

	createLimit := middleware.RateLimit(rateLimiter, handler.metrics, "user-create", allowedPerMin)
	tokenLimit := middleware.RateLimit(rateLimiter, handler.metrics, "user-token", allowedPerMin)
	userRouter.
		Handle("/create", createLimit(http.HandlerFunc(handler.HandleCreate))).
		Methods("POST").Name("user-create")
	userRouter.
		Handle("/token", tokenLimit(http.HandlerFunc(handler.HandleObtainToken))).
		Methods("POST").Name("user-token")

	userRouter.HandleFunc("/logout", handler.HandleLogout).Methods("POST").Name("user-logout")
	userRouter.HandleFunc("/me", handler.HandleGetMe).Methods("GET", "HEAD").Name("user-me")
	userRouter.HandleFunc("/me", handler.HandleUpdateMe).Methods("PUT", "PATCH").Name("user-me-update")
	userRouter.HandleFunc("/me", handler.HandleDeleteMe).Methods("DELETE").Name("user-me-delete")
}

type accountInput struct {
	Email    *string `json:"email" validate:"omitnil,email,max=255"`
	Password *string `json:"password" validate:"omitnil,min=5,max=128"`
	Name     *string `json:"name" validate:"omitnil,max=255"`
}

// validate requires email and password unless partial; blank values are left to auth.Service.
func (in accountInput) validate(partial bool) error {
	var missing []string
	if !partial {
		if in.Email == nil {
			missing = append(missing, "email")
		}
		if in.Password == nil {
			missing = append(missing, "password")
		}
	}
	check := in
	if check.Email != nil && *check.Email == "" {
		check.Email = nil
	}
	if check.Password != nil && *check.Password == "" {
		check.Password = nil
	}
	return apierr.ValidateRequired(check, missing...)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.create")
	defer span.End()

	var in accountInput
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}
	if err := in.validate(false); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	extra := auth.AccountExtra{}
	if in.Name != nil {
		extra.Name = *in.Name
	}
	account, err := handler.accounts.CreateAccount(ctx, *in.Email, *in.Password, extra)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	handler.metrics.CounterAccountsCreated.Inc()
	span.SetAttributes(attribute.Int("account.id", account.ID))
	log.Debugf("new account created: %d", account.ID)
	pkg.WriteJSON(w, account, http.StatusCreated)
}

type tokenResponse struct {
	Token     string    `json:"token"`
	Access    string    `json:"access"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HandleObtainToken exchanges email and password for a session token and a short lived access token.
func (handler *Handler) HandleObtainToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.token")
	defer span.End()

	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	validationErr := &apierr.ValidationError{}
	if in.Email == "" {
		validationErr.Add("email", apierr.MsgRequired)
	}
	if in.Password == "" {
		validationErr.Add("password", apierr.MsgRequired)
	}
	if err := validationErr.OrNil(); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	account, err := handler.accounts.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWrongCredentials) {
			handler.metrics.CounterLogins.WithLabelValues("failure").Inc()
			log.Tracef("failed login attempt for: %s", in.Email)
			apierr.WriteError(w, r, apierr.NewValidationError("non_field_errors", msgUnableToLogin))
			return
		}
		apierr.WriteError(w, r, err)
		return
	}

	token, err := handler.sessions.Login(ctx, account.ID, time.Now())
	if err != nil {
		log.Errorf("login failed, create session for %d: %s", account.ID, err)
		apierr.WriteError(w, r, err)
		return
	}
	access, expiresAt, err := handler.tokens.Issue(account)
	if err != nil {
		log.Errorf("login failed, issue access token for %d: %s", account.ID, err)
		apierr.WriteError(w, r, err)
		return
	}

	handler.metrics.CounterLogins.WithLabelValues("success").Inc()
	span.SetAttributes(attribute.Int("account.id", account.ID))
	pkg.WriteJSON(w, tokenResponse{
		Token:     token,
		Access:    access,
		ExpiresAt: expiresAt.UTC(),
	}, http.StatusOK)
}

func requestCaller(w http.ResponseWriter, r *http.Request) (*auth.Caller, bool) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		apierr.WriteError(w, r, apierr.ErrNotAuthenticated)
		return nil, false
	}
	return caller, true
}

func accountNotFound(err error) error {
	if errors.Is(err, auth.ErrAccountNotFound) {
		return apierr.ErrNotFound
	}
	return err
}

// HandleLogout ends the session the request was authenticated with. Access tokens simply expire.
func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.logout")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}

	if caller.SessionToken != "" {
		if err := handler.sessions.Logout(ctx, caller.SessionToken); err != nil {
			log.Errorf("logout %d: %s", caller.AccountID, err)
			apierr.WriteError(w, r, err)
			return
		}
	}

	pkg.WriteNoContent(w)
}

func (handler *Handler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.me")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}

	account, err := handler.accounts.GetAccount(ctx, caller.AccountID)
	if err != nil {
		apierr.WriteError(w, r, accountNotFound(err))
		return
	}

	pkg.WriteJSON(w, account, http.StatusOK)
}

func (handler *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.me.update")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}

	var in accountInput
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}
	if err := in.validate(r.Method == http.MethodPatch); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	account, err := handler.accounts.UpdateAccount(ctx, caller.AccountID, auth.AccountUpdate{
		Email:    in.Email,
		Name:     in.Name,
		Password: in.Password,
	})
	if err != nil {
		apierr.WriteError(w, r, accountNotFound(err))
		return
	}

	pkg.WriteJSON(w, account, http.StatusOK)
}

// HandleDeleteMe removes the account with all of its plans and progress entries.
func (handler *Handler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.me.delete")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}

	if err := handler.accounts.DeleteAccount(ctx, caller.AccountID); err != nil {
		apierr.WriteError(w, r, accountNotFound(err))
		return
	}
	if caller.SessionToken != "" {
		if err := handler.sessions.Logout(ctx, caller.SessionToken); err != nil {
			log.Warnf("delete account %d, end session: %s", caller.AccountID, err)
		}
	}

	log.Debugf("account deleted: %d", caller.AccountID)
	pkg.WriteNoContent(w)
}
