package progress

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/fitnesstracker/internal/apierr"
	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progress_test

type entriesRepo interface {
	List(ctx context.Context, userID int, filter Filter) ([]Entry, error)
	Get(ctx context.Context, userID, id int) (*Entry, error)
	Create(ctx context.Context, e Entry) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, userID, id int) error
}

type Handler struct {
	repo    entriesRepo
	metrics *metrics.Manager
}

func NewHandler(repo entriesRepo, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metrics,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	progressRouter := r.PathPrefix("/fitness-progress").Subrouter()
	progressRouter.HandleFunc("", handler.HandleList).Methods("GET", "HEAD").Name("list-progress")
	progressRouter.HandleFunc("", handler.HandleCreate).Methods("POST").Name("new-progress")
	progressRouter.HandleFunc("/{id:[0-9]+}", handler.HandleGet).Methods("GET", "HEAD").Name("get-progress")
	progressRouter.HandleFunc("/{id:[0-9]+}", handler.HandleUpdate).Methods("PUT", "PATCH").Name("update-progress")
	progressRouter.HandleFunc("/{id:[0-9]+}", handler.HandleDelete).Methods("DELETE").Name("delete-progress")
}

func requestCaller(w http.ResponseWriter, r *http.Request) (*auth.Caller, bool) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		apierr.WriteError(w, r, apierr.ErrNotAuthenticated)
		return nil, false
	}
	return caller, true
}

// parseFilter reads ?ordering=, ?from= and ?to=.
func parseFilter(r *http.Request) (Filter, error) {
	query := r.URL.Query()
	filter := Filter{Ordering: query.Get("ordering")}

	validationErr := &apierr.ValidationError{}
	parseDate := func(field string) *time.Time {
		raw := query.Get(field)
		if raw == "" {
			return nil
		}
		date, err := time.Parse(DateLayout, raw)
		if err != nil {
			validationErr.Add(field, apierr.MsgDateFormat)
			return nil
		}
		return &date
	}
	filter.From = parseDate("from")
	filter.To = parseDate("to")

	return filter, validationErr.OrNil()
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.list")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	entries, err := handler.repo.List(ctx, caller.AccountID, filter)
	if err != nil {
		log.Errorf("list progress entries for %d: %s", caller.AccountID, err)
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteJSON(w, entries, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.get")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}
	id, err := apierr.PathID(r)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	entry, err := handler.repo.Get(ctx, caller.AccountID, id)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteJSON(w, entry, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.new")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}

	var in EntryInput
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}
	if err := in.Validate(false); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	entry := Entry{UserID: caller.AccountID}
	in.ApplyTo(&entry)
	created, err := handler.repo.Create(ctx, entry)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	handler.metrics.CounterProgressEntries.Inc()
	span.SetAttributes(attribute.Int("id", created.ID))
	log.Debugf("new progress entry for %d: %s", caller.AccountID, created.Date.Format(DateLayout))
	pkg.WriteJSON(w, created, http.StatusCreated)
}

// HandleUpdate merges the payload over the stored entry; PUT requires date and weight.
func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.update")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}
	id, err := apierr.PathID(r)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	var in EntryInput
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	entry, err := handler.repo.Get(ctx, caller.AccountID, id)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}
	if err := in.Validate(r.Method == http.MethodPatch); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	in.ApplyTo(entry)
	if err := handler.repo.Update(ctx, entry); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteJSON(w, entry, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.delete")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}
	id, err := apierr.PathID(r)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	if err := handler.repo.Delete(ctx, caller.AccountID, id); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteNoContent(w)
}
