package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/fitnesstracker/internal/apierr"
	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=catalog_test

type catalogRepo interface {
	ListMuscleGroups(ctx context.Context) ([]MuscleGroup, error)
	GetMuscleGroup(ctx context.Context, id int) (*MuscleGroup, error)
	CreateMuscleGroup(ctx context.Context, mg MuscleGroup) (*MuscleGroup, error)
	UpdateMuscleGroup(ctx context.Context, mg *MuscleGroup) error
	DeleteMuscleGroup(ctx context.Context, id int) error

	ListExercises(ctx context.Context) ([]Exercise, error)
	GetExercise(ctx context.Context, id int) (*Exercise, error)
	CreateExercise(ctx context.Context, e Exercise) (*Exercise, error)
	UpdateExercise(ctx context.Context, e *Exercise) error
	DeleteExercise(ctx context.Context, id int) error
}

type responseCache interface {
	Get(key string) ([]byte, bool)
	Generation() uint64
	SetIfGeneration(key string, value []byte, generation uint64) bool
	Clear()
}

const (
	muscleGroupsCacheKey = "muscle-groups"
	exercisesCacheKey    = "exercises"
)

type Handler struct {
	repo    catalogRepo
	cache   responseCache
	metrics *metrics.Manager
}

func NewHandler(repo catalogRepo, cache responseCache, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	mgRouter := r.PathPrefix("/muscle-groups").Subrouter()
	mgRouter.HandleFunc("", handler.HandleListMuscleGroups).Methods("GET", "HEAD").Name("list-muscle-groups")
	mgRouter.HandleFunc("", handler.HandleCreateMuscleGroup).Methods("POST").Name("new-muscle-group")
	mgRouter.HandleFunc("/{id:[0-9]+}", handler.HandleGetMuscleGroup).Methods("GET", "HEAD").Name("get-muscle-group")
	mgRouter.HandleFunc("/{id:[0-9]+}", handler.HandleUpdateMuscleGroup).Methods("PUT", "PATCH").Name("update-muscle-group")
	mgRouter.HandleFunc("/{id:[0-9]+}", handler.HandleDeleteMuscleGroup).Methods("DELETE").Name("delete-muscle-group")

	exRouter := r.PathPrefix("/exercises").Subrouter()
	exRouter.HandleFunc("", handler.HandleListExercises).Methods("GET", "HEAD").Name("list-exercises")
	exRouter.HandleFunc("", handler.HandleCreateExercise).Methods("POST").Name("new-exercise")
	exRouter.HandleFunc("/{id:[0-9]+}", handler.HandleGetExercise).Methods("GET", "HEAD").Name("get-exercise")
	exRouter.HandleFunc("/{id:[0-9]+}", handler.HandleUpdateExercise).Methods("PUT", "PATCH").Name("update-exercise")
	exRouter.HandleFunc("/{id:[0-9]+}", handler.HandleDeleteExercise).Methods("DELETE").Name("delete-exercise")
}

// writeCached serves key from the response cache, or loads, caches and writes it.
func (handler *Handler) writeCached(w http.ResponseWriter, r *http.Request, key string, load func() (any, error)) {
	if cached, found := handler.cache.Get(key); found {
		handler.metrics.CounterCatalogCache.WithLabelValues("hit").Inc()
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached, http.StatusOK)
		return
	}
	handler.metrics.CounterCatalogCache.WithLabelValues("miss").Inc()

	// a write committed during load clears the cache and invalidates this result
	generation := handler.cache.Generation()
	v, err := load()
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	respBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal catalog response [%s]: %s", key, err)
		apierr.WriteError(w, r, err)
		return
	}

	handler.cache.SetIfGeneration(key, respBytes, generation)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}

func itemCacheKey(collection string, id int) string {
	return collection + "/" + strconv.Itoa(id)
}

func notFound(err, sentinel error) error {
	if errors.Is(err, sentinel) {
		return apierr.ErrNotFound
	}
	return err
}

func isPartial(r *http.Request) bool {
	return r.Method == http.MethodPatch
}

func (handler *Handler) HandleListMuscleGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.musclegroups.list")
	defer span.End()

	handler.writeCached(w, r, muscleGroupsCacheKey, func() (any, error) {
		muscleGroups, err := handler.repo.ListMuscleGroups(ctx)
		if err != nil {
			return nil, err
		}
		if muscleGroups == nil {
			muscleGroups = []MuscleGroup{}
		}
		return muscleGroups, nil
	})
}

func (handler *Handler) HandleGetMuscleGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.musclegroups.get")
	defer span.End()

	id, err := apierr.PathID(r)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	handler.writeCached(w, r, itemCacheKey(muscleGroupsCacheKey, id), func() (any, error) {
		mg, err := handler.repo.GetMuscleGroup(ctx, id)
		return mg, notFound(err, ErrMuscleGroupNotFound)
	})
}

func (handler *Handler) HandleCreateMuscleGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.musclegroups.new")
	defer span.End()

	var in MuscleGroupInput
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}
	if err := in.Validate(false); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	var mg MuscleGroup
	in.ApplyTo(&mg)
	created, err := handler.repo.CreateMuscleGroup(ctx, mg)
	if err != nil {
		log.Errorf("failed to add muscle group [%s]: %s", mg.Name, err)
		apierr.WriteError(w, r, err)
		return
	}
	handler.cache.Clear()

	log.Debugf("new muscle group added: [%s]: %d", created.Name, created.ID)
	pkg.WriteJSON(w, created, http.StatusCreated)
}

func (handler *Handler) HandleUpdateMuscleGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.musclegroups.update")
	defer span.End()

	id, err := apierr.PathID(r)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	mg, err := handler.repo.GetMuscleGroup(ctx, id)
	if err != nil {
		apierr.WriteError(w, r, notFound(err, ErrMuscleGroupNotFound))
		return
	}

	var in MuscleGroupInput
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}
	if err := in.Validate(isPartial(r)); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	in.ApplyTo(mg)
	if err := handler.repo.UpdateMuscleGroup(ctx, mg); err != nil {
		log.Errorf("failed to update muscle group %d: %s", id, err)
		apierr.WriteError(w, r, notFound(err, ErrMuscleGroupNotFound))
		return
	}
	handler.cache.Clear()

	pkg.WriteJSON(w, mg, http.StatusOK)
}

func (handler *Handler) HandleDeleteMuscleGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.musclegroups.delete")
	defer span.End()

	id, err := apierr.PathID(r)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	if err := handler.repo.DeleteMuscleGroup(ctx, id); err != nil {
		apierr.WriteError(w, r, notFound(err, ErrMuscleGroupNotFound))
		return
	}
	handler.cache.Clear()

	pkg.WriteNoContent(w)
}

func (handler *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	handler.writeCached(w, r, exercisesCacheKey, func() (any, error) {
		exercises, err := handler.repo.ListExercises(ctx)
		if err != nil {
			return nil, err
		}
		if exercises == nil {
			exercises = []Exercise{}
		}
		return exercises, nil
	})
}

func (handler *Handler) HandleGetExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.get")
	defer span.End()

	id, err := apierr.PathID(r)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	handler.writeCached(w, r, itemCacheKey(exercisesCacheKey, id), func() (any, error) {
		e, err := handler.repo.GetExercise(ctx, id)
		return e, notFound(err, ErrExerciseNotFound)
	})
}

func (handler *Handler) HandleCreateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.new")
	defer span.End()

	var in ExerciseInput
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}
	if err := in.Validate(false); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	var e Exercise
	in.ApplyTo(&e)
	created, err := handler.repo.CreateExercise(ctx, e)
	if err != nil {
		apierr.WriteError(w, r, exerciseWriteError(err))
		return
	}
	handler.cache.Clear()

	log.Debugf("new exercise added: [%s]: %d", created.Name, created.ID)
	pkg.WriteJSON(w, created, http.StatusCreated)
}

func (handler *Handler) HandleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.update")
	defer span.End()

	id, err := apierr.PathID(r)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	e, err := handler.repo.GetExercise(ctx, id)
	if err != nil {
		apierr.WriteError(w, r, notFound(err, ErrExerciseNotFound))
		return
	}

	var in ExerciseInput
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}
	if err := in.Validate(isPartial(r)); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	in.ApplyTo(e)
	if err := handler.repo.UpdateExercise(ctx, e); err != nil {
		apierr.WriteError(w, r, exerciseWriteError(err))
		return
	}
	handler.cache.Clear()

	pkg.WriteJSON(w, e, http.StatusOK)
}

func (handler *Handler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.delete")
	defer span.End()

	id, err := apierr.PathID(r)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	if err := handler.repo.DeleteExercise(ctx, id); err != nil {
		apierr.WriteError(w, r, notFound(err, ErrExerciseNotFound))
		return
	}
	handler.cache.Clear()

	pkg.WriteNoContent(w)
}

func exerciseWriteError(err error) error {
	var unknownMG *UnknownMuscleGroupError
	if errors.As(err, &unknownMG) {
		return unknownMG.ValidationError()
	}
	return notFound(err, ErrExerciseNotFound)
}
