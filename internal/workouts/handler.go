package workouts

import (
	"net/http"

	"github.com/2beens/fitnesstracker/internal/apierr"
	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	service *Service
	metrics *metrics.Manager
}

func NewHandler(service *Service, metrics *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metrics,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	plansRouter := r.PathPrefix("/workout-plans").Subrouter()
	plansRouter.HandleFunc("", handler.HandleListPlans).Methods("GET", "HEAD").Name("list-workout-plans")
	plansRouter.HandleFunc("", handler.HandleCreatePlan).Methods("POST").Name("new-workout-plan")
	plansRouter.HandleFunc("/{id:[0-9]+}", handler.HandleGetPlan).Methods("GET", "HEAD").Name("get-workout-plan")
	plansRouter.HandleFunc("/{id:[0-9]+}", handler.HandleUpdatePlan).Methods("PUT", "PATCH").Name("update-workout-plan")
	plansRouter.HandleFunc("/{id:[0-9]+}", handler.HandleDeletePlan).Methods("DELETE").Name("delete-workout-plan")

	weRouter := r.PathPrefix("/workout-exercises").Subrouter()
	weRouter.HandleFunc("", handler.HandleListWorkoutExercises).Methods("GET", "HEAD").Name("list-workout-exercises")
	weRouter.HandleFunc("", handler.HandleCreateWorkoutExercise).Methods("POST").Name("new-workout-exercise")
	weRouter.HandleFunc("/{id:[0-9]+}", handler.HandleGetWorkoutExercise).Methods("GET", "HEAD").Name("get-workout-exercise")
	weRouter.HandleFunc("/{id:[0-9]+}", handler.HandleUpdateWorkoutExercise).Methods("PUT", "PATCH").Name("update-workout-exercise")
	weRouter.HandleFunc("/{id:[0-9]+}", handler.HandleDeleteWorkoutExercise).Methods("DELETE").Name("delete-workout-exercise")
}

// requestCaller returns the authenticated caller; the auth middleware guarantees one on these routes.
func requestCaller(w http.ResponseWriter, r *http.Request) (*auth.Caller, bool) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		apierr.WriteError(w, r, apierr.ErrNotAuthenticated)
		return nil, false
	}
	return caller, true
}

func (handler *Handler) HandleListPlans(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.list")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}

	plans, err := handler.service.ListPlans(ctx, caller.AccountID, r.URL.Query().Get("ordering"))
	if err != nil {
		log.Errorf("list plans for %d: %s", caller.AccountID, err)
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteJSON(w, plans, http.StatusOK)
}

func (handler *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.get")
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

	plan, err := handler.service.GetPlan(ctx, caller.AccountID, id)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteJSON(w, plan, http.StatusOK)
}

func (handler *Handler) HandleCreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.new")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}

	var in PlanInput
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	plan, err := handler.service.CreatePlan(ctx, caller.AccountID, in)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	handler.metrics.CounterWorkoutPlans.Inc()
	span.SetAttributes(attribute.Int("id", plan.ID))
	log.Debugf("new workout plan added for %d: [%s] %d, %d exercises", caller.AccountID, plan.Title, plan.ID, len(plan.WorkoutExercises))
	pkg.WriteJSON(w, plan, http.StatusCreated)
}

func (handler *Handler) HandleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.update")
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

	var in PlanInput
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	plan, err := handler.service.UpdatePlan(ctx, caller.AccountID, id, in, r.Method == http.MethodPatch)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteJSON(w, plan, http.StatusOK)
}

func (handler *Handler) HandleDeletePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.delete")
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

	if err := handler.service.DeletePlan(ctx, caller.AccountID, id); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteNoContent(w)
}

func (handler *Handler) HandleListWorkoutExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutexercises.list")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}

	exercises, err := handler.service.ListWorkoutExercises(ctx, caller.AccountID)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteJSON(w, exercises, http.StatusOK)
}

func (handler *Handler) HandleGetWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutexercises.get")
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

	we, err := handler.service.GetWorkoutExercise(ctx, caller.AccountID, id)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteJSON(w, we, http.StatusOK)
}

func (handler *Handler) HandleCreateWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutexercises.new")
	defer span.End()

	caller, ok := requestCaller(w, r)
	if !ok {
		return
	}

	var in WorkoutExerciseInput
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	we, err := handler.service.CreateWorkoutExercise(ctx, caller.AccountID, in)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteJSON(w, we, http.StatusCreated)
}

func (handler *Handler) HandleUpdateWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutexercises.update")
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

	var in WorkoutExerciseInput
	if err := apierr.DecodeJSON(r, &in); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	we, err := handler.service.UpdateWorkoutExercise(ctx, caller.AccountID, id, in, r.Method == http.MethodPatch)
	if err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteJSON(w, we, http.StatusOK)
}

func (handler *Handler) HandleDeleteWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutexercises.delete")
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

	if err := handler.service.DeleteWorkoutExercise(ctx, caller.AccountID, id); err != nil {
		apierr.WriteError(w, r, err)
		return
	}

	pkg.WriteNoContent(w)
}
