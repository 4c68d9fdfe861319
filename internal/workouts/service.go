package workouts

import (
	"context"
	"errors"

	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

type plansRepo interface {
	ListPlans(ctx context.Context, userID int, ordering string) ([]Plan, error)
	GetPlan(ctx context.Context, userID, id int) (*Plan, error)
	CreatePlan(ctx context.Context, plan Plan) (*Plan, error)
	UpdatePlan(ctx context.Context, plan *Plan, replaceExercises bool) error
	DeletePlan(ctx context.Context, userID, id int) error

	ListWorkoutExercises(ctx context.Context, userID int) ([]WorkoutExercise, error)
	GetWorkoutExercise(ctx context.Context, userID, id int) (*WorkoutExercise, error)
	CreateWorkoutExercise(ctx context.Context, userID int, we WorkoutExercise) (*WorkoutExercise, error)
	UpdateWorkoutExercise(ctx context.Context, userID int, we *WorkoutExercise) error
	DeleteWorkoutExercise(ctx context.Context, userID, id int) error
}

// Service applies the plan aggregate's write rules on top of the repo. Every operation is
// scoped to the given user; other users' rows are reported as not found.
type Service struct {
	repo plansRepo
}

func NewService(repo plansRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) ListPlans(ctx context.Context, userID int, ordering string) ([]Plan, error) {
	return s.repo.ListPlans(ctx, userID, ordering)
}

func (s *Service) GetPlan(ctx context.Context, userID, id int) (*Plan, error) {
	return s.repo.GetPlan(ctx, userID, id)
}

// CreatePlan creates the plan and one workout exercise per entry of create_workout_exercises.
func (s *Service) CreatePlan(ctx context.Context, userID int, in PlanInput) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	if err := in.Validate(false); err != nil {
		return nil, err
	}

	plan := Plan{UserID: userID}
	in.ApplyTo(&plan)
	plan.WorkoutExercises, _ = in.WorkoutExercises()
	if plan.WorkoutExercises == nil {
		plan.WorkoutExercises = []WorkoutExercise{}
	}

	created, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		return nil, unknownExerciseAsValidation(err)
	}
	return created, nil
}

// UpdatePlan merges the supplied scalar fields over the stored plan. A supplied
// create_workout_exercises list replaces all workout exercises of the plan.
// With partial unset (PUT) title, frequency and session_duration are required.
func (s *Service) UpdatePlan(ctx context.Context, userID, id int, in PlanInput, partial bool) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id), attribute.Bool("partial", partial))

	plan, err := s.repo.GetPlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(partial); err != nil {
		return nil, err
	}

	in.ApplyTo(plan)
	children, replace := in.WorkoutExercises()
	if replace {
		plan.WorkoutExercises = children
	}

	if err := s.repo.UpdatePlan(ctx, plan, replace); err != nil {
		return nil, unknownExerciseAsValidation(err)
	}
	return plan, nil
}

func (s *Service) DeletePlan(ctx context.Context, userID, id int) error {
	return s.repo.DeletePlan(ctx, userID, id)
}

func (s *Service) ListWorkoutExercises(ctx context.Context, userID int) ([]WorkoutExercise, error) {
	return s.repo.ListWorkoutExercises(ctx, userID)
}

func (s *Service) GetWorkoutExercise(ctx context.Context, userID, id int) (*WorkoutExercise, error) {
	return s.repo.GetWorkoutExercise(ctx, userID, id)
}

// CreateWorkoutExercise adds a workout exercise to one of the user's plans.
func (s *Service) CreateWorkoutExercise(ctx context.Context, userID int, in WorkoutExerciseInput) (_ *WorkoutExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workoutexercises.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := in.Validate(false); err != nil {
		return nil, err
	}

	var we WorkoutExercise
	in.ApplyTo(&we)
	created, err := s.repo.CreateWorkoutExercise(ctx, userID, we)
	if err != nil {
		return nil, unknownExerciseAsValidation(err)
	}
	return created, nil
}

// UpdateWorkoutExercise merges the supplied fields over the stored workout exercise. Moving it to
// a plan of another user is reported as not found.
func (s *Service) UpdateWorkoutExercise(ctx context.Context, userID, id int, in WorkoutExerciseInput, partial bool) (_ *WorkoutExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workoutexercises.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id), attribute.Bool("partial", partial))

	we, err := s.repo.GetWorkoutExercise(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(partial); err != nil {
		return nil, err
	}

	in.ApplyTo(we)
	if err := s.repo.UpdateWorkoutExercise(ctx, userID, we); err != nil {
		return nil, unknownExerciseAsValidation(err)
	}
	return we, nil
}

func (s *Service) DeleteWorkoutExercise(ctx context.Context, userID, id int) error {
	return s.repo.DeleteWorkoutExercise(ctx, userID, id)
}

func unknownExerciseAsValidation(err error) error {
	var unknownErr *UnknownExerciseError
	if errors.As(err, &unknownErr) {
		return unknownErr.ValidationError()
	}
	return err
}
