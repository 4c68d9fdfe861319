package workouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitnesstracker/internal/apierr"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrPlanNotFound            = fmt.Errorf("workout plan %w", apierr.ErrNotFound)
	ErrWorkoutExerciseNotFound = fmt.Errorf("workout exercise %w", apierr.ErrNotFound)
)

const exerciseFKConstraint = "workout_exercise_exercise_id_fkey"

// planOrderings maps the accepted ?ordering= values onto ORDER BY clauses.
var planOrderings = map[string]string{
	"id":                "id",
	"-id":               "id DESC",
	"title":             "title, id",
	"-title":            "title DESC, id",
	"frequency":         "frequency, id",
	"-frequency":        "frequency DESC, id",
	"session_duration":  "session_duration, id",
	"-session_duration": "session_duration DESC, id",
}

const (
	planColumns            = `id, user_id, title, frequency, goal, session_duration`
	workoutExerciseColumns = `we.id, we.workout_plan_id, we.exercise_id, we.sets, we.repetitions, we.duration`
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanPlan(row pgx.Row) (Plan, error) {
	var p Plan
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Frequency, &p.Goal, &p.SessionDuration)
	return p, err
}

func scanWorkoutExercise(row pgx.Row) (WorkoutExercise, error) {
	var we WorkoutExercise
	err := row.Scan(&we.ID, &we.WorkoutPlanID, &we.ExerciseID, &we.Sets, &we.Repetitions, &we.Duration)
	return we, err
}

// ListPlans returns the user's plans with their workout exercises. An unknown ordering falls back to id.
func (r *Repo) ListPlans(ctx context.Context, userID int, ordering string) (_ []Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	orderBy, ok := planOrderings[ordering]
	if !ok {
		orderBy = planOrderings["id"]
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+planColumns+` FROM workout_plan WHERE user_id = $1 ORDER BY `+orderBy+`;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	plans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Plan, error) {
		return scanPlan(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collect plans: %w", err)
	}
	if len(plans) == 0 {
		return []Plan{}, nil
	}

	planIDs := make([]int, 0, len(plans))
	for _, p := range plans {
		planIDs = append(planIDs, p.ID)
	}
	children, err := r.workoutExercisesOf(ctx, planIDs)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		plans[i].WorkoutExercises = children[plans[i].ID]
		if plans[i].WorkoutExercises == nil {
			plans[i].WorkoutExercises = []WorkoutExercise{}
		}
	}

	span.SetAttributes(attribute.Int("plans.count", len(plans)))
	return plans, nil
}

// workoutExercisesOf returns the workout exercises of the given plans, grouped by plan id.
func (r *Repo) workoutExercisesOf(ctx context.Context, planIDs []int) (map[int][]WorkoutExercise, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutExerciseColumns+` FROM workout_exercise we
			WHERE we.workout_plan_id = ANY($1)
		ORDER BY we.id;`,
		planIDs,
	)
	if err != nil {
		return nil, err
	}
	exercises, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (WorkoutExercise, error) {
		return scanWorkoutExercise(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collect workout exercises: %w", err)
	}

	byPlan := make(map[int][]WorkoutExercise, len(planIDs))
	for _, we := range exercises {
		byPlan[we.WorkoutPlanID] = append(byPlan[we.WorkoutPlanID], we)
	}
	return byPlan, nil
}

func (r *Repo) GetPlan(ctx context.Context, userID, id int) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id), attribute.Int("user.id", userID))

	plan, err := scanPlan(r.db.QueryRow(
		ctx,
		`SELECT `+planColumns+` FROM workout_plan WHERE id = $1 AND user_id = $2;`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	children, err := r.workoutExercisesOf(ctx, []int{plan.ID})
	if err != nil {
		return nil, err
	}
	plan.WorkoutExercises = children[plan.ID]
	if plan.WorkoutExercises == nil {
		plan.WorkoutExercises = []WorkoutExercise{}
	}
	return &plan, nil
}

// CreatePlan inserts the plan and all of its workout exercises in one transaction.
func (r *Repo) CreatePlan(ctx context.Context, plan Plan) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", plan.UserID),
		attribute.Int("workout_exercises.count", len(plan.WorkoutExercises)),
	)

	if err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO workout_plan (user_id, title, frequency, goal, session_duration)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
			plan.UserID, plan.Title, plan.Frequency, plan.Goal, plan.SessionDuration,
		).Scan(&plan.ID); err != nil {
			return fmt.Errorf("insert plan: %w", err)
		}
		return insertWorkoutExercises(ctx, tx, plan.ID, plan.WorkoutExercises)
	}); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("id", plan.ID))
	return &plan, nil
}

// UpdatePlan stores the plan's scalar fields. With replaceExercises, every existing workout
// exercise is deleted and plan.WorkoutExercises inserted, in the same transaction.
func (r *Repo) UpdatePlan(ctx context.Context, plan *Plan, replaceExercises bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("id", plan.ID),
		attribute.Bool("replace_exercises", replaceExercises),
	)

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(
			ctx,
			`UPDATE workout_plan SET title = $1, frequency = $2, goal = $3, session_duration = $4
				WHERE id = $5 AND user_id = $6;`,
			plan.Title, plan.Frequency, plan.Goal, plan.SessionDuration, plan.ID, plan.UserID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrPlanNotFound
		}

		if !replaceExercises {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM workout_exercise WHERE workout_plan_id = $1;`, plan.ID); err != nil {
			return fmt.Errorf("delete workout exercises: %w", err)
		}
		return insertWorkoutExercises(ctx, tx, plan.ID, plan.WorkoutExercises)
	})
}

func (r *Repo) DeletePlan(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id), attribute.Int("user.id", userID))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_plan WHERE id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// insertWorkoutExercises inserts the children of planID and fills in their ids. Unknown exercises
// are reported with the index of the offending child.
func insertWorkoutExercises(ctx context.Context, tx pgx.Tx, planID int, exercises []WorkoutExercise) error {
	if len(exercises) == 0 {
		return nil
	}

	exerciseIDs := make([]int, 0, len(exercises))
	for _, we := range exercises {
		exerciseIDs = append(exerciseIDs, we.ExerciseID)
	}
	rows, err := tx.Query(ctx, `SELECT id FROM exercise WHERE id = ANY($1);`, exerciseIDs)
	if err != nil {
		return fmt.Errorf("lookup exercises: %w", err)
	}
	existing, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return fmt.Errorf("collect exercises: %w", err)
	}
	found := make(map[int]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	for i, we := range exercises {
		if !found[we.ExerciseID] {
			return &UnknownExerciseError{
				Field: fmt.Sprintf("create_workout_exercises[%d].exercise", i),
				ID:    we.ExerciseID,
			}
		}
	}

	for i := range exercises {
		exercises[i].WorkoutPlanID = planID
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO workout_exercise (workout_plan_id, exercise_id, sets, repetitions, duration)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
			planID, exercises[i].ExerciseID, exercises[i].Sets, exercises[i].Repetitions, exercises[i].Duration,
		).Scan(&exercises[i].ID); err != nil {
			return fmt.Errorf("insert workout exercise %d: %w", i, err)
		}
	}
	return nil
}

func (r *Repo) ListWorkoutExercises(ctx context.Context, userID int) (_ []WorkoutExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutexercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutExerciseColumns+` FROM workout_exercise we
			JOIN workout_plan p ON p.id = we.workout_plan_id
			WHERE p.user_id = $1
		ORDER BY we.id;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	exercises, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (WorkoutExercise, error) {
		return scanWorkoutExercise(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collect workout exercises: %w", err)
	}
	if exercises == nil {
		exercises = []WorkoutExercise{}
	}
	return exercises, nil
}

func (r *Repo) GetWorkoutExercise(ctx context.Context, userID, id int) (_ *WorkoutExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutexercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id), attribute.Int("user.id", userID))

	we, err := scanWorkoutExercise(r.db.QueryRow(
		ctx,
		`SELECT `+workoutExerciseColumns+` FROM workout_exercise we
			JOIN workout_plan p ON p.id = we.workout_plan_id
			WHERE we.id = $1 AND p.user_id = $2;`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutExerciseNotFound
		}
		return nil, err
	}
	return &we, nil
}

// CreateWorkoutExercise inserts we into its plan, provided the plan belongs to userID.
func (r *Repo) CreateWorkoutExercise(ctx context.Context, userID int, we WorkoutExercise) (_ *WorkoutExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutexercises.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("plan.id", we.WorkoutPlanID), attribute.Int("user.id", userID))

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO workout_exercise (workout_plan_id, exercise_id, sets, repetitions, duration)
			SELECT p.id, $3::int, $4::int, $5::int, $6::int FROM workout_plan p WHERE p.id = $1 AND p.user_id = $2
		RETURNING id;`,
		we.WorkoutPlanID, userID, we.ExerciseID, we.Sets, we.Repetitions, we.Duration,
	).Scan(&we.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, workoutExerciseWriteError(err, we.ExerciseID)
	}

	return &we, nil
}

// UpdateWorkoutExercise stores we. The target plan must belong to userID.
func (r *Repo) UpdateWorkoutExercise(ctx context.Context, userID int, we *WorkoutExercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutexercises.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", we.ID), attribute.Int("user.id", userID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_exercise
			SET workout_plan_id = p.id, exercise_id = $3, sets = $4, repetitions = $5, duration = $6
			FROM workout_plan p
			WHERE workout_exercise.id = $7 AND p.id = $1 AND p.user_id = $2;`,
		we.WorkoutPlanID, userID, we.ExerciseID, we.Sets, we.Repetitions, we.Duration, we.ID,
	)
	if err != nil {
		return workoutExerciseWriteError(err, we.ExerciseID)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *Repo) DeleteWorkoutExercise(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutexercises.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id), attribute.Int("user.id", userID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_exercise we USING workout_plan p
			WHERE we.id = $1 AND p.id = we.workout_plan_id AND p.user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutExerciseNotFound
	}
	return nil
}

func workoutExerciseWriteError(err error, exerciseID int) error {
	if pkg.IsForeignKeyViolationError(err) && pkg.ViolatedConstraint(err) == exerciseFKConstraint {
		return &UnknownExerciseError{Field: "exercise", ID: exerciseID}
	}
	return err
}
