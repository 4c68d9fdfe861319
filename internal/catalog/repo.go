package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrMuscleGroupNotFound = errors.New("muscle group not found")
	ErrExerciseNotFound    = errors.New("exercise not found")
)

const exerciseSelect = `
	SELECT e.id, e.name, e.description, e.instructions,
		COALESCE(
			array_agg(t.muscle_group_id ORDER BY t.muscle_group_id) FILTER (WHERE t.muscle_group_id IS NOT NULL),
			'{}'
		)
	FROM exercise e
		LEFT JOIN exercise_target_muscle t ON t.exercise_id = e.id`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) ListMuscleGroups(ctx context.Context) (_ []MuscleGroup, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.musclegroups.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name, description FROM muscle_group ORDER BY id;`)
	if err != nil {
		return nil, err
	}

	muscleGroups, err := pgx.CollectRows(rows, pgx.RowToStructByPos[MuscleGroup])
	if err != nil {
		return nil, fmt.Errorf("collect muscle groups: %w", err)
	}
	return muscleGroups, nil
}

func (r *Repo) GetMuscleGroup(ctx context.Context, id int) (_ *MuscleGroup, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.musclegroups.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var mg MuscleGroup
	if err := r.db.QueryRow(
		ctx,
		`SELECT id, name, description FROM muscle_group WHERE id = $1;`,
		id,
	).Scan(&mg.ID, &mg.Name, &mg.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMuscleGroupNotFound
		}
		return nil, err
	}
	return &mg, nil
}

func (r *Repo) CreateMuscleGroup(ctx context.Context, mg MuscleGroup) (_ *MuscleGroup, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.musclegroups.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO muscle_group (name, description) VALUES ($1, $2) RETURNING id;`,
		mg.Name, mg.Description,
	).Scan(&mg.ID); err != nil {
		return nil, fmt.Errorf("insert muscle group: %w", err)
	}

	span.SetAttributes(attribute.Int("id", mg.ID))
	return &mg, nil
}

func (r *Repo) UpdateMuscleGroup(ctx context.Context, mg *MuscleGroup) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.musclegroups.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", mg.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE muscle_group SET name = $1, description = $2 WHERE id = $3;`,
		mg.Name, mg.Description, mg.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMuscleGroupNotFound
	}
	return nil
}

func (r *Repo) DeleteMuscleGroup(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.musclegroups.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM muscle_group WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMuscleGroupNotFound
	}
	return nil
}

func scanExercise(row pgx.Row) (*Exercise, error) {
	var e Exercise
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Instructions, &e.TargetMuscles); err != nil {
		return nil, err
	}
	if e.TargetMuscles == nil {
		e.TargetMuscles = []int{}
	}
	return &e, nil
}

// ListExercises returns all exercises ordered by name.
func (r *Repo) ListExercises(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, exerciseSelect+` GROUP BY e.id ORDER BY e.name, e.id;`)
	if err != nil {
		return nil, err
	}

	exercises, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Exercise, error) {
		e, err := scanExercise(row)
		if err != nil {
			return Exercise{}, err
		}
		return *e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect exercises: %w", err)
	}
	return exercises, nil
}

func (r *Repo) GetExercise(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	e, err := scanExercise(r.db.QueryRow(ctx, exerciseSelect+` WHERE e.id = $1 GROUP BY e.id;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return e, nil
}

// CreateExercise inserts the exercise and its target muscle links in one transaction.
func (r *Repo) CreateExercise(ctx context.Context, e Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.TargetMuscles = uniqueSorted(e.TargetMuscles)
	if err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO exercise (name, description, instructions) VALUES ($1, $2, $3) RETURNING id;`,
			e.Name, e.Description, e.Instructions,
		).Scan(&e.ID); err != nil {
			return fmt.Errorf("insert exercise: %w", err)
		}
		return setTargetMuscles(ctx, tx, e.ID, e.TargetMuscles)
	}); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("id", e.ID))
	return &e, nil
}

// UpdateExercise stores the scalar fields and replaces the target muscle set.
func (r *Repo) UpdateExercise(ctx context.Context, e *Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", e.ID))

	e.TargetMuscles = uniqueSorted(e.TargetMuscles)
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(
			ctx,
			`UPDATE exercise SET name = $1, description = $2, instructions = $3 WHERE id = $4;`,
			e.Name, e.Description, e.Instructions, e.ID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrExerciseNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM exercise_target_muscle WHERE exercise_id = $1;`, e.ID); err != nil {
			return fmt.Errorf("clear target muscles: %w", err)
		}
		return setTargetMuscles(ctx, tx, e.ID, e.TargetMuscles)
	})
}

func (r *Repo) DeleteExercise(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

// setTargetMuscles links the exercise to muscleGroupIDs (sorted, unique). The first id with no
// muscle group row fails the whole write with an *UnknownMuscleGroupError.
func setTargetMuscles(ctx context.Context, tx pgx.Tx, exerciseID int, muscleGroupIDs []int) error {
	if len(muscleGroupIDs) == 0 {
		return nil
	}

	rows, err := tx.Query(ctx, `SELECT id FROM muscle_group WHERE id = ANY($1);`, muscleGroupIDs)
	if err != nil {
		return fmt.Errorf("lookup muscle groups: %w", err)
	}
	existing, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return fmt.Errorf("collect muscle groups: %w", err)
	}
	found := make(map[int]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	for _, id := range muscleGroupIDs {
		if !found[id] {
			return &UnknownMuscleGroupError{ID: id}
		}
	}

	if _, err := tx.Exec(
		ctx,
		`INSERT INTO exercise_target_muscle (exercise_id, muscle_group_id)
			SELECT $1, unnest($2::int[]);`,
		exerciseID, muscleGroupIDs,
	); err != nil {
		return fmt.Errorf("insert target muscles: %w", err)
	}
	return nil
}
