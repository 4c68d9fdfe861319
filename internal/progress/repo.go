package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/fitnesstracker/internal/apierr"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

var ErrEntryNotFound = fmt.Errorf("progress entry %w", apierr.ErrNotFound)

// ErrDuplicateDate is returned when the user already has an entry for the date.
var ErrDuplicateDate = &apierr.ConflictError{Message: "The fields user, date must make a unique set."}

var entryOrderings = map[string]string{
	"date":    "date, id",
	"-date":   "date DESC, id DESC",
	"weight":  "weight, id",
	"-weight": "weight DESC, id",
}

const defaultOrdering = "-date"

// weights are read as text to keep their exact decimal value
const entryColumns = `id, user_id, date, weight::text, goal_weight::text, achieved_goals, notes`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanEntry(row pgx.Row) (Entry, error) {
	var (
		e          Entry
		weight     string
		goalWeight *string
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Date, &weight, &goalWeight, &e.AchievedGoals, &e.Notes); err != nil {
		return Entry{}, err
	}

	var err error
	if e.Weight, err = decimal.NewFromString(weight); err != nil {
		return Entry{}, fmt.Errorf("parse weight [%s]: %w", weight, err)
	}
	if goalWeight != nil {
		d, err := decimal.NewFromString(*goalWeight)
		if err != nil {
			return Entry{}, fmt.Errorf("parse goal weight [%s]: %w", *goalWeight, err)
		}
		e.GoalWeight = decimal.NewNullDecimal(d)
	}
	return e, nil
}

func goalWeightArg(e Entry) *string {
	if !e.GoalWeight.Valid {
		return nil
	}
	s := e.GoalWeight.Decimal.String()
	return &s
}

func writeError(err error) error {
	if pkg.IsUniqueViolationError(err) {
		return ErrDuplicateDate
	}
	return err
}

// List returns the user's entries, newest first unless the filter orders otherwise.
func (r *Repo) List(ctx context.Context, userID int, filter Filter) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.String("ordering", filter.Ordering))

	orderBy, ok := entryOrderings[filter.Ordering]
	if !ok {
		orderBy = entryOrderings[defaultOrdering]
	}

	conditions := []string{"user_id = $1"}
	args := []any{userID}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+entryColumns+` FROM progress_entry
			WHERE `+strings.Join(conditions, " AND ")+`
		ORDER BY `+orderBy+`;`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		return scanEntry(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collect progress entries: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}

	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	return entries, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id), attribute.Int("user.id", userID))

	e, err := scanEntry(r.db.QueryRow(
		ctx,
		`SELECT `+entryColumns+` FROM progress_entry WHERE id = $1 AND user_id = $2;`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create inserts e. A second entry for the same user and date fails with ErrDuplicateDate.
func (r *Repo) Create(ctx context.Context, e Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", e.UserID))

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO progress_entry (user_id, date, weight, goal_weight, achieved_goals, notes)
			VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6)
		RETURNING id;`,
		e.UserID, e.Date, e.Weight.String(), goalWeightArg(e), e.AchievedGoals, e.Notes,
	).Scan(&e.ID); err != nil {
		return nil, writeError(err)
	}

	span.SetAttributes(attribute.Int("id", e.ID))
	return &e, nil
}

func (r *Repo) Update(ctx context.Context, e *Entry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", e.ID), attribute.Int("user.id", e.UserID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE progress_entry
			SET date = $1, weight = $2::numeric, goal_weight = $3::numeric, achieved_goals = $4, notes = $5
			WHERE id = $6 AND user_id = $7;`,
		e.Date, e.Weight.String(), goalWeightArg(*e), e.AchievedGoals, e.Notes, e.ID, e.UserID,
	)
	if err != nil {
		return writeError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id), attribute.Int("user.id", userID))

	tag, err := r.db.Exec(ctx, `DELETE FROM progress_entry WHERE id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
