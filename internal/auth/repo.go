package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already taken")
)

const accountColumns = `id, email, name, password_hash, is_active, is_staff, is_superuser, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	if err := row.Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash,
		&a.IsActive, &a.IsStaff, &a.IsSuperuser, &a.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repo) Create(ctx context.Context, account Account) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.accounts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	created, err := scanAccount(r.db.QueryRow(
		ctx,
		`INSERT INTO account (email, name, password_hash, is_active, is_staff, is_superuser)
			VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+accountColumns+`;`,
		account.Email, account.Name, account.PasswordHash,
		account.IsActive, account.IsStaff, account.IsSuperuser,
	))
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	span.SetAttributes(attribute.Int("account.id", created.ID))
	return created, nil
}

func (r *Repo) GetByID(ctx context.Context, id int) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.accounts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	return scanAccount(r.db.QueryRow(
		ctx,
		`SELECT `+accountColumns+` FROM account WHERE id = $1;`,
		id,
	))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.accounts.getbyemail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return scanAccount(r.db.QueryRow(
		ctx,
		`SELECT `+accountColumns+` FROM account WHERE email = $1;`,
		email,
	))
}

func (r *Repo) Update(ctx context.Context, account *Account) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.accounts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", account.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE account SET email = $1, name = $2, password_hash = $3, is_active = $4 WHERE id = $5;`,
		account.Email, account.Name, account.PasswordHash, account.IsActive, account.ID,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrEmailTaken
		}
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// Delete removes the account; its workout plans (with their exercises) and
// progress entries go with it through ON DELETE CASCADE.
func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.accounts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM account WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}
