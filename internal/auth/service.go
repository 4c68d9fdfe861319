package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitnesstracker/internal/apierr"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth_test

var ErrWrongCredentials = errors.New("wrong credentials")

type accountsRepo interface {
	Create(ctx context.Context, account Account) (*Account, error)
	GetByID(ctx context.Context, id int) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id int) error
}

type Service struct {
	repo accountsRepo
}

func NewService(repo accountsRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateAccount(ctx context.Context, email, password string, extra AccountExtra) (*Account, error) {
	return s.createAccount(ctx, email, password, extra, false)
}

// CreateAdminAccount creates an account with the staff and superuser flags set.
func (s *Service) CreateAdminAccount(ctx context.Context, email, password string) (*Account, error) {
	return s.createAccount(ctx, email, password, AccountExtra{}, true)
}

func (s *Service) createAccount(ctx context.Context, email, password string, extra AccountExtra, admin bool) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Bool("admin", admin))

	email = NormalizeEmail(email)
	validationErr := &apierr.ValidationError{}
	if email == "" {
		validationErr.Add("email", apierr.MsgBlank)
	}
	if password == "" {
		validationErr.Add("password", apierr.MsgBlank)
	}
	if err := validationErr.OrNil(); err != nil {
		return nil, err
	}

	passwordHash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.repo.Create(ctx, Account{
		Email:        email,
		Name:         extra.Name,
		PasswordHash: passwordHash,
		IsActive:     true,
		IsStaff:      admin,
		IsSuperuser:  admin,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apierr.NewValidationError("email", "account with this email already exists.")
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

// Authenticate checks the email / password pair of an active account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.authenticate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	account, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrWrongCredentials
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}

	if !account.IsActive || !pkg.CheckPasswordHash(password, account.PasswordHash) {
		return nil, ErrWrongCredentials
	}

	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, id int) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateAccount(ctx context.Context, id int, update AccountUpdate) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	validationErr := &apierr.ValidationError{}
	if update.Email != nil {
		account.Email = NormalizeEmail(*update.Email)
		if account.Email == "" {
			validationErr.Add("email", apierr.MsgBlank)
		}
	}
	if update.Name != nil {
		account.Name = *update.Name
	}
	if update.Password != nil {
		if *update.Password == "" {
			validationErr.Add("password", apierr.MsgBlank)
		} else {
			passwordHash, err := pkg.HashPassword(*update.Password)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			account.PasswordHash = passwordHash
		}
	}
	if err := validationErr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, account); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apierr.NewValidationError("email", "account with this email already exists.")
		}
		return nil, fmt.Errorf("update account: %w", err)
	}

	return account, nil
}

func (s *Service) DeleteAccount(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
