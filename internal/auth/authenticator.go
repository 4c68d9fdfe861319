package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/fitnesstracker/internal/apierr"
)

type sessionResolver interface {
	Resolve(ctx context.Context, token string) (int, error)
}

type tokenVerifier interface {
	Verify(token string) (int, error)
}

type accountGetter interface {
	GetByID(ctx context.Context, id int) (*Account, error)
}

// Authenticator resolves an Authorization header into the calling account.
// Supported schemes: "Token <session token>" and "Bearer <access token>".
type Authenticator struct {
	sessions sessionResolver
	tokens   tokenVerifier
	accounts accountGetter
}

func NewAuthenticator(sessions sessionResolver, tokens tokenVerifier, accounts accountGetter) *Authenticator {
	return &Authenticator{
		sessions: sessions,
		tokens:   tokens,
		accounts: accounts,
	}
}

// Authenticate returns apierr.ErrNotAuthenticated for an empty header and
// apierr.ErrInvalidCredentials for anything that does not resolve to an active account.
func (a *Authenticator) Authenticate(ctx context.Context, authHeader string) (*Caller, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return nil, apierr.ErrNotAuthenticated
	}

	scheme, credentials, found := strings.Cut(authHeader, " ")
	credentials = strings.TrimSpace(credentials)
	if !found || credentials == "" {
		return nil, apierr.ErrInvalidCredentials
	}

	var accountID int
	var sessionToken string
	var err error
	switch strings.ToLower(scheme) {
	case "token":
		sessionToken = credentials
		accountID, err = a.sessions.Resolve(ctx, credentials)
	case "bearer":
		accountID, err = a.tokens.Verify(credentials)
	default:
		return nil, apierr.ErrInvalidCredentials
	}
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrInvalidToken) {
			return nil, fmt.Errorf("%w: %w", apierr.ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("resolve credentials: %w", err)
	}

	account, err := a.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %w", apierr.ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %d inactive", apierr.ErrInvalidCredentials, account.ID)
	}

	return &Caller{
		AccountID:    account.ID,
		Email:        account.Email,
		IsStaff:      account.IsStaff,
		SessionToken: sessionToken,
	}, nil
}
