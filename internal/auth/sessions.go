package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitnesstracker/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultSessionTTL = 24 * 7 * time.Hour
	sessionKeyPrefix  = "fitness-session||"
	tokensSetKey      = "fitness-sessions"
	sessionTokenBytes = 35
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionStore keeps opaque login tokens in redis. A session key holds "<account id>|<created at unix>",
// and every live token is also tracked in a set so stale ones can be swept by ScanAndClean.
type SessionStore struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
	now            func() time.Time
}

func NewSessionStore(ttl time.Duration, redisClient *redis.Client) *SessionStore {
	return &SessionStore{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
		now:            time.Now,
	}
}

func sessionValue(accountID int, createdAt time.Time) string {
	return fmt.Sprintf("%d|%d", accountID, createdAt.Unix())
}

func parseSessionValue(value string) (accountID int, createdAt time.Time, err error) {
	idStr, createdAtStr, found := strings.Cut(value, "|")
	if !found {
		return 0, time.Time{}, fmt.Errorf("malformed session value: %q", value)
	}
	accountID, err = strconv.Atoi(idStr)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("session account id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("session created at: %w", err)
	}
	return accountID, time.Unix(createdAtUnix, 0), nil
}

func (s *SessionStore) Login(ctx context.Context, accountID int, createdAt time.Time) (string, error) {
	token, err := s.RandStringFunc(sessionTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	if err := s.redisClient.Set(ctx, sessionKeyPrefix+token, sessionValue(accountID, createdAt), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	// add token to the set of sessions
	if err := s.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", fmt.Errorf("track session: %w", err)
	}

	return token, nil
}

// Resolve returns the id of the account the token was issued to.
func (s *SessionStore) Resolve(ctx context.Context, token string) (int, error) {
	value, err := s.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("get session: %w", err)
	}

	accountID, createdAt, err := parseSessionValue(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSessionNotFound, err)
	}

	if s.now().Sub(createdAt) > s.ttl {
		return 0, ErrSessionExpired
	}

	return accountID, nil
}

func (s *SessionStore) Logout(ctx context.Context, token string) error {
	deleted, err := s.redisClient.Del(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	// remove token from the set of sessions
	if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return fmt.Errorf("untrack session: %w", err)
	}

	if deleted == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ScanAndClean will run through all tracked sessions and drop the expired, missing or malformed ones.
func (s *SessionStore) ScanAndClean(ctx context.Context) (removed int) {
	sessionTokens, err := s.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("sessions scan and clean, get sessions: %s", err)
		return 0
	}

	if len(sessionTokens) == 0 {
		log.Debugln("sessions scan and clean abort, no sessions")
		return 0
	}

	log.Debugf("sessions scan and clean [%d sessions] start ...", len(sessionTokens))
	for _, token := range sessionTokens {
		value, err := s.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			log.Errorf("sessions scan and clean, get token %s: %s", token, err)
			continue
		}

		if err == nil {
			_, createdAt, parseErr := parseSessionValue(value)
			if parseErr == nil && s.now().Sub(createdAt) <= s.ttl {
				continue
			}
			if err := s.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
				log.Errorf("sessions scan and clean, delete token %s: %s", token, err)
				continue
			}
		}

		if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("sessions scan and clean, untrack token %s: %s", token, err)
			continue
		}
		removed++
	}

	log.Debugf("sessions scan and clean done, removed %d", removed)
	return removed
}

// RunCleaner calls ScanAndClean every interval until ctx is done.
func (s *SessionStore) RunCleaner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ScanAndClean(ctx)
		}
	}
}
