// Package session resolves request identities from cookie-backed session
// tokens. The token is a signed JWT whose jti must still resolve in redis,
// so signing out revokes the session server-side.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sitedocs/internal/model"
)

// ErrNoSession covers every way a token can fail to resolve: missing,
// malformed, expired, revoked, or a redis lookup error. Callers only ever
// see "unauthenticated".
var ErrNoSession = errors.New("no resolvable session")

const keyPrefix = "session:"

type record struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
}

func NewStore(client *redis.Client, secret string, ttl time.Duration) *Store {
	return &Store{
		client: client,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Open creates a server-side session for the user and returns the signed
// token to be set as a cookie.
func (s *Store) Open(ctx context.Context, user *model.User) (string, error) {
	sessionID := uuid.NewString()

	payload, err := json.Marshal(record{
		UserID:    user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal session record failed: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+sessionID, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("save session failed: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token failed: %w", err)
	}
	return token, nil
}

// Resolve maps a token to the identity it was opened for. Any failure,
// including redis being unreachable, yields ErrNoSession: a broken lookup
// fails the request, never the process.
func (s *Store) Resolve(ctx context.Context, token string) (model.Identity, error) {
	sessionID, err := s.parseSessionID(token)
	if err != nil {
		return model.Identity{}, ErrNoSession
	}

	raw, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		return model.Identity{}, ErrNoSession
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return model.Identity{}, ErrNoSession
	}
	userID, err := uuid.Parse(rec.UserID)
	if err != nil {
		return model.Identity{}, ErrNoSession
	}

	return model.Identity{
		ID:    userID,
		Email: rec.Email,
		Name:  rec.Name,
	}, nil
}

// Revoke deletes the server-side session. An unparsable token is a no-op.
func (s *Store) Revoke(ctx context.Context, token string) error {
	sessionID, err := s.parseSessionID(token)
	if err != nil {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("revoke session failed: %w", err)
	}
	return nil
}

func (s *Store) parseSessionID(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrNoSession
	}
	if claims.ID == "" {
		return "", ErrNoSession
	}
	return claims.ID, nil
}
