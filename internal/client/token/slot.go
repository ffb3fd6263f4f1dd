// Package token is the credential transport of the client: a bearer token
// held in the persisted key-value slot of the local database, together with
// the user it was issued for. Only the auth gateway writes the slot; every
// other component reads session state from the session store instead.
package token

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/EmySim/mdd/internal/client/repositories/metadata"
	"github.com/EmySim/mdd/internal/client/session"
	"github.com/EmySim/mdd/internal/dbx"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// Slot persists the bearer token and the cached user between runs.
type Slot struct {
	db *sql.DB

	// now is a test seam for expiry checks.
	now func() time.Time
}

func NewSlot(db *sql.DB) *Slot {
	return &Slot{db: db, now: time.Now}
}

func (s *Slot) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// Save stores the token and the user it belongs to in one transaction, so
// the slot never holds a token for one user and the cached record of
// another.
func (s *Slot) Save(ctx context.Context, tok string, user session.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, []byte(tok)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUser, data)
	})
}

// Token returns the stored bearer token, or "" when the slot is empty or
// the token's embedded expiry claim has passed. The client holds no signing
// key, so the claims are decoded without signature verification; the server
// remains the authority and still rejects a forged token with a 401.
func (s *Slot) Token(ctx context.Context) (string, error) {
	raw, err := s.repo().Get(ctx, keyToken)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", nil
	}
	tok := string(raw)
	if expired(tok, s.now()) {
		return "", nil
	}
	return tok, nil
}

// User returns the cached user record, or nil when the slot is empty.
func (s *Slot) User(ctx context.Context) (*session.User, error) {
	raw, err := s.repo().Get(ctx, keyUser)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var u session.User
	if err := json.Unmarshal(raw, &u); err != nil {
		// A corrupt cache is treated as an empty slot.
		return nil, nil
	}
	return &u, nil
}

// Clear wipes the slot. Safe to call when already empty.
func (s *Slot) Clear(ctx context.Context) error {
	return s.repo().Clear(ctx)
}

// expired reports whether the token's exp claim lies in the past. Tokens
// that cannot be decoded, or that carry no exp claim, count as expired.
func expired(tok string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.After(now)
}
