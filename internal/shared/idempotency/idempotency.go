// Package idempotency records the first response to a keyed request so that
// retries replay it instead of minting fresh ids.
package idempotency

import (
	"context"
	"errors"
	"strings"
	"time"
)

type DecisionType string

const (
	DecisionAcquired   DecisionType = "acquired"
	DecisionReplay     DecisionType = "replay"
	DecisionInProgress DecisionType = "in_progress"
	DecisionConflict   DecisionType = "conflict"
)

var ErrNotFound = errors.New("idempotency: key not found for completion")

type Request struct {
	Scope       string
	Key         string
	RequestHash string
	LockTTL     time.Duration
}

type Decision struct {
	Type        DecisionType
	StatusCode  int
	Body        []byte
	ContentType string
}

type StoredResponse struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

type Store interface {
	Acquire(ctx context.Context, request Request) (Decision, error)
	Complete(ctx context.Context, request Request, response StoredResponse) error
}

// normalize trims the identifying fields and rejects empty ones.
func (r Request) normalize() (Request, error) {
	r.Scope = strings.TrimSpace(r.Scope)
	if r.Scope == "" {
		return r, errors.New("idempotency: scope is required")
	}

	r.Key = strings.TrimSpace(r.Key)
	if r.Key == "" {
		return r, errors.New("idempotency: key is required")
	}

	r.RequestHash = strings.TrimSpace(r.RequestHash)
	if r.RequestHash == "" {
		return r, errors.New("idempotency: request hash is required")
	}

	return r, nil
}
