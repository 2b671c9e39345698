package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrInvalid signals a status check that fails required-field validation.
var ErrInvalid = errors.New("invalid status check")

// MaxStatusChecks caps how many records a single list call returns.
const MaxStatusChecks = 1000

// StatusCheck is a client-reported health check.
type StatusCheck struct {
	// ID is a UUID assigned at creation.
	ID string `json:"id"`
	// ClientName identifies the reporting client.
	ClientName string `json:"client_name"`
	// Timestamp is the UTC creation time.
	Timestamp time.Time `json:"timestamp"`
}

// Validate enforces the required fields.
func (c StatusCheck) Validate() error {
	switch {
	case strings.TrimSpace(c.ID) == "":
		return errors.Join(ErrInvalid, errors.New("id is required"))
	case strings.TrimSpace(c.ClientName) == "":
		return errors.Join(ErrInvalid, errors.New("client_name is required"))
	case c.Timestamp.IsZero():
		return errors.Join(ErrInvalid, errors.New("timestamp is required"))
	}
	return nil
}

// StatusRepository persists status checks.
type StatusRepository interface {
	// CreateStatusCheck stores a new record.
	CreateStatusCheck(ctx context.Context, check StatusCheck) error
	// ListStatusChecks returns at most limit records in store order.
	ListStatusChecks(ctx context.Context, limit int) ([]StatusCheck, error)
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
	// Close releases the underlying resources.
	Close()
}

// ClampLimit bounds a requested list size to (0, MaxStatusChecks].
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxStatusChecks {
		return MaxStatusChecks
	}
	return limit
}
