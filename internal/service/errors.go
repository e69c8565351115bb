package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrForbidden = errors.New("forbidden: insufficient permissions")

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

type AuditEntry struct {
	UserID       *uuid.UUID
	UserRole     string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	Changes      string
}

// UsageRecorder receives one event per core operation. Injected so the
// engine stays free of package-level mutable state.
type UsageRecorder interface {
	RecordUsage(operation string)
}

// NopUsage satisfies UsageRecorder for tests and tooling.
type NopUsage struct{}

func (NopUsage) RecordUsage(string) {}
