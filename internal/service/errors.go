package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the account, session and mentorship flows.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrSapIDTaken         = fmt.Errorf("%w: sapId already registered", ErrConflict)
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidMentor      = errors.New("mentor does not exist or is not eligible")
	ErrRequestNotFound    = errors.New("mentorship request not found")
	ErrInvalidTransition  = errors.New("mentorship request is no longer pending")
	ErrNotParticipant     = errors.New("not a participant of this mentorship request")
)

// ValidationError carries field-level input problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// invalid returns a *ValidationError for fields, or nil when fields is empty.
func invalid(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
