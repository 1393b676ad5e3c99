package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrFailedValidation   = errors.New("failed validation")
	ErrRecordNotFound     = errors.New("record not found")
	ErrEditConflict       = errors.New("edit conflict")
	ErrDuplicateRecord    = errors.New("duplicate record")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotPermitted       = errors.New("not permitted")
)

// failedValidation wraps ErrFailedValidation with the validator's field
// errors so the handler layer can match it with errors.Is and still
// surface the details.
func failedValidation(fieldErrors map[string]string) error {
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+fieldErrors[field])
	}
	return fmt.Errorf("%w: %s", ErrFailedValidation, strings.Join(parts, "; "))
}
