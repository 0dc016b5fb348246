package domain

import (
	"errors"
	"strconv"
	"strings"
)

var ErrNotFound = errors.New("not found")

// ValidationError names every request field that was missing or malformed.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" && len(e.Fields) == 0 {
		return e.Message
	}
	msg := "missing or invalid field(s): " + strings.Join(e.Fields, ", ")
	if e.Message != "" {
		msg += " (" + e.Message + ")"
	}
	return msg
}

func Invalid(fields ...string) error {
	return &ValidationError{Fields: fields}
}

func Invalidf(message string, fields ...string) error {
	return &ValidationError{Fields: fields, Message: message}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// UpstreamError is a failed call to an external collaborator such as the Discord API.
type UpstreamError struct {
	Service string
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return e.Service + " returned " + strconv.Itoa(e.Status) + ": " + e.Message
	}
	return e.Service + ": " + e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }
