// Package gqlerr converts service errors into GraphQL errors carrying extensions.code.
package gqlerr

import (
	"context"
	"errors"
	"log/slog"

	"rbac-auth/backend/internal/platform/rbac"
	"rbac-auth/backend/internal/platform/validation"
)

// Error codes placed in extensions.code.
const (
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// Error is a client-facing GraphQL error. graphql-go copies Extensions into the response.
type Error struct {
	Code    string
	Message string
	Fields  []validation.FieldError
}

func (e *Error) Error() string { return e.Message }

// Extensions implements graphql-go's extensions interface.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if len(e.Fields) > 0 {
		fields := make([]map[string]interface{}, 0, len(e.Fields))
		for _, f := range e.Fields {
			fields = append(fields, map[string]interface{}{"field": f.Field, "message": f.String()})
		}
		ext["fields"] = fields
	}
	return ext
}

// New returns an Error with code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Mapping pairs a sentinel error with the client-facing error it becomes.
type Mapping struct {
	Target error
	Code   string
	Msg    string
}

// Map converts err using the shared rules (validation, gate) then mappings in order.
// Anything unmatched is logged and returned as an opaque internal error.
func Map(ctx context.Context, log *slog.Logger, err error, mappings ...Mapping) error {
	if err == nil {
		return nil
	}
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		return &Error{Code: CodeBadUserInput, Message: verr.Error(), Fields: verr.Fields}
	}
	switch {
	case errors.Is(err, rbac.ErrUnauthenticated):
		return New(CodeUnauthenticated, "unauthorized")
	case errors.Is(err, rbac.ErrPermissionDenied):
		return New(CodeForbidden, "forbidden resource")
	}
	for _, m := range mappings {
		if errors.Is(err, m.Target) {
			return New(m.Code, m.Msg)
		}
	}
	if log == nil {
		log = slog.Default()
	}
	log.ErrorContext(ctx, "graphql resolver failed", "error", err)
	return New(CodeInternal, "internal server error")
}
