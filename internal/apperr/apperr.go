// Package apperr separates operational errors, which carry a safe message
// and an HTTP status for the client, from programming errors, which are
// logged and reduced to a generic response.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error is an operational error: expected, user-facing, safe to expose.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an operational error with the given status and message.
func New(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Convenience constructors for the statuses the API uses.
func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, format, args...)
}

// As unwraps err into an operational *Error, or nil when err is a
// programming/unknown error.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// PostgreSQL SQLSTATE codes translated into operational errors.
const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"
)

// FromDB translates known database failure shapes into operational errors.
// Anything unrecognised passes through untouched and will be treated as a
// programming error by the respond layer.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("resource not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return BadRequest("duplicate value for %s, please use another value", pgErr.ConstraintName)
		case pgInvalidText:
			return BadRequest("invalid identifier format")
		}
	}
	return err
}

// FromToken translates JWT verification failures into 401s.
func FromToken(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Unauthorized("token has expired, please log in again")
	default:
		return Unauthorized("invalid token, please log in again")
	}
}
