package adapter

import "errors"

// Sentinel errors mapped from remote sync API responses by mapHTTPError.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")

	// ErrEmptyAddress is returned by NewHTTPRemoteAdapter when no remote
	// address is configured.
	ErrEmptyAddress = errors.New("empty address")
)
