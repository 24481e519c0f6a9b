package main

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/services"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/configuration"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/httpapi"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/session"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitConfig     = 4
	exitAPI        = 5
	exitAuth       = 6
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// exitCode prefers an explicit code and otherwise classifies well-known errors.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	switch {
	case errors.Is(err, configuration.ErrInvalid), httpapi.IsKind(err, httpapi.KindConfig):
		return exitConfig
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, services.ErrForbidden):
		return exitAuth
	case errors.Is(err, listing.ErrUnknownFilter), errors.Is(err, listing.ErrUnknownSortField):
		return exitValidation
	}
	var apiErr *httpapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatus == http.StatusUnauthorized || apiErr.HTTPStatus == http.StatusForbidden {
			return exitAuth
		}
		return exitAPI
	}
	return 1
}
