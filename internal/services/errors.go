package services

import (
	"errors"

	"github.com/Udaymore741/Campus-Connect-sub000/internal/repository"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalid         = errors.New("invalid")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// storeErr maps repository sentinels onto service sentinels and leaves the rest alone.
func storeErr(what string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return wrap(ErrNotFound, what+" not found")
	case errors.Is(err, repository.ErrConflict):
		return wrap(ErrConflict, "question already has an accepted answer")
	}
	return err
}

type serviceError struct {
	kind error
	msg  string
}

func (e *serviceError) Error() string { return e.msg }
func (e *serviceError) Unwrap() error { return e.kind }

func wrap(kind error, msg string) error {
	return &serviceError{kind: kind, msg: msg}
}
