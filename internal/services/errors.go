package services

import (
	"errors"
	"fmt"
	"net/http"
)

type ServiceError struct {
	Status  int
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: http.StatusBadRequest, Message: msg}
}

func ErrTooLarge(msg string) error {
	return ServiceError{Status: http.StatusRequestEntityTooLarge, Message: msg}
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// StatusOf returns the HTTP status carried by a ServiceError anywhere in the
// chain, 500 otherwise.
func StatusOf(err error) (int, string) {
	var svc ServiceError
	if errors.As(err, &svc) {
		return svc.Status, svc.Message
	}
	return http.StatusInternalServerError, "Internal server error"
}
