package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/songkeeper/internal/common"
)

var ErrUnavailable = errors.New("server unavailable")

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Is lets callers match a StatusError against the common sentinels.
func (e *StatusError) Is(target error) bool {
	switch e.Status {
	case http.StatusBadRequest:
		return target == common.ErrValidation
	case http.StatusUnauthorized:
		return target == common.ErrorUnauthorized
	case http.StatusForbidden:
		return target == common.ErrForbidden
	case http.StatusNotFound:
		return target == common.ErrorNotFound
	case http.StatusConflict:
		return target == common.ErrAlreadyExists
	}
	return target == common.ErrorInternal
}
