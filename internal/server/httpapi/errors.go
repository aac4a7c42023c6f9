package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/dmitrijs2005/songkeeper/internal/schema"
	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "internal server error"

// statusFor maps a service error to an HTTP status and a client-safe
// message. Partial failures are checked first: they wrap the store error
// that caused them and must not surface as that error's status.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrPartialFailure):
		return http.StatusInternalServerError, internalErrorMessage
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrOwnerNotFound):
		return http.StatusBadRequest, "owner does not exist"
	case errors.Is(err, common.ErrReferenceNotFound):
		return http.StatusBadRequest, "referenced record does not exist"
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict, "already exists"
	}
	return http.StatusInternalServerError, internalErrorMessage
}

func (s *Server) writeError(c *gin.Context, err error) {
	code, msg := statusFor(err)

	if code >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(requestIDKey),
			"error", err,
		)
	}

	body := gin.H{"error": msg}
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		body["violations"] = ve.Violations
	}
	c.AbortWithStatusJSON(code, body)
}
