package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

// readPayload decodes the body as a single JSON object with nothing but
// whitespace after it. Numbers are kept as
// json.Number so integer fields survive without float rounding.
func readPayload(c *gin.Context) (map[string]any, error) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty body", common.ErrValidation)
		}
		return nil, fmt.Errorf("%w: body must be a JSON object", common.ErrValidation)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", common.ErrValidation)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", common.ErrValidation)
	}
	return payload, nil
}

// pathID parses :id. Anything that is not an integer names no record.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, common.ErrorNotFound
	}
	return id, nil
}
