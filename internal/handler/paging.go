package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/service"
)

// pageRequest reads page and per_page from the query string and resolves them
// against the configured page size. Values that are not integers are rejected
// here; non-positive ones pass through so the pager reports them.
func pageRequest(c *gin.Context, perPage int) (pagination.Request, error) {
	var (
		ov  pagination.Overrides
		bad []service.FieldError
	)
	if v, ok, err := queryInt(c, "page"); err != nil {
		bad = append(bad, service.FieldError{Field: "page", Message: "must be an integer"})
	} else if ok {
		ov.Page = &v
	}
	if v, ok, err := queryInt(c, "per_page"); err != nil {
		bad = append(bad, service.FieldError{Field: "per_page", Message: "must be an integer"})
	} else if ok {
		ov.PerPage = &v
	}
	if len(bad) > 0 {
		return pagination.Request{}, service.NewInvalidInputError(bad...)
	}
	return pagination.Resolve(perPage, nil, ov), nil
}

// queryInt returns ok=false when the parameter is absent or blank.
func queryInt(c *gin.Context, key string) (int, bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// queryID parses an optional numeric filter. Absent means 0.
func queryID(c *gin.Context, key string) (int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, service.NewInvalidInputError(service.FieldError{Field: key, Message: "must be an integer"})
	}
	return id, nil
}

// pathID parses a numeric route parameter. Anything unparsable becomes 0,
// which every service rejects as an invalid id.
func pathID(c *gin.Context, key string) int64 {
	id, _ := strconv.ParseInt(c.Param(key), 10, 64)
	return id
}
