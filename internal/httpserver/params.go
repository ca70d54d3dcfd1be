package httpserver

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

// queryParams reads typed query string values and collects every malformed
// one into a single validation error.
type queryParams struct {
	c    *gin.Context
	errs []domain.FieldError
}

func newQueryParams(c *gin.Context) *queryParams {
	return &queryParams{c: c}
}

func (p *queryParams) int(name string, def int) int {
	raw, ok := p.c.GetQuery(name)
	if !ok || raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		p.errs = append(p.errs, domain.FieldError{Field: name, Message: "must be a non-negative integer"})
		return def
	}
	return v
}

func (p *queryParams) int64Ptr(name string) *int64 {
	raw, ok := p.c.GetQuery(name)
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		p.errs = append(p.errs, domain.FieldError{Field: name, Message: "must be a non-negative integer"})
		return nil
	}
	return &v
}

func (p *queryParams) boolPtr(name string) *bool {
	raw, ok := p.c.GetQuery(name)
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs = append(p.errs, domain.FieldError{Field: name, Message: "must be true or false"})
		return nil
	}
	return &v
}

func (p *queryParams) bool(name string) bool {
	v := p.boolPtr(name)
	return v != nil && *v
}

func (p *queryParams) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: p.errs}
}
