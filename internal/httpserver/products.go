package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productsvc "storefront/internal/service/product"
)

type productHandler struct {
	svc ProductService
}

func (h *productHandler) list(c *gin.Context) {
	params := newQueryParams(c)
	q := productsvc.ListQuery{
		CategorySlug:  c.Query("category"),
		Query:         c.Query("q"),
		Featured:      params.boolPtr("featured"),
		MinPriceCents: params.int64Ptr("minPrice"),
		MaxPriceCents: params.int64Ptr("maxPrice"),
		Sort:          c.Query("sort"),
		Limit:         params.int("limit", productsvc.DefaultLimit),
		Offset:        params.int("offset", 0),
	}
	includeDrafts := params.bool("includeDrafts")
	if err := params.err(); err != nil {
		writeError(c, err)
		return
	}
	q.IncludeDrafts = includeDrafts && isAdmin(c)

	page, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *productHandler) get(c *gin.Context) {
	p, err := h.svc.GetBySlug(c.Request.Context(), c.Param("ref"), isAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *productHandler) create(c *gin.Context) {
	var in productsvc.CreateInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *productHandler) update(c *gin.Context) {
	var in productsvc.UpdateInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("ref"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *productHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("ref")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
