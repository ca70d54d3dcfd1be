package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	categorysvc "storefront/internal/service/category"
)

type categoryHandler struct {
	svc CategoryService
}

func (h *categoryHandler) list(c *gin.Context) {
	params := newQueryParams(c)
	tree := params.bool("tree")
	if err := params.err(); err != nil {
		writeError(c, err)
		return
	}
	if tree {
		roots, err := h.svc.Tree(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, roots)
		return
	}
	all, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, all)
}

func (h *categoryHandler) get(c *gin.Context) {
	cat, err := h.svc.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *categoryHandler) create(c *gin.Context) {
	var in categorysvc.CreateInput
	if !bindJSON(c, &in) {
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *categoryHandler) update(c *gin.Context) {
	var in categorysvc.UpdateInput
	if !bindJSON(c, &in) {
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), c.Param("ref"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *categoryHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("ref")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
