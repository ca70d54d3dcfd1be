package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	menusvc "storefront/internal/service/menu"
)

type menuHandler struct {
	svc MenuService
}

func (h *menuHandler) list(c *gin.Context) {
	menus, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

func (h *menuHandler) getByLocation(c *gin.Context) {
	m, err := h.svc.GetByLocation(c.Request.Context(), c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *menuHandler) create(c *gin.Context) {
	var in menusvc.CreateInput
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *menuHandler) replaceItems(c *gin.Context) {
	var in menusvc.ReplaceItemsInput
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.svc.ReplaceItems(c.Request.Context(), c.Param("ref"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *menuHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("ref")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
