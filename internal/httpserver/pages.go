package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pagesvc "storefront/internal/service/page"
)

type pageHandler struct {
	svc PageService
}

// list filters by ?slug; drafts are only visible to admins.
func (h *pageHandler) list(c *gin.Context) {
	pages, err := h.svc.List(c.Request.Context(), c.Query("slug"), isAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pages)
}

func (h *pageHandler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *pageHandler) create(c *gin.Context) {
	var in pagesvc.CreateInput
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

func (h *pageHandler) update(c *gin.Context) {
	var in pagesvc.UpdateInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *pageHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
