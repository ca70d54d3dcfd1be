package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	addresssvc "storefront/internal/service/address"
)

// addressHandler serves the caller's own addresses; routes sit behind
// authenticate(_, true).
type addressHandler struct {
	svc AddressService
}

func (h *addressHandler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), claimsFrom(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *addressHandler) create(c *gin.Context) {
	var in addresssvc.Input
	if !bindJSON(c, &in) {
		return
	}
	a, err := h.svc.Create(c.Request.Context(), claimsFrom(c).UserID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *addressHandler) update(c *gin.Context) {
	var in addresssvc.Update
	if !bindJSON(c, &in) {
		return
	}
	a, err := h.svc.Update(c.Request.Context(), claimsFrom(c).UserID, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *addressHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), claimsFrom(c).UserID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
