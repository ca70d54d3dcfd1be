package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	contactsvc "storefront/internal/service/contact"
)

type contactHandler struct {
	svc ContactService
}

func (h *contactHandler) submit(c *gin.Context) {
	var in contactsvc.Input
	if !bindJSON(c, &in) {
		return
	}
	msg, err := h.svc.Submit(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": msg.ID})
}

func (h *contactHandler) list(c *gin.Context) {
	params := newQueryParams(c)
	limit := params.int("limit", 0)
	offset := params.int("offset", 0)
	if err := params.err(); err != nil {
		writeError(c, err)
		return
	}
	msgs, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}
