package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	paymentsvc "storefront/internal/service/payment"
)

type paymentHandler struct {
	svc PaymentService
}

func (h *paymentHandler) mock(c *gin.Context) {
	var in paymentsvc.MockInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.svc.Mock(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *paymentHandler) ziraatForm(c *gin.Context) {
	var in paymentsvc.ZiraatInput
	if !bindJSON(c, &in) {
		return
	}
	form, err := h.svc.ZiraatForm(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// ziraatCallback receives the gateway's form post.
func (h *paymentHandler) ziraatCallback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		writeError(c, domain.NewValidationError("body", "malformed form body"))
		return
	}
	fields := make(map[string]string, len(c.Request.PostForm))
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	res, err := h.svc.ZiraatCallback(c.Request.Context(), fields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *paymentHandler) lookupBIN(c *gin.Context) {
	info, err := h.svc.LookupBIN(c.Request.Context(), c.Param("bin"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
