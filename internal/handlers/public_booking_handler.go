package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/httpresp"
	ucScheduling "github.com/coachly/call-scheduler/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

// Rotas públicas: o token na URL é a credencial, sem JWT.

type PublicBookingHandler struct {
	access *ucScheduling.PublicBookingAccess
}

func NewPublicBookingHandler(access *ucScheduling.PublicBookingAccess) *PublicBookingHandler {
	return &PublicBookingHandler{access: access}
}

// ======================================================
// REQUESTS
// ======================================================

type PublicCancelRequest struct {
	Reason string `json:"reason"`
}

type PublicRescheduleRequest struct {
	NewStart string `json:"new_start" binding:"required"`
	Note     string `json:"note"`
}

// ======================================================
// VIEW
// ======================================================

func (h *PublicBookingHandler) View(c *gin.Context) {
	summary, err := h.access.View(c.Request.Context(), c.Param("token"))
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.OK(c, summary)
}

// ======================================================
// CANCEL
// ======================================================

func (h *PublicBookingHandler) Cancel(c *gin.Context) {
	var req PublicCancelRequest
	_ = c.ShouldBindJSON(&req)

	ev, err := h.access.Cancel(c.Request.Context(), c.Param("token"), req.Reason)
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.OK(c, ev)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *PublicBookingHandler) Reschedule(c *gin.Context) {
	var req PublicRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	newStart, perr := time.Parse(time.RFC3339, req.NewStart)
	if perr != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	ev, err := h.access.Reschedule(c.Request.Context(), c.Param("token"), newStart, req.Note)
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.OK(c, ev)
}
