package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coachly/call-scheduler/internal/clock"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/httpresp"
	"github.com/coachly/call-scheduler/internal/reminder"
)

// ======================================================
// HANDLER
// ======================================================

// Endpoint interno: um cron externo chama o sweep periodicamente.

type ReminderHandler struct {
	scheduler *reminder.Scheduler
	store     reminder.Store
	notifier  reminder.Notifier
	clock     clock.Clock
}

func NewReminderHandler(
	scheduler *reminder.Scheduler,
	store reminder.Store,
	notifier reminder.Notifier,
	clk clock.Clock,
) *ReminderHandler {
	return &ReminderHandler{
		scheduler: scheduler,
		store:     store,
		notifier:  notifier,
		clock:     clk,
	}
}

func (h *ReminderHandler) Sweep(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	executed, err := h.scheduler.Sweep(
		c.Request.Context(),
		h.store,
		h.notifier,
		h.clock.Now(),
		limit,
	)
	if err != nil {
		httperr.Internal(c, "reminder_sweep_failed", "Falha ao processar lembretes.")
		return
	}

	httpresp.OK(c, gin.H{"executed": executed})
}
