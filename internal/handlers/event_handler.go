package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/dto"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/httpresp"
	"github.com/coachly/call-scheduler/internal/middleware"
	ucScheduling "github.com/coachly/call-scheduler/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type EventHandler struct {
	getProfile *ucScheduling.GetProfile
	propose    *ucScheduling.ProposeEvent
	respond    *ucScheduling.RespondEvent
	cancel     *ucScheduling.CancelEvent
	reschedule *ucScheduling.RescheduleEvent
	list       *ucScheduling.ListEvents
}

func NewEventHandler(
	getProfile *ucScheduling.GetProfile,
	propose *ucScheduling.ProposeEvent,
	respond *ucScheduling.RespondEvent,
	cancel *ucScheduling.CancelEvent,
	reschedule *ucScheduling.RescheduleEvent,
	list *ucScheduling.ListEvents,
) *EventHandler {
	return &EventHandler{
		getProfile: getProfile,
		propose:    propose,
		respond:    respond,
		cancel:     cancel,
		reschedule: reschedule,
		list:       list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ProposeEventRequest struct {
	HostCoachID     uint   `json:"host_coach_id" binding:"required"`
	AttendeeIDs     []uint `json:"attendee_ids" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Start           string `json:"start" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
	MeetingProvider string `json:"meeting_provider"`
	Note            string `json:"note"`
}

type RespondEventRequest struct {
	Action             string `json:"action" binding:"required"`
	NewStart           string `json:"new_start"`
	NewDurationMinutes int    `json:"new_duration_minutes"`
	Note               string `json:"note"`
}

type CancelEventRequest struct {
	Reason string `json:"reason"`
}

type RescheduleEventRequest struct {
	NewStart           string `json:"new_start" binding:"required"`
	NewDurationMinutes int    `json:"new_duration_minutes"`
	Note               string `json:"note"`
}

// ======================================================
// PROPOSE
// ======================================================

func (h *EventHandler) Propose(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	var req ProposeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, ok := h.parseEventTime(c, req.HostCoachID, req.Start)
	if !ok {
		return
	}

	ev, err := h.propose.Execute(c.Request.Context(), ucScheduling.ProposeEventInput{
		ActorID:         actorID,
		HostCoachID:     req.HostCoachID,
		AttendeeIDs:     req.AttendeeIDs,
		Title:           req.Title,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
		MeetingProvider: req.MeetingProvider,
		Note:            req.Note,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	c.JSON(201, ev)
}

// ======================================================
// RESPOND (accept / counter / decline)
// ======================================================

func (h *EventHandler) Respond(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req RespondEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in := ucScheduling.RespondEventInput{
		ActorID:            actorID,
		EventID:            uint(eventID),
		Action:             req.Action,
		NewDurationMinutes: req.NewDurationMinutes,
		Note:               req.Note,
	}

	if req.NewStart != "" {
		// counter reposiciona o horário; demais ações ignoram.
		newStart, perr := time.Parse(time.RFC3339, req.NewStart)
		if perr != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
			return
		}
		in.NewStart = &newStart
	}

	ev, err := h.respond.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.OK(c, ev)
}

// ======================================================
// CANCEL
// ======================================================

func (h *EventHandler) Cancel(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req CancelEventRequest
	_ = c.ShouldBindJSON(&req)

	ev, err := h.cancel.Execute(c.Request.Context(), ucScheduling.CancelEventInput{
		ActorID: actorID,
		EventID: uint(eventID),
		Reason:  req.Reason,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.OK(c, ev)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *EventHandler) Reschedule(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req RescheduleEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	newStart, perr := time.Parse(time.RFC3339, req.NewStart)
	if perr != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	ev, err := h.reschedule.Execute(c.Request.Context(), ucScheduling.RescheduleEventInput{
		ActorID:            actorID,
		EventID:            uint(eventID),
		NewStart:           newStart,
		NewDurationMinutes: req.NewDurationMinutes,
		Note:               req.Note,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.OK(c, ev)
}

// ======================================================
// LIST
// ======================================================

func (h *EventHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	from := time.Now().UTC().AddDate(0, -1, 0)
	to := time.Now().UTC().AddDate(0, 3, 0)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_range", "Intervalo de datas inválido.")
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_range", "Intervalo de datas inválido.")
			return
		}
		to = parsed
	}

	events, err := h.list.Execute(c.Request.Context(), ucScheduling.ListEventsInput{
		UserID: userID,
		From:   from,
		To:     to,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	now := time.Now().UTC()
	out := make([]dto.EventListDTO, 0, len(events))
	for i := range events {
		ev := &events[i]

		// "completed" é derivado na leitura, nunca gravado.
		status := ev.SchedulingStatus
		if domain.IsCompleted(ev, now) {
			status = "completed"
		}

		attendeeIDs := make([]uint, 0, len(ev.Attendees))
		for _, a := range ev.Attendees {
			attendeeIDs = append(attendeeIDs, a.UserID)
		}

		out = append(out, dto.EventListDTO{
			ID:               ev.ID,
			Title:            ev.Title,
			StartDateTime:    ev.StartDateTime,
			EndDateTime:      ev.EndDateTime,
			DurationMinutes:  ev.DurationMinutes,
			SchedulingStatus: status,
			MeetingProvider:  ev.MeetingProvider,
			HostUserID:       ev.HostUserID,
			AttendeeIDs:      attendeeIDs,
		})
	}

	httpresp.List(c, out)
}

// ======================================================
// HELPERS
// ======================================================

// parseEventTime aceita RFC3339 ou "2006-01-02 15:04" no fuso do coach.
func (h *EventHandler) parseEventTime(c *gin.Context, coachID uint, raw string) (time.Time, bool) {
	profile, err := h.getProfile.Execute(c.Request.Context(), coachID)
	if err != nil {
		httperr.FromBusiness(c, err)
		return time.Time{}, false
	}

	t, perr := parseDateTimeIn(profile.Timezone, raw)
	if perr != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return time.Time{}, false
	}
	return t, true
}
