package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/httpresp"
	"github.com/coachly/call-scheduler/internal/middleware"
	ucScheduling "github.com/coachly/call-scheduler/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	getProfile      *ucScheduling.GetProfile
	updateProfile   *ucScheduling.UpdateProfile
	addBlock        *ucScheduling.AddBlockedSlot
	removeBlock     *ucScheduling.RemoveBlockedSlot
	getAvailability *ucScheduling.GetAvailability
}

func NewAvailabilityHandler(
	getProfile *ucScheduling.GetProfile,
	updateProfile *ucScheduling.UpdateProfile,
	addBlock *ucScheduling.AddBlockedSlot,
	removeBlock *ucScheduling.RemoveBlockedSlot,
	getAvailability *ucScheduling.GetAvailability,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		getProfile:      getProfile,
		updateProfile:   updateProfile,
		addBlock:        addBlock,
		removeBlock:     removeBlock,
		getAvailability: getAvailability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateProfileRequest struct {
	Timezone                   *string                     `json:"timezone"`
	MinimumNoticeMinutes       *int                        `json:"minimum_notice_minutes"`
	DefaultSlotDurationMinutes *int                        `json:"default_slot_duration_minutes"`
	Windows                    *[]ucScheduling.WindowInput `json:"windows"`
}

type AddBlockedSlotRequest struct {
	Start  string `json:"start" binding:"required"`
	End    string `json:"end" binding:"required"`
	Reason string `json:"reason"`
}

// ======================================================
// PROFILE
// ======================================================

func (h *AvailabilityHandler) GetProfile(c *gin.Context) {
	coachID := c.MustGet(middleware.ContextUserID).(uint)

	profile, err := h.getProfile.Execute(c.Request.Context(), coachID)
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.OK(c, profile)
}

func (h *AvailabilityHandler) UpdateProfile(c *gin.Context) {
	coachID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	profile, err := h.updateProfile.Execute(c.Request.Context(), ucScheduling.UpdateProfileInput{
		CoachID:                    coachID,
		Timezone:                   req.Timezone,
		MinimumNoticeMinutes:       req.MinimumNoticeMinutes,
		DefaultSlotDurationMinutes: req.DefaultSlotDurationMinutes,
		Windows:                    req.Windows,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.OK(c, profile)
}

// ======================================================
// BLOCKED SLOTS
// ======================================================

func (h *AvailabilityHandler) AddBlockedSlot(c *gin.Context) {
	coachID := c.MustGet(middleware.ContextUserID).(uint)

	var req AddBlockedSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	profile, err := h.getProfile.Execute(c.Request.Context(), coachID)
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	start, err1 := parseDateTimeIn(profile.Timezone, req.Start)
	end, err2 := parseDateTimeIn(profile.Timezone, req.End)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	block, err := h.addBlock.Execute(c.Request.Context(), ucScheduling.AddBlockedSlotInput{
		CoachID: coachID,
		Start:   start,
		End:     end,
		Reason:  req.Reason,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	c.JSON(201, block)
}

func (h *AvailabilityHandler) RemoveBlockedSlot(c *gin.Context) {
	coachID := c.MustGet(middleware.ContextUserID).(uint)

	blockID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	if err := h.removeBlock.Execute(c.Request.Context(), coachID, uint(blockID)); err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{"status": "ok"})
}

// ======================================================
// SLOTS
// ======================================================

func (h *AvailabilityHandler) GetSlots(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	coachID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	profile, err := h.getProfile.Execute(c.Request.Context(), uint(coachID))
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	from, err1 := parseDateIn(profile.Timezone, c.Query("from"))
	to, err2 := parseDateIn(profile.Timezone, c.Query("to"))
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date_range", "Intervalo de datas inválido.")
		return
	}

	duration := 0
	if d := c.Query("duration"); d != "" {
		duration, _ = strconv.Atoi(d)
	}

	out, err := h.getAvailability.Execute(c.Request.Context(), ucScheduling.GetAvailabilityInput{
		CoachID:         uint(coachID),
		ActorID:         actorID,
		From:            from,
		To:              to,
		DurationMinutes: duration,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.OK(c, out)
}
