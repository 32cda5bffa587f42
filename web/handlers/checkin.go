package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventgate.io/eventgate/core"
	"eventgate.io/eventgate/web/common"
)

type CheckInRequest struct {
	ScanCode   string  `json:"scan_code" binding:"required"`
	DeviceInfo *string `json:"device_info"`
	Location   *string `json:"location"`
	Notes      *string `json:"notes"`
}

// CheckIn records attendance for a scanned code. A repeated scan is a normal
// 200 with is_duplicate set, never an error.
func (ep *Endpoint) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db := ep.dm.DB(c.Request.Context())
	outcome, err := core.CheckInByCode(db, req.ScanCode, core.Provenance{
		DeviceInfo: req.DeviceInfo,
		Location:   req.Location,
		Notes:      req.Notes,
	})
	if err != nil {
		if errors.Is(err, core.ErrGuestNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("Guest not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, CheckInResponse{
		Success: true,
		Message: checkInMessage(outcome),
		Guest:   newOutcomePayload(outcome),
	})
}

func checkInMessage(outcome *core.Outcome) string {
	if outcome.Duplicate {
		return outcome.Guest.Name + " already checked in"
	}
	return "Welcome " + outcome.Guest.Name
}

type ManualCheckInRequest struct {
	GuestID uint `json:"guest_id" binding:"required"`
}

// ManualCheckIn is the by-id path used from the guest list. It honors the
// same at-most-one invariant and reports duplicates the same way.
func (ep *Endpoint) ManualCheckIn(c *gin.Context) {
	var req ManualCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db := ep.dm.DB(c.Request.Context())
	prov := core.Provenance{
		DeviceInfo: strptr(`{"type":"manual","source":"admin_panel"}`),
		Location:   strptr("Admin panel"),
		Notes:      strptr("Checked in manually by reception"),
	}
	outcome, err := core.CheckInByID(db, req.GuestID, prov)
	if err != nil {
		if errors.Is(err, core.ErrGuestNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("Guest not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, CheckInResponse{
		Success: true,
		Message: checkInMessage(outcome),
		Guest:   newOutcomePayload(outcome),
	})
}

type MarkAbsentRequest struct {
	GuestID uint `json:"guest_id" binding:"required"`
}

// MarkAbsent is the administrative undo: it frees the guest's single
// attendance slot.
func (ep *Endpoint) MarkAbsent(c *gin.Context) {
	var req MarkAbsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db := ep.dm.DB(c.Request.Context())
	if err := core.MarkAbsent(db, req.GuestID); err != nil {
		if errors.Is(err, core.ErrGuestNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("Guest not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewMessageResponse("Guest marked as absent"))
}
