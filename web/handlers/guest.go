package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventgate.io/eventgate/core"
	"eventgate.io/eventgate/web/common"
)

// Guest looks up a profile by scan code, including attendance state.
func (ep *Endpoint) Guest(c *gin.Context) {
	scanCode := c.Param("scanCode")

	db := ep.dm.DB(c.Request.Context())
	status, err := core.FindGuestByCode(db, scanCode)
	if err != nil {
		if errors.Is(err, core.ErrGuestNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("Guest not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	payload := newGuestPayload(status.Guest)
	payload.HasAttended = status.HasAttended
	payload.LastCheckIn = status.LastCheckIn

	c.JSON(http.StatusOK, GuestResponse{Success: true, Guest: payload})
}
