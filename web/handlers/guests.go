package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eventgate.io/eventgate/core"
	"eventgate.io/eventgate/web/common"
)

// ListGuests is the paginated, filterable directory view. Attendance state
// comes from the same joined read as the guest rows.
func (ep *Endpoint) ListGuests(c *gin.Context) {
	params := core.SearchParams{
		Search:     c.Query("search"),
		Attendance: core.FilterAll,
	}

	switch filter := c.DefaultQuery("attendance", "all"); filter {
	case "all", "attended", "pending":
		params.Attendance = core.AttendanceFilter(filter)
	default:
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(
			"Query parameter 'attendance' must be one of: all, attended, pending"))
		return
	}

	if val, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Page = val
	}
	if val, err := strconv.Atoi(c.Query("limit")); err == nil {
		params.Limit = val
	}

	db := ep.dm.DB(c.Request.Context())
	items, pagination, err := core.SearchGuests(db, params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, ListGuestsResponse{
		Success:    true,
		Guests:     items,
		Pagination: *pagination,
	})
}
