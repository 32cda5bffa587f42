package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventgate.io/eventgate/core"
	"eventgate.io/eventgate/web/common"
)

// Stats returns fresh aggregate attendance figures.
func (ep *Endpoint) Stats(c *gin.Context) {
	db := ep.dm.DB(c.Request.Context())
	stats, err := core.GetStats(db, ep.loc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, StatsResponse{Success: true, Stats: *stats})
}
