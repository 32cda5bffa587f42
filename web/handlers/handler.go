package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"eventgate.io/eventgate/core"
)

type Endpoint struct {
	dm  *core.DatabaseManager
	loc *time.Location
}

// Register wires the check-in API under r. loc is the event's reference
// timezone used for the daily attendance figure.
func Register(r *gin.RouterGroup, dm *core.DatabaseManager, loc *time.Location) {
	ep := &Endpoint{dm: dm, loc: loc}

	r.GET("/guest/:scanCode", ep.Guest)
	r.POST("/check-in", ep.CheckIn)
	r.POST("/manual-checkin", ep.ManualCheckIn)
	r.POST("/mark-absent", ep.MarkAbsent)
	r.POST("/create-guest", ep.CreateGuest)
	r.POST("/import-excel", ep.ImportExcel)
	r.GET("/stats", ep.Stats)
	r.GET("/guests", ep.ListGuests)
}
