package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventgate.io/eventgate/core"
	"eventgate.io/eventgate/model"
	"eventgate.io/eventgate/web/common"
)

type CreateGuestRequest struct {
	Name        string  `json:"name" binding:"required"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Company     *string `json:"company"`
	AutoCheckIn bool    `json:"auto_checkin"`
}

// CreateGuest registers a walk-in with a generated scan code, optionally
// checking them in right away through the same coordinator path as a scan.
func (ep *Endpoint) CreateGuest(c *gin.Context) {
	var req CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Field 'name' is required"))
		return
	}

	guest := model.Guest{
		ScanCode:            newManualScanCode(),
		Name:                name,
		Email:               req.Email,
		Phone:               req.Phone,
		Company:             req.Company,
		Category:            strptr("Walk-in"),
		SpecialRequirements: strptr("Registered at the event"),
	}

	db := ep.dm.DB(c.Request.Context())
	if err := db.Create(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Astronomically unlikely code collision; ask the operator to retry.
			c.JSON(http.StatusConflict, common.NewErrorResponse("Generated code collided, please retry"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	payload := newGuestPayload(guest)
	message := "Guest created"
	if req.AutoCheckIn {
		outcome, err := core.CheckInByID(db, guest.ID, core.Provenance{
			DeviceInfo: strptr(`{"type":"new_guest","source":"admin_panel"}`),
			Location:   strptr("Admin panel"),
			Notes:      strptr("Created and checked in automatically"),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		payload = newOutcomePayload(outcome)
		message = "Guest created and checked in"
	}

	c.JSON(http.StatusOK, CheckInResponse{Success: true, Message: message, Guest: payload})
}

func newManualScanCode() string {
	return "MANUAL_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
