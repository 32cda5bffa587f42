package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"eventgate.io/eventgate/model"
	"eventgate.io/eventgate/web/common"
)

type ImportStats struct {
	TotalProcessed int   `json:"total_processed"`
	Inserted       int   `json:"inserted"`
	Duplicates     int   `json:"duplicates"`
	Deleted        int64 `json:"deleted"`
	Errors         int   `json:"errors"`
}

type ImportResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Stats   ImportStats `json:"stats"`
	Errors  []string    `json:"errors"`
}

// ImportExcel bulk-loads guests from an uploaded .xlsx. Required columns are
// Code and Name; rows with duplicate codes are counted, not fatal. With
// replaceData=true the existing directory (attendance first) is wiped before
// inserting.
func (ep *Endpoint) ImportExcel(c *gin.Context) {
	fileHeader, err := c.FormFile("excelFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("No file uploaded"))
		return
	}
	replace := c.PostForm("replaceData") == "true"

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}
	defer file.Close()

	wb, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Not a valid Excel file"))
		return
	}
	defer wb.Close()

	rows, err := wb.GetRows(wb.GetSheetName(0))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}
	if len(rows) < 2 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("The Excel file is empty"))
		return
	}

	cols := headerIndex(rows[0])
	if _, ok := cols["code"]; !ok {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Missing required column 'Code'"))
		return
	}
	if _, ok := cols["name"]; !ok {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Missing required column 'Name'"))
		return
	}

	var guests []model.Guest
	var rowErrors []string
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		code := cellAt(row, cols["code"])
		name := cellAt(row, cols["name"])
		if code == "" || name == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: Code and Name are required", rowNum))
			continue
		}

		guest := model.Guest{
			ScanCode: code,
			Name:     name,
			Email:    optionalCell(row, cols, "email"),
			Phone:    optionalCell(row, cols, "phone"),
			Company:  optionalCell(row, cols, "company"),
			Category: optionalCell(row, cols, "category"),
		}
		if idx, ok := cols["table"]; ok {
			if n, err := strconv.Atoi(cellAt(row, idx)); err == nil {
				guest.TableNumber = &n
			}
		}
		guests = append(guests, guest)
	}

	if len(guests) == 0 {
		c.JSON(http.StatusBadRequest, ImportResponse{
			Message: "No importable rows in the Excel file",
			Stats:   ImportStats{TotalProcessed: len(rows) - 1, Errors: len(rowErrors)},
			Errors:  rowErrors,
		})
		return
	}

	db := ep.dm.DB(c.Request.Context())

	// The wipe and the inserts commit together; a failure partway must not
	// leave the directory half-replaced.
	var deleted int64
	inserted, duplicates := 0, 0
	txErr := db.Transaction(func(tx *gorm.DB) error {
		if replace {
			if err := tx.Where("1 = 1").Delete(&model.AttendanceRecord{}).Error; err != nil {
				return err
			}
			result := tx.Where("1 = 1").Delete(&model.Guest{})
			if result.Error != nil {
				return result.Error
			}
			deleted = result.RowsAffected
		}

		for i := range guests {
			err := tx.Create(&guests[i]).Error
			switch {
			case err == nil:
				inserted++
			case errors.Is(err, gorm.ErrDuplicatedKey):
				duplicates++
			default:
				rowErrors = append(rowErrors, fmt.Sprintf("Failed to insert %s: %v", guests[i].Name, err))
			}
		}
		return nil
	})
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(txErr.Error()))
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		Success: true,
		Message: "Import completed",
		Stats: ImportStats{
			TotalProcessed: len(rows) - 1,
			Inserted:       inserted,
			Duplicates:     duplicates,
			Deleted:        deleted,
			Errors:         len(rowErrors),
		},
		Errors: rowErrors,
	})
}

// headerIndex maps lowercased header names to column positions.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			cols[name] = i
		}
	}
	return cols
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optionalCell(row []string, cols map[string]int, name string) *string {
	idx, ok := cols[name]
	if !ok {
		return nil
	}
	if v := cellAt(row, idx); v != "" {
		return &v
	}
	return nil
}
