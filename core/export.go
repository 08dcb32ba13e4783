package core

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"asistio.com/asistio/utils"
)

// WriteAttendanceReport streams an xlsx workbook of check-in events for the
// date range to w. One row per event, validation columns included so the
// export matches what the review screens show.
func WriteAttendanceReport(ctx context.Context, db *gorm.DB, startDate, endDate string, w io.Writer) error {
	events, _, err := SearchCheckIns(ctx, db, CheckInFilter{StartDate: startDate, EndDate: endDate}, 100000, 0)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance"
	f.SetSheetName("Sheet1", sheet)

	header := []interface{}{
		"Date", "Time", "User", "Kiosk", "Product", "Type", "Status",
		"Minutes Late", "Distance (m)", "Location OK", "Photo", "Note",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, ev := range events {
		row := []interface{}{
			ev.Date,
			ev.Timestamp.In(BusinessTZ).Format("15:04"),
			ev.UserID,
			fmt.Sprintf("%s %s", ev.KioskCode, ev.KioskName),
			ev.ProductType,
			ev.Type,
			ev.Status,
			ev.MinutesLate,
			ev.DistanceMeters,
			utils.FormatBoolean(ev.LocationValid, "yes", "no"),
			ev.PhotoStatus,
			ev.Note,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
