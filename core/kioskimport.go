package core

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"asistio.com/asistio/core/models"
	"asistio.com/asistio/utils"
)

var kioskCodeRe = regexp.MustCompile(`^\d{4}$`)

type ImportSummary struct {
	Imported int      `json:"imported"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// ParseKioskCSV reads the admin bulk-upload format:
// code,name,city,state,product,lat,lon,radius
// The header row is skipped. Bad rows are collected, not fatal.
func ParseKioskCSV(r io.Reader) ([]models.Kiosk, []string, error) {
	rows, err := utils.ParseCSV(r)
	if err != nil {
		return nil, nil, err
	}

	var kiosks []models.Kiosk
	var rowErrors []string
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 7 {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: expected at least 7 columns, got %d", i, len(row)))
			continue
		}

		code := row[0]
		if !kioskCodeRe.MatchString(code) {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid kiosk code %q", i, code))
			continue
		}

		lat, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid latitude: %v", i, err))
			continue
		}
		lon, err := strconv.ParseFloat(row[6], 64)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid longitude: %v", i, err))
			continue
		}

		radius := 0.0
		if len(row) > 7 && row[7] != "" {
			radius, err = strconv.ParseFloat(row[7], 64)
			if err != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid radius: %v", i, err))
				continue
			}
		}

		kiosks = append(kiosks, models.Kiosk{
			Code:         code,
			Name:         row[1],
			City:         row[2],
			State:        row[3],
			ProductType:  row[4],
			Latitude:     lat,
			Longitude:    lon,
			RadiusMeters: radius,
			Active:       true,
		})
	}

	return kiosks, rowErrors, nil
}

// ImportKiosks upserts parsed rows; an existing code is updated in place.
func ImportKiosks(ctx context.Context, db *gorm.DB, r io.Reader) (ImportSummary, error) {
	kiosks, rowErrors, err := ParseKioskCSV(r)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("failed to parse CSV: %w", err)
	}

	summary := ImportSummary{Rejected: len(rowErrors), Errors: rowErrors}
	for i := range kiosks {
		err := db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "city", "state", "product_type", "latitude", "longitude", "radius_meters"}),
			}).
			Create(&kiosks[i]).Error
		if err != nil {
			summary.Rejected++
			summary.Errors = append(summary.Errors, fmt.Sprintf("kiosk %s: %v", kiosks[i].Code, err))
			continue
		}
		summary.Imported++
	}

	return summary, nil
}
