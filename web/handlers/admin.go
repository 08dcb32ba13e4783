package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"asistio.com/asistio/core"
	"asistio.com/asistio/infrastructure/filesystem"
	"asistio.com/asistio/web/common"
)

type AdminEndpoint struct {
	env *Env
}

func RegisterAdmin(r *gin.RouterGroup, env *Env) {
	endpoint := &AdminEndpoint{env: env}
	r.POST("/admin/scan", endpoint.RunScan)
	r.GET("/admin/photos", endpoint.ListPhotos)
	r.GET("/reports/attendance", endpoint.AttendanceReport)
}

// RunScan triggers the absence scan on demand, outside the schedule. The
// scan is idempotent so an overlap with the scheduled run is harmless.
// ?dryRun=true previews what a run would create without writing.
func (ep *AdminEndpoint) RunScan(c *gin.Context) {
	detector := &core.Detector{
		Users:     ep.env.Store,
		TimeOff:   ep.env.Store,
		Schedules: ep.env.Store,
		CheckIns:  ep.env.Store,
		Issues:    ep.env.Store,
		Notifier:  ep.env.Notifier,
		Logger:    ep.env.Logger,
		Opts: core.ScanOptions{
			Grace:  time.Duration(ep.env.Settings.GraceMinutes) * time.Minute,
			DryRun: c.Query("dryRun") == "true",
		},
	}

	summary, err := detector.Run(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(summary))
}

// ListPhotos returns the stored photo keys for one day, for the review
// screen and for spotting uploads no event references.
func (ep *AdminEndpoint) ListPhotos(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().In(core.BusinessTZ).Format("2006-01-02")
	}

	keys, err := filesystem.ListFiles(ep.env.Settings.PhotoBucket, "checkins/"+date+"/", c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"date": date, "keys": keys}))
}

func (ep *AdminEndpoint) AttendanceReport(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("startDate and endDate are required"))
		return
	}

	filename := fmt.Sprintf("attendance-%s-%s.xlsx", startDate, endDate)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := core.WriteAttendanceReport(c.Request.Context(), ep.env.DB, startDate, endDate, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
}
