package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"asistio.com/asistio/core"
	"asistio.com/asistio/core/models"
	"asistio.com/asistio/web/common"
)

type ScheduleEndpoint struct {
	env *Env
}

func RegisterSchedules(r *gin.RouterGroup, env *Env) {
	endpoint := &ScheduleEndpoint{env: env}
	r.GET("/schedules", endpoint.List)
	r.PUT("/schedules", endpoint.Upsert)
	r.GET("/holidays", endpoint.ListHolidays)
	r.PUT("/holidays", endpoint.UpsertHoliday)
}

func (ep *ScheduleEndpoint) List(c *gin.Context) {
	var schedules []models.ProductSchedule
	if err := ep.env.DB.WithContext(c.Request.Context()).Order("product_type").Find(&schedules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(schedules))
}

type ScheduleDTO struct {
	ProductType     string `json:"productType" binding:"required"`
	WorkDays        string `json:"workDays" binding:"required"`
	WorksOnHolidays bool   `json:"worksOnHolidays"`
	EntryTime       string `json:"entryTime" binding:"required,len=5"`
	ExitTime        string `json:"exitTime" binding:"required,len=5"`
	LunchStart      string `json:"lunchStart" binding:"required,len=5"`
	LunchMinutes    int32  `json:"lunchMinutes" binding:"required"`
	ToleranceMin    int32  `json:"toleranceMinutes"`
}

// Upsert replaces the schedule for a product type. One row per product is
// the invariant; the unique index plus the conflict clause keep it that way.
func (ep *ScheduleEndpoint) Upsert(c *gin.Context) {
	var dto ScheduleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	sched := models.ProductSchedule{
		ProductType:     dto.ProductType,
		WorkDays:        dto.WorkDays,
		WorksOnHolidays: dto.WorksOnHolidays,
		EntryTime:       dto.EntryTime,
		ExitTime:        dto.ExitTime,
		LunchStart:      dto.LunchStart,
		LunchMinutes:    dto.LunchMinutes,
		ToleranceMin:    dto.ToleranceMin,
	}

	if err := core.ValidateScheduleBounds(&sched); err != nil {
		c.JSON(http.StatusUnprocessableEntity, common.NewErrorResponse(err.Error()))
		return
	}

	err := ep.env.DB.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"work_days", "works_on_holidays", "entry_time", "exit_time",
				"lunch_start", "lunch_minutes", "tolerance_minutes",
			}),
		}).
		Create(&sched).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(sched))
}

func (ep *ScheduleEndpoint) ListHolidays(c *gin.Context) {
	var holidays []models.Holiday
	if err := ep.env.DB.WithContext(c.Request.Context()).Order("date").Find(&holidays).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(holidays))
}

type HolidayDTO struct {
	Date common.DateOnly `json:"date" binding:"required"`
	Name string          `json:"name" binding:"required"`
}

func (ep *ScheduleEndpoint) UpsertHoliday(c *gin.Context) {
	var dto HolidayDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	holiday := models.Holiday{Date: dto.Date.Time, Name: dto.Name}
	err := ep.env.DB.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(&holiday).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(holiday))
}
