package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"asistio.com/asistio/core"
	"asistio.com/asistio/core/models"
	"asistio.com/asistio/web/common"
)

type TimeOffEndpoint struct {
	env *Env
}

func RegisterTimeOff(r *gin.RouterGroup, env *Env) {
	endpoint := &TimeOffEndpoint{env: env}
	r.GET("/timeoff", endpoint.List)
	r.POST("/timeoff", endpoint.Create)
	r.PUT("/timeoff/:id/decide", endpoint.Decide)
}

func (ep *TimeOffEndpoint) List(c *gin.Context) {
	q := ep.env.DB.WithContext(c.Request.Context()).Model(&models.TimeOffRequest{})

	if userID := c.Query("userId"); userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var requests []models.TimeOffRequest
	if err := q.Order("start_date DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(requests))
}

type TimeOffDTO struct {
	UserID    string          `json:"userId" binding:"required"`
	StartDate common.DateOnly `json:"startDate" binding:"required"`
	EndDate   common.DateOnly `json:"endDate" binding:"required"`
	Reason    string          `json:"reason"`
}

func (ep *TimeOffEndpoint) Create(c *gin.Context) {
	var dto TimeOffDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	if dto.EndDate.Before(dto.StartDate.Time) {
		c.JSON(http.StatusUnprocessableEntity, common.NewErrorResponse("endDate must not precede startDate"))
		return
	}

	request := models.TimeOffRequest{
		ID:        uuid.New().String(),
		UserID:    dto.UserID,
		StartDate: dto.StartDate.Time,
		EndDate:   dto.EndDate.Time,
		Status:    models.TimeOffPending,
		Reason:    dto.Reason,
	}

	if err := ep.env.DB.WithContext(c.Request.Context()).Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(request))
}

type TimeOffDecisionDTO struct {
	Approve bool `json:"approve"`
}

// Decide settles a pending request. Only pending requests can be decided;
// the WHERE guard makes a second decision attempt a 409.
func (ep *TimeOffEndpoint) Decide(c *gin.Context) {
	var dto TimeOffDecisionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	status := models.TimeOffApproved
	if !dto.Approve {
		status = models.TimeOffRejected
	}

	decider := c.GetString("userName")
	if decider == "" {
		decider = c.GetString("userId")
	}
	now := time.Now().In(core.BusinessTZ)

	res := ep.env.DB.WithContext(c.Request.Context()).Model(&models.TimeOffRequest{}).
		Where("id = ? AND status = ?", c.Param("id"), models.TimeOffPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decider,
			"decided_at": now,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(res.Error.Error()))
		return
	}
	if res.RowsAffected == 0 {
		var count int64
		err := ep.env.DB.WithContext(c.Request.Context()).Model(&models.TimeOffRequest{}).
			Where("id = ?", c.Param("id")).Count(&count).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("time-off request not found"))
			return
		}
		c.JSON(http.StatusConflict, common.NewErrorResponse("time-off request already decided"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}
