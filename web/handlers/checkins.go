package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"asistio.com/asistio/core"
	"asistio.com/asistio/core/models"
	"asistio.com/asistio/infrastructure/filesystem"
	"asistio.com/asistio/utils"
	"asistio.com/asistio/web/common"
)

type CheckInEndpoint struct {
	env *Env
}

func RegisterCheckIns(r *gin.RouterGroup, env *Env) {
	endpoint := &CheckInEndpoint{env: env}
	r.POST("/checkins", endpoint.Submit)
	r.POST("/checkins/search", endpoint.Search)
	r.POST("/checkins/photo", endpoint.UploadPhoto)
	r.GET("/checkins/:id/photo", endpoint.DownloadPhoto)
	r.POST("/checkins/:id/photo-validation", endpoint.ApplyPhotoVerdict)
	r.PUT("/checkins/:id/photo-review", endpoint.ReviewPhoto)
}

type CheckInDTO struct {
	KioskCode string  `json:"kioskCode" binding:"required,len=4"`
	Type      string  `json:"type" binding:"required,oneof=entry lunch-out lunch-return exit"`
	Timestamp string  `json:"timestamp" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	PhotoKey  string  `json:"photoKey" binding:"required"`
	Note      string  `json:"note"`
}

func (ep *CheckInEndpoint) Submit(c *gin.Context) {
	var dto CheckInDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	ts, err := utils.ParseISOTime(dto.Timestamp)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(fmt.Sprintf("invalid timestamp: %v", err)))
		return
	}

	req := core.CheckInRequest{
		UserID:    c.GetString("userId"),
		UserName:  c.GetString("userName"),
		KioskCode: dto.KioskCode,
		Type:      dto.Type,
		Timestamp: *ts,
		Latitude:  dto.Latitude,
		Longitude: dto.Longitude,
		Accuracy:  dto.Accuracy,
		PhotoKey:  dto.PhotoKey,
		Note:      dto.Note,
	}

	event, notification, err := core.SubmitCheckIn(c.Request.Context(), ep.env.Store, req, ep.env.submitOptions())
	if err != nil {
		switch {
		case errors.Is(err, core.ErrKioskNotFound), errors.Is(err, core.ErrKioskInactive):
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		case errors.Is(err, core.ErrCommentRequired):
			c.JSON(http.StatusUnprocessableEntity, common.NewErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		}
		return
	}

	if notification != nil && ep.env.Notifier != nil {
		if err := ep.env.Notifier.Notify(c.Request.Context(), *notification); err != nil {
			ep.env.Logger.Warn("late check-in notification failed",
				zap.String("checkin", event.ID), zap.Error(err))
		}
	}

	if ep.env.Photos != nil && event.PhotoKey != "" {
		// Classification is best effort and must not delay the response;
		// failures leave the event pending for manual review.
		go func(id, key string) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = ep.env.Photos.Process(ctx, id, key)
		}(event.ID, event.PhotoKey)
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(event))
}

type CheckInSearchDTO struct {
	StartDate *common.DateOnly `json:"startDate"`
	EndDate   *common.DateOnly `json:"endDate"`
	KioskCode string           `json:"kioskCode"`
	Product   string           `json:"product"`
	UserID    string           `json:"userId"`
	Status    string           `json:"status"`
}

func (ep *CheckInEndpoint) Search(c *gin.Context) {
	var dto CheckInSearchDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	limit := 100
	offset := 0
	if val, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = val
	}
	if val, err := strconv.Atoi(c.Query("offset")); err == nil {
		offset = val
	}

	filter := core.CheckInFilter{
		KioskCode: dto.KioskCode,
		Product:   dto.Product,
		UserID:    dto.UserID,
		Status:    dto.Status,
	}
	if dto.StartDate != nil && !dto.StartDate.IsZero() {
		filter.StartDate = dto.StartDate.Format("2006-01-02")
	}
	if dto.EndDate != nil && !dto.EndDate.IsZero() {
		filter.EndDate = dto.EndDate.Format("2006-01-02")
	}

	events, total, err := core.SearchCheckIns(c.Request.Context(), ep.env.DB, filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(events, total))
}

// UploadPhoto streams the check-in photo to S3 and returns the key the
// submission references.
func (ep *CheckInEndpoint) UploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("photo file is required"))
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("photo must be jpg or png"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := fmt.Sprintf("checkins/%s/%s%s",
		time.Now().In(core.BusinessTZ).Format("2006-01-02"), uuid.New().String(), ext)

	if err := filesystem.WriteFile(ep.env.Settings.PhotoBucket, key, contentType, c.Request.Context(), file); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{"photoKey": key}))
}

// DownloadPhoto streams the stored photo for the review screen.
func (ep *CheckInEndpoint) DownloadPhoto(c *gin.Context) {
	var event models.CheckInEvent
	err := ep.env.DB.WithContext(c.Request.Context()).Where("id = ?", c.Param("id")).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("check-in event not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	if event.PhotoKey == "" {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("no photo attached"))
		return
	}

	c.Header("Content-Type", filesystem.ContentType(event.PhotoKey))
	if err := filesystem.ReadFile(ep.env.Settings.PhotoBucket, event.PhotoKey, c.Request.Context(), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
}

// ApplyPhotoVerdict is the external vision callback. Replays are absorbed.
func (ep *CheckInEndpoint) ApplyPhotoVerdict(c *gin.Context) {
	id := c.Param("id")

	var verdict core.PhotoVerdict
	if err := c.ShouldBindJSON(&verdict); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	if err := core.ApplyPhotoVerdict(c.Request.Context(), ep.env.DB, id, verdict); err != nil {
		if errors.Is(err, core.ErrCheckInNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

type PhotoReviewDTO struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

func (ep *CheckInEndpoint) ReviewPhoto(c *gin.Context) {
	id := c.Param("id")

	var dto PhotoReviewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	reviewer := c.GetString("userName")
	if reviewer == "" {
		reviewer = c.GetString("userId")
	}

	err := core.ReviewPhoto(c.Request.Context(), ep.env.DB, id, dto.Approve, reviewer, dto.Reason, time.Now().In(core.BusinessTZ))
	if err != nil {
		if errors.Is(err, core.ErrCheckInNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}
