package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"asistio.com/asistio/core"
	"asistio.com/asistio/core/models"
	"asistio.com/asistio/web/common"
)

type KioskEndpoint struct {
	env *Env
}

func RegisterKiosks(r *gin.RouterGroup, env *Env) {
	endpoint := &KioskEndpoint{env: env}
	r.GET("/kiosks", endpoint.List)
	r.GET("/kiosks/:code", endpoint.Get)
	r.POST("/kiosks", endpoint.Create)
	r.PUT("/kiosks/:code", endpoint.Update)
	r.PUT("/kiosks/:code/deactivate", endpoint.Deactivate)
	r.POST("/kiosks/import", endpoint.Import)
}

func (ep *KioskEndpoint) List(c *gin.Context) {
	q := ep.env.DB.WithContext(c.Request.Context()).Model(&models.Kiosk{})

	if product := c.Query("product"); product != "" {
		q = q.Where("product_type = ?", product)
	}
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}

	var kiosks []models.Kiosk
	if err := q.Order("code").Find(&kiosks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(kiosks))
}

func (ep *KioskEndpoint) Get(c *gin.Context) {
	var kiosk models.Kiosk
	err := ep.env.DB.WithContext(c.Request.Context()).Where("code = ?", c.Param("code")).First(&kiosk).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("kiosk not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(kiosk))
}

type KioskDTO struct {
	Code         string  `json:"code" binding:"required,len=4,numeric"`
	Name         string  `json:"name" binding:"required"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ProductType  string  `json:"productType" binding:"required"`
	Latitude     float64 `json:"latitude" binding:"required,latitude"`
	Longitude    float64 `json:"longitude" binding:"required,longitude"`
	RadiusMeters float64 `json:"radiusMeters" binding:"gte=0"`
	HubCode      *string `json:"hubCode"`
}

func (ep *KioskEndpoint) Create(c *gin.Context) {
	var dto KioskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	kiosk := models.Kiosk{
		Code:         dto.Code,
		Name:         dto.Name,
		City:         dto.City,
		State:        dto.State,
		ProductType:  dto.ProductType,
		Latitude:     dto.Latitude,
		Longitude:    dto.Longitude,
		RadiusMeters: dto.RadiusMeters,
		HubCode:      dto.HubCode,
		Active:       true,
	}

	if err := ep.env.DB.WithContext(c.Request.Context()).Create(&kiosk).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(kiosk))
}

func (ep *KioskEndpoint) Update(c *gin.Context) {
	var dto KioskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	res := ep.env.DB.WithContext(c.Request.Context()).Model(&models.Kiosk{}).
		Where("code = ?", c.Param("code")).
		Updates(map[string]interface{}{
			"name":          dto.Name,
			"city":          dto.City,
			"state":         dto.State,
			"product_type":  dto.ProductType,
			"latitude":      dto.Latitude,
			"longitude":     dto.Longitude,
			"radius_meters": dto.RadiusMeters,
			"hub_code":      dto.HubCode,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(res.Error.Error()))
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("kiosk not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

// Deactivate retires a kiosk without deleting its history. Check-ins against
// a deactivated code are rejected at submission time.
func (ep *KioskEndpoint) Deactivate(c *gin.Context) {
	res := ep.env.DB.WithContext(c.Request.Context()).Model(&models.Kiosk{}).
		Where("code = ?", c.Param("code")).
		Update("active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(res.Error.Error()))
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("kiosk not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

func (ep *KioskEndpoint) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("CSV file is required"))
		return
	}
	defer file.Close()

	summary, err := core.ImportKiosks(c.Request.Context(), ep.env.DB, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(summary))
}
