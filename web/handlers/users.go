package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"asistio.com/asistio/core/models"
	"asistio.com/asistio/web/common"
)

type UserEndpoint struct {
	env *Env
}

func RegisterUsers(r *gin.RouterGroup, env *Env) {
	endpoint := &UserEndpoint{env: env}
	r.GET("/users", endpoint.List)
	r.GET("/users/:id", endpoint.Get)
	r.POST("/users", endpoint.Create)
	r.PUT("/users/:id", endpoint.Update)
	r.PUT("/users/:id/deactivate", endpoint.Deactivate)
}

func (ep *UserEndpoint) List(c *gin.Context) {
	q := ep.env.DB.WithContext(c.Request.Context()).Model(&models.User{})

	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if product := c.Query("product"); product != "" {
		q = q.Where("product_type = ?", product)
	}
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}

	var users []models.User
	if err := q.Order("name").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(users))
}

func (ep *UserEndpoint) Get(c *gin.Context) {
	var user models.User
	err := ep.env.DB.WithContext(c.Request.Context()).Where("id = ?", c.Param("id")).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("user not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(user))
}

type UserDTO struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Role        string  `json:"role" binding:"required,oneof=admin supervisor promotor"`
	ProductType *string `json:"productType"`
	KioskCode   *string `json:"kioskCode"`
}

func (ep *UserEndpoint) Create(c *gin.Context) {
	var dto UserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	user := models.User{
		ID:          uuid.New().String(),
		Name:        dto.Name,
		Email:       dto.Email,
		Role:        dto.Role,
		ProductType: dto.ProductType,
		KioskCode:   dto.KioskCode,
		Active:      true,
	}

	if err := ep.env.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(user))
}

func (ep *UserEndpoint) Update(c *gin.Context) {
	var dto UserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	res := ep.env.DB.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("id = ?", c.Param("id")).
		Updates(map[string]interface{}{
			"name":         dto.Name,
			"email":        dto.Email,
			"role":         dto.Role,
			"product_type": dto.ProductType,
			"kiosk_code":   dto.KioskCode,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(res.Error.Error()))
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("user not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

// Deactivate removes a user from the daily scan population without losing
// their attendance history.
func (ep *UserEndpoint) Deactivate(c *gin.Context) {
	res := ep.env.DB.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("id = ?", c.Param("id")).
		Update("active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(res.Error.Error()))
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("user not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}
