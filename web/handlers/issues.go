package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"asistio.com/asistio/core"
	"asistio.com/asistio/web/common"
)

type IssueEndpoint struct {
	env *Env
}

func RegisterIssues(r *gin.RouterGroup, env *Env) {
	endpoint := &IssueEndpoint{env: env}
	r.GET("/issues", endpoint.List)
	r.PUT("/issues/:id/resolve", endpoint.Resolve)
}

func (ep *IssueEndpoint) List(c *gin.Context) {
	limit := 100
	offset := 0
	if val, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = val
	}
	if val, err := strconv.Atoi(c.Query("offset")); err == nil {
		offset = val
	}

	filter := core.IssueFilter{
		Date:   c.Query("date"),
		UserID: c.Query("userId"),
	}
	if resolved := c.Query("resolved"); resolved != "" {
		val := resolved == "true"
		filter.Resolved = &val
	}

	issues, total, err := ep.env.Store.ListIssues(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(issues, total))
}

type ResolveIssueDTO struct {
	Note string `json:"note" binding:"required"`
}

func (ep *IssueEndpoint) Resolve(c *gin.Context) {
	var dto ResolveIssueDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	resolver := c.GetString("userName")
	if resolver == "" {
		resolver = c.GetString("userId")
	}

	issue, err := core.ResolveIssue(c.Request.Context(), ep.env.Store, c.Param("id"), resolver, dto.Note, time.Now().In(core.BusinessTZ))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrIssueNotFound):
			c.JSON(http.StatusNotFound, common.NewErrorResponse(err.Error()))
		case errors.Is(err, core.ErrIssueAlreadyResolved):
			c.JSON(http.StatusConflict, common.NewErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(issue))
}
