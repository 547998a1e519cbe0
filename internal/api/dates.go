package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minerva/internal/model"
)

type datesResponse struct {
	ActiveDate string           `json:"activeDate"`
	Items      []model.DateStat `json:"items"`
}

// ListDates 获取存在排期的日期列表
// GET /api/dates
func (h *Handler) ListDates(c *gin.Context) {
	items, err := h.store.ListAvailableDates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	active, err := h.store.GetActiveDate()
	if err != nil {
		active = ""
	}

	c.JSON(http.StatusOK, datesResponse{
		ActiveDate: active,
		Items:      items,
	})
}

type selectDateRequest struct {
	Date string `json:"date"`
}

// SelectDate 切换当前操作日期
// POST /api/dates/select
func (h *Handler) SelectDate(c *gin.Context) {
	var req selectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if !model.ValidDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法日期"})
		return
	}

	if err := h.store.SetActiveDate(req.Date); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activeDate": req.Date})
}
