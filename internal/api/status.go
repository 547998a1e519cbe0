package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minerva/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized bool   `json:"initialized"` // 是否已初始化（有数据）
	ActiveDate  string `json:"activeDate"`  // 当前操作日期
	TotalCount  int    `json:"totalCount"`  // 当前日期的排期数
	Branches    int    `json:"branches"`    // 当前日期涉及的分校数
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	date, err := h.store.GetActiveDate()
	if err != nil {
		c.JSON(http.StatusOK, StatusResponse{
			Initialized: false,
		})
		return
	}

	count, err := h.store.CountSchedules(store.ScheduleQueryOptions{Date: &date})
	if err != nil {
		count = 0
	}

	branches, err := h.store.ListBranches(date)
	if err != nil {
		branches = nil
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized: count > 0,
		ActiveDate:  date,
		TotalCount:  count,
		Branches:    len(branches),
	})
}
