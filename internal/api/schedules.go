package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"minerva/internal/filter"
	"minerva/internal/model"
	"minerva/internal/store"
)

// ListSchedules 查询排期列表
// GET /api/schedules?date=2024-06-01&branch=KIDS&branch=SURCO&hour=09&hour=18
// branch 参数为子串筛选（选中 KIDS 命中所有名称含 KIDS 的分校）
// hour 参数匹配开始时间的小时部分
func (h *Handler) ListSchedules(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		var err error
		date, err = h.store.GetActiveDate()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "未指定日期且未设置当前日期"})
			return
		}
	}
	if !model.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法日期"})
		return
	}

	records, err := h.store.ListSchedules(store.ScheduleQueryOptions{Date: &date})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	opts := filter.Options{
		Branches: c.QueryArray("branch"),
		Hours:    c.QueryArray("hour"),
	}
	filtered := filter.Apply(records, opts)
	if filtered == nil {
		filtered = []*model.Schedule{}
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"total":    len(records),
		"filtered": len(filtered),
		"items":    filtered,
	})
}

// GetScheduleColumns 获取排期表列配置
// GET /api/schedules/columns?date=2024-06-01
// 返回声明式列描述：筛选候选值取自该日期实际数据
func (h *Handler) GetScheduleColumns(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		var err error
		date, err = h.store.GetActiveDate()
		if err != nil {
			date = ""
		}
	}

	var branches []string
	var hours []string
	if date != "" {
		branches, _ = h.store.ListBranches(date)
		records, err := h.store.ListSchedules(store.ScheduleQueryOptions{Date: &date})
		if err == nil {
			hours = filter.HourOptions(records)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"columns": filter.ScheduleColumns(branches, hours),
	})
}

type replaceSchedulesRequest struct {
	Date    string            `json:"date"`
	Records []*model.Schedule `json:"records"`
}

// ReplaceSchedules 替换某日期的全部排期
// PUT /api/schedules
func (h *Handler) ReplaceSchedules(c *gin.Context) {
	var req replaceSchedulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if !model.ValidDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法日期"})
		return
	}

	for i, r := range req.Records {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		if r.Date == "" {
			r.Date = req.Date
		}
		if r.Date != req.Date {
			c.JSON(http.StatusBadRequest, gin.H{"error": "记录日期与请求日期不一致"})
			return
		}
		if err := r.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "index": i})
			return
		}
	}

	if err := h.store.ReplaceSchedulesForDate(req.Date, req.Records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  req.Date,
		"count": len(req.Records),
	})
}

// DeleteSchedules 删除某日期的全部排期
// DELETE /api/schedules?date=2024-06-01
func (h *Handler) DeleteSchedules(c *gin.Context) {
	date := c.Query("date")
	if !model.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法日期"})
		return
	}

	if err := h.store.DeleteSchedulesForDate(date); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date})
}
