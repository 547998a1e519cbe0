package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"minerva/internal/model"
	"minerva/internal/publisher"
	"minerva/internal/store"
)

type beginPublishRequest struct {
	Date string `json:"date"`
}

type publishResponse struct {
	publisher.Session
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// BeginPublish 发起发布
// POST /api/publish
// 先写排期工作簿，再以非覆盖方式写远端：
//   - phase=done：发布完成，附下载地址
//   - phase=awaiting-overwrite：远端已有该日期数据，需调用 confirm 或 cancel
//   - phase=idle + lastError：某一步失败，交互保持打开
func (h *Handler) BeginPublish(c *gin.Context) {
	var req beginPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	date := req.Date
	if date == "" {
		var err error
		date, err = h.store.GetActiveDate()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "未指定日期且未设置当前日期"})
			return
		}
	}

	records, err := h.store.ListSchedules(store.ScheduleQueryOptions{Date: &date})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "该日期没有排期记录"})
		return
	}

	sess, err := h.publisher.Begin(date, records, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.publishView(sess))
}

// GetPublish 查询发布会话状态
// GET /api/publish/:token
func (h *Handler) GetPublish(c *gin.Context) {
	sess, err := h.publisher.Get(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "发布会话不存在或已过期"})
		return
	}
	c.JSON(http.StatusOK, h.publishView(sess))
}

// ConfirmPublish 确认覆盖远端已有数据
// POST /api/publish/confirm/:token
func (h *Handler) ConfirmPublish(c *gin.Context) {
	sess, err := h.publisher.Confirm(c.Param("token"))
	if err != nil {
		h.publishError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.publishView(sess))
}

// CancelPublish 取消发布会话
// POST /api/publish/cancel/:token
func (h *Handler) CancelPublish(c *gin.Context) {
	if err := h.publisher.Cancel(c.Param("token")); err != nil {
		h.publishError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

func (h *Handler) publishError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, publisher.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "发布会话不存在或已过期"})
	case errors.Is(err, publisher.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "发布正在进行中"})
	case errors.Is(err, publisher.ErrNotAwaitingOverwrite):
		c.JSON(http.StatusBadRequest, gin.H{"error": "当前状态不能执行该操作"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// publishView 包装会话快照；发布完成时附一次性下载地址
func (h *Handler) publishView(sess publisher.Session) publishResponse {
	resp := publishResponse{Session: sess}
	if sess.Phase == model.PhaseDone && sess.SheetFile != "" {
		token := h.downloads.put(sess.SheetFile, sess.Date, 10*time.Minute)
		resp.DownloadURL = "/api/download/" + token
	}
	return resp
}
