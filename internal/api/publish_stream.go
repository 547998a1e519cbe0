package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"minerva/internal/model"
	"minerva/internal/store"
)

type publishProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// BeginPublishStream 发起发布（SSE 进度）
// POST /api/publish/stream
// 事件序列：start → sheet_done → (conflict | done | error)
// conflict 事件携带会话 token，供 confirm/cancel 接口使用
func (h *Handler) BeginPublishStream(c *gin.Context) {
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

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	send := func(event publishProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(publishProgressEvent{
		Type:    "start",
		Message: "开始发布",
		Data: map[string]any{
			"date":  date,
			"count": len(records),
		},
		Timestamp: time.Now(),
	})

	sess, err := h.publisher.Begin(date, records, func(stage string) {
		if stage == "sheet_done" {
			send(publishProgressEvent{
				Type:      "sheet_done",
				Message:   "排期文件已生成",
				Data:      map[string]any{},
				Timestamp: time.Now(),
			})
		}
	})
	if err != nil {
		send(publishProgressEvent{
			Type:      "error",
			Message:   "发布失败: " + err.Error(),
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		return
	}

	switch sess.Phase {
	case model.PhaseAwaitingOverwrite:
		send(publishProgressEvent{
			Type:    "conflict",
			Message: "远端已存在该日期的排期，需要确认覆盖",
			Data: map[string]any{
				"token": sess.Token,
			},
			Timestamp: time.Now(),
		})
	case model.PhaseDone:
		view := h.publishView(sess)
		send(publishProgressEvent{
			Type:    "done",
			Message: "发布完成",
			Data: map[string]any{
				"token":       sess.Token,
				"downloadUrl": view.DownloadURL,
			},
			Timestamp: time.Now(),
		})
	default:
		send(publishProgressEvent{
			Type:      "error",
			Message:   "发布失败: " + sess.LastError,
			Data:      map[string]any{"token": sess.Token},
			Timestamp: time.Now(),
		})
	}
}
