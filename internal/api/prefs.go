package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minerva/internal/store"
)

// 允许通过接口读写的偏好键
// 旧版前端存在 localStorage 里的键迁移到了 config 表
var prefKeys = map[string]bool{
	store.KeyBranchFilters:    true,
	store.KeyHourFilters:      true,
	store.KeyLastPublishDate:  true,
	store.KeyScheduleFileName: true,
}

// GetPrefs 获取界面偏好
// GET /api/prefs
func (h *Handler) GetPrefs(c *gin.Context) {
	all, err := h.store.GetAllConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	prefs := make(map[string]string)
	for k, v := range all {
		if prefKeys[k] {
			prefs[k] = v
		}
	}
	c.JSON(http.StatusOK, gin.H{"prefs": prefs})
}

// UpdatePrefs 更新界面偏好
// PATCH /api/prefs
func (h *Handler) UpdatePrefs(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	for k := range req {
		if !prefKeys[k] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "未知偏好键: " + k})
			return
		}
	}
	for k, v := range req {
		if err := h.store.SetConfig(k, v); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"updated": len(req)})
}
