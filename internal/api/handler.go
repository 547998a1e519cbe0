package api

import (
	"github.com/gin-gonic/gin"

	"minerva/internal/publisher"
	"minerva/internal/store"
)

// Handler API 处理器
type Handler struct {
	store     *store.Store
	publisher *publisher.Publisher
	downloads *downloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(store *store.Store, pub *publisher.Publisher) *Handler {
	return &Handler{
		store:     store,
		publisher: pub,
		downloads: newDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 可用日期
	router.GET("/dates", h.ListDates)
	router.POST("/dates/select", h.SelectDate)

	// 排期数据
	router.GET("/schedules", h.ListSchedules)
	router.GET("/schedules/columns", h.GetScheduleColumns)
	router.PUT("/schedules", h.ReplaceSchedules)
	router.DELETE("/schedules", h.DeleteSchedules)

	// 数据导入
	router.POST("/import", h.Import)

	// 发布
	router.POST("/publish", h.BeginPublish)
	router.POST("/publish/stream", h.BeginPublishStream)
	router.GET("/publish/:token", h.GetPublish)
	router.POST("/publish/confirm/:token", h.ConfirmPublish)
	router.POST("/publish/cancel/:token", h.CancelPublish)

	// 文件下载
	router.GET("/download/:token", h.Download)

	// 界面偏好
	router.GET("/prefs", h.GetPrefs)
	router.PATCH("/prefs", h.UpdatePrefs)
}
