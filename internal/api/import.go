package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"minerva/internal/service/excel"
)

// Import 导入排期 Excel
// POST /api/import (multipart form: file, 可选 date)
// 解析第一个工作表并替换对应日期的排期；一次导入只接受单一日期
func (h *Handler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少上传文件"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "仅支持 .xlsx 文件"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer f.Close()

	parser := excel.NewParser()
	if err := parser.LoadFile(f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件解析失败: " + err.Error()})
		return
	}
	defer parser.Close()

	defaultDate := c.PostForm("date")
	records, report, err := parser.ParseSchedules(fileHeader.Filename, defaultDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件解析失败: " + err.Error()})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "没有可导入的记录", "report": report})
		return
	}

	// 校验所有记录属于同一日期
	date := records[0].Date
	for _, r := range records {
		if r.Date != date {
			c.JSON(http.StatusBadRequest, gin.H{"error": "一次导入只支持单一日期", "report": report})
			return
		}
	}

	if err := h.store.ReplaceSchedulesForDate(date, records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 导入后把该日期设为当前操作日期
	if err := h.store.SetActiveDate(date); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   date,
		"count":  len(records),
		"report": report,
	})
}
