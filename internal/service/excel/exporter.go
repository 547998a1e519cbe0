package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"minerva/internal/model"
)

// Exporter 排期表 Excel 导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 将某日期的排期记录导出为工作簿
func (e *Exporter) Export(date string, records []*model.Schedule) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "排期表"
	f.SetSheetName("Sheet1", sheetName)

	// 设置表头
	headers := []string{
		"日期", "分校", "类别", "课程", "级别", "教师",
		"开始时间", "结束时间", "名额", "已报名", "方式", "备注",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	// 设置表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	f.SetRowStyle(sheetName, 1, 1, headerStyle)

	// 写入数据
	for i, r := range records {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.Date)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Branch)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Program)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Level)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.Instructor)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.StartTime)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.EndTime)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), r.Capacity)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), r.Enrolled)
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", row), r.Modality)
		f.SetCellValue(sheetName, fmt.Sprintf("L%d", row), r.Note)
	}

	// 创建汇总表：按分校统计当日课次
	summarySheet := "分校汇总"
	f.NewSheet(summarySheet)

	byBranch := make(map[string]int)
	var order []string
	for _, r := range records {
		if _, ok := byBranch[r.Branch]; !ok {
			order = append(order, r.Branch)
		}
		byBranch[r.Branch]++
	}

	f.SetCellValue(summarySheet, "A1", "分校")
	f.SetCellValue(summarySheet, "B1", "课次")
	for i, b := range order {
		row := i + 2
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), b)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), byBranch[b])
	}
	f.SetRowStyle(summarySheet, 1, 1, headerStyle)

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 22)
	f.SetColWidth(sheetName, "C", "F", 16)
	f.SetColWidth(sheetName, "G", "K", 10)
	f.SetColWidth(sheetName, "L", "L", 30)

	return f, nil
}

// DefaultFileName 默认导出文件名
func DefaultFileName(date string) string {
	return fmt.Sprintf("schedule-%s.xlsx", date)
}
