package excel

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"minerva/internal/model"
)

// Parser 排期表 Excel 解析器
type Parser struct {
	file   *excelize.File
	fileID string
}

// RowError 单行解析错误
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseReport 解析结果报告
type ParseReport struct {
	TotalRows    int        `json:"totalRows"`
	ImportedRows int        `json:"importedRows"`
	ErrorRows    int        `json:"errorRows"`
	Errors       []RowError `json:"errors"`
}

// NewParser 创建解析器
func NewParser() *Parser {
	return &Parser{
		fileID: uuid.New().String(),
	}
}

// LoadFile 加载Excel文件
func (p *Parser) LoadFile(reader io.Reader) error {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return fmt.Errorf("failed to open excel: %w", err)
	}
	p.file = file
	return nil
}

// Close 释放工作簿
func (p *Parser) Close() error {
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}

// 表头到字段的映射（中英文表头都接受）
var headerAlias = map[string]string{
	"日期": "date", "date": "date", "fecha": "date",
	"分校": "branch", "branch": "branch", "sede": "branch",
	"类别": "category", "category": "category",
	"课程": "program", "program": "program", "curso": "program",
	"级别": "level", "level": "level", "nivel": "level",
	"教师": "instructor", "instructor": "instructor", "teacher": "instructor",
	"开始时间": "startTime", "start": "startTime", "start time": "startTime", "inicio": "startTime",
	"结束时间": "endTime", "end": "endTime", "end time": "endTime", "fin": "endTime",
	"名额": "capacity", "capacity": "capacity", "vacantes": "capacity",
	"已报名": "enrolled", "enrolled": "enrolled",
	"方式": "modality", "modality": "modality", "modalidad": "modality",
	"备注": "note", "note": "note",
}

// ParseSchedules 解析第一个工作表中的排期记录
// sourceFile 写入每条记录的来源字段；defaultDate 在行内缺少日期列时使用
func (p *Parser) ParseSchedules(sourceFile, defaultDate string) ([]*model.Schedule, *ParseReport, error) {
	if p.file == nil {
		return nil, nil, errors.New("no file loaded")
	}

	sheets := p.file.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := p.file.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("sheet %s has no data rows", sheet)
	}

	// 识别表头
	colField := make(map[int]string)
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if f, ok := headerAlias[key]; ok {
			colField[i] = f
		}
	}
	if len(colField) == 0 {
		return nil, nil, fmt.Errorf("sheet %s has no recognizable headers", sheet)
	}

	report := &ParseReport{}
	var out []*model.Schedule

	for rowIdx, row := range rows[1:] {
		rowNo := rowIdx + 2
		if isEmptyRow(row) {
			continue
		}
		report.TotalRows++

		r := &model.Schedule{
			ID:         uuid.New().String(),
			Date:       defaultDate,
			RowNo:      rowNo,
			SourceFile: sourceFile,
		}

		for i, cell := range row {
			field, ok := colField[i]
			if !ok {
				continue
			}
			value := strings.TrimSpace(cell)
			switch field {
			case "date":
				if value != "" {
					r.Date = value
				}
			case "branch":
				r.Branch = value
			case "category":
				r.Category = value
			case "program":
				r.Program = value
			case "level":
				r.Level = value
			case "instructor":
				r.Instructor = value
			case "startTime":
				r.StartTime = normalizeTime(value)
			case "endTime":
				r.EndTime = normalizeTime(value)
			case "capacity":
				r.Capacity, _ = strconv.Atoi(value)
			case "enrolled":
				r.Enrolled, _ = strconv.Atoi(value)
			case "modality":
				r.Modality = value
			case "note":
				r.Note = value
			}
		}

		if err := r.Validate(); err != nil {
			report.ErrorRows++
			report.Errors = append(report.Errors, RowError{
				Sheet:   sheet,
				Row:     rowNo,
				Message: err.Error(),
			})
			continue
		}

		report.ImportedRows++
		out = append(out, r)
	}

	return out, report, nil
}

// normalizeTime 规整时间格式："8:30" -> "08:30"，"08:30:00" -> "08:30"
func normalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return s
	}
	h := parts[0]
	if len(h) == 1 {
		h = "0" + h
	}
	return h + ":" + parts[1]
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
