package excel

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildTestWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			f.SetCellValue("Sheet1", cell, val)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return &buf
}

// TestParseSchedules 测试排期解析
func TestParseSchedules(t *testing.T) {
	buf := buildTestWorkbook(t, [][]interface{}{
		{"日期", "分校", "课程", "教师", "开始时间", "结束时间", "名额"},
		{"2024-06-01", "SAN MIGUEL KIDS", "Juniors A", "Lucía", "9:00", "10:30", 12},
		{"2024-06-01", "SURCO", "Adults 1", "Marco", "18:00", "19:30", 16},
	})

	p := NewParser()
	if err := p.LoadFile(buf); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	defer p.Close()

	records, report, err := p.ParseSchedules("test.xlsx", "")
	if err != nil {
		t.Fatalf("ParseSchedules failed: %v", err)
	}

	if report.ImportedRows != 2 || report.ErrorRows != 0 {
		t.Fatalf("report = %+v, want 2 imported, 0 errors", report)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	r := records[0]
	if r.Branch != "SAN MIGUEL KIDS" {
		t.Errorf("Branch = %q", r.Branch)
	}
	if r.StartTime != "09:00" {
		t.Errorf("StartTime = %q, want 09:00 (normalized)", r.StartTime)
	}
	if r.Capacity != 12 {
		t.Errorf("Capacity = %d, want 12", r.Capacity)
	}
	if r.ID == "" {
		t.Error("record should get a generated ID")
	}
	if r.RowNo != 2 {
		t.Errorf("RowNo = %d, want 2", r.RowNo)
	}
}

// TestParseSchedulesRowErrors 测试行级错误上报
func TestParseSchedulesRowErrors(t *testing.T) {
	buf := buildTestWorkbook(t, [][]interface{}{
		{"日期", "分校", "课程", "开始时间"},
		{"2024-06-01", "SURCO", "Adults 1", "18:00"},
		{"not-a-date", "SURCO", "Adults 2", "19:00"},
		{"2024-06-01", "", "Adults 3", "20:00"},
	})

	p := NewParser()
	if err := p.LoadFile(buf); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	defer p.Close()

	records, report, err := p.ParseSchedules("test.xlsx", "")
	if err != nil {
		t.Fatalf("ParseSchedules failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if report.ErrorRows != 2 || len(report.Errors) != 2 {
		t.Fatalf("report = %+v, want 2 error rows", report)
	}
	if report.Errors[0].Row != 3 {
		t.Errorf("first error row = %d, want 3", report.Errors[0].Row)
	}
}

// TestParseSchedulesDefaultDate 测试缺少日期列时使用默认日期
func TestParseSchedulesDefaultDate(t *testing.T) {
	buf := buildTestWorkbook(t, [][]interface{}{
		{"分校", "课程", "开始时间"},
		{"LA MOLINA", "Teens 2", "16:00"},
	})

	p := NewParser()
	if err := p.LoadFile(buf); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	defer p.Close()

	records, _, err := p.ParseSchedules("test.xlsx", "2024-06-02")
	if err != nil {
		t.Fatalf("ParseSchedules failed: %v", err)
	}
	if len(records) != 1 || records[0].Date != "2024-06-02" {
		t.Fatalf("records = %+v, want one record dated 2024-06-02", records)
	}
}

// TestNormalizeTime 测试时间规整
func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"8:30", "08:30"},
		{"08:30", "08:30"},
		{"08:30:00", "08:30"},
		{"", ""},
		{"morning", "morning"},
	}
	for _, tt := range tests {
		if got := normalizeTime(tt.in); got != tt.want {
			t.Errorf("normalizeTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
