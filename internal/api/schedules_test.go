package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"minerva/internal/model"
	"minerva/internal/service/excel"
)

// TestListSchedulesWithFilters 测试分校/时段筛选参数
func TestListSchedulesWithFilters(t *testing.T) {
	r, st := newTestRouter(t, excel.NewFileSink(t.TempDir()), &fakeRemote{})

	records := []*model.Schedule{
		{ID: "1", Date: "2024-06-01", Branch: "SAN MIGUEL KIDS", Program: "Juniors A", StartTime: "09:00"},
		{ID: "2", Date: "2024-06-01", Branch: "SAN MIGUEL", Program: "Adults 1", StartTime: "09:30"},
		{ID: "3", Date: "2024-06-01", Branch: "SURCO KIDS", Program: "Juniors B", StartTime: "18:00"},
	}
	if err := st.BatchInsertSchedules(records); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/schedules?date=2024-06-01&branch=KIDS&hour=09", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Total    int               `json:"total"`
		Filtered int               `json:"filtered"`
		Items    []*model.Schedule `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
	if resp.Filtered != 1 || resp.Items[0].ID != "1" {
		t.Errorf("filtered = %d items %v, want only record 1", resp.Filtered, resp.Items)
	}
}

// TestGetScheduleColumns 测试列配置接口
func TestGetScheduleColumns(t *testing.T) {
	r, st := newTestRouter(t, excel.NewFileSink(t.TempDir()), &fakeRemote{})

	_ = st.BatchInsertSchedules([]*model.Schedule{
		{ID: "1", Date: "2024-06-01", Branch: "SURCO", Program: "Adults 1", StartTime: "18:00"},
		{ID: "2", Date: "2024-06-01", Branch: "LA MOLINA", Program: "Teens", StartTime: "09:00"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/schedules/columns?date=2024-06-01", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Columns []model.ColumnSpec `json:"columns"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Columns) == 0 {
		t.Fatal("no columns returned")
	}
	if resp.Columns[0].Kind != model.ColumnSelection {
		t.Errorf("first column kind = %s, want selection", resp.Columns[0].Kind)
	}

	var branchCol, timeCol *model.ColumnSpec
	for i := range resp.Columns {
		switch resp.Columns[i].Key {
		case "branch":
			branchCol = &resp.Columns[i]
		case "startTime":
			timeCol = &resp.Columns[i]
		}
	}
	if branchCol == nil || !branchCol.Filterable || len(branchCol.FilterOptions) != 2 {
		t.Errorf("branch column = %+v, want filterable with 2 options", branchCol)
	}
	if timeCol == nil || timeCol.FilterKind != "startHour" || len(timeCol.FilterOptions) != 2 {
		t.Errorf("startTime column = %+v, want startHour filter with [09 18]", timeCol)
	}
}

// TestReplaceSchedulesValidation 测试替换接口校验
func TestReplaceSchedulesValidation(t *testing.T) {
	r, _ := newTestRouter(t, excel.NewFileSink(t.TempDir()), &fakeRemote{})

	// 日期不一致
	w := putJSON(t, r, "/api/schedules", map[string]any{
		"date": "2024-06-01",
		"records": []map[string]any{
			{"date": "2024-06-02", "branch": "SURCO", "program": "A", "startTime": "09:00"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("mismatched date status = %d, want 400", w.Code)
	}

	// 合法替换，缺失 ID 自动生成
	w = putJSON(t, r, "/api/schedules", map[string]any{
		"date": "2024-06-01",
		"records": []map[string]any{
			{"branch": "SURCO", "program": "Adults 1", "startTime": "09:00"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("replace status = %d, body = %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/schedules?date=2024-06-01", nil)
	get := httptest.NewRecorder()
	r.ServeHTTP(get, req)

	var resp struct {
		Items []*model.Schedule `json:"items"`
	}
	_ = json.Unmarshal(get.Body.Bytes(), &resp)
	if len(resp.Items) != 1 || resp.Items[0].ID == "" {
		t.Errorf("items = %+v, want one record with generated id", resp.Items)
	}
}

// TestPrefs 测试界面偏好读写
func TestPrefs(t *testing.T) {
	r, _ := newTestRouter(t, excel.NewFileSink(t.TempDir()), &fakeRemote{})

	w := patchJSON(t, r, "/api/prefs", map[string]string{
		"branch_filters": `["KIDS"]`,
		"hour_filters":   `["09","18"]`,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("patch prefs status = %d, body = %s", w.Code, w.Body.String())
	}

	// 未知键被拒绝
	w = patchJSON(t, r, "/api/prefs", map[string]string{"bogus": "1"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown pref key status = %d, want 400", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/prefs", nil)
	get := httptest.NewRecorder()
	r.ServeHTTP(get, req)

	var resp struct {
		Prefs map[string]string `json:"prefs"`
	}
	_ = json.Unmarshal(get.Body.Bytes(), &resp)
	if resp.Prefs["branch_filters"] != `["KIDS"]` {
		t.Errorf("prefs = %v", resp.Prefs)
	}
}
