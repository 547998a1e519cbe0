package api

import (
	"testing"
	"time"
)

func TestBuildScheduleContentDisposition(t *testing.T) {
	t.Parallel()

	got := buildScheduleContentDisposition("2024-06-01")
	want := "attachment; filename=\"schedule-2024-06-01.xlsx\"; filename*=UTF-8''%E6%8E%92%E6%9C%9F%E8%A1%A8-2024-06-01.xlsx"
	if got != want {
		t.Fatalf("content-disposition mismatch:\n got: %s\nwant: %s", got, want)
	}
}

// TestDownloadStoreExpiry 测试下载令牌过期
func TestDownloadStoreExpiry(t *testing.T) {
	s := newDownloadStore()

	token := s.put("/tmp/a.xlsx", "2024-06-01", -time.Minute)
	if _, ok := s.get(token); ok {
		t.Error("expired token should not resolve")
	}

	token = s.put("/tmp/b.xlsx", "2024-06-01", time.Minute)
	item, ok := s.get(token)
	if !ok || item.filePath != "/tmp/b.xlsx" {
		t.Errorf("get = %+v, %v", item, ok)
	}

	s.delete(token)
	if _, ok := s.get(token); ok {
		t.Error("deleted token should not resolve")
	}
}
