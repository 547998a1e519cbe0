package store

import (
	"fmt"

	"minerva/internal/model"
)

// ListAvailableDates 列出当前数据库中存在排期的日期（倒序）
func (s *Store) ListAvailableDates() ([]model.DateStat, error) {
	rows, err := s.db.Query(`
		SELECT date, COUNT(1) AS cnt
		FROM schedules
		GROUP BY date
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query available dates failed: %w", err)
	}
	defer rows.Close()

	var out []model.DateStat
	for rows.Next() {
		var it model.DateStat
		if err := rows.Scan(&it.Date, &it.Count); err != nil {
			return nil, fmt.Errorf("scan available dates failed: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate available dates failed: %w", err)
	}
	return out, nil
}
