package store

import (
	"fmt"
	"strings"

	"minerva/internal/model"
)

// ScheduleQueryOptions 排期查询选项
type ScheduleQueryOptions struct {
	Date       *string
	Branch     *string // 精确匹配
	Instructor *string
}

// BatchInsertSchedules 批量插入排期记录
func (s *Store) BatchInsertSchedules(records []*model.Schedule) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO schedules (
			id, date, branch, category, program, level, instructor,
			start_time, end_time, capacity, enrolled, modality, note,
			row_no, source_file
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			r.ID, r.Date, r.Branch, r.Category, r.Program, r.Level, r.Instructor,
			r.StartTime, r.EndTime, r.Capacity, r.Enrolled, r.Modality, r.Note,
			r.RowNo, r.SourceFile,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ReplaceSchedulesForDate 替换某日期的全部排期（删除后插入，同一事务）
func (s *Store) ReplaceSchedulesForDate(date string, records []*model.Schedule) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM schedules WHERE date = ?", date); err != nil {
		return fmt.Errorf("failed to clear schedules for %s: %w", date, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO schedules (
			id, date, branch, category, program, level, instructor,
			start_time, end_time, capacity, enrolled, modality, note,
			row_no, source_file
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			r.ID, r.Date, r.Branch, r.Category, r.Program, r.Level, r.Instructor,
			r.StartTime, r.EndTime, r.Capacity, r.Enrolled, r.Modality, r.Note,
			r.RowNo, r.SourceFile,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const scheduleColumns = `
	id, date, branch, category, program, level, instructor,
	start_time, end_time, capacity, enrolled, modality, note,
	row_no, source_file
`

// ListSchedules 查询排期记录
func (s *Store) ListSchedules(opts ScheduleQueryOptions) ([]*model.Schedule, error) {
	var conds []string
	var args []interface{}

	if opts.Date != nil {
		conds = append(conds, "date = ?")
		args = append(args, *opts.Date)
	}
	if opts.Branch != nil {
		conds = append(conds, "branch = ?")
		args = append(args, *opts.Branch)
	}
	if opts.Instructor != nil {
		conds = append(conds, "instructor = ?")
		args = append(args, *opts.Instructor)
	}

	query := "SELECT " + scheduleColumns + " FROM schedules"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY start_time ASC, branch ASC, row_no ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var out []*model.Schedule
	for rows.Next() {
		r := &model.Schedule{}
		if err := rows.Scan(
			&r.ID, &r.Date, &r.Branch, &r.Category, &r.Program, &r.Level, &r.Instructor,
			&r.StartTime, &r.EndTime, &r.Capacity, &r.Enrolled, &r.Modality, &r.Note,
			&r.RowNo, &r.SourceFile,
		); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountSchedules 统计排期记录数量
func (s *Store) CountSchedules(opts ScheduleQueryOptions) (int, error) {
	var conds []string
	var args []interface{}

	if opts.Date != nil {
		conds = append(conds, "date = ?")
		args = append(args, *opts.Date)
	}
	if opts.Branch != nil {
		conds = append(conds, "branch = ?")
		args = append(args, *opts.Branch)
	}

	query := "SELECT COUNT(1) FROM schedules"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count schedules: %w", err)
	}
	return count, nil
}

// DeleteSchedulesForDate 删除某日期的全部排期
func (s *Store) DeleteSchedulesForDate(date string) error {
	if _, err := s.db.Exec("DELETE FROM schedules WHERE date = ?", date); err != nil {
		return fmt.Errorf("failed to delete schedules for %s: %w", date, err)
	}
	return nil
}

// ListBranches 列出某日期出现过的分校（去重，按名称排序）
func (s *Store) ListBranches(date string) ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT branch FROM schedules WHERE date = ? ORDER BY branch", date)
	if err != nil {
		return nil, fmt.Errorf("failed to query branches: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
