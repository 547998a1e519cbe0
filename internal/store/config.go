package store

import (
	"database/sql"
	"fmt"
)

// 配置键常量
// 对应旧版前端 localStorage 中的键，迁移后统一存入 config 表
const (
	KeyActiveDate       = "active_date"       // 当前操作日期
	KeyBranchFilters    = "branch_filters"    // 已选分校筛选（JSON 数组）
	KeyHourFilters      = "hour_filters"      // 已选时段筛选（JSON 数组）
	KeyLastPublishDate  = "last_publish_date" // 最近一次发布的日期
	KeyScheduleFileName = "schedule_filename" // 默认导出文件名前缀
)

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("config key not found: %s", key)
		}
		return "", err
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// GetAllConfig 获取所有配置项
func (s *Store) GetAllConfig() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}

	return config, rows.Err()
}

// GetActiveDate 获取当前操作日期
func (s *Store) GetActiveDate() (string, error) {
	date, err := s.GetConfig(KeyActiveDate)
	if err != nil {
		return "", fmt.Errorf("failed to get active date: %w", err)
	}
	return date, nil
}

// SetActiveDate 设置当前操作日期
func (s *Store) SetActiveDate(date string) error {
	return s.SetConfig(KeyActiveDate, date)
}
