package store

import "fmt"

// CreatePublishLog 创建发布日志，返回 publish_log_id
func (s *Store) CreatePublishLog(date string, recordCount int, sheetFile string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO publish_logs (date, record_count, sheet_file, status)
		VALUES (?, ?, ?, 'processing')
	`, date, recordCount, sheetFile)
	if err != nil {
		return 0, fmt.Errorf("failed to create publish log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get publish log id: %w", err)
	}
	return id, nil
}

// UpdatePublishLog 更新发布日志状态
func (s *Store) UpdatePublishLog(id int64, overwrite bool, status, errorMessage string) error {
	ow := 0
	if overwrite {
		ow = 1
	}
	_, err := s.db.Exec(`
		UPDATE publish_logs SET
			overwrite = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, ow, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update publish log: %w", err)
	}
	return nil
}
