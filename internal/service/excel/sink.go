package excel

import (
	"fmt"
	"os"
	"path/filepath"

	"minerva/internal/model"
)

// FileSink 把排期工作簿写入导出目录
// 实现 publisher.SheetSink
type FileSink struct {
	dir      string
	exporter *Exporter
}

// NewFileSink 创建文件写入目标
func NewFileSink(dir string) *FileSink {
	return &FileSink{
		dir:      dir,
		exporter: NewExporter(),
	}
}

// Write 生成并保存某日期的排期工作簿，返回文件路径
// 同日期重复发布会覆盖之前生成的文件
func (s *FileSink) Write(date string, records []*model.Schedule) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := s.exporter.Export(date, records)
	if err != nil {
		return "", fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	path := filepath.Join(s.dir, DefaultFileName(date))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}
