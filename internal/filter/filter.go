package filter

import (
	"strings"

	"minerva/internal/model"
)

// BranchMatch 分校筛选：单元格值包含任意一个已选筛选子串即命中
// 支持层级类别：选中 "KIDS" 可命中所有名称中含 "KIDS" 的分校
// 未选择任何筛选时视为全部命中
func BranchMatch(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, f := range selected {
		if f == "" {
			continue
		}
		if strings.Contains(value, f) {
			return true
		}
	}
	return false
}

// StartHour 提取 "HH:MM" 格式时间的小时部分（前两个字符）
func StartHour(timeOfDay string) string {
	if len(timeOfDay) < 2 {
		return ""
	}
	return timeOfDay[:2]
}

// HourMatch 时段筛选：开始时间的小时部分命中任意一个已选小时即通过
// 未选择任何小时时视为全部命中
func HourMatch(startTime string, selectedHours []string) bool {
	if len(selectedHours) == 0 {
		return true
	}
	hour := StartHour(startTime)
	for _, h := range selectedHours {
		if hour == h {
			return true
		}
	}
	return false
}

// Options 表格筛选条件
type Options struct {
	Branches []string `json:"branches"` // 分校子串筛选
	Hours    []string `json:"hours"`    // 开始时间小时筛选（"07"、"18" 等）
}

// Match 记录是否通过全部筛选条件
func Match(r *model.Schedule, opts Options) bool {
	if !BranchMatch(r.Branch, opts.Branches) {
		return false
	}
	if !HourMatch(r.StartTime, opts.Hours) {
		return false
	}
	return true
}

// Apply 对记录集合应用筛选，返回命中的子集（保持原顺序）
func Apply(records []*model.Schedule, opts Options) []*model.Schedule {
	if len(opts.Branches) == 0 && len(opts.Hours) == 0 {
		return records
	}
	out := make([]*model.Schedule, 0, len(records))
	for _, r := range records {
		if Match(r, opts) {
			out = append(out, r)
		}
	}
	return out
}

// PageSelection 计算页级选中状态（表头三态复选框）
func PageSelection(pageSize, selectedCount int) model.SelectionState {
	switch {
	case pageSize == 0 || selectedCount == 0:
		return model.SelectionNone
	case selectedCount >= pageSize:
		return model.SelectionAll
	default:
		return model.SelectionSome
	}
}
