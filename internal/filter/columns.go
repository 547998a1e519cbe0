package filter

import (
	"sort"

	"minerva/internal/model"
)

// ScheduleColumns 构建排期表的列配置
// branches/hours 为当前数据集中实际出现的筛选候选值
func ScheduleColumns(branches, hours []string) []model.ColumnSpec {
	return []model.ColumnSpec{
		{Key: "selection", Title: "", Kind: model.ColumnSelection, Width: 40},
		{Key: "branch", Title: "分校", Kind: model.ColumnText, Width: 180, Filterable: true, FilterKind: "contains", FilterOptions: branches},
		{Key: "category", Title: "类别", Kind: model.ColumnText, Width: 100},
		{Key: "program", Title: "课程", Kind: model.ColumnText, Width: 200},
		{Key: "level", Title: "级别", Kind: model.ColumnText, Width: 80},
		{Key: "instructor", Title: "教师", Kind: model.ColumnText, Width: 120},
		{Key: "startTime", Title: "开始时间", Kind: model.ColumnTime, Width: 100, Filterable: true, FilterKind: "startHour", FilterOptions: hours},
		{Key: "endTime", Title: "结束时间", Kind: model.ColumnTime, Width: 100},
		{Key: "capacity", Title: "名额", Kind: model.ColumnNumber, Width: 70},
		{Key: "enrolled", Title: "已报名", Kind: model.ColumnNumber, Width: 70},
		{Key: "modality", Title: "方式", Kind: model.ColumnText, Width: 90},
	}
}

// HourOptions 从记录集合提取出现过的开始小时（去重排序）
func HourOptions(records []*model.Schedule) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		h := StartHour(r.StartTime)
		if h != "" {
			seen[h] = true
		}
	}
	out := make([]string, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}
