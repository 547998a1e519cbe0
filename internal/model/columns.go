package model

// ColumnKind 列类型
type ColumnKind string

const (
	ColumnSelection ColumnKind = "selection" // 多选列（表头三态复选框）
	ColumnText      ColumnKind = "text"
	ColumnTime      ColumnKind = "time"
	ColumnNumber    ColumnKind = "number"
)

// SelectionState 页级选中状态（表头复选框的三态）
type SelectionState string

const (
	SelectionNone SelectionState = "none"
	SelectionSome SelectionState = "some"
	SelectionAll  SelectionState = "all"
)

// ColumnSpec 数据表列描述
// 纯声明式：渲染与筛选规则由前端按描述执行，筛选谓词本身在 filter 包实现
type ColumnSpec struct {
	Key           string     `json:"key"`
	Title         string     `json:"title"`
	Kind          ColumnKind `json:"kind"`
	Width         int        `json:"width,omitempty"`
	Filterable    bool       `json:"filterable"`
	FilterKind    string     `json:"filterKind,omitempty"`    // contains / startHour
	FilterOptions []string   `json:"filterOptions,omitempty"` // 可选筛选值
}
