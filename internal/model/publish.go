package model

// PublishResult 远端写入结果
// Exists 仅在 Success=false 时有意义：表示该日期在远端已有记录
type PublishResult struct {
	Success bool `json:"success"`
	Exists  bool `json:"exists"`
}

// PublishPhase 发布会话所处阶段
// 用单一枚举代替多个布尔标志，避免标志位之间读写不一致
type PublishPhase string

const (
	PhaseIdle              PublishPhase = "idle"               // 未在发布（含失败后回到可重试状态）
	PhasePublishing        PublishPhase = "publishing"         // 正在写入两个目标
	PhaseAwaitingOverwrite PublishPhase = "awaiting-overwrite" // 远端已有数据，等待用户确认覆盖
	PhaseOverwriting       PublishPhase = "overwriting"        // 正在执行覆盖写入
	PhaseDone              PublishPhase = "done"               // 发布完成，会话关闭
)

// Busy 是否处于不可交互的写入阶段
func (p PublishPhase) Busy() bool {
	return p == PhasePublishing || p == PhaseOverwriting
}

// Terminal 是否为终态
func (p PublishPhase) Terminal() bool {
	return p == PhaseDone
}
