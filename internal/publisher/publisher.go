package publisher

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"minerva/internal/model"
)

// SheetSink 表格文件写入目标（旧版 Excel 发布通道）
type SheetSink interface {
	// Write 生成某日期的排期工作簿，返回生成文件路径
	Write(date string, records []*model.Schedule) (string, error)
}

// RemoteSink 远端结构化存储写入目标
type RemoteSink interface {
	Write(date string, records []*model.Schedule, overwrite bool) (model.PublishResult, error)
}

// AuditLog 发布审计日志
type AuditLog interface {
	CreatePublishLog(date string, recordCount int, sheetFile string) (int64, error)
	UpdatePublishLog(id int64, overwrite bool, status, errorMessage string) error
}

// Session 发布会话快照（对外只读）
type Session struct {
	Token       string             `json:"token"`
	Date        string             `json:"date"`
	Phase       model.PublishPhase `json:"phase"`
	RecordCount int                `json:"recordCount"`
	SheetFile   string             `json:"sheetFile,omitempty"`
	LastError   string             `json:"lastError,omitempty"`
}

// session 会话内部状态
// 阶段用单一枚举值表示，所有读写都在 Publisher 的锁内完成
type session struct {
	token     string
	date      string
	records   []*model.Schedule // 发布时刻的只读快照
	phase     model.PublishPhase
	sheetFile string
	lastErr   string
	logID     int64
	expiresAt time.Time
}

// Publisher 发布协调器
// 先写表格文件，再以非覆盖方式写远端；远端已有数据时挂起等待用户确认覆盖
type Publisher struct {
	mu       sync.Mutex
	sessions map[string]*session

	sheet  SheetSink
	remote RemoteSink
	audit  AuditLog // 可为 nil
	ttl    time.Duration
}

// 会话保留时长：超时未确认/未查询的会话被清理
const defaultSessionTTL = 30 * time.Minute

var (
	// ErrSessionNotFound 会话不存在或已过期
	ErrSessionNotFound = errors.New("publish session not found")
	// ErrBusy 会话正在写入，不接受确认/取消操作
	ErrBusy = errors.New("publish in progress")
	// ErrNotAwaitingOverwrite 会话未处于等待覆盖确认状态
	ErrNotAwaitingOverwrite = errors.New("session is not awaiting overwrite confirmation")
)

// New 创建发布协调器
func New(sheet SheetSink, remote RemoteSink, audit AuditLog) *Publisher {
	return &Publisher{
		sessions: make(map[string]*session),
		sheet:    sheet,
		remote:   remote,
		audit:    audit,
		ttl:      defaultSessionTTL,
	}
}

// Begin 发起发布：依次写入表格文件与远端（非覆盖模式）
// 返回的会话快照反映本次发布的最终阶段：
//   - done：两个目标都写入成功
//   - awaiting-overwrite：远端已有该日期数据，等待 Confirm/Cancel
//   - idle + LastError：某一步失败，会话保留，可重新发起
//
// progress 可为 nil；非 nil 时在各阶段完成后回调
func (p *Publisher) Begin(date string, records []*model.Schedule, progress func(stage string)) (Session, error) {
	if !model.ValidDate(date) {
		return Session{}, fmt.Errorf("invalid publish date: %q", date)
	}
	if len(records) == 0 {
		return Session{}, fmt.Errorf("no schedule records for %s", date)
	}

	s := &session{
		token:     newRandomToken(24),
		date:      date,
		records:   records,
		phase:     model.PhasePublishing,
		expiresAt: time.Now().Add(p.ttl),
	}

	p.mu.Lock()
	p.purgeExpiredLocked(time.Now())
	p.sessions[s.token] = s
	p.mu.Unlock()

	s.logID = p.createAuditLog(date, len(records))

	// 第一步：写表格文件。失败则中止，不再尝试远端写入
	sheetFile, err := p.sheet.Write(date, records)
	if err != nil {
		log.Printf("publish %s: sheet write failed: %v", date, err)
		p.finishWithError(s, "failed", fmt.Sprintf("表格文件写入失败: %v", err))
		return p.snapshot(s), nil
	}
	p.mu.Lock()
	s.sheetFile = sheetFile
	p.mu.Unlock()
	emit(progress, "sheet_done")

	// 第二步：非覆盖写入远端
	res, err := p.remote.Write(date, records, false)
	if err != nil {
		// 非冲突失败：记录后停在可重试状态，交互不关闭
		log.Printf("publish %s: remote write failed: %v", date, err)
		p.finishWithError(s, "failed", fmt.Sprintf("远端写入失败: %v", err))
		return p.snapshot(s), nil
	}

	if !res.Success && res.Exists {
		// 远端已有该日期数据：挂起，等待用户决定是否覆盖
		p.mu.Lock()
		s.phase = model.PhaseAwaitingOverwrite
		p.mu.Unlock()
		p.updateAuditLog(s, false, "conflict", "")
		emit(progress, "conflict")
		return p.snapshot(s), nil
	}

	if !res.Success {
		// 既非成功也非冲突：视为未定义失败，交互保持打开
		log.Printf("publish %s: remote write unsuccessful without conflict", date)
		p.finishWithError(s, "failed", "远端写入未成功")
		return p.snapshot(s), nil
	}

	p.mu.Lock()
	s.phase = model.PhaseDone
	p.mu.Unlock()
	p.updateAuditLog(s, false, "done", "")
	emit(progress, "done")
	return p.snapshot(s), nil
}

// Confirm 确认覆盖：以覆盖模式重写远端
// 仅在 awaiting-overwrite 阶段合法；覆盖写入完成后无论结果如何会话都进入 done
func (p *Publisher) Confirm(token string) (Session, error) {
	p.mu.Lock()
	s, ok := p.sessions[token]
	if !ok || time.Now().After(s.expiresAt) {
		p.mu.Unlock()
		return Session{}, ErrSessionNotFound
	}
	if s.phase.Busy() {
		p.mu.Unlock()
		return Session{}, ErrBusy
	}
	if s.phase != model.PhaseAwaitingOverwrite {
		p.mu.Unlock()
		return Session{}, ErrNotAwaitingOverwrite
	}
	s.phase = model.PhaseOverwriting
	p.mu.Unlock()

	res, err := p.remote.Write(s.date, s.records, true)
	if err != nil {
		log.Printf("publish %s: overwrite failed: %v", s.date, err)
	} else if !res.Success {
		log.Printf("publish %s: overwrite reported unsuccessful", s.date)
	}

	// 强制覆盖路径不检查写入结果，交互直接关闭
	p.mu.Lock()
	s.phase = model.PhaseDone
	p.mu.Unlock()
	p.updateAuditLog(s, true, "done", "")
	return p.snapshot(s), nil
}

// Cancel 取消会话
// 等待覆盖确认时取消只清除确认状态，已写出的表格文件不回滚
func (p *Publisher) Cancel(token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sessions[token]
	if !ok {
		return ErrSessionNotFound
	}
	if s.phase.Busy() {
		return ErrBusy
	}

	if s.phase == model.PhaseAwaitingOverwrite {
		p.updateAuditLog(s, false, "cancelled", "")
	}
	delete(p.sessions, token)
	return nil
}

// Get 查询会话快照
func (p *Publisher) Get(token string) (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.purgeExpiredLocked(time.Now())

	s, ok := p.sessions[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return p.snapshotLocked(s), nil
}

func (p *Publisher) snapshot(s *session) Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked(s)
}

func (p *Publisher) snapshotLocked(s *session) Session {
	return Session{
		Token:       s.token,
		Date:        s.date,
		Phase:       s.phase,
		RecordCount: len(s.records),
		SheetFile:   s.sheetFile,
		LastError:   s.lastErr,
	}
}

func (p *Publisher) finishWithError(s *session, status, msg string) {
	p.mu.Lock()
	s.phase = model.PhaseIdle
	s.lastErr = msg
	p.mu.Unlock()
	p.updateAuditLog(s, false, status, msg)
}

func (p *Publisher) createAuditLog(date string, count int) int64 {
	if p.audit == nil {
		return 0
	}
	id, err := p.audit.CreatePublishLog(date, count, "")
	if err != nil {
		log.Printf("publish %s: create audit log failed: %v", date, err)
		return 0
	}
	return id
}

func (p *Publisher) updateAuditLog(s *session, overwrite bool, status, msg string) {
	if p.audit == nil || s.logID == 0 {
		return
	}
	if err := p.audit.UpdatePublishLog(s.logID, overwrite, status, msg); err != nil {
		log.Printf("publish %s: update audit log failed: %v", s.date, err)
	}
}

func (p *Publisher) purgeExpiredLocked(now time.Time) {
	for k, v := range p.sessions {
		if now.After(v.expiresAt) && !v.phase.Busy() {
			delete(p.sessions, k)
		}
	}
}

func emit(progress func(stage string), stage string) {
	if progress != nil {
		progress(stage)
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
