package publisher

import (
	"errors"
	"testing"

	"minerva/internal/model"
)

type fakeSheet struct {
	calls int
	err   error
}

func (f *fakeSheet) Write(date string, records []*model.Schedule) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "/tmp/schedule-" + date + ".xlsx", nil
}

type remoteCall struct {
	overwrite bool
	count     int
}

type fakeRemote struct {
	calls   []remoteCall
	results []model.PublishResult
	errs    []error
}

func (f *fakeRemote) Write(date string, records []*model.Schedule, overwrite bool) (model.PublishResult, error) {
	i := len(f.calls)
	f.calls = append(f.calls, remoteCall{overwrite: overwrite, count: len(records)})
	var res model.PublishResult
	var err error
	if i < len(f.results) {
		res = f.results[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return res, err
}

func testRecords(n int) []*model.Schedule {
	out := make([]*model.Schedule, n)
	for i := range out {
		out[i] = &model.Schedule{ID: "r", Date: "2024-06-01", Branch: "SURCO", StartTime: "09:00"}
	}
	return out
}

// TestPublishSuccessNoConflict 无冲突发布：直接完成，不出现覆盖确认
func TestPublishSuccessNoConflict(t *testing.T) {
	sheet := &fakeSheet{}
	remote := &fakeRemote{results: []model.PublishResult{{Success: true}}}
	p := New(sheet, remote, nil)

	sess, err := p.Begin("2024-06-01", testRecords(3), nil)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if sess.Phase != model.PhaseDone {
		t.Errorf("phase = %s, want done", sess.Phase)
	}
	if sess.LastError != "" {
		t.Errorf("unexpected error: %s", sess.LastError)
	}
	if sheet.calls != 1 {
		t.Errorf("sheet calls = %d, want 1", sheet.calls)
	}
	if len(remote.calls) != 1 || remote.calls[0].overwrite {
		t.Fatalf("remote calls = %+v, want one non-destructive write", remote.calls)
	}
}

// TestPublishConflictThenConfirm 冲突后确认覆盖：恰好一次覆盖写入，之后会话关闭
func TestPublishConflictThenConfirm(t *testing.T) {
	sheet := &fakeSheet{}
	remote := &fakeRemote{results: []model.PublishResult{
		{Success: false, Exists: true},
		{Success: true},
	}}
	p := New(sheet, remote, nil)

	sess, err := p.Begin("2024-06-01", testRecords(12), nil)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if sess.Phase != model.PhaseAwaitingOverwrite {
		t.Fatalf("phase = %s, want awaiting-overwrite", sess.Phase)
	}
	// 冲突检测前表格写入必须已完成
	if sheet.calls != 1 {
		t.Fatalf("sheet calls = %d, want 1 before conflict", sheet.calls)
	}

	sess, err = p.Confirm(sess.Token)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if sess.Phase != model.PhaseDone {
		t.Errorf("phase after confirm = %s, want done", sess.Phase)
	}
	if len(remote.calls) != 2 {
		t.Fatalf("remote calls = %d, want 2", len(remote.calls))
	}
	if remote.calls[0].overwrite || !remote.calls[1].overwrite {
		t.Errorf("remote calls = %+v, want non-destructive then destructive", remote.calls)
	}
	if remote.calls[1].count != 12 {
		t.Errorf("overwrite wrote %d records, want snapshot of 12", remote.calls[1].count)
	}
}

// TestConfirmClosesRegardlessOfOutcome 覆盖写入失败时会话仍然关闭
func TestConfirmClosesRegardlessOfOutcome(t *testing.T) {
	remote := &fakeRemote{
		results: []model.PublishResult{{Success: false, Exists: true}, {}},
		errs:    []error{nil, errors.New("remote down")},
	}
	p := New(&fakeSheet{}, remote, nil)

	sess, _ := p.Begin("2024-06-01", testRecords(1), nil)
	sess, err := p.Confirm(sess.Token)
	if err != nil {
		t.Fatalf("Confirm should not surface overwrite errors, got: %v", err)
	}
	if sess.Phase != model.PhaseDone {
		t.Errorf("phase = %s, want done regardless of overwrite outcome", sess.Phase)
	}
}

// TestCancelWhileAwaiting 等待确认时取消：不发出覆盖写入
func TestCancelWhileAwaiting(t *testing.T) {
	remote := &fakeRemote{results: []model.PublishResult{{Success: false, Exists: true}}}
	p := New(&fakeSheet{}, remote, nil)

	sess, _ := p.Begin("2024-06-01", testRecords(2), nil)
	if sess.Phase != model.PhaseAwaitingOverwrite {
		t.Fatalf("phase = %s, want awaiting-overwrite", sess.Phase)
	}

	if err := p.Cancel(sess.Token); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if len(remote.calls) != 1 {
		t.Errorf("remote calls = %d, destructive write must not happen after cancel", len(remote.calls))
	}
	if _, err := p.Get(sess.Token); err != ErrSessionNotFound {
		t.Errorf("session should be gone after cancel, got %v", err)
	}
}

// TestSheetFailureAborts 表格写入失败：中止，不尝试远端写入
func TestSheetFailureAborts(t *testing.T) {
	sheet := &fakeSheet{err: errors.New("disk full")}
	remote := &fakeRemote{}
	p := New(sheet, remote, nil)

	sess, err := p.Begin("2024-06-01", testRecords(1), nil)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if sess.Phase != model.PhaseIdle {
		t.Errorf("phase = %s, want idle after sheet failure", sess.Phase)
	}
	if sess.LastError == "" {
		t.Error("LastError should record the sheet failure")
	}
	if len(remote.calls) != 0 {
		t.Errorf("remote calls = %d, want 0 when sheet write fails", len(remote.calls))
	}
}

// TestRemoteFailureKeepsSessionOpen 远端非冲突失败：会话保留，可重试
func TestRemoteFailureKeepsSessionOpen(t *testing.T) {
	remote := &fakeRemote{errs: []error{errors.New("timeout")}}
	p := New(&fakeSheet{}, remote, nil)

	sess, err := p.Begin("2024-06-01", testRecords(1), nil)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if sess.Phase != model.PhaseIdle || sess.LastError == "" {
		t.Errorf("session = %+v, want idle with recorded error", sess)
	}
	if got, err := p.Get(sess.Token); err != nil || got.Phase != model.PhaseIdle {
		t.Errorf("session should remain queryable, got %+v, %v", got, err)
	}
}

// TestConfirmRequiresConflict 未观察到冲突时覆盖路径不可达
func TestConfirmRequiresConflict(t *testing.T) {
	remote := &fakeRemote{results: []model.PublishResult{{Success: true}}}
	p := New(&fakeSheet{}, remote, nil)

	sess, _ := p.Begin("2024-06-01", testRecords(1), nil)
	if _, err := p.Confirm(sess.Token); err != ErrNotAwaitingOverwrite {
		t.Errorf("Confirm on done session = %v, want ErrNotAwaitingOverwrite", err)
	}
	if len(remote.calls) != 1 {
		t.Errorf("remote calls = %d, destructive write must not be issued", len(remote.calls))
	}
}

// TestBeginValidation 非法输入
func TestBeginValidation(t *testing.T) {
	p := New(&fakeSheet{}, &fakeRemote{}, nil)

	if _, err := p.Begin("junk", testRecords(1), nil); err == nil {
		t.Error("Begin should reject invalid date")
	}
	if _, err := p.Begin("2024-06-01", nil, nil); err == nil {
		t.Error("Begin should reject empty record set")
	}
}

// TestProgressStages 进度回调阶段顺序
func TestProgressStages(t *testing.T) {
	remote := &fakeRemote{results: []model.PublishResult{{Success: false, Exists: true}}}
	p := New(&fakeSheet{}, remote, nil)

	var stages []string
	_, err := p.Begin("2024-06-01", testRecords(1), func(stage string) {
		stages = append(stages, stage)
	})
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if len(stages) != 2 || stages[0] != "sheet_done" || stages[1] != "conflict" {
		t.Errorf("stages = %v, want [sheet_done conflict]", stages)
	}
}
