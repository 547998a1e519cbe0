package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Schedule 单条课程排期记录
type Schedule struct {
	ID         string `json:"id"`         // 记录ID（UUID）
	Date       string `json:"date"`       // 排期日期 YYYY-MM-DD
	Branch     string `json:"branch"`     // 分校名称（如 "SAN MIGUEL KIDS"）
	Category   string `json:"category"`   // 课程类别（层级类别，如 "KIDS" / "ADULTS"）
	Program    string `json:"program"`    // 课程名称
	Level      string `json:"level"`      // 级别
	Instructor string `json:"instructor"` // 教师
	StartTime  string `json:"startTime"`  // 开始时间 HH:MM
	EndTime    string `json:"endTime"`    // 结束时间 HH:MM
	Capacity   int    `json:"capacity"`   // 名额
	Enrolled   int    `json:"enrolled"`   // 已报名人数
	Modality   string `json:"modality"`   // 授课方式（presencial/virtual）
	Note       string `json:"note"`       // 备注

	RowNo      int    `json:"rowNo"`      // 来源文件中的行号
	SourceFile string `json:"sourceFile"` // 来源文件名
}

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidDate 校验日期格式 YYYY-MM-DD
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidTimeOfDay 校验时间格式 HH:MM
func ValidTimeOfDay(s string) bool {
	return timeOfDayRe.MatchString(s)
}

// StartHour 提取开始时间的小时部分（"HH:MM" 的前两个字符）
// 非法格式返回空字符串
func (s *Schedule) StartHour() string {
	if len(s.StartTime) < 2 {
		return ""
	}
	return s.StartTime[:2]
}

// Validate 校验记录完整性
func (s *Schedule) Validate() error {
	if !ValidDate(s.Date) {
		return fmt.Errorf("invalid date: %q", s.Date)
	}
	if strings.TrimSpace(s.Branch) == "" {
		return fmt.Errorf("branch is required")
	}
	if strings.TrimSpace(s.Program) == "" {
		return fmt.Errorf("program is required")
	}
	if !ValidTimeOfDay(s.StartTime) {
		return fmt.Errorf("invalid start time: %q", s.StartTime)
	}
	if s.EndTime != "" && !ValidTimeOfDay(s.EndTime) {
		return fmt.Errorf("invalid end time: %q", s.EndTime)
	}
	if s.Capacity < 0 {
		return fmt.Errorf("capacity must not be negative")
	}
	return nil
}

// DateStat 某个日期的排期统计
type DateStat struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
