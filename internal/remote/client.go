package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"minerva/internal/model"
)

// Client 远端结构化存储客户端
// 发布时将某日期的排期整体写入远端；非覆盖模式下远端已有该日期数据时返回冲突
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient 创建远端客户端
// 不设置超时：写入期间由上层会话的 busy 状态阻止重复操作
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
	}
}

type writeRequest struct {
	Date      string            `json:"date"`
	Overwrite bool              `json:"overwrite"`
	Records   []*model.Schedule `json:"records"`
}

// Write 写入某日期的排期记录
// overwrite=false 时远端已存在该日期数据返回 {Success:false, Exists:true}
// overwrite=true 时强制替换远端数据
func (c *Client) Write(date string, records []*model.Schedule, overwrite bool) (model.PublishResult, error) {
	body, err := json.Marshal(writeRequest{
		Date:      date,
		Overwrite: overwrite,
		Records:   records,
	})
	if err != nil {
		return model.PublishResult{}, fmt.Errorf("failed to encode publish payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/schedules", bytes.NewReader(body))
	if err != nil {
		return model.PublishResult{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.PublishResult{}, fmt.Errorf("remote write failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return model.PublishResult{Success: true}, nil
	case resp.StatusCode == http.StatusConflict:
		// 该日期已有记录，需要用户确认覆盖
		return model.PublishResult{Success: false, Exists: true}, nil
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.PublishResult{}, fmt.Errorf("remote write returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
}
