/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 14:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 10:55:03
 * @FilePath: \go-wsfeed\protocol\command.go
 * @Description: 客户端下发命令信封
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-wsfeed/models"
)

// TimestampLayout 时间边界统一格式化为 UTC 毫秒精度的 ISO-8601
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Command 下发命令 {command, ...params}
// 时间边界为空表示不限，序列化时省略
type Command struct {
	Command   models.CommandName `json:"command"`
	RequestID string             `json:"requestId,omitempty"`
	Type      models.ChannelKind `json:"type,omitempty"`
	StartTime *string            `json:"startTime,omitempty"`
	EndTime   *string            `json:"endTime,omitempty"`
	Latest    bool               `json:"latest,omitempty"`
	Timestamp int64              `json:"timestamp,omitempty"`
}

// FormatTimestamp nil 表示无边界
func FormatTimestamp(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Format(TimestampLayout)
	return &s
}

// NewPing 心跳命令
func NewPing(now time.Time) *Command {
	return &Command{
		Command:   models.CommandPing,
		Timestamp: now.UnixMilli(),
	}
}

// NewStatisticsQuery 查询某个维度在区间内的统计
func NewStatisticsQuery(kind models.ChannelKind, start, end *time.Time) *Command {
	return &Command{
		Command:   models.CommandGetStatistics,
		RequestID: uuid.NewString(),
		Type:      kind,
		StartTime: FormatTimestamp(start),
		EndTime:   FormatTimestamp(end),
	}
}

// NewReportQuery 查询超时报告，未指定区间时取最新一份
func NewReportQuery(start, end *time.Time) *Command {
	cmd := &Command{
		Command:   models.CommandGetTimeoutReport,
		RequestID: uuid.NewString(),
		StartTime: FormatTimestamp(start),
		EndTime:   FormatTimestamp(end),
	}
	cmd.Latest = cmd.StartTime == nil && cmd.EndTime == nil
	return cmd
}

// NewRecommendationsQuery 查询区间内的优化建议
func NewRecommendationsQuery(start, end *time.Time) *Command {
	return &Command{
		Command:   models.CommandGetRecommendations,
		RequestID: uuid.NewString(),
		StartTime: FormatTimestamp(start),
		EndTime:   FormatTimestamp(end),
	}
}

// Encode 序列化命令
func (c *Command) Encode() ([]byte, error) {
	if c == nil || !c.Command.IsValid() {
		return nil, models.ErrEncodeCommand
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, errorx.WrapError("encode command", err)
	}
	return data, nil
}
