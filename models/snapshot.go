/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 10:05:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 10:41:12
 * @FilePath: \go-wsfeed\models\snapshot.go
 * @Description: 统计快照、报告、建议等应用层数据结构
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"encoding/json"
	"time"
)

// Period 服务端回传的统计区间
type Period struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// ServiceStat 新版协议中单个服务类型的统计
type ServiceStat struct {
	TimeoutCount int64   `json:"timeoutCount"`
	OrderCount   int64   `json:"orderCount"`
	TimeoutRate  float64 `json:"timeoutRate,omitempty"`
}

// StatisticsSnapshot 归一化后的统计快照
// Counts 始终包含四个超时分类，与服务端协议版本无关
type StatisticsSnapshot struct {
	Kind          ChannelKind               `json:"kind,omitempty"`
	Source        SnapshotSource            `json:"source"`
	Counts        map[TimeoutCategory]int64 `json:"counts"`
	Services      map[string]ServiceStat    `json:"services,omitempty"`      // 按服务类型的原始明细
	Uncategorized map[string]int64          `json:"uncategorized,omitempty"` // 旧版协议中无法识别的键
	Period        *Period                   `json:"period,omitempty"`
	ReceivedAt    time.Time                 `json:"receivedAt,omitempty"`
}

// NewEmptySnapshot 创建全零快照
func NewEmptySnapshot() StatisticsSnapshot {
	counts := make(map[TimeoutCategory]int64, len(AllTimeoutCategories))
	for _, c := range AllTimeoutCategories {
		counts[c] = 0
	}
	return StatisticsSnapshot{
		Source: SnapshotSourceEmpty,
		Counts: counts,
	}
}

// Count 获取某个分类的计数
func (s StatisticsSnapshot) Count(c TimeoutCategory) int64 {
	return s.Counts[c]
}

// Total 四个分类的计数之和
func (s StatisticsSnapshot) Total() int64 {
	var total int64
	for _, c := range AllTimeoutCategories {
		total += s.Counts[c]
	}
	return total
}

// IsZero 是否为全零快照
func (s StatisticsSnapshot) IsZero() bool {
	return s.Total() == 0
}

// TimeoutReport 超时报告，正文保持服务端原样
type TimeoutReport struct {
	Period     *Period         `json:"period,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	ReceivedAt time.Time       `json:"receivedAt,omitempty"`
}

// Recommendation 优化建议
type Recommendation struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// RecommendationSet 一次推送的建议集合
type RecommendationSet struct {
	Period          *Period          `json:"period,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
	ReceivedAt      time.Time        `json:"receivedAt,omitempty"`
}
