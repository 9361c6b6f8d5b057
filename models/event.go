/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 09:57:05
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 16:25:03
 * @FilePath: \go-wsfeed\models\event.go
 * @Description: 跨进程广播的数据推送事件
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"time"
)

// 事件频道常量，统计快照按维度追加后缀，例如 wsfeed.statistics.global
const (
	EventStatistics        = "wsfeed.statistics"
	EventReport            = "wsfeed.report"
	EventReports           = "wsfeed.reports"
	EventRecommendations   = "wsfeed.recommendations"
	EventChannelStatus     = "wsfeed.status"
	EventAllChannelsFailed = "wsfeed.failed"
)

// StatisticsEventFor 某个维度的统计事件频道
func StatisticsEventFor(kind ChannelKind) string {
	return EventStatistics + "." + kind.String()
}

// SnapshotEvent 统计快照事件
type SnapshotEvent struct {
	Kind      ChannelKind        `json:"kind"`
	Snapshot  StatisticsSnapshot `json:"snapshot"`
	Timestamp time.Time          `json:"timestamp"`
	NodeID    string             `json:"node_id"`
}

// ReportEvent 超时报告事件，单份报告时 Reports 只有一个元素
type ReportEvent struct {
	Kind      ChannelKind     `json:"kind"`
	Reports   []TimeoutReport `json:"reports"`
	Timestamp time.Time       `json:"timestamp"`
	NodeID    string          `json:"node_id"`
}

// RecommendationsEvent 优化建议事件
type RecommendationsEvent struct {
	Kind            ChannelKind       `json:"kind"`
	Recommendations RecommendationSet `json:"recommendations"`
	Timestamp       time.Time         `json:"timestamp"`
	NodeID          string            `json:"node_id"`
}

// ChannelStatusEvent 通道状态变化事件
type ChannelStatusEvent struct {
	Status    ChannelStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	NodeID    string        `json:"node_id"`
}

// AllChannelsFailedEvent 全部通道失败事件
type AllChannelsFailedEvent struct {
	Statuses  map[ChannelKind]ChannelStatus `json:"statuses"`
	Timestamp time.Time                     `json:"timestamp"`
	NodeID    string                        `json:"node_id"`
}

// 事件处理器
type (
	SnapshotEventHandler          func(event *SnapshotEvent) error
	ReportEventHandler            func(event *ReportEvent) error
	RecommendationsEventHandler   func(event *RecommendationsEvent) error
	ChannelStatusEventHandler     func(event *ChannelStatusEvent) error
	AllChannelsFailedEventHandler func(event *AllChannelsFailedEvent) error
)
