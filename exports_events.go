/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 18:46:30
 * @FilePath: \go-wsfeed\exports_events.go
 * @Description: 事件发布订阅导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package wsfeed

import (
	"github.com/kamalyes/go-wsfeed/events"
)

// ============================================================================
// 事件类型导出
// ============================================================================

type (
	EventPublisher         = events.Publisher
	EventSource            = events.Source
	RedisPublisher         = events.RedisPublisher
	SnapshotEvent          = events.SnapshotEvent
	ReportEvent            = events.ReportEvent
	RecommendationsEvent   = events.RecommendationsEvent
	ChannelStatusEvent     = events.ChannelStatusEvent
	AllChannelsFailedEvent = events.AllChannelsFailedEvent
)

const (
	EventStatistics        = events.EventStatistics
	EventReport            = events.EventReport
	EventReports           = events.EventReports
	EventRecommendations   = events.EventRecommendations
	EventChannelStatus     = events.EventChannelStatus
	EventAllChannelsFailed = events.EventAllChannelsFailed
)

// ============================================================================
// 事件函数导出
// ============================================================================

var (
	NewRedisPublisher          = events.NewRedisPublisher
	StatisticsEventFor         = events.StatisticsEventFor
	PublishEvent               = events.PublishEvent
	SubscribeEvent             = events.SubscribeEvent
	SubscribeSnapshots         = events.SubscribeSnapshots
	SubscribeReports           = events.SubscribeReports
	SubscribeRecommendations   = events.SubscribeRecommendations
	SubscribeChannelStatus     = events.SubscribeChannelStatus
	SubscribeAllChannelsFailed = events.SubscribeAllChannelsFailed
)

// 编译期检查：协调器可以直接作为事件源
var _ EventSource = (*Coordinator)(nil)
