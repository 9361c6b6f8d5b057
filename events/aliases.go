/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 16:31:50
 * @FilePath: \go-wsfeed\events\aliases.go
 * @Description: 事件类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"github.com/kamalyes/go-wsfeed/models"
)

// 错误类型别名（从 models 包导入）
type ErrorType = models.ErrorType

const (
	ErrTypePubSubNotSet        = models.ErrTypePubSubNotSet
	ErrTypePubSubPublishFailed = models.ErrTypePubSubPublishFailed
	ErrTypeEventDecodeFailed   = models.ErrTypeEventDecodeFailed
)

// 错误变量别名（从 models 包导入）
var (
	ErrPubSubNotSet        = models.ErrPubSubNotSet
	ErrPubSubPublishFailed = models.ErrPubSubPublishFailed
	ErrEventDecodeFailed   = models.ErrEventDecodeFailed
)

// 事件频道常量
const (
	// EventStatistics 统计快照，实际频道按维度追加后缀
	EventStatistics = models.EventStatistics
	// EventReport 超时报告（单份与列表共用）
	EventReport = models.EventReport
	// EventReports 超时报告列表
	EventReports = models.EventReports
	// EventRecommendations 优化建议
	EventRecommendations = models.EventRecommendations
	// EventChannelStatus 通道状态变化
	EventChannelStatus = models.EventChannelStatus
	// EventAllChannelsFailed 全部通道失败
	EventAllChannelsFailed = models.EventAllChannelsFailed
)

// 事件结构
type (
	SnapshotEvent          = models.SnapshotEvent
	ReportEvent            = models.ReportEvent
	RecommendationsEvent   = models.RecommendationsEvent
	ChannelStatusEvent     = models.ChannelStatusEvent
	AllChannelsFailedEvent = models.AllChannelsFailedEvent
)

// 事件处理器
type (
	SnapshotEventHandler          = models.SnapshotEventHandler
	ReportEventHandler            = models.ReportEventHandler
	RecommendationsEventHandler   = models.RecommendationsEventHandler
	ChannelStatusEventHandler     = models.ChannelStatusEventHandler
	AllChannelsFailedEventHandler = models.AllChannelsFailedEventHandler
)

// StatisticsEventFor 某个维度的统计事件频道
func StatisticsEventFor(kind models.ChannelKind) string {
	return models.StatisticsEventFor(kind)
}
