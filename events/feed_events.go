/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-19 16:50:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 16:58:44
 * @FilePath: \go-wsfeed\events\feed_events.go
 * @Description: 统计、报告、建议与通道状态事件的发布和订阅
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"time"

	"github.com/kamalyes/go-wsfeed/models"
)

// PublishSnapshot 发布统计快照，频道为 wsfeed.statistics.<kind>
func PublishSnapshot(p Publisher, snapshot models.StatisticsSnapshot) error {
	event := SnapshotEvent{
		Kind:      snapshot.Kind,
		Snapshot:  snapshot,
		Timestamp: time.Now(),
		NodeID:    p.GetNodeID(),
	}
	return publishEventHelper(p, StatisticsEventFor(snapshot.Kind), event, map[string]interface{}{
		"kind":   snapshot.Kind,
		"source": snapshot.Source,
		"total":  snapshot.Total(),
	})
}

// PublishReport 发布单份超时报告
func PublishReport(p Publisher, kind models.ChannelKind, report models.TimeoutReport) error {
	event := ReportEvent{
		Kind:      kind,
		Reports:   []models.TimeoutReport{report},
		Timestamp: time.Now(),
		NodeID:    p.GetNodeID(),
	}
	return publishEventHelper(p, EventReport, event, map[string]interface{}{
		"kind": kind,
	})
}

// PublishReports 发布超时报告列表
func PublishReports(p Publisher, kind models.ChannelKind, reports []models.TimeoutReport) error {
	event := ReportEvent{
		Kind:      kind,
		Reports:   reports,
		Timestamp: time.Now(),
		NodeID:    p.GetNodeID(),
	}
	return publishEventHelper(p, EventReports, event, map[string]interface{}{
		"kind":  kind,
		"count": len(reports),
	})
}

// PublishRecommendations 发布优化建议
func PublishRecommendations(p Publisher, kind models.ChannelKind, set models.RecommendationSet) error {
	event := RecommendationsEvent{
		Kind:            kind,
		Recommendations: set,
		Timestamp:       time.Now(),
		NodeID:          p.GetNodeID(),
	}
	return publishEventHelper(p, EventRecommendations, event, map[string]interface{}{
		"kind":  kind,
		"count": len(set.Recommendations),
	})
}

// PublishChannelStatus 发布通道状态变化
func PublishChannelStatus(p Publisher, status models.ChannelStatus) error {
	event := ChannelStatusEvent{
		Status:    status,
		Timestamp: time.Now(),
		NodeID:    p.GetNodeID(),
	}
	return publishEventHelper(p, EventChannelStatus, event, map[string]interface{}{
		"kind":  status.Kind,
		"state": status.State,
	})
}

// PublishAllChannelsFailed 发布全部通道失败
func PublishAllChannelsFailed(p Publisher, statuses map[models.ChannelKind]models.ChannelStatus) error {
	event := AllChannelsFailedEvent{
		Statuses:  statuses,
		Timestamp: time.Now(),
		NodeID:    p.GetNodeID(),
	}
	return publishEventHelper(p, EventAllChannelsFailed, event, map[string]interface{}{
		"channels": len(statuses),
	})
}

// SubscribeSnapshots 订阅指定维度的统计快照，kinds 为空时订阅全部维度
func SubscribeSnapshots(p Publisher, kinds []models.ChannelKind, handler SnapshotEventHandler) (func() error, error) {
	if len(kinds) == 0 {
		kinds = models.AllChannelKinds
	}
	channels := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		channels = append(channels, StatisticsEventFor(kind))
	}
	return subscribeEventHelper(p, channels, handler, "统计快照事件")
}

// SubscribeReports 订阅超时报告（单份与列表）
func SubscribeReports(p Publisher, handler ReportEventHandler) (func() error, error) {
	return subscribeEventHelper(p, []string{EventReport, EventReports}, handler, "超时报告事件")
}

// SubscribeRecommendations 订阅优化建议
func SubscribeRecommendations(p Publisher, handler RecommendationsEventHandler) (func() error, error) {
	return subscribeEventHelper(p, []string{EventRecommendations}, handler, "优化建议事件")
}

// SubscribeChannelStatus 订阅通道状态变化
func SubscribeChannelStatus(p Publisher, handler ChannelStatusEventHandler) (func() error, error) {
	return subscribeEventHelper(p, []string{EventChannelStatus}, handler, "通道状态事件")
}

// SubscribeAllChannelsFailed 订阅全部通道失败
func SubscribeAllChannelsFailed(p Publisher, handler AllChannelsFailedEventHandler) (func() error, error) {
	return subscribeEventHelper(p, []string{EventAllChannelsFailed}, handler, "全部通道失败事件")
}
