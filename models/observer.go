/**
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-03 22:15:33
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 16:22:41
 * @FilePath: \go-wsfeed\models\observer.go
 * @Description: 订阅者回调类型
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package models

// 订阅者回调，由协调器在同一个分发 goroutine 中按序调用
type (
	SnapshotListener          func(snapshot StatisticsSnapshot)
	ReportListener            func(kind ChannelKind, report TimeoutReport)
	ReportsListener           func(kind ChannelKind, reports []TimeoutReport)
	RecommendationsListener   func(kind ChannelKind, set RecommendationSet)
	StatusListener            func(status ChannelStatus)
	AllChannelsFailedListener func(statuses map[ChannelKind]ChannelStatus)
)
