/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-28 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 18:40:22
 * @FilePath: \go-wsfeed\exports_models.go
 * @Description: Models 包的类型和常量导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package wsfeed

import (
	"github.com/kamalyes/go-wsfeed/models"
)

// ============================================================================
// 通道与连接状态
// ============================================================================

type (
	ChannelKind         = models.ChannelKind
	ConnectionState     = models.ConnectionState
	ChannelStatus       = models.ChannelStatus
	Principal           = models.Principal
	DesiredConnectivity = models.DesiredConnectivity
)

const (
	ChannelKindUser   = models.ChannelKindUser
	ChannelKindSystem = models.ChannelKindSystem
	ChannelKindGlobal = models.ChannelKindGlobal
)

const (
	ConnectionStateDisconnected  = models.ConnectionStateDisconnected
	ConnectionStateConnecting    = models.ConnectionStateConnecting
	ConnectionStateConnected     = models.ConnectionStateConnected
	ConnectionStateAuthenticated = models.ConnectionStateAuthenticated
	ConnectionStateError         = models.ConnectionStateError
)

var (
	AllChannelKinds = models.AllChannelKinds
	DesiredFor      = models.DesiredFor
)

// ============================================================================
// 统计快照、报告与建议
// ============================================================================

type (
	TimeoutCategory    = models.TimeoutCategory
	StatisticsSnapshot = models.StatisticsSnapshot
	ServiceStat        = models.ServiceStat
	SnapshotSource     = models.SnapshotSource
	Period             = models.Period
	TimeoutReport      = models.TimeoutReport
	Recommendation     = models.Recommendation
	RecommendationSet  = models.RecommendationSet
)

const (
	TimeoutCategoryPickup       = models.TimeoutCategoryPickup
	TimeoutCategoryDelivery     = models.TimeoutCategoryDelivery
	TimeoutCategoryConfirmation = models.TimeoutCategoryConfirmation
	TimeoutCategoryIntervention = models.TimeoutCategoryIntervention
)

const (
	SnapshotSourceEmpty   = models.SnapshotSourceEmpty
	SnapshotSourceLegacy  = models.SnapshotSourceLegacy
	SnapshotSourceService = models.SnapshotSourceService
)

var (
	AllTimeoutCategories = models.AllTimeoutCategories
	NewEmptySnapshot     = models.NewEmptySnapshot
	ParseTimeoutCategory = models.ParseTimeoutCategory
)

// ============================================================================
// 协议消息类型与命令名
// ============================================================================

type (
	MessageType = models.MessageType
	CommandName = models.CommandName
)

const (
	MessageTypeConnectionEstablished = models.MessageTypeConnectionEstablished
	MessageTypeInitTest              = models.MessageTypeInitTest
	MessageTypeError                 = models.MessageTypeError
	MessageTypeUser                  = models.MessageTypeUser
	MessageTypeSystem                = models.MessageTypeSystem
	MessageTypeGlobal                = models.MessageTypeGlobal
	MessageTypeTimeoutReport         = models.MessageTypeTimeoutReport
	MessageTypeTimeoutReports        = models.MessageTypeTimeoutReports
	MessageTypeRecommendations       = models.MessageTypeRecommendations
)

const (
	CommandPing               = models.CommandPing
	CommandGetStatistics      = models.CommandGetStatistics
	CommandGetTimeoutReport   = models.CommandGetTimeoutReport
	CommandGetRecommendations = models.CommandGetRecommendations
)
