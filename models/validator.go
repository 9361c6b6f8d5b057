/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-28 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 11:02:41
 * @FilePath: \go-wsfeed\models\validator.go
 * @Description: 枚举验证器集中管理
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"github.com/kamalyes/go-toolbox/pkg/types"
)

// 全局枚举验证器实例
var (
	// ChannelKindValidator 通道类型验证器
	ChannelKindValidator = types.NewEnumValidator(
		ChannelKindUser,
		ChannelKindSystem,
		ChannelKindGlobal,
	)

	// ConnectionStateValidator 连接状态验证器
	ConnectionStateValidator = types.NewEnumValidator(
		ConnectionStateDisconnected,
		ConnectionStateConnecting,
		ConnectionStateConnected,
		ConnectionStateAuthenticated,
		ConnectionStateError,
	)

	// TimeoutCategoryValidator 超时分类验证器
	TimeoutCategoryValidator = types.NewEnumValidator(
		TimeoutCategoryPickup,
		TimeoutCategoryDelivery,
		TimeoutCategoryConfirmation,
		TimeoutCategoryIntervention,
	)

	// MessageTypeValidator 推送消息类型验证器
	MessageTypeValidator = types.NewEnumValidator(
		MessageTypeConnectionEstablished,
		MessageTypeInitTest,
		MessageTypeError,
		MessageTypeUser,
		MessageTypeSystem,
		MessageTypeGlobal,
		MessageTypeTimeoutReport,
		MessageTypeTimeoutReports,
		MessageTypeRecommendations,
	)

	// CommandNameValidator 命令名验证器
	CommandNameValidator = types.NewEnumValidator(
		CommandPing,
		CommandGetStatistics,
		CommandGetTimeoutReport,
		CommandGetRecommendations,
	)
)
