/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 09:20:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 10:41:12
 * @FilePath: \go-wsfeed\models\errors.go
 * @Description: 数据推送通道错误定义 - 基于errorx.BaseError模式
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// ErrorType 错误类型定义，基于errorx.ErrorType
type ErrorType = errorx.ErrorType

// 使用 82xxx 区间，避免与 go-wsc 的 8xxxx 冲突
const (
	// 通道错误 (82000-82099) - 可自愈
	ErrTypeChannelNotOpen     ErrorType = 82001 // 通道未打开
	ErrTypeTransportNotOpen   ErrorType = 82002 // 传输层未打开
	ErrTypeRetriesExhausted   ErrorType = 82003 // 重连次数耗尽
	ErrTypeUnknownChannelKind ErrorType = 82004 // 未知通道类型
	ErrTypeMessageBufferFull  ErrorType = 82005 // 发送缓冲区已满

	// 权限错误 (82100-82199) - 不可重试
	ErrTypePrivilegeRequired ErrorType = 82101 // 需要管理员权限
	ErrTypeNotAuthenticated  ErrorType = 82102 // 未登录

	// 协议错误 (82200-82299) - 丢弃当前帧
	ErrTypeInvalidEnvelope ErrorType = 82201 // 无法解析的消息帧
	ErrTypeMissingType     ErrorType = 82202 // 消息缺少 type 字段
	ErrTypeEncodeCommand   ErrorType = 82203 // 命令序列化失败

	// 协调器错误 (82300-82399)
	ErrTypeCoordinatorClosed ErrorType = 82301 // 协调器已关闭
	ErrTypeInvalidConfig     ErrorType = 82302 // 配置无效
	ErrTypeNotStarted        ErrorType = 82303 // 协调器未启动

	// 事件发布错误 (82400-82499)
	ErrTypePubSubNotSet        ErrorType = 82401 // 未设置 PubSub
	ErrTypePubSubPublishFailed ErrorType = 82402 // 发布失败
	ErrTypeEventDecodeFailed   ErrorType = 82403 // 事件反序列化失败
)

func init() {
	errorx.RegisterError(ErrTypeChannelNotOpen, "channel is not open")
	errorx.RegisterError(ErrTypeTransportNotOpen, "transport is not open")
	errorx.RegisterError(ErrTypeRetriesExhausted, "reconnect attempts exhausted")
	errorx.RegisterError(ErrTypeUnknownChannelKind, "unknown channel kind")
	errorx.RegisterError(ErrTypeMessageBufferFull, "outbound message buffer is full")

	errorx.RegisterError(ErrTypePrivilegeRequired, "channel requires elevated privilege")
	errorx.RegisterError(ErrTypeNotAuthenticated, "principal is not authenticated")

	errorx.RegisterError(ErrTypeInvalidEnvelope, "invalid message envelope")
	errorx.RegisterError(ErrTypeMissingType, "message envelope has no type")
	errorx.RegisterError(ErrTypeEncodeCommand, "failed to encode command")

	errorx.RegisterError(ErrTypeCoordinatorClosed, "coordinator is closed")
	errorx.RegisterError(ErrTypeInvalidConfig, "invalid configuration")
	errorx.RegisterError(ErrTypeNotStarted, "coordinator is not started")

	errorx.RegisterError(ErrTypePubSubNotSet, "pubsub is not set")
	errorx.RegisterError(ErrTypePubSubPublishFailed, "pubsub publish failed")
	errorx.RegisterError(ErrTypeEventDecodeFailed, "failed to decode event")
}

// 错误变量定义
var (
	ErrChannelNotOpen     = errorx.NewError(ErrTypeChannelNotOpen)
	ErrTransportNotOpen   = errorx.NewError(ErrTypeTransportNotOpen)
	ErrRetriesExhausted   = errorx.NewError(ErrTypeRetriesExhausted)
	ErrUnknownChannelKind = errorx.NewError(ErrTypeUnknownChannelKind)
	ErrMessageBufferFull  = errorx.NewError(ErrTypeMessageBufferFull)

	ErrPrivilegeRequired = errorx.NewError(ErrTypePrivilegeRequired)
	ErrNotAuthenticated  = errorx.NewError(ErrTypeNotAuthenticated)

	ErrInvalidEnvelope = errorx.NewError(ErrTypeInvalidEnvelope)
	ErrMissingType     = errorx.NewError(ErrTypeMissingType)
	ErrEncodeCommand   = errorx.NewError(ErrTypeEncodeCommand)

	ErrCoordinatorClosed = errorx.NewError(ErrTypeCoordinatorClosed)
	ErrInvalidConfig     = errorx.NewError(ErrTypeInvalidConfig)
	ErrNotStarted        = errorx.NewError(ErrTypeNotStarted)

	ErrPubSubNotSet        = errorx.NewError(ErrTypePubSubNotSet)
	ErrPubSubPublishFailed = errorx.NewError(ErrTypePubSubPublishFailed)
	ErrEventDecodeFailed   = errorx.NewError(ErrTypeEventDecodeFailed)
)
