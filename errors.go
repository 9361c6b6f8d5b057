/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-09-06 09:50:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 14:20:10
 * @FilePath: \go-wsfeed\errors.go
 * @Description: 数据推送错误定义 - 错误码统一注册在 models 包
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsfeed

import (
	"github.com/kamalyes/go-wsfeed/models"
)

// 错误类型定义，基于errorx.ErrorType
type ErrorType = models.ErrorType

// 错误码常量
const (
	ErrTypeChannelNotOpen      = models.ErrTypeChannelNotOpen
	ErrTypeTransportNotOpen    = models.ErrTypeTransportNotOpen
	ErrTypeRetriesExhausted    = models.ErrTypeRetriesExhausted
	ErrTypeUnknownChannelKind  = models.ErrTypeUnknownChannelKind
	ErrTypeMessageBufferFull   = models.ErrTypeMessageBufferFull
	ErrTypePrivilegeRequired   = models.ErrTypePrivilegeRequired
	ErrTypeNotAuthenticated    = models.ErrTypeNotAuthenticated
	ErrTypeInvalidEnvelope     = models.ErrTypeInvalidEnvelope
	ErrTypeMissingType         = models.ErrTypeMissingType
	ErrTypeEncodeCommand       = models.ErrTypeEncodeCommand
	ErrTypeCoordinatorClosed   = models.ErrTypeCoordinatorClosed
	ErrTypeInvalidConfig       = models.ErrTypeInvalidConfig
	ErrTypeNotStarted          = models.ErrTypeNotStarted
	ErrTypePubSubNotSet        = models.ErrTypePubSubNotSet
	ErrTypePubSubPublishFailed = models.ErrTypePubSubPublishFailed
	ErrTypeEventDecodeFailed   = models.ErrTypeEventDecodeFailed
)

// 错误变量
var (
	ErrChannelNotOpen      = models.ErrChannelNotOpen
	ErrTransportNotOpen    = models.ErrTransportNotOpen
	ErrRetriesExhausted    = models.ErrRetriesExhausted
	ErrUnknownChannelKind  = models.ErrUnknownChannelKind
	ErrMessageBufferFull   = models.ErrMessageBufferFull
	ErrPrivilegeRequired   = models.ErrPrivilegeRequired
	ErrNotAuthenticated    = models.ErrNotAuthenticated
	ErrInvalidEnvelope     = models.ErrInvalidEnvelope
	ErrMissingType         = models.ErrMissingType
	ErrEncodeCommand       = models.ErrEncodeCommand
	ErrCoordinatorClosed   = models.ErrCoordinatorClosed
	ErrInvalidConfig       = models.ErrInvalidConfig
	ErrNotStarted          = models.ErrNotStarted
	ErrPubSubNotSet        = models.ErrPubSubNotSet
	ErrPubSubPublishFailed = models.ErrPubSubPublishFailed
	ErrEventDecodeFailed   = models.ErrEventDecodeFailed
)
