/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-28 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 18:42:10
 * @FilePath: \go-wsfeed\exports_client.go
 * @Description: Client 包的类型和函数导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package wsfeed

import (
	"github.com/kamalyes/go-wsfeed/client"
)

// ============================================================================
// Client 类型导出
// ============================================================================

type (
	Channel          = client.Channel
	ChannelOptions   = client.ChannelOptions
	ChannelHooks     = client.ChannelHooks
	Transport        = client.Transport
	TransportHandler = client.TransportHandler
	Dialer           = client.Dialer
	Clock            = client.Clock
	Timer            = client.Timer
	WebSocketDialer  = client.WebSocketDialer
	ReconnectPolicy  = client.ReconnectPolicy
)

// ============================================================================
// Client 函数导出
// ============================================================================

var (
	NewChannel             = client.NewChannel
	NewWebSocketDialer     = client.NewWebSocketDialer
	DefaultReconnectPolicy = client.DefaultReconnectPolicy
	RealClock              = client.RealClock
	IsCleanClose           = client.IsCleanClose
)

// ============================================================================
// Channel 方法导出 - 这些方法通过 Channel 实例调用，且只能在事件循环中调用
// ============================================================================

// 连接控制：
// - Connect() bool: 立即连接，已连接/加锁/不期望/无权限时为空操作
// - ScheduleConnect(delay time.Duration) bool: 延迟连接
// - Disconnect(force bool): 主动断开，不触发重连
// - Close(): 断开并清零重连计数
// - ResetAttempts(): 清零重连计数（手动重试）
// - Send(data []byte) error: 写入当前传输层

// 状态查询：
// - State() models.ConnectionState
// - IsConnected() / IsOpen() / Locked() / Exhausted() bool
// - ReconnectAttempts() int / ReconnectPending() bool
// - Status() models.ChannelStatus
