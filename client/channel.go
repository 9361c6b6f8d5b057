/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-09-06 09:50:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 12:31:50
 * @FilePath: \go-wsfeed\client\channel.go
 * @Description: Channel 结构体及其方法，负责单个通道的完整生命周期
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsfeed/models"
)

// DefaultHeartbeatInterval 默认心跳间隔
const DefaultHeartbeatInterval = 30 * time.Second

// Intent 通道的期望与权限判断，由协调器提供
type Intent interface {
	// Wants 是否期望该通道处于连接状态
	Wants(kind models.ChannelKind) bool
	// Permits 当前登录主体是否有权使用该通道
	Permits(kind models.ChannelKind) bool
}

// ChannelHooks 通道事件回调，全部在所属事件循环中串行调用
type ChannelHooks struct {
	OnStateChange     func(kind models.ChannelKind, from, to models.ConnectionState)
	OnStatistics      func(kind models.ChannelKind, snapshot models.StatisticsSnapshot)
	OnReport          func(kind models.ChannelKind, report models.TimeoutReport)
	OnReports         func(kind models.ChannelKind, reports []models.TimeoutReport)
	OnRecommendations func(kind models.ChannelKind, set models.RecommendationSet)
	OnServerError     func(kind models.ChannelKind, message string)
	OnExhausted       func(kind models.ChannelKind)
}

// ChannelOptions Channel 的依赖
type ChannelOptions struct {
	Kind              models.ChannelKind
	Dialer            Dialer
	Clock             Clock
	Policy            ReconnectPolicy
	HeartbeatInterval time.Duration
	// URL 生成连接地址，通道类型与令牌通过查询参数携带
	URL    func(kind models.ChannelKind) (string, error)
	Intent Intent
	// Post 把传输层回调和定时器回调投递到所属事件循环；为空时直接执行
	Post   func(fn func())
	Logger logger.ILogger
	Hooks  ChannelHooks
}

// Channel 单个通道的状态机
// 除 Post 投递的回调外，所有方法都必须在同一个事件循环中调用，Channel 本身不加锁
type Channel struct {
	opts         ChannelOptions
	kind         models.ChannelKind
	logger       logger.ILogger
	stateMachine *syncx.StateMachine[models.ConnectionState]

	socket            Transport // 独占的传输层，nil 表示没有连接
	connectionID      string    // 当前传输层的标识，用于丢弃过期回调
	reconnectAttempts int
	operationLock     bool // 不可重入的操作锁：连接建立期间为 true
	exhausted         bool
	lastError         error

	heartbeat    Timer
	heartbeatSeq uint64
	reconnect    Timer
	reconnectSeq uint64
}

// NewChannel 创建通道
func NewChannel(opts ChannelOptions) *Channel {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Dialer == nil {
		opts.Dialer = NewWebSocketDialer()
	}
	if opts.Policy.MaxAttempts == 0 && opts.Policy.InitialDelay == 0 {
		opts.Policy = DefaultReconnectPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewEmptyLogger()
	}

	// 初始化状态机
	sm := syncx.NewStateMachine(models.ConnectionStateDisconnected)
	// 配置允许的状态转换
	sm.AllowTransitions(models.ConnectionStateDisconnected, models.ConnectionStateConnecting, models.ConnectionStateError)
	sm.AllowTransitions(models.ConnectionStateConnecting, models.ConnectionStateConnected, models.ConnectionStateError, models.ConnectionStateDisconnected)
	sm.AllowTransitions(models.ConnectionStateConnected, models.ConnectionStateAuthenticated, models.ConnectionStateError, models.ConnectionStateDisconnected)
	sm.AllowTransitions(models.ConnectionStateAuthenticated, models.ConnectionStateError, models.ConnectionStateDisconnected)
	sm.AllowTransitions(models.ConnectionStateError, models.ConnectionStateDisconnected, models.ConnectionStateConnecting)

	return &Channel{
		opts:         opts,
		kind:         opts.Kind,
		logger:       opts.Logger,
		stateMachine: sm,
	}
}

// Kind 通道类型
func (c *Channel) Kind() models.ChannelKind {
	return c.kind
}

// State 当前连接状态
func (c *Channel) State() models.ConnectionState {
	return c.stateMachine.CurrentState()
}

// IsConnected CONNECTED 或 AUTHENTICATED
func (c *Channel) IsConnected() bool {
	return c.State().IsConnected()
}

// IsOpen 传输层是否打开
func (c *Channel) IsOpen() bool {
	return c.socket != nil && c.socket.IsOpen()
}

// Locked 操作锁是否被持有
func (c *Channel) Locked() bool {
	return c.operationLock
}

// ReconnectAttempts 自上次握手成功以来的重连次数
func (c *Channel) ReconnectAttempts() int {
	return c.reconnectAttempts
}

// ReconnectPending 是否有待触发的连接定时器
func (c *Channel) ReconnectPending() bool {
	return c.reconnect != nil
}

// Exhausted 重连次数是否已耗尽
func (c *Channel) Exhausted() bool {
	return c.exhausted
}

// ConnectionID 当前传输层的标识
func (c *Channel) ConnectionID() string {
	return c.connectionID
}

// LastError 最近一次异常
func (c *Channel) LastError() error {
	return c.lastError
}

// Status 对外只读状态
func (c *Channel) Status() models.ChannelStatus {
	status := models.ChannelStatus{
		Kind:              c.kind,
		State:             c.State(),
		Desired:           c.opts.Intent != nil && c.opts.Intent.Wants(c.kind),
		ReconnectAttempts: c.reconnectAttempts,
		ReconnectPending:  c.reconnect != nil,
		Exhausted:         c.exhausted,
		Locked:            c.operationLock,
		ConnectionID:      c.connectionID,
		UpdatedAt:         c.opts.Clock.Now(),
	}
	if c.lastError != nil {
		status.LastError = c.lastError.Error()
	}
	return status
}

// setState 通过状态机变更状态并通知
func (c *Channel) setState(to models.ConnectionState) {
	from := c.stateMachine.CurrentState()
	if from == to {
		return
	}
	if err := c.stateMachine.TransitionTo(to); err != nil {
		c.logger.WarnKV("非法的通道状态转换",
			"channel", c.kind,
			"from", from,
			"to", to,
			"error", err,
		)
		return
	}
	if f := c.opts.Hooks.OnStateChange; f != nil {
		f(c.kind, from, to)
	}
}

// post 投递到事件循环
func (c *Channel) post(fn func()) {
	if c.opts.Post != nil {
		c.opts.Post(fn)
		return
	}
	fn()
}

func (c *Channel) wants() bool {
	return c.opts.Intent != nil && c.opts.Intent.Wants(c.kind)
}

func (c *Channel) permits() bool {
	return c.opts.Intent != nil && c.opts.Intent.Permits(c.kind)
}
