/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-09-06 09:50:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 12:31:50
 * @FilePath: \go-wsfeed\client\connection.go
 * @Description: 连接管理逻辑：建立、断开、清理与退避重连
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/kamalyes/go-wsfeed/models"
)

// Connect 发起连接
// 已有传输层、操作锁被持有、不再期望连接或权限不足时为空操作，返回 false
func (c *Channel) Connect() bool {
	switch {
	case c.socket != nil:
		c.logger.DebugKV("通道已有连接，忽略连接请求", "channel", c.kind, "state", c.State())
		return false
	case c.operationLock:
		c.logger.DebugKV("通道操作进行中，忽略连接请求", "channel", c.kind)
		return false
	case !c.wants():
		c.logger.DebugKV("通道未被期望连接，忽略连接请求", "channel", c.kind)
		return false
	case !c.permits():
		c.logger.DebugKV("当前用户无权使用该通道", "channel", c.kind)
		return false
	}

	c.operationLock = true
	rawURL, err := c.opts.URL(c.kind)
	if err != nil {
		c.operationLock = false
		c.lastError = err
		c.logger.ErrorKV("生成通道地址失败", "channel", c.kind, "error", err)
		return false
	}

	c.cancelReconnect()
	c.connectionID = uuid.NewString()
	c.setState(models.ConnectionStateConnecting)
	c.logger.InfoKV("开始连接通道",
		"channel", c.kind,
		"connection_id", c.connectionID,
		"attempt", c.reconnectAttempts,
	)
	c.socket = c.opts.Dialer.Dial(rawURL, &channelHandler{channel: c, connectionID: c.connectionID})
	return true
}

// ScheduleConnect 延迟连接，触发时重新检查是否仍期望连接
// 已有待触发的定时器时返回 false
func (c *Channel) ScheduleConnect(delay time.Duration) bool {
	if c.reconnect != nil {
		return false
	}
	if delay <= 0 {
		return c.Connect()
	}
	c.reconnectSeq++
	seq := c.reconnectSeq
	c.reconnect = c.opts.Clock.AfterFunc(delay, func() {
		c.post(func() { c.fireReconnect(seq) })
	})
	return true
}

// fireReconnect 定时器触发；取消无法抢占已到期的定时器，所以这里要再判断一次
func (c *Channel) fireReconnect(seq uint64) {
	if seq != c.reconnectSeq {
		return
	}
	c.reconnect = nil
	if !c.wants() {
		c.logger.DebugKV("重连定时器触发时已不再期望连接", "channel", c.kind)
		return
	}
	c.Connect()
}

// cancelReconnect 取消待触发的连接定时器
func (c *Channel) cancelReconnect() {
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
	c.reconnectSeq++
}

// scheduleReconnect 断开后按退避策略安排重连
func (c *Channel) scheduleReconnect() {
	if !c.wants() || !c.permits() {
		return
	}
	if c.reconnect != nil {
		return
	}
	if c.opts.Policy.Exhausted(c.reconnectAttempts) {
		c.exhausted = true
		c.setState(models.ConnectionStateError)
		c.logger.WarnKV("通道重连次数已耗尽，等待手动重试",
			"channel", c.kind,
			"attempts", c.reconnectAttempts,
			"last_error", c.lastError,
		)
		if f := c.opts.Hooks.OnExhausted; f != nil {
			f(c.kind)
		}
		return
	}

	c.reconnectAttempts++
	delay := c.opts.Policy.Delay(c.reconnectAttempts)
	c.ScheduleConnect(delay)
	c.logger.InfoKV("已安排通道重连",
		"channel", c.kind,
		"attempt", c.reconnectAttempts,
		"delay", delay,
	)
}

// Disconnect 主动断开，不会自动重连
// 操作锁被持有（连接建立中）时，非强制断开为空操作
func (c *Channel) Disconnect(force bool) bool {
	if c.operationLock && !force {
		c.logger.DebugKV("通道操作进行中，忽略断开请求", "channel", c.kind)
		return false
	}
	c.cancelReconnect()
	if c.socket == nil {
		c.stopHeartbeat()
		return false
	}
	c.teardown(CloseNormalClosure, "client disconnect", false)
	return true
}

// Close 无条件关闭并重置计数，用于登出和销毁；可重复调用
func (c *Channel) Close() {
	c.Disconnect(true)
	c.reconnectAttempts = 0
	c.exhausted = false
	c.lastError = nil
	c.setState(models.ConnectionStateDisconnected)
}

// ResetAttempts 手动重试前清零重连计数
func (c *Channel) ResetAttempts() {
	c.reconnectAttempts = 0
	c.exhausted = false
	if c.socket == nil && c.State() == models.ConnectionStateError {
		c.setState(models.ConnectionStateDisconnected)
	}
}

// Send 通过当前传输层发送，发送失败按传输错误处理
func (c *Channel) Send(data []byte) error {
	if !c.IsOpen() {
		return models.ErrTransportNotOpen
	}
	if err := c.socket.Send(data); err != nil {
		c.fail(err)
		return err
	}
	return nil
}

// fail 传输错误：进入 ERROR 后立即清理，并按策略重连
func (c *Channel) fail(err error) {
	c.lastError = err
	c.logger.WarnKV("通道传输错误",
		"channel", c.kind,
		"connection_id", c.connectionID,
		"error", err,
	)
	c.setState(models.ConnectionStateError)
	c.teardown(CloseAbnormalClosure, err.Error(), true)
}

// teardown 清理：停止心跳、释放传输层与操作锁，状态回到 DISCONNECTED
func (c *Channel) teardown(code int, reason string, reconnect bool) {
	c.stopHeartbeat()
	socket := c.socket
	connectionID := c.connectionID
	c.socket = nil
	c.connectionID = ""
	c.operationLock = false
	if socket != nil {
		_ = socket.Close(code, reason)
	}
	c.setState(models.ConnectionStateDisconnected)
	c.logger.InfoKV("通道已断开",
		"channel", c.kind,
		"connection_id", connectionID,
		"code", code,
		"reason", reason,
	)
	if reconnect {
		c.scheduleReconnect()
	}
}

// isCurrent 回调是否来自当前传输层
func (c *Channel) isCurrent(connectionID string) bool {
	return connectionID != "" && connectionID == c.connectionID
}

func (c *Channel) handleOpen(connectionID string) {
	if !c.isCurrent(connectionID) {
		return
	}
	c.operationLock = false
	c.setState(models.ConnectionStateConnected)
	c.logger.InfoKV("通道传输层已打开", "channel", c.kind, "connection_id", connectionID)
}

func (c *Channel) handleMessage(connectionID string, data []byte) {
	if !c.isCurrent(connectionID) {
		return
	}
	c.dispatch(data)
}

func (c *Channel) handleError(connectionID string, err error) {
	if !c.isCurrent(connectionID) {
		return
	}
	c.fail(err)
}

func (c *Channel) handleClose(connectionID string, code int, reason string) {
	if !c.isCurrent(connectionID) {
		return
	}
	if !IsCleanClose(code) {
		c.lastError = models.ErrChannelNotOpen
		c.logger.WarnKV("通道异常关闭", "channel", c.kind, "code", code, "reason", reason)
	}
	c.teardown(code, reason, true)
}

// channelHandler 把传输层回调投递到事件循环，并带上所属传输层的标识
type channelHandler struct {
	channel      *Channel
	connectionID string
}

func (h *channelHandler) OnOpen() {
	h.channel.post(func() { h.channel.handleOpen(h.connectionID) })
}

func (h *channelHandler) OnMessage(data []byte) {
	h.channel.post(func() { h.channel.handleMessage(h.connectionID, data) })
}

func (h *channelHandler) OnError(err error) {
	h.channel.post(func() { h.channel.handleError(h.connectionID, err) })
}

func (h *channelHandler) OnClose(code int, reason string) {
	h.channel.post(func() { h.channel.handleClose(h.connectionID, code, reason) })
}
