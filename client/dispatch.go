/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 11:05:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 12:40:12
 * @FilePath: \go-wsfeed\client\dispatch.go
 * @Description: 入站消息分发与心跳
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"github.com/kamalyes/go-wsfeed/models"
	"github.com/kamalyes/go-wsfeed/normalize"
	"github.com/kamalyes/go-wsfeed/protocol"
)

// dispatch 按消息类型路由，无法解析的帧直接丢弃
func (c *Channel) dispatch(frame []byte) {
	env, err := protocol.DecodeEnvelope(frame)
	if err != nil {
		c.logger.WarnKV("丢弃无法解析的消息",
			"channel", c.kind,
			"size", len(frame),
			"error", err,
		)
		return
	}

	now := c.opts.Clock.Now()
	switch env.Type {
	case models.MessageTypeConnectionEstablished:
		c.handleHandshake()

	case models.MessageTypeInitTest:
		c.logger.DebugKV("收到初始化测试消息", "channel", c.kind)

	case models.MessageTypeError:
		message := env.Text()
		c.logger.WarnKV("服务端返回错误", "channel", c.kind, "message", message)
		if f := c.opts.Hooks.OnServerError; f != nil {
			f(c.kind, message)
		}

	case models.MessageTypeUser, models.MessageTypeSystem, models.MessageTypeGlobal:
		snapshot := normalize.Message(env.Body())
		snapshot.Kind, _ = env.Type.StatisticsKind()
		if snapshot.Period == nil {
			snapshot.Period = env.Period
		}
		snapshot.ReceivedAt = now
		if f := c.opts.Hooks.OnStatistics; f != nil {
			f(c.kind, snapshot)
		}

	case models.MessageTypeTimeoutReport:
		if f := c.opts.Hooks.OnReport; f != nil {
			f(c.kind, env.DecodeReport(now))
		}

	case models.MessageTypeTimeoutReports:
		if f := c.opts.Hooks.OnReports; f != nil {
			f(c.kind, env.DecodeReports(now))
		}

	case models.MessageTypeRecommendations:
		if f := c.opts.Hooks.OnRecommendations; f != nil {
			f(c.kind, env.DecodeRecommendations(now))
		}

	default:
		c.logger.DebugKV("忽略未知类型的消息", "channel", c.kind, "type", env.Type)
	}
}

// handleHandshake 服务端确认连接：进入 AUTHENTICATED，重连计数清零并开始心跳
func (c *Channel) handleHandshake() {
	if c.State() != models.ConnectionStateConnected {
		c.logger.DebugKV("忽略重复的连接确认", "channel", c.kind, "state", c.State())
		return
	}
	c.setState(models.ConnectionStateAuthenticated)
	c.reconnectAttempts = 0
	c.exhausted = false
	c.lastError = nil
	c.startHeartbeat()
	c.logger.InfoKV("通道已认证", "channel", c.kind, "connection_id", c.connectionID)
}

// startHeartbeat 启动心跳，重复调用会替换旧的定时器
func (c *Channel) startHeartbeat() {
	c.stopHeartbeat()
	if c.opts.HeartbeatInterval <= 0 {
		return
	}
	c.heartbeatSeq++
	seq := c.heartbeatSeq
	c.heartbeat = c.opts.Clock.AfterFunc(c.opts.HeartbeatInterval, func() {
		c.post(func() { c.heartbeatTick(seq) })
	})
}

// stopHeartbeat 停止心跳
func (c *Channel) stopHeartbeat() {
	if c.heartbeat != nil {
		c.heartbeat.Stop()
		c.heartbeat = nil
	}
	c.heartbeatSeq++
}

// HeartbeatActive 心跳定时器是否在运行
func (c *Channel) HeartbeatActive() bool {
	return c.heartbeat != nil
}

// heartbeatTick 传输层不再打开时心跳自行停止；发送失败走错误清理流程
func (c *Channel) heartbeatTick(seq uint64) {
	if seq != c.heartbeatSeq {
		return
	}
	c.heartbeat = nil
	if !c.IsOpen() {
		c.stopHeartbeat()
		c.logger.DebugKV("传输层已关闭，停止心跳", "channel", c.kind)
		return
	}

	data, err := protocol.NewPing(c.opts.Clock.Now()).Encode()
	if err != nil {
		c.logger.ErrorKV("心跳编码失败", "channel", c.kind, "error", err)
		return
	}
	if err := c.socket.Send(data); err != nil {
		c.fail(err)
		return
	}
	c.startHeartbeat()
}
