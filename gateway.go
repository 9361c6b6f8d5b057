/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-15 14:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 15:20:08
 * @FilePath: \go-wsfeed\gateway.go
 * @Description: 命令下发：选择通道、序列化并写入当前传输层，通道断开时尝试自愈
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsfeed

import (
	"time"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-wsfeed/client"
	"github.com/kamalyes/go-wsfeed/models"
	"github.com/kamalyes/go-wsfeed/protocol"
)

// reportRoute 报告与建议优先走 system，其次 global
var reportRoute = []models.ChannelKind{models.ChannelKindSystem, models.ChannelKindGlobal}

// RequestStatistics 请求某个维度在区间内的统计，start/end 为 nil 表示不限
// 命令只发送一次：通道未打开时丢弃并返回 ErrChannelNotOpen
func (c *Coordinator) RequestStatistics(kind models.ChannelKind, start, end *time.Time) error {
	if !kind.IsValid() {
		return ErrUnknownChannelKind
	}
	return c.submit(func() error {
		return c.send(kind, protocol.NewStatisticsQuery(kind, start, end))
	})
}

// RequestReport 请求超时报告，未指定区间时请求最新一份
func (c *Coordinator) RequestReport(start, end *time.Time) error {
	return c.submit(func() error {
		kind, err := c.route(reportRoute)
		if err != nil {
			return err
		}
		return c.send(kind, protocol.NewReportQuery(start, end))
	})
}

// RequestRecommendations 请求优化建议，普通用户回退到 user 通道
func (c *Coordinator) RequestRecommendations(start, end *time.Time) error {
	return c.submit(func() error {
		candidates := append([]models.ChannelKind(nil), reportRoute...)
		if !c.principal.Privileged {
			candidates = append(candidates, models.ChannelKindUser)
		}
		kind, err := c.route(candidates)
		if err != nil {
			return err
		}
		return c.send(kind, protocol.NewRecommendationsQuery(start, end))
	})
}

// submit 在事件循环中执行并返回结果
func (c *Coordinator) submit(fn func() error) error {
	if c.closed.Load() {
		return ErrCoordinatorClosed
	}
	var err error
	if doErr := c.do(func() { err = fn() }); doErr != nil {
		return doErr
	}
	return err
}

// route 依次选择第一个已连接的通道，都未连接时选择第一个期望连接的通道
func (c *Coordinator) route(candidates []models.ChannelKind) (models.ChannelKind, error) {
	if !c.principal.Authenticated() {
		return "", ErrNotAuthenticated
	}
	for _, kind := range candidates {
		if ch := c.channels[kind]; ch != nil && ch.IsConnected() && ch.IsOpen() {
			return kind, nil
		}
	}
	for _, kind := range candidates {
		if c.desired.Wants(kind) {
			return kind, nil
		}
	}
	return "", ErrPrivilegeRequired
}

// send 写入通道；通道未打开时触发自愈并丢弃命令
func (c *Coordinator) send(kind models.ChannelKind, cmd *protocol.Command) error {
	ch := c.channels[kind]
	if ch == nil {
		return ErrUnknownChannelKind
	}
	if !ch.IsOpen() {
		c.selfHeal(ch)
		c.logger.WarnKV("通道未打开，丢弃命令",
			"channel", kind,
			"command", cmd.Command,
			"request_id", cmd.RequestID,
			"state", ch.State(),
		)
		return ErrChannelNotOpen
	}

	data, err := cmd.Encode()
	if err != nil {
		return err
	}
	if err := ch.Send(data); err != nil {
		c.logger.WarnKV("命令发送失败",
			"channel", kind,
			"command", cmd.Command,
			"request_id", cmd.RequestID,
			"error", err,
		)
		return errorx.WrapError("send command failed", err)
	}
	c.logger.DebugKV("命令已发送",
		"channel", kind,
		"command", cmd.Command,
		"request_id", cmd.RequestID,
	)
	return nil
}

// selfHeal 仍期望连接且不在连接中的通道：先停止，再延迟重连
func (c *Coordinator) selfHeal(ch *client.Channel) {
	kind := ch.Kind()
	if !c.desired.Wants(kind) || ch.State() == models.ConnectionStateConnecting || ch.Locked() {
		return
	}
	ch.Disconnect(false)
	if ch.ScheduleConnect(c.config.SelfHealDelay) {
		c.logger.InfoKV("已安排通道自愈重连",
			"channel", kind,
			"delay", c.config.SelfHealDelay,
			"attempt", ch.ReconnectAttempts(),
		)
	}
}
