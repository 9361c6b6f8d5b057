/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 10:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 10:41:12
 * @FilePath: \go-wsfeed\models\principal.go
 * @Description: 登录主体、期望连接状态与通道状态
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import "time"

// Principal 当前登录主体，令牌由外部认证服务提供
type Principal struct {
	UserID     string `json:"userId"`
	Token      string `json:"-"`
	Privileged bool   `json:"privileged"` // 是否具有 system/global 通道权限
}

// Authenticated 持有令牌即视为已登录
func (p Principal) Authenticated() bool {
	return p.Token != ""
}

// Permits 判断主体是否允许使用该通道
func (p Principal) Permits(kind ChannelKind) bool {
	if !p.Authenticated() || !kind.IsValid() {
		return false
	}
	return !kind.RequiresPrivilege() || p.Privileged
}

// DesiredConnectivity 期望连接状态（“应该连接”），区别于 ConnectionState（“已经连接”）
type DesiredConnectivity struct {
	User   bool `json:"user"`
	System bool `json:"system"`
	Global bool `json:"global"`
}

// DesiredFor 登录成功后的期望状态：user 总是开启，system/global 需要权限
func DesiredFor(p Principal) DesiredConnectivity {
	if !p.Authenticated() {
		return DesiredConnectivity{}
	}
	return DesiredConnectivity{
		User:   true,
		System: p.Privileged,
		Global: p.Privileged,
	}
}

// Wants 是否期望该通道处于连接状态
func (d DesiredConnectivity) Wants(kind ChannelKind) bool {
	switch kind {
	case ChannelKindUser:
		return d.User
	case ChannelKindSystem:
		return d.System
	case ChannelKindGlobal:
		return d.Global
	}
	return false
}

// With 返回修改了某个通道期望值的副本
func (d DesiredConnectivity) With(kind ChannelKind, want bool) DesiredConnectivity {
	switch kind {
	case ChannelKindUser:
		d.User = want
	case ChannelKindSystem:
		d.System = want
	case ChannelKindGlobal:
		d.Global = want
	}
	return d
}

// Any 是否至少期望一个通道
func (d DesiredConnectivity) Any() bool {
	return d.User || d.System || d.Global
}

// ChannelStatus 对外只读的通道状态
type ChannelStatus struct {
	Kind              ChannelKind     `json:"kind"`
	State             ConnectionState `json:"state"`
	Desired           bool            `json:"desired"`
	ReconnectAttempts int             `json:"reconnectAttempts"`
	ReconnectPending  bool            `json:"reconnectPending"`
	Exhausted         bool            `json:"exhausted"`
	Locked            bool            `json:"locked"`
	ConnectionID      string          `json:"connectionId,omitempty"`
	LastError         string          `json:"lastError,omitempty"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}
