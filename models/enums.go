/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 09:20:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 11:02:41
 * @FilePath: \go-wsfeed\models\enums.go
 * @Description: 通道类型、连接状态、超时分类等枚举定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import "strings"

// ChannelKind 实时数据通道类型
type ChannelKind string

const (
	ChannelKindUser   ChannelKind = "user"   // 用户通道，登录即可使用
	ChannelKindSystem ChannelKind = "system" // 系统通道，需要管理员权限
	ChannelKindGlobal ChannelKind = "global" // 全局通道，需要管理员权限
)

// AllChannelKinds 固定的通道集合，顺序即启动顺序
var AllChannelKinds = []ChannelKind{
	ChannelKindUser,
	ChannelKindSystem,
	ChannelKindGlobal,
}

// String 实现Stringer接口
func (k ChannelKind) String() string {
	return string(k)
}

// IsValid 检查通道类型是否有效
func (k ChannelKind) IsValid() bool {
	return ChannelKindValidator.IsValid(k)
}

// Ordinal 返回通道在启动顺序中的位置，未知类型返回 -1
func (k ChannelKind) Ordinal() int {
	for i, kind := range AllChannelKinds {
		if kind == k {
			return i
		}
	}
	return -1
}

// RequiresPrivilege system/global 需要提升权限
func (k ChannelKind) RequiresPrivilege() bool {
	return k == ChannelKindSystem || k == ChannelKindGlobal
}

// ConnectionState 单个通道的连接状态
type ConnectionState string

const (
	ConnectionStateDisconnected  ConnectionState = "disconnected"  // 已断开（正常关闭）
	ConnectionStateConnecting    ConnectionState = "connecting"    // 连接中
	ConnectionStateConnected     ConnectionState = "connected"     // 传输层已打开
	ConnectionStateAuthenticated ConnectionState = "authenticated" // 服务端已确认握手
	ConnectionStateError         ConnectionState = "error"         // 异常关闭或重连耗尽
)

// String 实现Stringer接口
func (s ConnectionState) String() string {
	return string(s)
}

// IsValid 检查连接状态是否有效
func (s ConnectionState) IsValid() bool {
	return ConnectionStateValidator.IsValid(s)
}

// IsConnected CONNECTED 或 AUTHENTICATED 都视为已连接
func (s ConnectionState) IsConnected() bool {
	return s == ConnectionStateConnected || s == ConnectionStateAuthenticated
}

// IsDown 不可用状态
func (s ConnectionState) IsDown() bool {
	return s == ConnectionStateDisconnected || s == ConnectionStateError
}

// TimeoutCategory 超时分类
type TimeoutCategory string

const (
	TimeoutCategoryPickup       TimeoutCategory = "PICKUP"       // 取件超时
	TimeoutCategoryDelivery     TimeoutCategory = "DELIVERY"     // 配送超时
	TimeoutCategoryConfirmation TimeoutCategory = "CONFIRMATION" // 确认超时
	TimeoutCategoryIntervention TimeoutCategory = "INTERVENTION" // 人工介入超时
)

// AllTimeoutCategories 快照中始终存在的四个分类
var AllTimeoutCategories = []TimeoutCategory{
	TimeoutCategoryPickup,
	TimeoutCategoryDelivery,
	TimeoutCategoryConfirmation,
	TimeoutCategoryIntervention,
}

// String 实现Stringer接口
func (c TimeoutCategory) String() string {
	return string(c)
}

// IsValid 检查超时分类是否有效
func (c TimeoutCategory) IsValid() bool {
	return TimeoutCategoryValidator.IsValid(c)
}

// ParseTimeoutCategory 解析旧版协议中的分类键
// 兼容大小写以及 PICKUP_TIMEOUT / pickupTimeout 这类后缀写法
func ParseTimeoutCategory(key string) (TimeoutCategory, bool) {
	k := strings.ToUpper(strings.TrimSpace(key))
	k = strings.TrimSuffix(k, "_TIMEOUT")
	k = strings.TrimSuffix(k, "TIMEOUT")
	c := TimeoutCategory(k)
	return c, c.IsValid()
}

// MessageType 服务端推送的消息类型
type MessageType string

const (
	MessageTypeConnectionEstablished MessageType = "CONNECTION_ESTABLISHED" // 握手确认
	MessageTypeInitTest              MessageType = "INIT_TEST"              // 诊断消息
	MessageTypeError                 MessageType = "ERROR"                  // 服务端错误
	MessageTypeUser                  MessageType = "user"                   // 用户维度统计
	MessageTypeSystem                MessageType = "system"                 // 系统维度统计
	MessageTypeGlobal                MessageType = "global"                 // 全局维度统计
	MessageTypeTimeoutReport         MessageType = "timeoutReport"          // 单份超时报告
	MessageTypeTimeoutReports        MessageType = "timeoutReports"         // 超时报告列表
	MessageTypeRecommendations       MessageType = "recommendations"        // 优化建议
)

// String 实现Stringer接口
func (t MessageType) String() string {
	return string(t)
}

// IsKnown 是否为已识别的消息类型，未知类型需要被忽略而不是报错
func (t MessageType) IsKnown() bool {
	return MessageTypeValidator.IsValid(t)
}

// StatisticsKind 统计类消息对应的通道类型
func (t MessageType) StatisticsKind() (ChannelKind, bool) {
	switch t {
	case MessageTypeUser, MessageTypeSystem, MessageTypeGlobal:
		return ChannelKind(t), true
	}
	return "", false
}

// CommandName 客户端下发的命令名
type CommandName string

const (
	CommandPing               CommandName = "ping"
	CommandGetStatistics      CommandName = "getStatistics"
	CommandGetTimeoutReport   CommandName = "getTimeoutReport"
	CommandGetRecommendations CommandName = "getRecommendations"
)

// String 实现Stringer接口
func (c CommandName) String() string {
	return string(c)
}

// IsValid 检查命令名是否有效
func (c CommandName) IsValid() bool {
	return CommandNameValidator.IsValid(c)
}

// SnapshotSource 快照来源的协议版本
type SnapshotSource string

const (
	SnapshotSourceEmpty   SnapshotSource = "empty"   // 无统计字段
	SnapshotSourceLegacy  SnapshotSource = "legacy"  // 旧版按超时类型计数
	SnapshotSourceService SnapshotSource = "service" // 新版按服务类型统计
)
