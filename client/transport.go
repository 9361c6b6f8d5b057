/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 10:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 12:10:09
 * @FilePath: \go-wsfeed\client\transport.go
 * @Description: 传输层抽象，真实实现基于 gorilla/websocket，测试中用可编排的假传输替换
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"time"
)

// 关闭码，与 RFC 6455 一致
const (
	CloseNormalClosure    = 1000
	CloseGoingAway        = 1001
	CloseNoStatusReceived = 1005
	CloseAbnormalClosure  = 1006
)

// IsCleanClose 1000/1001/1005 视为正常关闭
func IsCleanClose(code int) bool {
	return code == CloseNormalClosure || code == CloseGoingAway || code == CloseNoStatusReceived
}

// Transport 单条通道的底层连接，由 Channel 独占
type Transport interface {
	// Send 发送一帧文本，只入队不等待网络写入；写失败通过 OnError + OnClose 上报
	Send(data []byte) error
	// Close 主动关闭，不等待关闭帧写出；连接中调用会放弃拨号
	Close(code int, reason string) error
	// IsOpen 传输层是否处于打开状态
	IsOpen() bool
}

// TransportHandler 传输层回调
// 同一个 Transport 的回调按顺序触发：OnOpen -> OnMessage* -> OnError? -> OnClose（恰好一次）
// 拨号失败时不会触发 OnOpen，直接 OnError + OnClose
type TransportHandler interface {
	OnOpen()
	OnMessage(data []byte)
	OnError(err error)
	OnClose(code int, reason string)
}

// Dialer 创建传输层，Dial 必须立即返回，连接结果通过 handler 异步通知
type Dialer interface {
	Dial(rawURL string, handler TransportHandler) Transport
}

// Timer 可取消的定时器
type Timer interface {
	Stop() bool
}

// Clock 定时器来源，测试中替换为手动推进的假时钟
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// RealClock 基于 time 包的时钟
func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
