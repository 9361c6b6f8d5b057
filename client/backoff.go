/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 10:40:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 12:10:09
 * @FilePath: \go-wsfeed\client\backoff.go
 * @Description: 重连退避策略
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"time"

	"github.com/jpillora/backoff"
)

// 默认重连参数
const (
	DefaultInitialReconnectDelay = time.Second
	DefaultMaxReconnectAttempts  = 5
)

// ReconnectPolicy 指数退避：第 n 次重连等待 InitialDelay * 2^(n-1)，不加抖动
type ReconnectPolicy struct {
	InitialDelay time.Duration
	MaxAttempts  int
}

// DefaultReconnectPolicy 1s 起步，最多 5 次
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		InitialDelay: DefaultInitialReconnectDelay,
		MaxAttempts:  DefaultMaxReconnectAttempts,
	}
}

// createBackoff 创建退避策略，上限刚好覆盖最后一次重连
func (p ReconnectPolicy) createBackoff() *backoff.Backoff {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &backoff.Backoff{
		Min:    p.InitialDelay,
		Max:    p.InitialDelay << uint(maxAttempts),
		Factor: 2,
		Jitter: false,
	}
}

// Delay 第 attempt 次重连（从 1 开始）前的等待时间
func (p ReconnectPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.createBackoff().ForAttempt(float64(attempt - 1))
}

// Exhausted 已重连 attempts 次后是否还允许继续
func (p ReconnectPolicy) Exhausted(attempts int) bool {
	return attempts >= p.MaxAttempts
}
