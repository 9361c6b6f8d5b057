/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-15 09:12:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 14:40:27
 * @FilePath: \go-wsfeed\listeners.go
 * @Description: 订阅者回调注册与按序分发
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsfeed

import (
	"context"
	"sync"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsfeed/models"
)

// 订阅者回调类型
type (
	SnapshotListener          = models.SnapshotListener
	ReportListener            = models.ReportListener
	ReportsListener           = models.ReportsListener
	RecommendationsListener   = models.RecommendationsListener
	StatusListener            = models.StatusListener
	AllChannelsFailedListener = models.AllChannelsFailedListener
)

// listenerRegistry 已注册的回调
type listenerRegistry struct {
	mu              sync.RWMutex
	snapshot        []SnapshotListener
	report          []ReportListener
	reports         []ReportsListener
	recommendations []RecommendationsListener
	status          []StatusListener
	failed          []AllChannelsFailedListener
}

// OnSnapshot 注册统计快照回调
func (c *Coordinator) OnSnapshot(fn SnapshotListener) {
	syncx.WithLock(&c.listeners.mu, func() {
		c.listeners.snapshot = append(c.listeners.snapshot, fn)
	})
}

// OnReport 注册单份超时报告回调
func (c *Coordinator) OnReport(fn ReportListener) {
	syncx.WithLock(&c.listeners.mu, func() {
		c.listeners.report = append(c.listeners.report, fn)
	})
}

// OnReports 注册超时报告列表回调
func (c *Coordinator) OnReports(fn ReportsListener) {
	syncx.WithLock(&c.listeners.mu, func() {
		c.listeners.reports = append(c.listeners.reports, fn)
	})
}

// OnRecommendations 注册优化建议回调
func (c *Coordinator) OnRecommendations(fn RecommendationsListener) {
	syncx.WithLock(&c.listeners.mu, func() {
		c.listeners.recommendations = append(c.listeners.recommendations, fn)
	})
}

// OnStatusChange 注册通道状态变化回调
func (c *Coordinator) OnStatusChange(fn StatusListener) {
	syncx.WithLock(&c.listeners.mu, func() {
		c.listeners.status = append(c.listeners.status, fn)
	})
}

// OnAllChannelsFailed 注册“全部通道失败”回调，每次失败只通知一次
// 是否要求重新登录由调用方决定
func (c *Coordinator) OnAllChannelsFailed(fn AllChannelsFailedListener) {
	syncx.WithLock(&c.listeners.mu, func() {
		c.listeners.failed = append(c.listeners.failed, fn)
	})
}

func (c *Coordinator) emitSnapshot(snapshot models.StatisticsSnapshot) {
	fns := syncx.WithRLockReturnValue(&c.listeners.mu, func() []SnapshotListener {
		return append([]SnapshotListener(nil), c.listeners.snapshot...)
	})
	for _, fn := range fns {
		c.notifier.push(func() { fn(snapshot) })
	}
}

func (c *Coordinator) emitReport(kind models.ChannelKind, report models.TimeoutReport) {
	fns := syncx.WithRLockReturnValue(&c.listeners.mu, func() []ReportListener {
		return append([]ReportListener(nil), c.listeners.report...)
	})
	for _, fn := range fns {
		c.notifier.push(func() { fn(kind, report) })
	}
}

func (c *Coordinator) emitReports(kind models.ChannelKind, reports []models.TimeoutReport) {
	fns := syncx.WithRLockReturnValue(&c.listeners.mu, func() []ReportsListener {
		return append([]ReportsListener(nil), c.listeners.reports...)
	})
	for _, fn := range fns {
		c.notifier.push(func() { fn(kind, reports) })
	}
}

func (c *Coordinator) emitRecommendations(kind models.ChannelKind, set models.RecommendationSet) {
	fns := syncx.WithRLockReturnValue(&c.listeners.mu, func() []RecommendationsListener {
		return append([]RecommendationsListener(nil), c.listeners.recommendations...)
	})
	for _, fn := range fns {
		c.notifier.push(func() { fn(kind, set) })
	}
}

func (c *Coordinator) emitStatus(status models.ChannelStatus) {
	fns := syncx.WithRLockReturnValue(&c.listeners.mu, func() []StatusListener {
		return append([]StatusListener(nil), c.listeners.status...)
	})
	for _, fn := range fns {
		c.notifier.push(func() { fn(status) })
	}
}

func (c *Coordinator) emitAllChannelsFailed(statuses map[models.ChannelKind]models.ChannelStatus) {
	fns := syncx.WithRLockReturnValue(&c.listeners.mu, func() []AllChannelsFailedListener {
		return append([]AllChannelsFailedListener(nil), c.listeners.failed...)
	})
	for _, fn := range fns {
		c.notifier.push(func() { fn(statuses) })
	}
}

// notifier 在独立的 goroutine 中按入队顺序执行回调，每个回调单独 recover
// 队列不设上限，事件循环投递时不会阻塞，回调里也可以再调用协调器
type notifier struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	done   chan struct{}
	logger FeedLogger
}

func newNotifier(logger FeedLogger) *notifier {
	return &notifier{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (n *notifier) push(fn func()) {
	syncx.WithLock(&n.mu, func() {
		n.queue = append(n.queue, fn)
	})
	select {
	case n.wake <- struct{}{}:
	default:
	}
}

// run 阻塞直到 ctx 取消，退出前把剩余回调执行完
func (n *notifier) run(ctx context.Context) {
	defer close(n.done)
	for {
		n.drain()
		select {
		case <-ctx.Done():
			n.drain()
			return
		case <-n.wake:
		}
	}
}

func (n *notifier) drain() {
	for {
		batch := syncx.WithLockReturnValue(&n.mu, func() []func() {
			q := n.queue
			n.queue = nil
			return q
		})
		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			n.call(fn)
		}
	}
}

func (n *notifier) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.ErrorKV("订阅者回调panic", "panic", r)
		}
	}()
	fn()
}
