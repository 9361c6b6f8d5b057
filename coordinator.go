/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-15 09:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 15:02:44
 * @FilePath: \go-wsfeed\coordinator.go
 * @Description: Coordinator 管理 user/system/global 三个通道的期望状态、启动顺序与聚合状态
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsfeed

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsfeed/client"
	"github.com/kamalyes/go-wsfeed/models"
)

// AuthProvider 外部认证服务，负责提供当前登录主体及其令牌
type AuthProvider interface {
	Principal(ctx context.Context) (models.Principal, error)
}

// Coordinator 通道协调器
// 通道的全部状态只在事件循环中修改；传输层回调与定时器都投递到事件循环串行处理
type Coordinator struct {
	config *Config
	logger FeedLogger
	dialer client.Dialer
	clock  client.Clock

	ctx      context.Context
	cancel   context.CancelFunc
	events   chan func()
	loopDone chan struct{}
	started  atomic.Bool
	closed   atomic.Bool

	listeners listenerRegistry
	notifier  *notifier

	// 以下字段只在事件循环中读写
	channels        map[models.ChannelKind]*client.Channel
	principal       models.Principal
	desired         models.DesiredConnectivity
	failureSignaled bool

	// 以下字段由 mu 保护，任意 goroutine 可读
	mu              sync.RWMutex
	status          map[models.ChannelKind]models.ChannelStatus
	snapshots       map[models.ChannelKind]models.StatisticsSnapshot
	latestReport    *models.TimeoutReport
	reports         []models.TimeoutReport
	recommendations *models.RecommendationSet
}

// NewCoordinator 创建协调器，需要调用 Start 后才能使用
func NewCoordinator(config *Config) (*Coordinator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	log := InitLogger(config.Transport)
	c := &Coordinator{
		config:    config,
		logger:    log,
		clock:     client.RealClock(),
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan func(), config.EventQueueSize),
		loopDone:  make(chan struct{}),
		notifier:  newNotifier(log),
		channels:  make(map[models.ChannelKind]*client.Channel),
		status:    make(map[models.ChannelKind]models.ChannelStatus),
		snapshots: make(map[models.ChannelKind]models.StatisticsSnapshot),
	}
	c.dialer = client.NewWebSocketDialer().
		WithWriteTimeout(config.Transport.WriteTimeout).
		WithMaxMessageSize(config.Transport.MaxMessageSize).
		WithMessageBufferSize(config.Transport.MessageBufferSize)
	return c, nil
}

// ============================================================================
// 基础 Getter/Setter 方法
// ============================================================================

func (c *Coordinator) GetConfig() *Config       { return c.config }
func (c *Coordinator) GetLogger() FeedLogger    { return c.logger }
func (c *Coordinator) IsStarted() bool          { return c.started.Load() }
func (c *Coordinator) IsClosed() bool           { return c.closed.Load() }
func (c *Coordinator) Done() <-chan struct{}    { return c.ctx.Done() }
func (c *Coordinator) Context() context.Context { return c.ctx }
func (c *Coordinator) GetDialer() client.Dialer { return c.dialer }
func (c *Coordinator) GetClock() client.Clock   { return c.clock }

// SetDialer 替换拨号器，只在 Start 之前生效
func (c *Coordinator) SetDialer(dialer client.Dialer) {
	if c.started.Load() {
		c.logger.WarnKV("协调器已启动，忽略拨号器设置")
		return
	}
	c.dialer = dialer
}

// SetClock 替换时钟，只在 Start 之前生效
func (c *Coordinator) SetClock(clock client.Clock) {
	if c.started.Load() {
		c.logger.WarnKV("协调器已启动，忽略时钟设置")
		return
	}
	c.clock = clock
}

// SetLogger 替换日志器，只在 Start 之前生效
func (c *Coordinator) SetLogger(l FeedLogger) {
	if c.started.Load() {
		c.logger.WarnKV("协调器已启动，忽略日志器设置")
		return
	}
	c.logger = l
	c.notifier.logger = l
}

// Start 创建通道并启动事件循环，重复调用无副作用
func (c *Coordinator) Start() error {
	if c.closed.Load() {
		return ErrCoordinatorClosed
	}
	if !c.started.CompareAndSwap(false, true) {
		return nil
	}

	for _, kind := range models.AllChannelKinds {
		c.channels[kind] = c.newChannel(kind)
	}
	c.refreshStatus()

	go c.notifier.run(c.ctx)
	go c.run()

	c.logger.InfoKV("数据推送协调器已启动",
		"base_url", c.config.BaseURL,
		"max_reconnect_attempts", c.config.MaxReconnectAttempts,
		"heartbeat_interval", c.config.HeartbeatInterval,
	)
	return nil
}

// run 事件循环（阻塞），直到 context 被取消
func (c *Coordinator) run() {
	defer close(c.loopDone)
	syncx.NewEventLoop(c.ctx).
		OnChannel(c.events, c.handleEvent).
		OnPanic(func(r any) {
			c.logger.ErrorKV("协调器事件循环panic", "panic", r)
		}).
		OnShutdown(func() {
			c.logger.InfoKV("协调器事件循环已停止")
		}).
		Run()
}

// handleEvent 执行一个事件并刷新对外状态
func (c *Coordinator) handleEvent(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorKV("协调器事件处理panic", "panic", r)
		}
		c.refreshStatus()
	}()
	fn()
}

// enqueue 投递事件，协调器关闭后静默丢弃
func (c *Coordinator) enqueue(fn func()) {
	select {
	case c.events <- fn:
	case <-c.ctx.Done():
	}
}

// do 投递事件并等待执行完毕
func (c *Coordinator) do(fn func()) error {
	if !c.started.Load() {
		return ErrNotStarted
	}
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}
	select {
	case c.events <- task:
	case <-c.ctx.Done():
		return ErrCoordinatorClosed
	}
	select {
	case <-done:
		return nil
	case <-c.ctx.Done():
		return ErrCoordinatorClosed
	}
}

// Sync 等待此前投递的事件全部处理完毕
func (c *Coordinator) Sync() error {
	return c.do(func() {})
}

// Login 登录：user 通道总是期望连接，system/global 需要管理员权限
func (c *Coordinator) Login(principal models.Principal) error {
	if c.closed.Load() {
		return ErrCoordinatorClosed
	}
	if !principal.Authenticated() {
		return ErrNotAuthenticated
	}
	return c.do(func() {
		if c.principal.Authenticated() && c.principal.Token != principal.Token {
			// 令牌变化后旧连接不再可用
			c.closeAll()
		}
		c.principal = principal
		c.failureSignaled = false
		c.applyDesired(models.DesiredFor(principal))
		c.logger.InfoKV("用户已登录",
			"user_id", principal.UserID,
			"privileged", principal.Privileged,
		)
	})
}

// LoginWith 从认证服务获取主体后登录
func (c *Coordinator) LoginWith(ctx context.Context, provider AuthProvider) error {
	principal, err := provider.Principal(ctx)
	if err != nil {
		return errorx.WrapError("resolve principal failed", err)
	}
	return c.Login(principal)
}

// Logout 登出：关闭全部通道并清空缓存
func (c *Coordinator) Logout() error {
	if c.closed.Load() {
		return ErrCoordinatorClosed
	}
	return c.do(func() {
		userID := c.principal.UserID
		c.reset()
		c.logger.InfoKV("用户已登出", "user_id", userID)
	})
}

// SetDesired 调整期望连接的通道，超出当前主体权限的部分会被忽略
func (c *Coordinator) SetDesired(desired models.DesiredConnectivity) error {
	if c.closed.Load() {
		return ErrCoordinatorClosed
	}
	return c.do(func() {
		clamped := models.DesiredConnectivity{}
		for _, kind := range models.AllChannelKinds {
			clamped = clamped.With(kind, desired.Wants(kind) && c.principal.Permits(kind))
		}
		c.applyDesired(clamped)
	})
}

// Retry 手动重试：清零重连计数并立即连接，用于重连耗尽之后
func (c *Coordinator) Retry(kind models.ChannelKind) error {
	if c.closed.Load() {
		return ErrCoordinatorClosed
	}
	if !kind.IsValid() {
		return ErrUnknownChannelKind
	}
	var err error
	if doErr := c.do(func() {
		switch {
		case !c.principal.Authenticated():
			err = ErrNotAuthenticated
		case !c.principal.Permits(kind):
			err = ErrPrivilegeRequired
		default:
			ch := c.channels[kind]
			ch.ResetAttempts()
			c.failureSignaled = false
			c.desired = c.desired.With(kind, true)
			if ch.State() == models.ConnectionStateDisconnected {
				ch.Connect()
			}
			c.logger.InfoKV("手动重试通道", "channel", kind, "state", ch.State())
		}
	}); doErr != nil {
		return doErr
	}
	return err
}

// Close 关闭全部通道并停止事件循环，可重复调用
func (c *Coordinator) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	started := c.started.Load()
	if started {
		if err := c.do(c.reset); err != nil {
			c.logger.WarnKV("关闭通道失败", "error", err)
		}
	}
	c.cancel()

	if started {
		timeout := c.config.CloseTimeout
		select {
		case <-c.loopDone:
		case <-time.After(timeout):
			c.logger.WarnKV("等待事件循环退出超时", "timeout", timeout)
		}
		select {
		case <-c.notifier.done:
		case <-time.After(timeout):
			c.logger.WarnKV("等待回调分发退出超时", "timeout", timeout)
		}
	}

	c.logger.InfoKV("数据推送协调器已关闭")
	return nil
}

// ============================================================================
// 事件循环内部方法
// ============================================================================

// applyDesired 更新期望状态并调和
func (c *Coordinator) applyDesired(desired models.DesiredConnectivity) {
	c.desired = desired
	c.reconcile()
}

// reconcile 让通道向期望状态收敛
//   - 不再期望的通道无条件关闭
//   - 期望且处于 DISCONNECTED、未加锁、没有待触发定时器的通道按序号错峰连接
func (c *Coordinator) reconcile() {
	for _, kind := range models.AllChannelKinds {
		ch := c.channels[kind]
		if ch == nil {
			continue
		}

		if !c.desired.Wants(kind) {
			if ch.State() != models.ConnectionStateDisconnected || ch.ReconnectPending() {
				ch.Close()
				c.logger.InfoKV("关闭不再期望的通道", "channel", kind)
			}
			continue
		}

		if ch.State() != models.ConnectionStateDisconnected || ch.Locked() || ch.ReconnectPending() {
			continue
		}
		delay := c.config.ConnectStagger * time.Duration(kind.Ordinal())
		ch.ScheduleConnect(delay)
		c.logger.DebugKV("已安排通道连接", "channel", kind, "delay", delay)
	}
}

// reset 登出或销毁：期望全部置否，无条件关闭所有通道并清空缓存
func (c *Coordinator) reset() {
	c.principal = models.Principal{}
	c.desired = models.DesiredConnectivity{}
	c.failureSignaled = false
	c.closeAll()
	syncx.WithLock(&c.mu, func() {
		c.snapshots = make(map[models.ChannelKind]models.StatisticsSnapshot)
		c.latestReport = nil
		c.reports = nil
		c.recommendations = nil
	})
}

func (c *Coordinator) closeAll() {
	for _, kind := range models.AllChannelKinds {
		if ch := c.channels[kind]; ch != nil {
			ch.Close()
		}
	}
}

// checkAllFailed 所有期望的通道都已断开且没有待重连时，发出一次信号
func (c *Coordinator) checkAllFailed() {
	if c.failureSignaled || !c.desired.Any() {
		return
	}
	for _, kind := range models.AllChannelKinds {
		if !c.desired.Wants(kind) {
			continue
		}
		ch := c.channels[kind]
		if !ch.State().IsDown() || ch.ReconnectPending() || ch.Locked() {
			return
		}
	}
	c.failureSignaled = true
	statuses := c.collectStatus()
	c.logger.ErrorKV("所有通道均已失败，需要手动重试或重新登录", "user_id", c.principal.UserID)
	c.emitAllChannelsFailed(statuses)
}

func (c *Coordinator) collectStatus() map[models.ChannelKind]models.ChannelStatus {
	out := make(map[models.ChannelKind]models.ChannelStatus, len(c.channels))
	for kind, ch := range c.channels {
		out[kind] = ch.Status()
	}
	return out
}

func (c *Coordinator) refreshStatus() {
	statuses := c.collectStatus()
	syncx.WithLock(&c.mu, func() {
		c.status = statuses
	})
}

// newChannel 创建通道并挂载回调
func (c *Coordinator) newChannel(kind models.ChannelKind) *client.Channel {
	return client.NewChannel(client.ChannelOptions{
		Kind:              kind,
		Dialer:            c.dialer,
		Clock:             c.clock,
		Policy:            c.config.ReconnectPolicy(),
		HeartbeatInterval: c.config.HeartbeatInterval,
		URL: func(kind models.ChannelKind) (string, error) {
			return c.config.ChannelURL(kind, c.principal.Token)
		},
		Intent: coordinatorIntent{c: c},
		Post:   c.enqueue,
		Logger: c.logger,
		Hooks: client.ChannelHooks{
			OnStateChange:     c.onStateChange,
			OnStatistics:      c.onStatistics,
			OnReport:          c.onReport,
			OnReports:         c.onReports,
			OnRecommendations: c.onRecommendations,
			OnExhausted:       c.onExhausted,
		},
	})
}

func (c *Coordinator) onStateChange(kind models.ChannelKind, from, to models.ConnectionState) {
	c.logger.DebugKV("通道状态变化", "channel", kind, "from", from, "to", to)
	if to == models.ConnectionStateAuthenticated {
		c.failureSignaled = false
	}
	if ch := c.channels[kind]; ch != nil {
		c.emitStatus(ch.Status())
	}
}

func (c *Coordinator) onStatistics(kind models.ChannelKind, snapshot models.StatisticsSnapshot) {
	if snapshot.Kind == "" {
		snapshot.Kind = kind
	}
	syncx.WithLock(&c.mu, func() {
		c.snapshots[snapshot.Kind] = snapshot
	})
	c.emitSnapshot(snapshot)
}

func (c *Coordinator) onReport(kind models.ChannelKind, report models.TimeoutReport) {
	syncx.WithLock(&c.mu, func() {
		c.latestReport = &report
	})
	c.emitReport(kind, report)
}

func (c *Coordinator) onReports(kind models.ChannelKind, reports []models.TimeoutReport) {
	syncx.WithLock(&c.mu, func() {
		c.reports = reports
	})
	c.emitReports(kind, reports)
}

func (c *Coordinator) onRecommendations(kind models.ChannelKind, set models.RecommendationSet) {
	syncx.WithLock(&c.mu, func() {
		c.recommendations = &set
	})
	c.emitRecommendations(kind, set)
}

func (c *Coordinator) onExhausted(kind models.ChannelKind) {
	c.checkAllFailed()
}

// coordinatorIntent 通道读取期望与权限的入口，只在事件循环中调用
type coordinatorIntent struct {
	c *Coordinator
}

func (i coordinatorIntent) Wants(kind models.ChannelKind) bool {
	return i.c.desired.Wants(kind)
}

func (i coordinatorIntent) Permits(kind models.ChannelKind) bool {
	return i.c.principal.Permits(kind)
}

// ============================================================================
// 只读查询，任意 goroutine 可调用
// ============================================================================

// Status 各通道状态的副本
func (c *Coordinator) Status() map[models.ChannelKind]models.ChannelStatus {
	return syncx.WithRLockReturnValue(&c.mu, func() map[models.ChannelKind]models.ChannelStatus {
		out := make(map[models.ChannelKind]models.ChannelStatus, len(c.status))
		for k, v := range c.status {
			out[k] = v
		}
		return out
	})
}

// ChannelStatus 单个通道的状态
func (c *Coordinator) ChannelStatus(kind models.ChannelKind) (models.ChannelStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.status[kind]
	return s, ok
}

// IsLoading 是否有通道正在连接
func (c *Coordinator) IsLoading() bool {
	return syncx.WithRLockReturnValue(&c.mu, func() bool {
		for _, s := range c.status {
			if s.State == models.ConnectionStateConnecting {
				return true
			}
		}
		return false
	})
}

// IsConnected 通道处于 CONNECTED 或 AUTHENTICATED
func (c *Coordinator) IsConnected(kind models.ChannelKind) bool {
	return syncx.WithRLockReturnValue(&c.mu, func() bool {
		return c.status[kind].State.IsConnected()
	})
}

// Snapshot 某个维度最近一次的统计快照
func (c *Coordinator) Snapshot(kind models.ChannelKind) (models.StatisticsSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.snapshots[kind]
	return s, ok
}

// Snapshots 全部维度的最近快照
func (c *Coordinator) Snapshots() map[models.ChannelKind]models.StatisticsSnapshot {
	return syncx.WithRLockReturnValue(&c.mu, func() map[models.ChannelKind]models.StatisticsSnapshot {
		out := make(map[models.ChannelKind]models.StatisticsSnapshot, len(c.snapshots))
		for k, v := range c.snapshots {
			out[k] = v
		}
		return out
	})
}

// LatestReport 最近一份超时报告
func (c *Coordinator) LatestReport() (models.TimeoutReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.latestReport == nil {
		return models.TimeoutReport{}, false
	}
	return *c.latestReport, true
}

// Reports 最近一次收到的报告列表
func (c *Coordinator) Reports() []models.TimeoutReport {
	return syncx.WithRLockReturnValue(&c.mu, func() []models.TimeoutReport {
		return append([]models.TimeoutReport(nil), c.reports...)
	})
}

// Recommendations 最近一次收到的优化建议
func (c *Coordinator) Recommendations() (models.RecommendationSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.recommendations == nil {
		return models.RecommendationSet{}, false
	}
	return *c.recommendations, true
}
