/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-14 09:20:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 13:02:41
 * @FilePath: \go-wsfeed\client\clienttest\fake.go
 * @Description: 测试用的假传输层与假时钟，回调时序完全由测试代码驱动
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package clienttest

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsfeed/client"
	"github.com/kamalyes/go-wsfeed/models"
)

// FakeDialer 记录每次拨号，返回可手动驱动的 FakeTransport
type FakeDialer struct {
	mu         sync.Mutex
	transports []*FakeTransport
}

// NewFakeDialer 创建假拨号器
func NewFakeDialer() *FakeDialer {
	return &FakeDialer{}
}

// Dial 实现 client.Dialer
func (d *FakeDialer) Dial(rawURL string, handler client.TransportHandler) client.Transport {
	t := &FakeTransport{URL: rawURL, handler: handler}
	syncx.WithLock(&d.mu, func() {
		d.transports = append(d.transports, t)
	})
	return t
}

// Transports 全部拨号记录
func (d *FakeDialer) Transports() []*FakeTransport {
	return syncx.WithLockReturnValue(&d.mu, func() []*FakeTransport {
		return append([]*FakeTransport{}, d.transports...)
	})
}

// Count 拨号次数
func (d *FakeDialer) Count() int {
	return len(d.Transports())
}

// Last 最近一次拨号，没有时返回 nil
func (d *FakeDialer) Last() *FakeTransport {
	all := d.Transports()
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

// FakeTransport 假传输层
type FakeTransport struct {
	URL string

	mu          sync.Mutex
	handler     client.TransportHandler
	open        bool
	closed      bool
	sendErr     error
	sent        [][]byte
	closeCode   int
	closeReason string
}

// Open 模拟连接成功
func (t *FakeTransport) Open() {
	syncx.WithLock(&t.mu, func() {
		t.open = true
	})
	t.handler.OnOpen()
}

// Receive 模拟收到一帧
func (t *FakeTransport) Receive(frame string) {
	t.handler.OnMessage([]byte(frame))
}

// ReceiveJSON 把 v 编码后作为一帧送入
func (t *FakeTransport) ReceiveJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	t.handler.OnMessage(data)
}

// Handshake 模拟服务端连接确认
func (t *FakeTransport) Handshake() {
	t.Receive(`{"type":"CONNECTION_ESTABLISHED"}`)
}

// Fail 模拟传输错误，随后以 1006 关闭
func (t *FakeTransport) Fail(err error) {
	syncx.WithLock(&t.mu, func() {
		t.open = false
		t.closed = true
	})
	t.handler.OnError(err)
	t.handler.OnClose(client.CloseAbnormalClosure, err.Error())
}

// CloseRemote 模拟服务端关闭
func (t *FakeTransport) CloseRemote(code int, reason string) {
	syncx.WithLock(&t.mu, func() {
		t.open = false
		t.closed = true
	})
	t.handler.OnClose(code, reason)
}

// FailSends 之后的 Send 都返回 err
func (t *FakeTransport) FailSends(err error) {
	syncx.WithLock(&t.mu, func() {
		t.sendErr = err
	})
}

// Send 实现 client.Transport
func (t *FakeTransport) Send(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return models.ErrTransportNotOpen
	}
	if t.sendErr != nil {
		return t.sendErr
	}
	t.sent = append(t.sent, append([]byte{}, data...))
	return nil
}

// Close 实现 client.Transport，本地关闭不会回调 handler
func (t *FakeTransport) Close(code int, reason string) error {
	syncx.WithLock(&t.mu, func() {
		if t.closed {
			return
		}
		t.open = false
		t.closed = true
		t.closeCode, t.closeReason = code, reason
	})
	return nil
}

// IsOpen 实现 client.Transport
func (t *FakeTransport) IsOpen() bool {
	return syncx.WithLockReturnValue(&t.mu, func() bool {
		return t.open
	})
}

// Closed 是否已关闭
func (t *FakeTransport) Closed() bool {
	return syncx.WithLockReturnValue(&t.mu, func() bool {
		return t.closed
	})
}

// CloseCode 本地关闭时使用的关闭码
func (t *FakeTransport) CloseCode() int {
	return syncx.WithLockReturnValue(&t.mu, func() int {
		return t.closeCode
	})
}

// Sent 已发送的帧
func (t *FakeTransport) Sent() []string {
	return syncx.WithLockReturnValue(&t.mu, func() []string {
		out := make([]string, 0, len(t.sent))
		for _, b := range t.sent {
			out = append(out, string(b))
		}
		return out
	})
}

// SentCommands 已发送帧解码后的通用结构
func (t *FakeTransport) SentCommands() []map[string]any {
	var out []map[string]any
	for _, frame := range t.Sent() {
		var m map[string]any
		if err := json.Unmarshal([]byte(frame), &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// FakeClock 手动推进的时钟，定时器在 Advance 时同步触发
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *FakeClock
	id      int
	at      time.Time
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// NewFakeClock 从 start 开始的假时钟
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now 实现 client.Clock
func (c *FakeClock) Now() time.Time {
	return syncx.WithLockReturnValue(&c.mu, func() time.Time {
		return c.now
	})
}

// AfterFunc 实现 client.Clock
func (c *FakeClock) AfterFunc(d time.Duration, f func()) client.Timer {
	return syncx.WithLockReturnValue(&c.mu, func() *fakeTimer {
		c.seq++
		t := &fakeTimer{clock: c, id: c.seq, at: c.now.Add(d), delay: d, fn: f}
		c.timers = append(c.timers, t)
		return t
	})
}

// Stop 实现 client.Timer
func (t *fakeTimer) Stop() bool {
	return syncx.WithLockReturnValue(&t.clock.mu, func() bool {
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	})
}

// Advance 推进时间，按到期顺序触发定时器；触发过程中新建的定时器若也到期会一并触发
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.id < next.id) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		if next.at.After(c.now) {
			c.now = next.at
		}
		c.mu.Unlock()
		next.fn()
	}
}

// Pending 待触发定时器的原始延迟，按到期时间排序
func (c *FakeClock) Pending() []time.Duration {
	return syncx.WithLockReturnValue(&c.mu, func() []time.Duration {
		var active []*fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired {
				active = append(active, t)
			}
		}
		sort.SliceStable(active, func(i, j int) bool { return active[i].at.Before(active[j].at) })
		out := make([]time.Duration, 0, len(active))
		for _, t := range active {
			out = append(out, t.delay)
		}
		return out
	})
}

// StaticIntent 固定的期望与权限
type StaticIntent struct {
	mu      sync.Mutex
	desired map[models.ChannelKind]bool
	allowed map[models.ChannelKind]bool
}

// NewStaticIntent 期望并允许 kinds 中的通道
func NewStaticIntent(kinds ...models.ChannelKind) *StaticIntent {
	i := &StaticIntent{
		desired: make(map[models.ChannelKind]bool),
		allowed: make(map[models.ChannelKind]bool),
	}
	for _, k := range kinds {
		i.desired[k] = true
		i.allowed[k] = true
	}
	return i
}

// SetDesired 修改期望
func (i *StaticIntent) SetDesired(kind models.ChannelKind, desired bool) {
	syncx.WithLock(&i.mu, func() {
		i.desired[kind] = desired
	})
}

// SetAllowed 修改权限
func (i *StaticIntent) SetAllowed(kind models.ChannelKind, allowed bool) {
	syncx.WithLock(&i.mu, func() {
		i.allowed[kind] = allowed
	})
}

// Wants 实现 client.Intent
func (i *StaticIntent) Wants(kind models.ChannelKind) bool {
	return syncx.WithLockReturnValue(&i.mu, func() bool {
		return i.desired[kind]
	})
}

// Permits 实现 client.Intent
func (i *StaticIntent) Permits(kind models.ChannelKind) bool {
	return syncx.WithLockReturnValue(&i.mu, func() bool {
		return i.allowed[kind]
	})
}
