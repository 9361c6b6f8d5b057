/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-14 10:12:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 13:20:18
 * @FilePath: \go-wsfeed\client\channel_test.go
 * @Description: Channel 状态机测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client_test

import (
	"errors"
	"testing"
	"time"

	"github.com/kamalyes/go-wsfeed/client"
	"github.com/kamalyes/go-wsfeed/client/clienttest"
	"github.com/kamalyes/go-wsfeed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

// channelHarness 同步驱动的通道，回调直接在测试 goroutine 中执行
type channelHarness struct {
	dialer    *clienttest.FakeDialer
	clock     *clienttest.FakeClock
	intent    *clienttest.StaticIntent
	channel   *client.Channel
	states    []models.ConnectionState
	snapshots []models.StatisticsSnapshot
	reports   []models.TimeoutReport
	recs      []models.RecommendationSet
	errors    []string
	exhausted int
}

func newChannelHarness(t *testing.T, kind models.ChannelKind) *channelHarness {
	t.Helper()
	h := &channelHarness{
		dialer: clienttest.NewFakeDialer(),
		clock:  clienttest.NewFakeClock(testStart),
		intent: clienttest.NewStaticIntent(kind),
	}
	h.channel = client.NewChannel(client.ChannelOptions{
		Kind:              kind,
		Dialer:            h.dialer,
		Clock:             h.clock,
		Policy:            client.DefaultReconnectPolicy(),
		HeartbeatInterval: client.DefaultHeartbeatInterval,
		URL: func(kind models.ChannelKind) (string, error) {
			return "ws://feed.test/ws?channel=" + string(kind), nil
		},
		Intent: h.intent,
		Hooks: client.ChannelHooks{
			OnStateChange: func(_ models.ChannelKind, _, to models.ConnectionState) {
				h.states = append(h.states, to)
			},
			OnStatistics: func(_ models.ChannelKind, s models.StatisticsSnapshot) {
				h.snapshots = append(h.snapshots, s)
			},
			OnReport: func(_ models.ChannelKind, r models.TimeoutReport) {
				h.reports = append(h.reports, r)
			},
			OnReports: func(_ models.ChannelKind, r []models.TimeoutReport) {
				h.reports = append(h.reports, r...)
			},
			OnRecommendations: func(_ models.ChannelKind, s models.RecommendationSet) {
				h.recs = append(h.recs, s)
			},
			OnServerError: func(_ models.ChannelKind, message string) {
				h.errors = append(h.errors, message)
			},
			OnExhausted: func(models.ChannelKind) {
				h.exhausted++
			},
		},
	})
	return h
}

// authenticate 连接、打开并完成握手
func (h *channelHarness) authenticate(t *testing.T) *clienttest.FakeTransport {
	t.Helper()
	h.channel.Connect()
	tr := h.dialer.Last()
	require.NotNil(t, tr)
	tr.Open()
	tr.Handshake()
	require.Equal(t, models.ConnectionStateAuthenticated, h.channel.State())
	return tr
}

func TestReconnectPolicyDelays(t *testing.T) {
	policy := client.DefaultReconnectPolicy()
	expected := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}
	for i, want := range expected {
		assert.Equal(t, want, policy.Delay(i+1), "attempt %d", i+1)
		assert.False(t, policy.Exhausted(i))
	}
	assert.True(t, policy.Exhausted(5))
}

func TestReconnectPolicyCustomDelay(t *testing.T) {
	policy := client.ReconnectPolicy{InitialDelay: 250 * time.Millisecond, MaxAttempts: 3}
	assert.Equal(t, 250*time.Millisecond, policy.Delay(1))
	assert.Equal(t, time.Second, policy.Delay(3))
	assert.Equal(t, 250*time.Millisecond, policy.Delay(0))
	assert.True(t, policy.Exhausted(3))
}

func TestChannelConnectTwiceCreatesOneTransport(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)

	assert.True(t, h.channel.Connect())
	assert.False(t, h.channel.Connect())

	assert.Equal(t, 1, h.dialer.Count())
	assert.Equal(t, models.ConnectionStateConnecting, h.channel.State())
	assert.True(t, h.channel.Locked())
	assert.Equal(t, "ws://feed.test/ws?channel=user", h.dialer.Last().URL)
	assert.NotEmpty(t, h.channel.ConnectionID())
}

func TestChannelHandshakeAuthenticatesAndStartsHeartbeat(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	h.channel.Connect()
	tr := h.dialer.Last()

	tr.Open()
	assert.Equal(t, models.ConnectionStateConnected, h.channel.State())
	assert.False(t, h.channel.Locked())
	assert.False(t, h.channel.HeartbeatActive())

	tr.Handshake()
	assert.Equal(t, models.ConnectionStateAuthenticated, h.channel.State())
	assert.True(t, h.channel.HeartbeatActive())
	assert.Equal(t, []models.ConnectionState{
		models.ConnectionStateConnecting,
		models.ConnectionStateConnected,
		models.ConnectionStateAuthenticated,
	}, h.states)

	h.clock.Advance(client.DefaultHeartbeatInterval)
	cmds := tr.SentCommands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "ping", cmds[0]["command"])
	assert.True(t, h.channel.HeartbeatActive())

	h.clock.Advance(client.DefaultHeartbeatInterval)
	assert.Len(t, tr.Sent(), 2)
}

func TestChannelDuplicateHandshakeIgnored(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	tr := h.authenticate(t)
	count := len(h.states)

	tr.Handshake()
	assert.Equal(t, count, len(h.states))
	assert.Equal(t, []time.Duration{client.DefaultHeartbeatInterval}, h.clock.Pending())
}

func TestChannelCleanCloseSchedulesSingleReconnect(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	tr := h.authenticate(t)

	tr.CloseRemote(client.CloseNormalClosure, "bye")
	assert.Equal(t, models.ConnectionStateDisconnected, h.channel.State())
	assert.False(t, h.channel.HeartbeatActive())
	assert.True(t, h.channel.ReconnectPending())
	assert.Equal(t, 1, h.channel.ReconnectAttempts())
	assert.Equal(t, []time.Duration{time.Second}, h.clock.Pending())

	h.clock.Advance(time.Second)
	assert.Equal(t, 2, h.dialer.Count())
	assert.Equal(t, models.ConnectionStateConnecting, h.channel.State())
	assert.False(t, h.channel.ReconnectPending())
}

func TestChannelBackoffUntilExhausted(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	h.channel.Connect()

	expected := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}
	for i, delay := range expected {
		h.dialer.Last().Fail(errors.New("dial refused"))
		assert.Equal(t, []time.Duration{delay}, h.clock.Pending(), "retry %d", i+1)
		assert.Equal(t, i+1, h.channel.ReconnectAttempts())
		h.clock.Advance(delay)
		assert.Equal(t, i+2, h.dialer.Count())
	}

	h.dialer.Last().Fail(errors.New("dial refused"))
	assert.Empty(t, h.clock.Pending())
	assert.True(t, h.channel.Exhausted())
	assert.Equal(t, models.ConnectionStateError, h.channel.State())
	assert.Equal(t, 1, h.exhausted)
	assert.Equal(t, 6, h.dialer.Count())

	h.clock.Advance(time.Hour)
	assert.Equal(t, 6, h.dialer.Count())
}

func TestChannelHandshakeResetsAttempts(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	h.channel.Connect()
	h.dialer.Last().Fail(errors.New("reset by peer"))
	h.clock.Advance(time.Second)
	assert.Equal(t, 1, h.channel.ReconnectAttempts())

	tr := h.dialer.Last()
	tr.Open()
	assert.Equal(t, 1, h.channel.ReconnectAttempts())
	tr.Handshake()
	assert.Equal(t, 0, h.channel.ReconnectAttempts())
	assert.NoError(t, h.channel.LastError())
}

func TestChannelRetryAfterExhaustion(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	h.channel.Connect()
	for i := 0; i < 5; i++ {
		h.dialer.Last().Fail(errors.New("down"))
		h.clock.Advance(time.Minute)
	}
	h.dialer.Last().Fail(errors.New("down"))
	require.True(t, h.channel.Exhausted())

	h.channel.ResetAttempts()
	assert.False(t, h.channel.Exhausted())
	assert.Equal(t, models.ConnectionStateDisconnected, h.channel.State())
	assert.True(t, h.channel.Connect())
	assert.Equal(t, 7, h.dialer.Count())
}

func TestChannelDisconnectDoesNotReconnect(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	tr := h.authenticate(t)

	assert.True(t, h.channel.Disconnect(false))
	assert.Equal(t, models.ConnectionStateDisconnected, h.channel.State())
	assert.True(t, tr.Closed())
	assert.Equal(t, client.CloseNormalClosure, tr.CloseCode())
	assert.False(t, h.channel.ReconnectPending())
	assert.False(t, h.channel.HeartbeatActive())
	assert.Empty(t, h.clock.Pending())

	// 已关闭的传输层稍后的回调不再生效
	tr.CloseRemote(client.CloseNormalClosure, "late")
	assert.Empty(t, h.clock.Pending())
}

func TestChannelDisconnectWhileLocked(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	h.channel.Connect()
	tr := h.dialer.Last()

	assert.False(t, h.channel.Disconnect(false))
	assert.False(t, tr.Closed())
	assert.Equal(t, models.ConnectionStateConnecting, h.channel.State())

	assert.True(t, h.channel.Disconnect(true))
	assert.True(t, tr.Closed())
	assert.False(t, h.channel.Locked())
	assert.Equal(t, models.ConnectionStateDisconnected, h.channel.State())
}

func TestChannelCloseWhenNotDesiredSkipsReconnect(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	tr := h.authenticate(t)

	h.intent.SetDesired(models.ChannelKindUser, false)
	tr.CloseRemote(client.CloseGoingAway, "restart")
	assert.Equal(t, models.ConnectionStateDisconnected, h.channel.State())
	assert.False(t, h.channel.ReconnectPending())
	assert.Equal(t, 0, h.channel.ReconnectAttempts())
}

func TestChannelReconnectTimerRechecksDesire(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	tr := h.authenticate(t)
	tr.CloseRemote(client.CloseNormalClosure, "")
	require.True(t, h.channel.ReconnectPending())

	h.intent.SetDesired(models.ChannelKindUser, false)
	h.clock.Advance(time.Second)
	assert.Equal(t, 1, h.dialer.Count())
	assert.False(t, h.channel.ReconnectPending())
}

func TestChannelUnprivilegedConnectIsNoop(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindSystem)
	h.intent.SetAllowed(models.ChannelKindSystem, false)

	assert.False(t, h.channel.Connect())
	assert.Equal(t, 0, h.dialer.Count())
	assert.Equal(t, models.ConnectionStateDisconnected, h.channel.State())
}

func TestChannelNotDesiredConnectIsNoop(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindGlobal)
	h.intent.SetDesired(models.ChannelKindGlobal, false)

	assert.False(t, h.channel.Connect())
	assert.Equal(t, 0, h.dialer.Count())
}

func TestChannelAbnormalCloseRecordsError(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	tr := h.authenticate(t)

	tr.CloseRemote(client.CloseAbnormalClosure, "")
	assert.Equal(t, models.ConnectionStateDisconnected, h.channel.State())
	assert.Error(t, h.channel.LastError())
	assert.True(t, h.channel.ReconnectPending())
}

func TestChannelTransportErrorPassesThroughError(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	tr := h.authenticate(t)

	boom := errors.New("broken pipe")
	tr.Fail(boom)
	assert.Contains(t, h.states, models.ConnectionStateError)
	assert.Equal(t, models.ConnectionStateDisconnected, h.channel.State())
	assert.Equal(t, boom, h.channel.LastError())
	assert.Equal(t, "broken pipe", h.channel.Status().LastError)
}

func TestChannelUnparseableFramesDropped(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindGlobal)
	tr := h.authenticate(t)

	tr.Receive("not json")
	tr.Receive(`[1,2,3]`)
	tr.Receive(`{"data":{"timeoutStats":{"PICKUP":1}}}`)
	tr.Receive(`{"type":42}`)

	assert.Empty(t, h.snapshots)
	assert.Equal(t, models.ConnectionStateAuthenticated, h.channel.State())
	assert.True(t, h.channel.IsOpen())
}

func TestChannelUnknownTypeIgnored(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindGlobal)
	tr := h.authenticate(t)

	tr.Receive(`{"type":"somethingNew","data":{}}`)
	tr.Receive(`{"type":"INIT_TEST"}`)
	assert.Empty(t, h.snapshots)
	assert.Empty(t, h.reports)
}

func TestChannelStatisticsDispatch(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindGlobal)
	tr := h.authenticate(t)

	tr.Receive(`{"type":"global","data":{"timeoutStats":{"PICKUP_TIMEOUT":3,"DELIVERY":2}},"period":{"start":"2026-10-01","end":"2026-10-02"}}`)
	require.Len(t, h.snapshots, 1)
	snap := h.snapshots[0]
	assert.Equal(t, models.ChannelKindGlobal, snap.Kind)
	assert.Equal(t, models.SnapshotSourceLegacy, snap.Source)
	assert.Equal(t, int64(3), snap.Count(models.TimeoutCategoryPickup))
	assert.Equal(t, int64(2), snap.Count(models.TimeoutCategoryDelivery))
	assert.Equal(t, int64(0), snap.Count(models.TimeoutCategoryConfirmation))
	assert.Equal(t, testStart, snap.ReceivedAt)
	require.NotNil(t, snap.Period)
	assert.Equal(t, "2026-10-01", snap.Period.Start)
}

func TestChannelStatisticsKindFollowsMessageType(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	tr := h.authenticate(t)

	tr.Receive(`{"type":"user","data":{"serviceTypeStats":{"takeout":{"timeoutCount":4}}}}`)
	require.Len(t, h.snapshots, 1)
	assert.Equal(t, models.ChannelKindUser, h.snapshots[0].Kind)
	assert.Equal(t, models.SnapshotSourceService, h.snapshots[0].Source)
	assert.Equal(t, int64(4), h.snapshots[0].Count(models.TimeoutCategoryDelivery))
}

func TestChannelReportsAndRecommendations(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindSystem)
	tr := h.authenticate(t)

	tr.Receive(`{"type":"timeoutReport","data":{"total":5}}`)
	tr.Receive(`{"type":"timeoutReports","data":[{"total":1},{"total":2}]}`)
	tr.Receive(`{"type":"recommendations","recommendations":[{"title":"扩容骑手","priority":"high"},"检查出餐时长"]}`)

	assert.Len(t, h.reports, 3)
	require.Len(t, h.recs, 1)
	assert.Len(t, h.recs[0].Recommendations, 2)
}

func TestChannelServerError(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	tr := h.authenticate(t)

	tr.Receive(`{"type":"ERROR","message":"invalid token"}`)
	assert.Equal(t, []string{"invalid token"}, h.errors)
	assert.Equal(t, models.ConnectionStateAuthenticated, h.channel.State())
}

func TestChannelPingFailureClosesConnection(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	tr := h.authenticate(t)

	boom := errors.New("write: broken pipe")
	tr.FailSends(boom)
	h.clock.Advance(client.DefaultHeartbeatInterval)

	assert.Equal(t, models.ConnectionStateDisconnected, h.channel.State())
	assert.Equal(t, boom, h.channel.LastError())
	assert.True(t, tr.Closed())
	assert.False(t, h.channel.HeartbeatActive())
	assert.True(t, h.channel.ReconnectPending())
}

func TestChannelSendWithoutTransport(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	assert.ErrorIs(t, h.channel.Send([]byte(`{}`)), models.ErrTransportNotOpen)

	h.channel.Connect()
	assert.ErrorIs(t, h.channel.Send([]byte(`{}`)), models.ErrTransportNotOpen)
}

func TestChannelStaleCallbacksIgnored(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	h.channel.Connect()
	stale := h.dialer.Last()
	h.channel.Disconnect(true)

	require.True(t, h.channel.Connect())
	current := h.dialer.Last()
	require.NotSame(t, stale, current)

	stale.Open()
	stale.Handshake()
	assert.Equal(t, models.ConnectionStateConnecting, h.channel.State())

	stale.CloseRemote(client.CloseAbnormalClosure, "")
	assert.Equal(t, models.ConnectionStateConnecting, h.channel.State())
	assert.False(t, h.channel.ReconnectPending())

	current.Open()
	assert.Equal(t, models.ConnectionStateConnected, h.channel.State())
}

func TestChannelCloseResetsEverything(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindUser)
	h.channel.Connect()
	h.dialer.Last().Fail(errors.New("down"))
	require.True(t, h.channel.ReconnectPending())

	h.channel.Close()
	assert.False(t, h.channel.ReconnectPending())
	assert.Equal(t, 0, h.channel.ReconnectAttempts())
	assert.NoError(t, h.channel.LastError())
	assert.Equal(t, models.ConnectionStateDisconnected, h.channel.State())

	// 重复关闭无副作用
	h.channel.Close()
	assert.Empty(t, h.clock.Pending())
}

func TestChannelStatus(t *testing.T) {
	h := newChannelHarness(t, models.ChannelKindGlobal)
	h.authenticate(t)

	status := h.channel.Status()
	assert.Equal(t, models.ChannelKindGlobal, status.Kind)
	assert.Equal(t, models.ConnectionStateAuthenticated, status.State)
	assert.True(t, status.Desired)
	assert.False(t, status.Locked)
	assert.NotEmpty(t, status.ConnectionID)
	assert.Equal(t, testStart, status.UpdatedAt)
}
