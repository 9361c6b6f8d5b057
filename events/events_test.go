/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-19 17:02:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 17:20:36
 * @FilePath: \go-wsfeed\events\events_test.go
 * @Description: 事件发布测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/kamalyes/go-cachex"
	"github.com/kamalyes/go-wsfeed/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSource 记录注册的回调，测试中手动触发
type recordingSource struct {
	snapshot        []models.SnapshotListener
	report          []models.ReportListener
	reports         []models.ReportsListener
	recommendations []models.RecommendationsListener
	status          []models.StatusListener
	failed          []models.AllChannelsFailedListener
}

func (s *recordingSource) OnSnapshot(fn models.SnapshotListener) {
	s.snapshot = append(s.snapshot, fn)
}

func (s *recordingSource) OnReport(fn models.ReportListener) {
	s.report = append(s.report, fn)
}

func (s *recordingSource) OnReports(fn models.ReportsListener) {
	s.reports = append(s.reports, fn)
}

func (s *recordingSource) OnRecommendations(fn models.RecommendationsListener) {
	s.recommendations = append(s.recommendations, fn)
}

func (s *recordingSource) OnStatusChange(fn models.StatusListener) {
	s.status = append(s.status, fn)
}

func (s *recordingSource) OnAllChannelsFailed(fn models.AllChannelsFailedListener) {
	s.failed = append(s.failed, fn)
}

func TestStatisticsEventFor(t *testing.T) {
	assert.Equal(t, "wsfeed.statistics.user", StatisticsEventFor(models.ChannelKindUser))
	assert.Equal(t, "wsfeed.statistics.global", StatisticsEventFor(models.ChannelKindGlobal))
}

func TestPublisherDefaults(t *testing.T) {
	p := NewRedisPublisher(nil, nil)
	assert.NotEmpty(t, p.GetNodeID())
	assert.NotNil(t, p.GetLogger())
	assert.Equal(t, DefaultPublishTimeout, p.GetTimeout())

	p.WithNodeID("node-1").WithTimeout(time.Second)
	assert.Equal(t, "node-1", p.GetNodeID())
	assert.Equal(t, time.Second, p.GetTimeout())

	p.WithNodeID("").WithTimeout(0)
	assert.Equal(t, "node-1", p.GetNodeID())
	assert.Equal(t, DefaultPublishTimeout, p.GetTimeout())
}

func TestPublishWithoutPubSub(t *testing.T) {
	p := NewRedisPublisher(nil, nil)

	assert.ErrorIs(t, PublishEvent(p, "wsfeed.custom", map[string]int{"a": 1}), ErrPubSubNotSet)
	assert.ErrorIs(t, PublishSnapshot(p, models.NewEmptySnapshot()), ErrPubSubNotSet)

	_, err := SubscribeSnapshots(p, nil, func(*SnapshotEvent) error { return nil })
	assert.ErrorIs(t, err, ErrPubSubNotSet)
	_, err = SubscribeEvent(p, []string{"wsfeed.custom"}, func(context.Context, string, string) error { return nil })
	assert.ErrorIs(t, err, ErrPubSubNotSet)
}

func TestAttachRegistersEveryListener(t *testing.T) {
	src := &recordingSource{}
	p := NewRedisPublisher(nil, nil)
	p.Attach(src)

	require.Len(t, src.snapshot, 1)
	require.Len(t, src.report, 1)
	require.Len(t, src.reports, 1)
	require.Len(t, src.recommendations, 1)
	require.Len(t, src.status, 1)
	require.Len(t, src.failed, 1)

	// 未配置 PubSub 时回调只记录日志
	assert.NotPanics(t, func() {
		src.snapshot[0](models.NewEmptySnapshot())
		src.report[0](models.ChannelKindSystem, models.TimeoutReport{})
		src.reports[0](models.ChannelKindSystem, nil)
		src.recommendations[0](models.ChannelKindUser, models.RecommendationSet{})
		src.status[0](models.ChannelStatus{Kind: models.ChannelKindUser})
		src.failed[0](map[models.ChannelKind]models.ChannelStatus{})
	})
}

func TestDecodeEvent(t *testing.T) {
	event, err := decodeEvent[SnapshotEvent](`{"kind":"global","snapshot":{"source":"legacy","counts":{"PICKUP":3}},"node_id":"n1"}`)
	require.NoError(t, err)
	assert.Equal(t, models.ChannelKindGlobal, event.Kind)
	assert.Equal(t, int64(3), event.Snapshot.Count(models.TimeoutCategoryPickup))
	assert.Equal(t, "n1", event.NodeID)

	_, err = decodeEvent[SnapshotEvent](`not json`)
	assert.Error(t, err)
}

// newTestPubSub 只有设置 TEST_REDIS_ADDR 时才运行依赖 Redis 的测试
func newTestPubSub(t *testing.T) *cachex.PubSub {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR 未设置，跳过 Redis 测试")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("TEST_REDIS_PASSWORD"),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err(), "Redis 连接失败，请检查配置")
	t.Cleanup(func() { _ = client.Close() })

	return cachex.NewPubSub(client)
}

func TestRedisSnapshotRoundTrip(t *testing.T) {
	pubsub := newTestPubSub(t)
	p := NewRedisPublisher(pubsub, nil).WithNodeID("node-test")
	defer p.Close()

	var (
		mu       sync.Mutex
		received []*SnapshotEvent
	)
	unsubscribe, err := SubscribeSnapshots(p, []models.ChannelKind{models.ChannelKindSystem}, func(event *SnapshotEvent) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
		return nil
	})
	require.NoError(t, err)
	defer func() { _ = unsubscribe() }()
	time.Sleep(200 * time.Millisecond)

	src := &recordingSource{}
	p.Attach(src)

	snap := models.NewEmptySnapshot()
	snap.Kind = models.ChannelKindSystem
	snap.Counts[models.TimeoutCategoryDelivery] = 7
	src.snapshot[0](snap)

	// user 维度不在订阅范围内
	other := models.NewEmptySnapshot()
	other.Kind = models.ChannelKindUser
	src.snapshot[0](other)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 3*time.Second, 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, models.ChannelKindSystem, received[0].Kind)
	assert.Equal(t, int64(7), received[0].Snapshot.Count(models.TimeoutCategoryDelivery))
	assert.Equal(t, "node-test", received[0].NodeID)
}

func TestRedisAllChannelsFailed(t *testing.T) {
	pubsub := newTestPubSub(t)
	p := NewRedisPublisher(pubsub, nil)
	defer p.Close()

	done := make(chan *AllChannelsFailedEvent, 1)
	unsubscribe, err := SubscribeAllChannelsFailed(p, func(event *AllChannelsFailedEvent) error {
		done <- event
		return nil
	})
	require.NoError(t, err)
	defer func() { _ = unsubscribe() }()
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, PublishAllChannelsFailed(p, map[models.ChannelKind]models.ChannelStatus{
		models.ChannelKindUser: {Kind: models.ChannelKindUser, State: models.ConnectionStateError, Exhausted: true},
	}))

	select {
	case event := <-done:
		assert.True(t, event.Statuses[models.ChannelKindUser].Exhausted)
	case <-time.After(3 * time.Second):
		t.Fatal("未收到全部通道失败事件")
	}
}
