/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 16:40:12
 * @FilePath: \go-wsfeed\events\publisher.go
 * @Description: 事件发布器：把协调器推送的数据转发到 Redis PubSub
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kamalyes/go-cachex"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-wsfeed/models"
)

// DefaultPublishTimeout 单次发布的超时时间
const DefaultPublishTimeout = 5 * time.Second

// Publisher 事件发布器接口
type Publisher interface {
	// GetPubSub 获取 PubSub 实例
	GetPubSub() *cachex.PubSub

	// GetLogger 获取日志器
	GetLogger() logger.ILogger

	// GetContext 获取上下文
	GetContext() context.Context

	// GetNodeID 获取节点ID
	GetNodeID() string

	// GetTimeout 单次发布的超时时间
	GetTimeout() time.Duration
}

// Source 可被转发的数据源，*wsfeed.Coordinator 实现了该接口
type Source interface {
	OnSnapshot(fn models.SnapshotListener)
	OnReport(fn models.ReportListener)
	OnReports(fn models.ReportsListener)
	OnRecommendations(fn models.RecommendationsListener)
	OnStatusChange(fn models.StatusListener)
	OnAllChannelsFailed(fn models.AllChannelsFailedListener)
}

// RedisPublisher 基于 go-cachex PubSub 的发布器
type RedisPublisher struct {
	pubsub  *cachex.PubSub
	logger  logger.ILogger
	ctx     context.Context
	cancel  context.CancelFunc
	nodeID  string
	timeout time.Duration
}

// NewRedisPublisher 创建发布器，pubsub 为 nil 时所有发布都会被跳过
func NewRedisPublisher(pubsub *cachex.PubSub, log logger.ILogger) *RedisPublisher {
	if log == nil {
		log = logger.NewEmptyLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisPublisher{
		pubsub:  pubsub,
		logger:  log,
		ctx:     ctx,
		cancel:  cancel,
		nodeID:  uuid.NewString(),
		timeout: DefaultPublishTimeout,
	}
}

func (p *RedisPublisher) GetPubSub() *cachex.PubSub   { return p.pubsub }
func (p *RedisPublisher) GetLogger() logger.ILogger   { return p.logger }
func (p *RedisPublisher) GetContext() context.Context { return p.ctx }
func (p *RedisPublisher) GetNodeID() string           { return p.nodeID }
func (p *RedisPublisher) GetTimeout() time.Duration   { return p.timeout }

// WithNodeID 设置节点ID并返回当前发布器
func (p *RedisPublisher) WithNodeID(nodeID string) *RedisPublisher {
	p.nodeID = mathx.IfEmpty(nodeID, p.nodeID)
	return p
}

// WithTimeout 设置发布超时并返回当前发布器
func (p *RedisPublisher) WithTimeout(timeout time.Duration) *RedisPublisher {
	p.timeout = mathx.IF(timeout > 0, timeout, DefaultPublishTimeout)
	return p
}

// Attach 订阅数据源的全部回调并转发
// 回调在数据源的分发 goroutine 中执行，发布按到达顺序串行进行
func (p *RedisPublisher) Attach(src Source) {
	src.OnSnapshot(func(snapshot models.StatisticsSnapshot) {
		PublishSnapshot(p, snapshot)
	})
	src.OnReport(func(kind models.ChannelKind, report models.TimeoutReport) {
		PublishReport(p, kind, report)
	})
	src.OnReports(func(kind models.ChannelKind, reports []models.TimeoutReport) {
		PublishReports(p, kind, reports)
	})
	src.OnRecommendations(func(kind models.ChannelKind, set models.RecommendationSet) {
		PublishRecommendations(p, kind, set)
	})
	src.OnStatusChange(func(status models.ChannelStatus) {
		PublishChannelStatus(p, status)
	})
	src.OnAllChannelsFailed(func(statuses map[models.ChannelKind]models.ChannelStatus) {
		PublishAllChannelsFailed(p, statuses)
	})
	p.logger.InfoKV("📡 数据推送已接入事件发布", "node_id", p.nodeID)
}

// Close 取消进行中的发布
func (p *RedisPublisher) Close() {
	p.cancel()
}
