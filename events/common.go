/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 16:47:15
 * @FilePath: \go-wsfeed\events\common.go
 * @Description: 通用事件发布订阅方法
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"context"
)

// PublishEvent 发布自定义事件（通用方法）
// 参数：
//   - eventType: 事件频道（建议使用命名空间，如 "wsfeed.custom.alert"）
//   - data: 事件数据（任意类型，会自动序列化为JSON）
func PublishEvent(p Publisher, eventType string, data interface{}) error {
	return publishEventHelper(p, eventType, data, nil)
}

// SubscribeEvent 订阅原始事件（通用方法）
// 参数：
//   - eventTypes: 要订阅的事件频道列表
//   - handler: 事件处理函数，接收 (context, channel, message) 参数
//
// 返回：
//   - unsubscribe: 取消订阅函数
//   - error: 订阅失败时返回错误
func SubscribeEvent(p Publisher, eventTypes []string, handler func(ctx context.Context, channel string, message string) error) (func() error, error) {
	pubsub := p.GetPubSub()
	if pubsub == nil {
		return nil, ErrPubSubNotSet
	}

	p.GetLogger().InfoKV("📡 订阅自定义事件", "event_types", eventTypes)

	subscriber, err := pubsub.Subscribe(eventTypes, handler)
	if err != nil {
		return nil, err
	}

	return func() error {
		return subscriber.Unsubscribe()
	}, nil
}

// SubscribeEventTyped 订阅自定义事件（类型安全版本，泛型函数）
//
// 使用示例：
//
//	unsubscribe, err := SubscribeEventTyped[models.SnapshotEvent](publisher, []string{"wsfeed.statistics.user"}, func(event *models.SnapshotEvent) error {
//	    log.Printf("收到快照: %d", event.Snapshot.Total())
//	    return nil
//	})
//	if err != nil { return err }
//	defer unsubscribe()
func SubscribeEventTyped[T any](p Publisher, eventTypes []string, handler func(event *T) error) (func() error, error) {
	return subscribeEventHelper(p, eventTypes, handler, "自定义事件")
}
