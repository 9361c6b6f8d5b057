/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-28 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 18:48:15
 * @FilePath: \go-wsfeed\exports_middleware.go
 * @Description: Middleware 模块类型导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package wsfeed

import (
	"github.com/kamalyes/go-wsfeed/middleware"
)

// ============================================
// Logger - 日志中间件
// ============================================

// FeedLogger 日志器类型（直接使用 go-logger.ILogger）
type FeedLogger = middleware.FeedLogger

// NewFeedLogger 创建新的日志器
var NewFeedLogger = middleware.NewFeedLogger

// NewDefaultFeedLogger 创建默认配置的日志器
var NewDefaultFeedLogger = middleware.NewDefaultFeedLogger

// NewNoOpLogger 创建空日志实例
var NewNoOpLogger = middleware.NewNoOpLogger

// SetDefaultLogger 设置默认日志器
var SetDefaultLogger = middleware.SetDefaultLogger

// InitLogger 根据配置初始化日志器
var InitLogger = middleware.InitLogger

// ParseLogLevel 解析日志级别
var ParseLogLevel = middleware.ParseLogLevel
