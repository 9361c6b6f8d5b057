/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-11-22 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 14:12:40
 * @FilePath: \go-wsfeed\middleware\logger.go
 * @Description: go-wsfeed 日志接口，直接复用 go-logger
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package middleware

import (
	"os"
	"strings"
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-logger"
)

// LogPrefix 日志前缀
const LogPrefix = "[WSFEED] "

// FeedLogger 直接使用 go-logger.ILogger
type FeedLogger = logger.ILogger

// NewFeedLogger 创建新的日志器，基于 go-logger
func NewFeedLogger(config *logger.LogConfig) FeedLogger {
	return logger.NewLogger(config)
}

// NewDefaultFeedLogger 创建默认配置的日志器
func NewDefaultFeedLogger() FeedLogger {
	config := logger.DefaultConfig().
		WithLevel(logger.INFO).
		WithPrefix(LogPrefix).
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat(time.DateTime)

	return logger.NewLogger(config)
}

// NewNoOpLogger 创建空日志实例
func NewNoOpLogger() FeedLogger {
	return logger.NewEmptyLogger()
}

// 全局日志器
var (
	// DefaultLogger 默认日志器实例
	DefaultLogger FeedLogger = NewDefaultFeedLogger()

	// NoOpLoggerInstance 空日志器实例
	NoOpLoggerInstance FeedLogger = NewNoOpLogger()
)

// SetDefaultLogger 设置默认日志器
func SetDefaultLogger(l FeedLogger) {
	DefaultLogger = l
}

// InitLogger 根据配置初始化日志器，未启用日志配置时使用默认日志器
func InitLogger(config *wscconfig.WSC) FeedLogger {
	if config == nil || config.Logging == nil || !config.Logging.Enabled {
		return DefaultLogger
	}

	loggerConfig := logger.DefaultConfig().
		WithLevel(ParseLogLevel(config.Logging.Level)).
		WithPrefix(LogPrefix).
		WithShowCaller(false).
		WithColorful(config.Logging.Output != "file").
		WithTimeFormat(time.DateTime)

	// 根据输出类型配置输出
	switch config.Logging.Output {
	case "file":
		if config.Logging.FilePath != "" {
			if config.Logging.MaxSize > 0 && config.Logging.MaxBackups > 0 {
				// 使用轮转文件写入器
				rotateWriter := logger.NewRotateWriter(
					config.Logging.FilePath,
					int64(config.Logging.MaxSize)*1024*1024, // 转换为字节
					config.Logging.MaxBackups,
				)
				loggerConfig = loggerConfig.WithOutput(rotateWriter)
			} else {
				loggerConfig = loggerConfig.WithOutput(logger.NewFileWriter(config.Logging.FilePath))
			}
		}
	default:
		loggerConfig = loggerConfig.WithOutput(logger.NewConsoleWriter(os.Stdout))
	}

	return logger.NewLogger(loggerConfig)
}

// ParseLogLevel 解析日志级别字符串，无法识别时返回 INFO
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logger.DEBUG
	case "info":
		return logger.INFO
	case "warn", "warning":
		return logger.WARN
	case "error":
		return logger.ERROR
	case "fatal":
		return logger.FATAL
	default:
		return logger.INFO
	}
}
