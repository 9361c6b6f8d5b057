/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2020-09-06 09:50:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 14:05:31
 * @FilePath: \go-wsfeed\config.go
 * @Description: Config 结构体
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsfeed

import (
	"net/url"
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-wsfeed/client"
	"github.com/kamalyes/go-wsfeed/models"
)

// 默认配置值
const (
	DefaultChannelParam   = "channel"
	DefaultTokenParam     = "token"
	DefaultConnectStagger = 500 * time.Millisecond
	DefaultSelfHealDelay  = time.Second
	DefaultEventQueueSize = 256
	DefaultCloseTimeout   = 5 * time.Second
)

// Config 数据推送协调器的配置
type Config struct {
	BaseURL               string         // WebSocket 地址，例如 ws://host/ws/timeout
	ChannelParam          string         // 通道类型查询参数名
	TokenParam            string         // 令牌查询参数名
	InitialReconnectDelay time.Duration  // 首次重连等待
	MaxReconnectAttempts  int            // 最大重连次数
	HeartbeatInterval     time.Duration  // 心跳间隔
	ConnectStagger        time.Duration  // 通道启动错峰间隔，乘以通道序号
	SelfHealDelay         time.Duration  // 发送命令时发现通道断开后的重连等待
	EventQueueSize        int            // 事件队列长度
	CloseTimeout          time.Duration  // 关闭时等待事件循环退出的时长
	Transport             *wscconfig.WSC // 传输层与日志配置
}

// DefaultConfig 创建默认配置
func DefaultConfig() *Config {
	return &Config{
		ChannelParam:          DefaultChannelParam,
		TokenParam:            DefaultTokenParam,
		InitialReconnectDelay: client.DefaultInitialReconnectDelay,
		MaxReconnectAttempts:  client.DefaultMaxReconnectAttempts,
		HeartbeatInterval:     client.DefaultHeartbeatInterval,
		ConnectStagger:        DefaultConnectStagger,
		SelfHealDelay:         DefaultSelfHealDelay,
		EventQueueSize:        DefaultEventQueueSize,
		CloseTimeout:          DefaultCloseTimeout,
		Transport:             wscconfig.Default(),
	}
}

// WithBaseURL 设置服务地址并返回当前配置对象
func (c *Config) WithBaseURL(baseURL string) *Config {
	c.BaseURL = baseURL
	return c
}

// WithChannelParam 设置通道类型查询参数名并返回当前配置对象
func (c *Config) WithChannelParam(name string) *Config {
	c.ChannelParam = name
	return c
}

// WithTokenParam 设置令牌查询参数名并返回当前配置对象
func (c *Config) WithTokenParam(name string) *Config {
	c.TokenParam = name
	return c
}

// WithInitialReconnectDelay 设置首次重连等待并返回当前配置对象
func (c *Config) WithInitialReconnectDelay(d time.Duration) *Config {
	c.InitialReconnectDelay = d
	return c
}

// WithMaxReconnectAttempts 设置最大重连次数并返回当前配置对象
func (c *Config) WithMaxReconnectAttempts(n int) *Config {
	c.MaxReconnectAttempts = n
	return c
}

// WithHeartbeatInterval 设置心跳间隔并返回当前配置对象
func (c *Config) WithHeartbeatInterval(d time.Duration) *Config {
	c.HeartbeatInterval = d
	return c
}

// WithConnectStagger 设置通道启动错峰间隔并返回当前配置对象
func (c *Config) WithConnectStagger(d time.Duration) *Config {
	c.ConnectStagger = d
	return c
}

// WithSelfHealDelay 设置自愈重连等待并返回当前配置对象
func (c *Config) WithSelfHealDelay(d time.Duration) *Config {
	c.SelfHealDelay = d
	return c
}

// WithEventQueueSize 设置事件队列长度并返回当前配置对象
func (c *Config) WithEventQueueSize(size int) *Config {
	c.EventQueueSize = size
	return c
}

// WithCloseTimeout 设置关闭等待时长并返回当前配置对象
func (c *Config) WithCloseTimeout(d time.Duration) *Config {
	c.CloseTimeout = d
	return c
}

// WithTransport 设置传输层配置并返回当前配置对象
func (c *Config) WithTransport(transport *wscconfig.WSC) *Config {
	c.Transport = transport
	return c
}

// ReconnectPolicy 由配置生成的退避策略
func (c *Config) ReconnectPolicy() client.ReconnectPolicy {
	return client.ReconnectPolicy{
		InitialDelay: c.InitialReconnectDelay,
		MaxAttempts:  c.MaxReconnectAttempts,
	}
}

// Validate 校验配置，并为可选字段补默认值
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errorx.WrapError("base url is required", models.ErrInvalidConfig)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return errorx.WrapError("base url is malformed", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return errorx.WrapError("base url scheme must be ws or wss", models.ErrInvalidConfig)
	}
	if u.Host == "" {
		return errorx.WrapError("base url has no host", models.ErrInvalidConfig)
	}
	if c.InitialReconnectDelay <= 0 {
		return errorx.WrapError("initial reconnect delay must be positive", models.ErrInvalidConfig)
	}
	if c.MaxReconnectAttempts <= 0 {
		return errorx.WrapError("max reconnect attempts must be positive", models.ErrInvalidConfig)
	}
	if c.HeartbeatInterval <= 0 {
		return errorx.WrapError("heartbeat interval must be positive", models.ErrInvalidConfig)
	}
	if c.ConnectStagger < 0 || c.SelfHealDelay < 0 {
		return errorx.WrapError("delays must not be negative", models.ErrInvalidConfig)
	}

	c.ChannelParam = mathx.IfEmpty(c.ChannelParam, DefaultChannelParam)
	c.TokenParam = mathx.IfEmpty(c.TokenParam, DefaultTokenParam)
	c.EventQueueSize = mathx.IF(c.EventQueueSize > 0, c.EventQueueSize, DefaultEventQueueSize)
	c.CloseTimeout = mathx.IfNotZero(c.CloseTimeout, DefaultCloseTimeout)
	if c.Transport == nil {
		c.Transport = wscconfig.Default()
	}
	return nil
}

// ChannelURL 生成某个通道的连接地址：通道类型与令牌通过查询参数携带
func (c *Config) ChannelURL(kind models.ChannelKind, token string) (string, error) {
	if !kind.IsValid() {
		return "", models.ErrUnknownChannelKind
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", errorx.WrapError("base url is malformed", err)
	}
	query := u.Query()
	query.Set(c.ChannelParam, kind.String())
	if token != "" {
		query.Set(c.TokenParam, token)
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}
