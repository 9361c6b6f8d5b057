/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-09-06 09:50:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 12:10:09
 * @FilePath: \go-wsfeed\client\websocket.go
 * @Description: 基于 gorilla/websocket 的传输层实现
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsfeed/models"
)

// 传输层内部状态
const (
	transportConnecting int32 = iota
	transportOpen
	transportClosed
)

// DefaultMessageBufferSize 默认发送缓冲区大小
const DefaultMessageBufferSize = 256

// WebSocketDialer gorilla/websocket 拨号器
type WebSocketDialer struct {
	Dialer            *websocket.Dialer // WebSocket 拨号器
	RequestHeader     http.Header       // 请求头
	WriteTimeout      time.Duration     // 写超时
	MaxMessageSize    int64             // 支持接收的消息最大长度，0 表示不限
	MessageBufferSize int               // 发送缓冲区大小，写协程来不及发送时 Send 直接返回错误
}

// NewWebSocketDialer 创建默认拨号器
func NewWebSocketDialer() *WebSocketDialer {
	return &WebSocketDialer{
		Dialer:            websocket.DefaultDialer,
		RequestHeader:     http.Header{},
		WriteTimeout:      10 * time.Second,
		MessageBufferSize: DefaultMessageBufferSize,
	}
}

// WithDialer 设置自定义的 WebSocket 拨号器
func (d *WebSocketDialer) WithDialer(dialer *websocket.Dialer) *WebSocketDialer {
	d.Dialer = dialer
	return d
}

// WithRequestHeader 设置请求头
func (d *WebSocketDialer) WithRequestHeader(header http.Header) *WebSocketDialer {
	d.RequestHeader = header
	return d
}

// WithWriteTimeout 设置写超时
func (d *WebSocketDialer) WithWriteTimeout(timeout time.Duration) *WebSocketDialer {
	d.WriteTimeout = timeout
	return d
}

// WithMaxMessageSize 设置接收消息最大长度
func (d *WebSocketDialer) WithMaxMessageSize(size int64) *WebSocketDialer {
	d.MaxMessageSize = size
	return d
}

// WithMessageBufferSize 设置发送缓冲区大小，非正数使用默认值
func (d *WebSocketDialer) WithMessageBufferSize(size int) *WebSocketDialer {
	d.MessageBufferSize = mathx.IF(size > 0, size, DefaultMessageBufferSize)
	return d
}

// Dial 异步拨号，立即返回处于连接中状态的传输层
func (d *WebSocketDialer) Dial(rawURL string, handler TransportHandler) Transport {
	ctx, cancel := context.WithCancel(context.Background())
	t := &webSocketTransport{
		dialer:   d,
		cancel:   cancel,
		sendChan: make(chan []byte, mathx.IF(d.MessageBufferSize > 0, d.MessageBufferSize, DefaultMessageBufferSize)),
	}
	go t.run(ctx, rawURL, handler)
	return t
}

// webSocketTransport 单条 WebSocket 连接
// 数据帧只由写协程发送，Send 与 Close 都不会在调用方阻塞
type webSocketTransport struct {
	dialer *WebSocketDialer
	cancel context.CancelFunc

	connMu      sync.Mutex // 保护 conn、本地关闭信息与写错误
	conn        *websocket.Conn
	state       atomic.Int32
	closeCode   int
	closeReason string
	writeErr    error // 写协程遇到的错误

	sendChan chan []byte // 发送缓冲区，不关闭，写协程随 ctx 退出
}

// run 拨号并启动读写循环，结束时恰好触发一次 OnClose
func (t *webSocketTransport) run(ctx context.Context, rawURL string, handler TransportHandler) {
	defer t.cancel()

	dialer := t.dialer.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, rawURL, t.dialer.RequestHeader)
	if err != nil {
		if t.state.Swap(transportClosed) == transportClosed {
			// 拨号期间被本地关闭
			code, reason := t.localClose()
			handler.OnClose(code, reason)
			return
		}
		handler.OnError(err)
		handler.OnClose(CloseAbnormalClosure, err.Error())
		return
	}

	t.connMu.Lock()
	if t.state.Load() == transportClosed {
		t.connMu.Unlock()
		_ = conn.Close()
		code, reason := t.localClose()
		handler.OnClose(code, reason)
		return
	}
	t.conn = conn
	t.state.Store(transportOpen)
	t.connMu.Unlock()

	if t.dialer.MaxMessageSize > 0 {
		conn.SetReadLimit(t.dialer.MaxMessageSize)
	}
	go t.writeMessages(ctx, conn)
	handler.OnOpen()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			t.finish(conn, err, handler)
			return
		}
		switch messageType {
		case websocket.TextMessage, websocket.BinaryMessage:
			handler.OnMessage(data)
		}
	}
}

// writeMessages 写协程：按入队顺序发送数据帧
// 写失败时关闭底层连接，由读循环统一上报 OnError + OnClose
func (t *webSocketTransport) writeMessages(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-t.sendChan:
			if t.dialer.WriteTimeout > 0 {
				_ = conn.SetWriteDeadline(time.Now().Add(t.dialer.WriteTimeout))
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				syncx.WithLock(&t.connMu, func() {
					t.writeErr = err
				})
				_ = conn.Close()
				return
			}
		}
	}
}

// finish 读循环退出后的收尾
func (t *webSocketTransport) finish(conn *websocket.Conn, err error, handler TransportHandler) {
	local := t.state.Swap(transportClosed) == transportClosed
	_ = conn.Close()

	if local {
		code, reason := t.localClose()
		handler.OnClose(code, reason)
		return
	}

	if writeErr := syncx.WithLockReturnValue(&t.connMu, func() error { return t.writeErr }); writeErr != nil {
		err = writeErr
	}
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		handler.OnClose(closeErr.Code, closeErr.Text)
		return
	}
	handler.OnError(err)
	handler.OnClose(CloseAbnormalClosure, err.Error())
}

func (t *webSocketTransport) localClose() (int, string) {
	t.connMu.Lock()
	defer t.connMu.Unlock()
	return t.closeCode, t.closeReason
}

// Send 把文本帧放入发送缓冲区，缓冲区已满时返回 ErrMessageBufferFull
func (t *webSocketTransport) Send(data []byte) error {
	if t.state.Load() != transportOpen {
		return models.ErrTransportNotOpen
	}
	select {
	case t.sendChan <- data:
		return nil
	default:
		return models.ErrMessageBufferFull
	}
}

// Close 主动关闭，重复调用无副作用
// 关闭帧在后台发送，读循环退出后以本地关闭码触发 OnClose
func (t *webSocketTransport) Close(code int, reason string) error {
	t.connMu.Lock()
	prev := t.state.Swap(transportClosed)
	if prev == transportClosed {
		t.connMu.Unlock()
		return nil
	}
	t.closeCode, t.closeReason = code, reason
	conn := t.conn
	t.connMu.Unlock()

	if prev == transportConnecting || conn == nil {
		t.cancel()
		return nil
	}

	go func() {
		// 1006 不能出现在关闭帧中，只关闭底层连接
		if code != CloseAbnormalClosure {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(code, reason),
				time.Now().Add(time.Second))
		}
		_ = conn.Close()
	}()
	return nil
}

// IsOpen 传输层是否打开
func (t *webSocketTransport) IsOpen() bool {
	return t.state.Load() == transportOpen
}
