/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 11:10:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 10:55:03
 * @FilePath: \go-wsfeed\protocol\envelope.go
 * @Description: 服务端推送消息帧的解析
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-wsfeed/models"
)

// Envelope 推送消息信封 {type, data?, message?, recommendations?, period?}
// 除 type 外的字段都保留原始 JSON，由具体的处理分支按需解析
type Envelope struct {
	Type            models.MessageType
	Data            json.RawMessage
	Message         json.RawMessage
	Recommendations json.RawMessage
	Period          *models.Period

	raw json.RawMessage
}

// DecodeEnvelope 解析一帧文本消息
// 非 JSON 对象或缺少 type 字段时返回错误，调用方丢弃该帧即可
func DecodeEnvelope(frame []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(frame)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, models.ErrInvalidEnvelope
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, errorx.WrapError("decode envelope", err)
	}

	var msgType string
	if rawType, ok := fields["type"]; !ok || json.Unmarshal(rawType, &msgType) != nil || msgType == "" {
		return nil, models.ErrMissingType
	}

	env := &Envelope{
		Type:            models.MessageType(msgType),
		Data:            nonNull(fields["data"]),
		Message:         nonNull(fields["message"]),
		Recommendations: nonNull(fields["recommendations"]),
		raw:             trimmed,
	}

	// period 字段格式不对时直接忽略，不影响整帧
	if rawPeriod := nonNull(fields["period"]); rawPeriod != nil {
		var p models.Period
		if json.Unmarshal(rawPeriod, &p) == nil {
			env.Period = &p
		}
	}
	return env, nil
}

// Text 返回 message 字段的可读文本，非字符串时返回原始 JSON
func (e *Envelope) Text() string {
	if e.Message == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Message, &s); err == nil {
		return s
	}
	return string(e.Message)
}

// Body 统计类消息的有效载荷：优先 data 对象，没有时退回整帧
func (e *Envelope) Body() json.RawMessage {
	if isObject(e.Data) {
		return e.Data
	}
	return e.raw
}

// Raw 返回整帧原文
func (e *Envelope) Raw() json.RawMessage {
	return e.raw
}

// DecodeReport 解析 timeoutReport 消息
func (e *Envelope) DecodeReport(now time.Time) models.TimeoutReport {
	return models.TimeoutReport{
		Period:     e.Period,
		Data:       e.Data,
		ReceivedAt: now,
	}
}

// DecodeReports 解析 timeoutReports 消息，data 不是数组时视为单份报告
func (e *Envelope) DecodeReports(now time.Time) []models.TimeoutReport {
	if e.Data == nil {
		return []models.TimeoutReport{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(e.Data, &items); err != nil {
		return []models.TimeoutReport{e.DecodeReport(now)}
	}
	reports := make([]models.TimeoutReport, 0, len(items))
	for _, item := range items {
		reports = append(reports, models.TimeoutReport{
			Period:     e.Period,
			Data:       item,
			ReceivedAt: now,
		})
	}
	return reports
}

// DecodeRecommendations 解析 recommendations 消息
// 建议列表可能在 recommendations 字段，也可能在 data 字段；无法识别的条目跳过
func (e *Envelope) DecodeRecommendations(now time.Time) models.RecommendationSet {
	set := models.RecommendationSet{
		Period:          e.Period,
		Recommendations: []models.Recommendation{},
		ReceivedAt:      now,
	}

	source := e.Recommendations
	if source == nil {
		source = e.Data
	}
	if source == nil {
		return set
	}

	var items []json.RawMessage
	if err := json.Unmarshal(source, &items); err != nil {
		// data: {recommendations: [...]}
		var nested struct {
			Recommendations []json.RawMessage `json:"recommendations"`
		}
		if json.Unmarshal(source, &nested) != nil {
			return set
		}
		items = nested.Recommendations
	}

	for _, item := range items {
		if rec, ok := decodeRecommendation(item); ok {
			set.Recommendations = append(set.Recommendations, rec)
		}
	}
	return set
}

func decodeRecommendation(item json.RawMessage) (models.Recommendation, bool) {
	var text string
	if err := json.Unmarshal(item, &text); err == nil {
		return models.Recommendation{Content: text}, text != ""
	}
	var rec models.Recommendation
	if err := json.Unmarshal(item, &rec); err != nil {
		return models.Recommendation{}, false
	}
	return rec, true
}

func nonNull(raw json.RawMessage) json.RawMessage {
	if raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return raw
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
