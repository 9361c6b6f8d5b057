/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 11:40:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 10:55:03
 * @FilePath: \go-wsfeed\protocol\statistics.go
 * @Description: 统计载荷的两种协议版本，在边界处解析为带标签的联合体
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/kamalyes/go-wsfeed/models"
)

// PayloadShape 统计载荷的协议版本
type PayloadShape int

const (
	ShapeEmpty   PayloadShape = iota // 两种字段都不存在
	ShapeLegacy                      // 旧版：超时类型 -> 计数
	ShapeService                     // 新版：服务类型 -> {timeoutCount, orderCount, ...}
)

// String 实现Stringer接口
func (s PayloadShape) String() string {
	switch s {
	case ShapeLegacy:
		return "legacy"
	case ShapeService:
		return "service"
	default:
		return "empty"
	}
}

// 旧版与新版字段名，服务端历史上用过多个别名
var (
	LegacyCountsFields = []string{"timeoutCounts", "timeoutTypeCounts", "timeoutStats"}
	ServiceStatsFields = []string{"serviceTypeStats", "serviceStats", "serviceTypeStatistics"}
)

// StatisticsPayload 统计载荷
// Shape 为 ShapeLegacy 时 Legacy 有效；Services 只要服务端给了就保留，供明细展示
type StatisticsPayload struct {
	Shape    PayloadShape
	Legacy   map[string]int64
	Services map[string]models.ServiceStat
	Period   *models.Period
}

// ParseStatisticsPayload 解析统计载荷，任何格式问题都降级为空载荷而不是报错
func ParseStatisticsPayload(raw json.RawMessage) StatisticsPayload {
	payload := StatisticsPayload{Shape: ShapeEmpty}
	if !isObject(raw) {
		return payload
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return payload
	}

	if rawPeriod := nonNull(fields["period"]); rawPeriod != nil {
		var p models.Period
		if json.Unmarshal(rawPeriod, &p) == nil {
			payload.Period = &p
		}
	}

	if services, ok := firstObject(fields, ServiceStatsFields); ok {
		payload.Services = parseServiceStats(services)
		payload.Shape = ShapeService
	}
	if legacy, ok := firstObject(fields, LegacyCountsFields); ok {
		payload.Legacy = parseCounts(legacy)
		payload.Shape = ShapeLegacy
	}
	return payload
}

func firstObject(fields map[string]json.RawMessage, names []string) (map[string]json.RawMessage, bool) {
	for _, name := range names {
		raw := nonNull(fields[name])
		if !isObject(raw) {
			continue
		}
		var obj map[string]json.RawMessage
		if json.Unmarshal(raw, &obj) == nil {
			return obj, true
		}
	}
	return nil, false
}

func parseCounts(obj map[string]json.RawMessage) map[string]int64 {
	counts := make(map[string]int64, len(obj))
	for key, raw := range obj {
		if n, ok := ParseCount(raw); ok {
			counts[key] = n
		}
	}
	return counts
}

func parseServiceStats(obj map[string]json.RawMessage) map[string]models.ServiceStat {
	stats := make(map[string]models.ServiceStat, len(obj))
	for service, raw := range obj {
		var fields map[string]json.RawMessage
		if !isObject(raw) || json.Unmarshal(raw, &fields) != nil {
			continue
		}
		stat := models.ServiceStat{}
		stat.TimeoutCount, _ = ParseCount(fields["timeoutCount"])
		stat.OrderCount, _ = ParseCount(fields["orderCount"])
		if rate, ok := parseFloat(fields["timeoutRate"]); ok {
			stat.TimeoutRate = rate
		}
		stats[service] = stat
	}
	return stats
}

// ParseCount 宽松解析计数：数字、数字字符串都接受，负数、非有限值与超出 int64 的值视为无效
func ParseCount(raw json.RawMessage) (int64, bool) {
	f, ok := parseFloat(raw)
	// float64(math.MaxInt64) 即 2^63，等于它的值已经溢出
	if !ok || f < 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(math.Round(f)), true
}

func parseFloat(raw json.RawMessage) (float64, bool) {
	raw = nonNull(raw)
	if raw == nil {
		return 0, false
	}
	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&num); err == nil {
		f, err := num.Float64()
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}
