/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-28 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 18:44:03
 * @FilePath: \go-wsfeed\exports_protocol.go
 * @Description: Protocol 与 normalize 包的类型和函数导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package wsfeed

import (
	"github.com/kamalyes/go-wsfeed/normalize"
	"github.com/kamalyes/go-wsfeed/protocol"
)

// ============================================================================
// Protocol 类型导出
// ============================================================================

type (
	Envelope          = protocol.Envelope
	Command           = protocol.Command
	StatisticsPayload = protocol.StatisticsPayload
	PayloadShape      = protocol.PayloadShape
)

const (
	ShapeEmpty      = protocol.ShapeEmpty
	ShapeLegacy     = protocol.ShapeLegacy
	ShapeService    = protocol.ShapeService
	TimestampLayout = protocol.TimestampLayout
)

// ============================================================================
// Protocol 函数导出
// ============================================================================

var (
	DecodeEnvelope          = protocol.DecodeEnvelope
	ParseStatisticsPayload  = protocol.ParseStatisticsPayload
	NewStatisticsQuery      = protocol.NewStatisticsQuery
	NewReportQuery          = protocol.NewReportQuery
	NewRecommendationsQuery = protocol.NewRecommendationsQuery
	FormatTimestamp         = protocol.FormatTimestamp
)

// ============================================================================
// 归一化函数导出
// ============================================================================

var (
	NormalizeMessage    = normalize.Message
	NormalizeStatistics = normalize.Statistics
	ClassifyService     = normalize.Classify
)
