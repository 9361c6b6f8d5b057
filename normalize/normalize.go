/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 09:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 11:20:37
 * @FilePath: \go-wsfeed\normalize\normalize.go
 * @Description: 统计载荷归一化，屏蔽服务端协议版本差异
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

// Package normalize 把两种服务端统计协议统一成 models.StatisticsSnapshot。
// 所有函数都是纯函数：相同输入得到相同输出，不修改入参。
// 服务端以后新增的统计字段也应该在这里处理，而不是在上游消费方。
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/kamalyes/go-wsfeed/models"
	"github.com/kamalyes/go-wsfeed/protocol"
)

// serviceCategories 服务类型 -> 超时分类，未列出的服务归入 CONFIRMATION
var serviceCategories = map[string]models.TimeoutCategory{
	"mail-pickup":    models.TimeoutCategoryPickup,
	"express-pickup": models.TimeoutCategoryPickup,
	"pickup":         models.TimeoutCategoryPickup,
	"shopping":       models.TimeoutCategoryDelivery,
	"takeout":        models.TimeoutCategoryDelivery,
	"errand":         models.TimeoutCategoryDelivery,
	"delivery":       models.TimeoutCategoryDelivery,
	"after-sales":    models.TimeoutCategoryIntervention,
	"complaint":      models.TimeoutCategoryIntervention,
	"dispute":        models.TimeoutCategoryIntervention,
}

// Classify 服务类型归类，大小写与下划线不敏感
func Classify(serviceType string) models.TimeoutCategory {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(serviceType)), "_", "-")
	if category, ok := serviceCategories[key]; ok {
		return category
	}
	return models.TimeoutCategoryConfirmation
}

// Message 归一化一段原始 JSON，nil、null、{} 以及无法解析的输入都得到全零快照
func Message(raw json.RawMessage) models.StatisticsSnapshot {
	return Statistics(protocol.ParseStatisticsPayload(raw))
}

// Statistics 归一化已解析的统计载荷
//   - 旧版字段存在时直接使用，缺失的分类补 0，无法识别的键放入 Uncategorized
//   - 只有新版字段时按服务类型归类并累加 timeoutCount
//   - 都不存在时返回全零快照
func Statistics(p protocol.StatisticsPayload) models.StatisticsSnapshot {
	snap := models.NewEmptySnapshot()
	snap.Period = copyPeriod(p.Period)
	snap.Services = copyServices(p.Services)

	switch p.Shape {
	case protocol.ShapeLegacy:
		snap.Source = models.SnapshotSourceLegacy
		for key, count := range p.Legacy {
			category, ok := models.ParseTimeoutCategory(key)
			if !ok {
				if snap.Uncategorized == nil {
					snap.Uncategorized = make(map[string]int64)
				}
				snap.Uncategorized[key] += count
				continue
			}
			snap.Counts[category] += count
		}
	case protocol.ShapeService:
		snap.Source = models.SnapshotSourceService
		for service, stat := range p.Services {
			snap.Counts[Classify(service)] += stat.TimeoutCount
		}
	}
	return snap
}

func copyServices(in map[string]models.ServiceStat) map[string]models.ServiceStat {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]models.ServiceStat, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyPeriod(p *models.Period) *models.Period {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
