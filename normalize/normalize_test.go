/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 09:40:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 11:20:37
 * @FilePath: \go-wsfeed\normalize\normalize_test.go
 * @Description: 归一化测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package normalize

import (
	"encoding/json"
	"testing"

	"github.com/kamalyes/go-wsfeed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAllCategories(t *testing.T, snap models.StatisticsSnapshot) {
	t.Helper()
	require.Len(t, snap.Counts, len(models.AllTimeoutCategories))
	for _, c := range models.AllTimeoutCategories {
		_, ok := snap.Counts[c]
		assert.True(t, ok, "缺少分类 %s", c)
	}
}

// TestMessage_EmptyInputs 空输入都得到同一个全零快照
func TestMessage_EmptyInputs(t *testing.T) {
	empty := models.NewEmptySnapshot()

	inputs := map[string]json.RawMessage{
		"nil":     nil,
		"null":    json.RawMessage(`null`),
		"object":  json.RawMessage(`{}`),
		"array":   json.RawMessage(`[1,2]`),
		"garbage": json.RawMessage(`{not json`),
		"other":   json.RawMessage(`{"foo":{"bar":1}}`),
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			snap := Message(raw)
			assertAllCategories(t, snap)
			assert.Equal(t, empty, snap)
			assert.True(t, snap.IsZero())
		})
	}
	assert.Equal(t, Message(nil), Message(json.RawMessage(`{}`)))
}

// TestMessage_Legacy 旧版计数直接使用，缺失分类补 0
func TestMessage_Legacy(t *testing.T) {
	raw := json.RawMessage(`{"timeoutCounts":{"PICKUP":3,"DELIVERY":"7","INTERVENTION":1}}`)
	snap := Message(raw)

	assertAllCategories(t, snap)
	assert.Equal(t, models.SnapshotSourceLegacy, snap.Source)
	assert.Equal(t, int64(3), snap.Count(models.TimeoutCategoryPickup))
	assert.Equal(t, int64(7), snap.Count(models.TimeoutCategoryDelivery))
	assert.Equal(t, int64(0), snap.Count(models.TimeoutCategoryConfirmation))
	assert.Equal(t, int64(1), snap.Count(models.TimeoutCategoryIntervention))
	assert.Equal(t, int64(11), snap.Total())
}

// TestMessage_LegacyTotalPreserved 合法旧版载荷的总数与输入一致
func TestMessage_LegacyTotalPreserved(t *testing.T) {
	cases := []map[string]int64{
		{},
		{"PICKUP": 1},
		{"PICKUP": 10, "DELIVERY": 20, "CONFIRMATION": 30, "INTERVENTION": 40},
		{"pickup_timeout": 5, "deliveryTimeout": 6},
		{"CONFIRMATION": 0, "INTERVENTION": 999999},
	}
	for _, legacy := range cases {
		body, err := json.Marshal(map[string]any{"timeoutCounts": legacy})
		require.NoError(t, err)

		var want int64
		for _, n := range legacy {
			want += n
		}

		snap := Message(body)
		assertAllCategories(t, snap)
		assert.Equal(t, want, snap.Total(), "legacy=%v", legacy)
		assert.Empty(t, snap.Uncategorized)
	}
}

// TestMessage_LegacyUnknownKeys 无法识别的键单独保留
func TestMessage_LegacyUnknownKeys(t *testing.T) {
	snap := Message(json.RawMessage(`{"timeoutCounts":{"PICKUP":2,"WEATHER":4}}`))
	assert.Equal(t, int64(2), snap.Total())
	assert.Equal(t, map[string]int64{"WEATHER": 4}, snap.Uncategorized)
}

// TestMessage_ServiceStats 新版按服务类型归类累加
func TestMessage_ServiceStats(t *testing.T) {
	raw := json.RawMessage(`{
		"serviceTypeStats": {
			"mail-pickup": {"timeoutCount": 4, "orderCount": 40},
			"SHOPPING":    {"timeoutCount": 6, "orderCount": 60, "timeoutRate": 0.1},
			"takeout":     {"timeoutCount": "2", "orderCount": 10},
			"laundry":     {"timeoutCount": 5, "orderCount": 5},
			"complaint":   {"timeoutCount": 1}
		},
		"period": {"start": "2026-10-01T00:00:00.000Z", "end": "2026-10-02T00:00:00.000Z"}
	}`)
	snap := Message(raw)

	assertAllCategories(t, snap)
	assert.Equal(t, models.SnapshotSourceService, snap.Source)
	assert.Equal(t, int64(4), snap.Count(models.TimeoutCategoryPickup))
	assert.Equal(t, int64(8), snap.Count(models.TimeoutCategoryDelivery))
	assert.Equal(t, int64(5), snap.Count(models.TimeoutCategoryConfirmation))
	assert.Equal(t, int64(1), snap.Count(models.TimeoutCategoryIntervention))
	assert.Equal(t, int64(18), snap.Total())

	require.Len(t, snap.Services, 5)
	assert.Equal(t, int64(60), snap.Services["SHOPPING"].OrderCount)
	assert.InDelta(t, 0.1, snap.Services["SHOPPING"].TimeoutRate, 1e-9)
	require.NotNil(t, snap.Period)
	assert.Equal(t, "2026-10-01T00:00:00.000Z", snap.Period.Start)
}

// TestMessage_ServiceTotalPreserved 总数等于所有 timeoutCount 之和
func TestMessage_ServiceTotalPreserved(t *testing.T) {
	services := map[string]map[string]int64{
		"mail-pickup": {"timeoutCount": 3, "orderCount": 9},
		"shopping":    {"timeoutCount": 11},
		"unknown-a":   {"timeoutCount": 7},
		"unknown-b":   {"orderCount": 100},
	}
	body, err := json.Marshal(map[string]any{"serviceTypeStats": services})
	require.NoError(t, err)

	snap := Message(body)
	assertAllCategories(t, snap)
	assert.Equal(t, int64(21), snap.Total())
}

// TestMessage_LegacyWinsOverService 两种字段同时存在时使用旧版计数，并保留服务明细
func TestMessage_LegacyWinsOverService(t *testing.T) {
	raw := json.RawMessage(`{
		"timeoutCounts": {"DELIVERY": 9},
		"serviceTypeStats": {"mail-pickup": {"timeoutCount": 100}}
	}`)
	snap := Message(raw)

	assert.Equal(t, models.SnapshotSourceLegacy, snap.Source)
	assert.Equal(t, int64(9), snap.Total())
	assert.Equal(t, int64(0), snap.Count(models.TimeoutCategoryPickup))
	assert.Contains(t, snap.Services, "mail-pickup")
}

// TestMessage_Deterministic 同一输入多次归一化结果一致
func TestMessage_Deterministic(t *testing.T) {
	raw := json.RawMessage(`{"serviceTypeStats":{"a":{"timeoutCount":1},"b":{"timeoutCount":2},"shopping":{"timeoutCount":3}}}`)
	first := Message(raw)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Message(raw))
	}
}

// TestClassify 服务类型归类
func TestClassify(t *testing.T) {
	assert.Equal(t, models.TimeoutCategoryPickup, Classify("mail-pickup"))
	assert.Equal(t, models.TimeoutCategoryPickup, Classify("MAIL_PICKUP"))
	assert.Equal(t, models.TimeoutCategoryDelivery, Classify("shopping"))
	assert.Equal(t, models.TimeoutCategoryIntervention, Classify("after_sales"))
	assert.Equal(t, models.TimeoutCategoryConfirmation, Classify("something-new"))
	assert.Equal(t, models.TimeoutCategoryConfirmation, Classify(""))
}
