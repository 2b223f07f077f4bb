/*
 * @module service/scorecard/metrics
 * @description 基础治理子维度计算：完整性、一致性、时效性、结构符合性
 * @architecture 分层架构 - 业务服务层（纯计算）
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 行集合输入 -> 子维度计算 -> 分数与诊断输出
 * @rules 空快照与缺列等异常按定义回退为固定分数并输出诊断，不抛出错误
 * @dependencies fmt, strings, time, github.com/spf13/cast
 * @refs engine.go
 */

package scorecard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// completenessScore 完整性 = 必填字段非空单元格数 / (行数 × 必填字段数)
// 整列缺失的必填字段在每一行都计为空值；无必填字段配置时视为不适用，返回1.0
func completenessScore(rows []map[string]interface{}, requiredFields []string) (float64, []string) {
	if len(rows) == 0 {
		return 0.0, nil
	}
	if len(requiredFields) == 0 {
		return 1.0, nil
	}

	var diags []string
	columns := collectColumns(rows)
	for _, field := range requiredFields {
		if !columns[field] {
			diags = append(diags, fmt.Sprintf("必填字段 %s 整列缺失，完整性按空值计入", field))
		}
	}

	filled := 0
	for _, row := range rows {
		for _, field := range requiredFields {
			if isPresent(row[field]) {
				filled++
			}
		}
	}

	return float64(filled) / float64(len(rows)*len(requiredFields)), diags
}

// consistencyScore 一致性 = 1 − (键列缺失罚分 + 主键重复罚分)
// 键列缺失每列罚0.1，封顶0.6；主键重复率×2计入罚分，封顶0.4
// 未配置主键列表示该数据源没有一致性检测器，按定义返回1.0
func consistencyScore(rows []map[string]interface{}, keyColumns []string) (float64, []string) {
	if len(keyColumns) == 0 {
		return 1.0, nil
	}
	if len(rows) == 0 {
		return 0.0, nil
	}

	var diags []string
	penalty := 0.0

	columns := collectColumns(rows)
	missing := 0
	for _, col := range keyColumns {
		if !columns[col] {
			missing++
			diags = append(diags, fmt.Sprintf("主键列 %s 缺失", col))
		}
	}
	if missing > 0 {
		p := 0.1 * float64(missing)
		if p > 0.6 {
			p = 0.6
		}
		penalty += p
	}

	// 主键元组重复率
	seen := make(map[string]struct{}, len(rows))
	duplicates := 0
	for _, row := range rows {
		parts := make([]string, 0, len(keyColumns))
		for _, col := range keyColumns {
			parts = append(parts, cast.ToString(row[col]))
		}
		key := strings.Join(parts, "\x1f")
		if _, ok := seen[key]; ok {
			duplicates++
		} else {
			seen[key] = struct{}{}
		}
	}
	if duplicates > 0 {
		rate := float64(duplicates) / float64(len(rows))
		p := rate * 2
		if p > 0.4 {
			p = 0.4
		}
		penalty += p
		diags = append(diags, fmt.Sprintf("检测到 %d 行主键重复", duplicates))
	}

	return clamp01(1.0 - penalty), diags
}

// 时间戳列推断候选，优先精确匹配，再按列名包含date/week模糊匹配
var dateColumnCandidates = []string{
	"receiptdate", "receivedate", "StartDate", "CompletionDate",
	"week_ending_date", "submission_date", "date",
}

// timelinessScore 时效性 = 时间戳落在最近窗口内的行占比
// 窗口锚点取 min(now, 快照内最大时间戳)，使历史快照回放时分数仍有意义
// 无可靠时间戳列时按0计并输出诊断
func timelinessScore(rows []map[string]interface{}, dateColumn string, windowDays int, now time.Time) (float64, []string) {
	if len(rows) == 0 {
		return 0.0, nil
	}

	col := dateColumn
	if col == "" {
		col = inferDateColumn(rows)
	}
	if col == "" {
		return 0.0, []string{"缺少可用的时间戳字段，时效性按0计"}
	}

	var parsed []time.Time
	for _, row := range rows {
		if t, ok := parseRowTime(row[col]); ok {
			parsed = append(parsed, t)
		}
	}
	if len(parsed) == 0 {
		return 0.0, []string{fmt.Sprintf("时间戳字段 %s 无法解析，时效性按0计", col)}
	}

	latest := parsed[0]
	for _, t := range parsed[1:] {
		if t.After(latest) {
			latest = t
		}
	}
	anchor := latest
	if now.Before(anchor) {
		anchor = now
	}
	cutoff := anchor.AddDate(0, 0, -windowDays)

	recent := 0
	for _, t := range parsed {
		if !t.Before(cutoff) {
			recent++
		}
	}

	var diags []string
	if len(parsed) < len(rows) {
		diags = append(diags, fmt.Sprintf("时间戳字段 %s 有 %d 行无法解析", col, len(rows)-len(parsed)))
	}
	return float64(recent) / float64(len(rows)), diags
}

// conformityScore 结构符合性 = 满足该类别最小schema的行占比
// 一行满足最小schema指每组字段要求中至少一个候选字段非空
func conformityScore(rows []map[string]interface{}, category string) (float64, []string) {
	requirements, ok := minimalSchemas[category]
	if !ok {
		return 0.0, []string{fmt.Sprintf("未知数据源类别 %q，结构符合性按0计", category)}
	}
	if len(rows) == 0 {
		return 0.0, nil
	}

	matched := 0
	for _, row := range rows {
		if rowMatchesSchema(row, requirements) {
			matched++
		}
	}
	return float64(matched) / float64(len(rows)), nil
}

// fieldRequirement 最小schema中的一组字段要求，anyOf中任意一个字段非空即满足
type fieldRequirement struct {
	anyOf []string
}

// 各类别的最小schema定义
var minimalSchemas = map[string][]fieldRequirement{
	CategoryAdverseEvent: {
		{anyOf: []string{"safetyreportid"}},
		{anyOf: []string{"receiptdate", "receivedate"}},
		{anyOf: []string{"serious"}},
	},
	CategoryTrial: {
		{anyOf: []string{"NCTId"}},
		{anyOf: []string{"OverallStatus"}},
		{anyOf: []string{"StartDate", "CompletionDate"}},
	},
	CategoryObservation: {
		{anyOf: []string{"week_ending_date", "submission_date", "date"}},
		{anyOf: []string{"state", "geo", "location", "jurisdiction"}},
		{anyOf: []string{"value", "cases", "count", "rate"}},
	},
}

func rowMatchesSchema(row map[string]interface{}, requirements []fieldRequirement) bool {
	for _, req := range requirements {
		satisfied := false
		for _, field := range req.anyOf {
			if isPresent(row[field]) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// isPresent 单元格非空判定：nil与空白字符串都计为空
func isPresent(v interface{}) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// collectColumns 收集行集合中出现过的所有列名
func collectColumns(rows []map[string]interface{}) map[string]bool {
	columns := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			columns[col] = true
		}
	}
	return columns
}

// inferDateColumn 按候选列表推断时间戳列，候选都不在时退化为列名包含date/week的列
func inferDateColumn(rows []map[string]interface{}) string {
	columns := collectColumns(rows)
	for _, cand := range dateColumnCandidates {
		if columns[cand] {
			return cand
		}
	}

	names := make([]string, 0, len(columns))
	for col := range columns {
		names = append(names, col)
	}
	sort.Strings(names)
	for _, col := range names {
		lc := strings.ToLower(col)
		if strings.Contains(lc, "date") || strings.Contains(lc, "week") {
			return col
		}
	}
	return ""
}

// parseRowTime 解析单元格时间戳，兼容RFC3339、常见日期格式和OpenFDA的yyyyMMdd紧凑格式
func parseRowTime(v interface{}) (time.Time, bool) {
	if !isPresent(v) {
		return time.Time{}, false
	}

	if t, ok := v.(time.Time); ok {
		return t, true
	}

	s := strings.TrimSpace(cast.ToString(v))
	if t, err := time.Parse("20060102", s); err == nil {
		return t, true
	}
	if t, err := cast.StringToDateInDefaultLocation(s, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.Parse("January 2, 2006", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
