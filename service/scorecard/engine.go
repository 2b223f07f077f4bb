/*
 * @module service/scorecard/engine
 * @description 治理评分引擎，对各数据源快照计算五个子维度分数并加权合成总分
 * @architecture 分层架构 - 业务服务层（纯计算，无副作用）
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 配置校验 -> 逐源独立评分 -> 建议生成 -> 结果排序返回
 * @rules 配置错误在任何评分开始前快速失败；单个数据源异常只降级该源的子分数并附加诊断，不中断整体运行
 * @dependencies fmt, sort, time
 * @refs metrics.go, standards.go, recommend.go
 */

package scorecard

import (
	"fmt"
	"sort"
	"time"
)

// Engine 治理评分引擎，无内部状态，可安全并发使用
type Engine struct{}

// NewEngine 创建评分引擎实例
func NewEngine() *Engine {
	return &Engine{}
}

// ValidateConfig 校验评分配置
// 权重必须非负且总和大于0（空权重表示等权），窗口必须为正，阈值必须在[0,1]内
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("评分配置不能为空")
	}

	if cfg.RecentWindowDays <= 0 {
		return fmt.Errorf("时效性窗口必须为正数，当前值: %d", cfg.RecentWindowDays)
	}

	if len(cfg.Weights) > 0 {
		sum := 0.0
		for name, w := range cfg.Weights {
			if !isKnownSubScore(name) {
				return fmt.Errorf("未知的子维度权重: %s", name)
			}
			if w < 0 {
				return fmt.Errorf("子维度 %s 的权重不能为负数: %f", name, w)
			}
			sum += w
		}
		if sum <= 0 {
			return fmt.Errorf("子维度权重总和必须大于0")
		}
	}

	for name, t := range cfg.Thresholds {
		if !isKnownSubScore(name) {
			return fmt.Errorf("未知的子维度阈值: %s", name)
		}
		if t < 0 || t > 1 {
			return fmt.Errorf("子维度 %s 的阈值必须在[0,1]内: %f", name, t)
		}
	}

	return nil
}

// ComputeScorecard 计算所有数据源的治理评分
// now 为报告生成时间，时效性窗口以 min(now, 快照内最大时间戳) 为锚点
func (e *Engine) ComputeScorecard(datasets map[string]*SourceDataset, cfg *Config, now time.Time) (*RunResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("评分配置校验失败: %w", err)
	}

	weights := normalizedWeights(cfg.Weights)

	// 按数据源名排序，保证输出顺序确定
	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)

	result := &RunResult{
		GeneratedAt:     now,
		Records:         make([]*ScoreRecord, 0, len(names)),
		Recommendations: make(map[string][]string),
	}

	total := 0.0
	for _, name := range names {
		record := e.scoreSource(name, datasets[name], cfg, weights, now)
		result.Records = append(result.Records, record)
		result.Recommendations[name] = BuildRecommendations(record, cfg.Thresholds)
		total += record.Overall
	}

	if len(result.Records) > 0 {
		result.PortfolioScore = total / float64(len(result.Records))
	}

	return result, nil
}

// scoreSource 计算单个数据源的评分记录，任何数据问题只产生降级分数和诊断
func (e *Engine) scoreSource(name string, ds *SourceDataset, cfg *Config, weights map[string]float64, now time.Time) *ScoreRecord {
	record := &ScoreRecord{
		Source:    name,
		SubScores: make(map[string]float64, len(SubScoreOrder)),
	}
	if ds != nil {
		record.Category = ds.Category
		record.RowCount = len(ds.Rows)
	}

	var rows []map[string]interface{}
	if ds != nil {
		rows = ds.Rows
	}
	if len(rows) == 0 {
		record.Diagnostics = append(record.Diagnostics, "数据源快照为空，完整性/时效性/结构符合性按0计")
	}

	// 完整性
	completeness, diags := completenessScore(rows, cfg.RequiredFields[name])
	record.SubScores[SubScoreCompleteness] = completeness
	record.Diagnostics = append(record.Diagnostics, diags...)

	// 一致性
	consistency, diags := consistencyScore(rows, cfg.ConsistencyKeys[name])
	record.SubScores[SubScoreConsistency] = consistency
	record.Diagnostics = append(record.Diagnostics, diags...)

	// 时效性
	timeliness, diags := timelinessScore(rows, cfg.DateColumns[name], cfg.RecentWindowDays, now)
	record.SubScores[SubScoreTimeliness] = timeliness
	record.Diagnostics = append(record.Diagnostics, diags...)

	// 结构符合性
	conformity, diags := conformityScore(rows, record.Category)
	record.SubScores[SubScoreConformity] = conformity
	record.Diagnostics = append(record.Diagnostics, diags...)

	// 标准化（OMOP词表 + FHIR结构）
	signal, diags := standardsSignal(rows, record.Category)
	record.Standards = signal
	record.SubScores[SubScoreStandards] = (signal.OmopVocab + signal.FhirStruct) / 2
	record.Diagnostics = append(record.Diagnostics, diags...)

	// 加权合成总分
	overall := 0.0
	for sub, w := range weights {
		overall += w * record.SubScores[sub]
	}
	record.Overall = clamp01(overall)

	return record
}

// normalizedWeights 归一化权重，空配置回退为五维度等权
func normalizedWeights(weights map[string]float64) map[string]float64 {
	normalized := make(map[string]float64, len(SubScoreOrder))
	if len(weights) == 0 {
		for _, name := range SubScoreOrder {
			normalized[name] = 1.0 / float64(len(SubScoreOrder))
		}
		return normalized
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	for name, w := range weights {
		normalized[name] = w / sum
	}
	return normalized
}

func isKnownSubScore(name string) bool {
	for _, known := range SubScoreOrder {
		if name == known {
			return true
		}
	}
	return false
}
