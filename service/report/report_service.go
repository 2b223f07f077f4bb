/*
 * @module service/report/report_service
 * @description 就绪度报告服务，组织数据快照与评分引擎生成报告，负责报告持久化、缓存与导出
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 加载启用配置 -> 取各源最新快照 -> 评分引擎计算 -> 落库/缓存 -> 表格或JSON导出
 * @rules 评分结果全精度落库，表格导出时才四舍五入到两位小数；Redis缓存尽力而为，不可用时回退数据库
 * @dependencies readiness-service/service/scorecard, gorm.io/gorm, github.com/go-redis/redis/v8
 * @refs config_service.go, service/dataset, service/scorecard
 */

package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"readiness-service/service/dataset"
	"readiness-service/service/models"
	"readiness-service/service/scorecard"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

const (
	latestReportCacheKey = "readiness:report:latest"
	latestReportCacheTTL = 10 * time.Minute
)

// TableHeader 报告表格导出的固定列序
var TableHeader = []string{
	"Source", "N", "Completeness", "Consistency", "Timeliness",
	"Conformity", "Standards", "Omop Vocab", "Fhir Struct", "Overall Score",
}

// ReportService 就绪度报告服务
type ReportService struct {
	db       *gorm.DB
	engine   *scorecard.Engine
	datasets *dataset.Service
	configs  *ScoringConfigService
	cache    *redis.Client // 可为nil，为nil时不启用缓存
}

// NewReportService 创建就绪度报告服务实例
func NewReportService(db *gorm.DB, datasets *dataset.Service, configs *ScoringConfigService) *ReportService {
	return &ReportService{
		db:       db,
		engine:   scorecard.NewEngine(),
		datasets: datasets,
		configs:  configs,
	}
}

// SetCache 设置报告缓存使用的Redis客户端
func (s *ReportService) SetCache(client *redis.Client) {
	s.cache = client
}

// RunAdhoc 对各数据源最新快照执行一次即席评分，结果不落库
func (s *ReportService) RunAdhoc(sources []string) (*scorecard.RunResult, error) {
	_, engineCfg, err := s.loadActiveEngineConfig()
	if err != nil {
		return nil, err
	}

	datasets, err := s.datasets.LatestDatasets(sources)
	if err != nil {
		return nil, err
	}

	return s.engine.ComputeScorecard(datasets, engineCfg, time.Now().UTC())
}

// GenerateReport 生成并持久化一份就绪度报告
// sources为空时覆盖库内全部数据源
func (s *ReportService) GenerateReport(ctx context.Context, sources []string, trigger string) (*models.ReadinessReport, error) {
	start := time.Now()

	report, err := s.generateReport(ctx, sources, trigger)
	reportDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		reportRunsTotal.WithLabelValues(trigger, "failure").Inc()
		return nil, err
	}

	reportRunsTotal.WithLabelValues(trigger, "success").Inc()
	portfolioScoreGauge.Set(report.PortfolioScore)
	return report, nil
}

func (s *ReportService) generateReport(ctx context.Context, sources []string, trigger string) (*models.ReadinessReport, error) {
	cfg, engineCfg, err := s.loadActiveEngineConfig()
	if err != nil {
		return nil, err
	}

	datasets, err := s.datasets.LatestDatasets(sources)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.ComputeScorecard(datasets, engineCfg, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	report := &models.ReadinessReport{
		GeneratedAt:     result.GeneratedAt,
		TriggerType:     trigger,
		ConfigID:        cfg.ID,
		Records:         recordsToJSONB(result.Records),
		Recommendations: recommendationsToJSONB(result.Recommendations),
		PortfolioScore:  result.PortfolioScore,
		SourceCount:     len(result.Records),
	}
	if err := s.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("保存就绪度报告失败: %w", err)
	}

	s.cacheLatest(ctx, report)
	slog.Info("就绪度报告生成完成", "report_id", report.ID, "trigger", trigger,
		"sources", report.SourceCount, "portfolio_score", report.PortfolioScore)
	return report, nil
}

// GetReport 按ID获取报告
func (s *ReportService) GetReport(id string) (*models.ReadinessReport, error) {
	var report models.ReadinessReport
	if err := s.db.First(&report, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("获取就绪度报告失败: %w", err)
	}
	return &report, nil
}

// ListReports 分页获取报告列表（不含明细记录）
func (s *ReportService) ListReports(page, size int) ([]models.ReadinessReport, int64, error) {
	var total int64
	if err := s.db.Model(&models.ReadinessReport{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计就绪度报告失败: %w", err)
	}

	var reports []models.ReadinessReport
	offset := (page - 1) * size
	err := s.db.Select("id", "generated_at", "trigger_type", "config_id", "portfolio_score", "source_count", "created_at").
		Order("generated_at DESC").Offset(offset).Limit(size).
		Find(&reports).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取就绪度报告列表失败: %w", err)
	}
	return reports, total, nil
}

// LatestReport 获取最近一份报告，优先读缓存
func (s *ReportService) LatestReport(ctx context.Context) (*models.ReadinessReport, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, latestReportCacheKey).Bytes(); err == nil {
			var report models.ReadinessReport
			if err := json.Unmarshal(data, &report); err == nil {
				return &report, nil
			}
		}
	}

	var report models.ReadinessReport
	if err := s.db.Order("generated_at DESC").First(&report).Error; err != nil {
		return nil, fmt.Errorf("获取最近的就绪度报告失败: %w", err)
	}
	return &report, nil
}

// RenderTable 将报告导出为固定列序的表格，分数四舍五入到两位小数
func (s *ReportService) RenderTable(report *models.ReadinessReport) [][]string {
	table := make([][]string, 0, len(report.Records)+1)
	table = append(table, TableHeader)

	for _, record := range report.Records {
		subScores := cast.ToStringMap(record["sub_scores"])
		signal := cast.ToStringMap(record["standards_signal"])
		table = append(table, []string{
			cast.ToString(record["source"]),
			cast.ToString(record["row_count"]),
			formatScore(subScores["completeness"]),
			formatScore(subScores["consistency"]),
			formatScore(subScores["timeliness"]),
			formatScore(subScores["conformity"]),
			formatScore(subScores["standards"]),
			formatScore(signal["omop_vocab"]),
			formatScore(signal["fhir_struct"]),
			formatScore(record["overall_score"]),
		})
	}
	return table
}

// ReportRecommendations 返回报告中按数据源分组的建议列表
func (s *ReportService) ReportRecommendations(report *models.ReadinessReport) map[string][]string {
	out := make(map[string][]string, len(report.Recommendations))
	for source, v := range report.Recommendations {
		out[source] = cast.ToStringSlice(v)
	}
	return out
}

func (s *ReportService) loadActiveEngineConfig() (*models.ScoringConfig, *scorecard.Config, error) {
	cfg, err := s.configs.GetActiveConfig()
	if err != nil {
		return nil, nil, err
	}
	engineCfg, err := EngineConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, engineCfg, nil
}

func (s *ReportService) cacheLatest(ctx context.Context, report *models.ReadinessReport) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, latestReportCacheKey, data, latestReportCacheTTL).Err(); err != nil {
		slog.Warn("缓存最近报告失败", "error", err)
	}
}

func formatScore(v interface{}) string {
	return fmt.Sprintf("%.2f", scorecard.Round2(cast.ToFloat64(v)))
}

// recordsToJSONB 评分记录经JSON序列化转为落库结构，保持与JSON导出一致的键名
func recordsToJSONB(records []*scorecard.ScoreRecord) models.JSONBArray {
	out := make(models.JSONBArray, 0, len(records))
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			continue
		}
		var m models.JSONB
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

func recommendationsToJSONB(recommendations map[string][]string) models.JSONB {
	out := make(models.JSONB, len(recommendations))
	for source, list := range recommendations {
		out[source] = list
	}
	return out
}
