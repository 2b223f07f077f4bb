/*
 * @module service/report/report_service_test
 * @description 就绪度报告服务测试，覆盖报告生成、持久化、表格导出和配置更新
 * @architecture 测试层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 初始化测试数据库 -> 写入配置与快照 -> 生成报告 -> 校验结果
 * @rules 使用内存sqlite，不依赖外部服务；不启用Redis缓存
 * @dependencies testing, github.com/stretchr/testify
 * @refs report_service.go, config_service.go
 */

package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"readiness-service/service/dataset"
	"readiness-service/service/models"
	"readiness-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportTestEnv struct {
	tdb     *testutil.TestDB
	cfg     *models.ScoringConfig
	service *ReportService
	configs *ScoringConfigService
}

func newReportTestEnv(t *testing.T) *reportTestEnv {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)

	cfg := tdb.SeedScoringConfig()
	configs := NewScoringConfigService(tdb.DB)
	service := NewReportService(tdb.DB, dataset.NewService(tdb.DB), configs)

	return &reportTestEnv{tdb: tdb, cfg: cfg, service: service, configs: configs}
}

func recentAdverseEventRows(n int) []map[string]interface{} {
	receiveDate := time.Now().UTC().AddDate(0, 0, -2).Format("20060102")
	rows := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, map[string]interface{}{
			"safetyreportid":   fmt.Sprintf("SR-%04d", i),
			"receivedate":      receiveDate,
			"serious":          "1",
			"occurcountry":     "US",
			"medicinalproduct": "DRUG-A",
			"reactionmeddrapt": "Headache",
		})
	}
	return rows
}

func recentObservationRows(n int) []map[string]interface{} {
	weekEnding := time.Now().UTC().AddDate(0, 0, -3).Format("2006-01-02")
	rows := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, map[string]interface{}{
			"week_ending_date": weekEnding,
			"state":            fmt.Sprintf("S%02d", i),
			"value":            float64(100 + i),
		})
	}
	return rows
}

func TestGenerateReportPersistsRecords(t *testing.T) {
	env := newReportTestEnv(t)
	env.tdb.CreateSnapshot("openfda", models.CategoryAdverseEvent, recentAdverseEventRows(20))
	env.tdb.CreateSnapshot("cdc", models.CategoryObservation, recentObservationRows(10))

	generated, err := env.service.GenerateReport(context.Background(), nil, models.ReportTriggerManual)
	require.NoError(t, err)
	require.NotEmpty(t, generated.ID)

	assert.Equal(t, models.ReportTriggerManual, generated.TriggerType)
	assert.Equal(t, env.cfg.ID, generated.ConfigID)
	assert.Equal(t, 2, generated.SourceCount)
	assert.GreaterOrEqual(t, generated.PortfolioScore, 0.0)
	assert.LessOrEqual(t, generated.PortfolioScore, 1.0)

	// 记录按数据源名排序
	require.Len(t, generated.Records, 2)
	assert.Equal(t, "cdc", generated.Records[0]["source"])
	assert.Equal(t, "openfda", generated.Records[1]["source"])

	// 落库后可按ID读回
	fetched, err := env.service.GetReport(generated.ID)
	require.NoError(t, err)
	assert.Equal(t, generated.SourceCount, fetched.SourceCount)
	assert.InDelta(t, generated.PortfolioScore, fetched.PortfolioScore, 1e-12)
}

func TestGenerateReportSourceFilter(t *testing.T) {
	env := newReportTestEnv(t)
	env.tdb.CreateSnapshot("openfda", models.CategoryAdverseEvent, recentAdverseEventRows(5))
	env.tdb.CreateSnapshot("cdc", models.CategoryObservation, recentObservationRows(5))

	generated, err := env.service.GenerateReport(context.Background(), []string{"openfda"}, models.ReportTriggerManual)
	require.NoError(t, err)

	require.Len(t, generated.Records, 1)
	assert.Equal(t, "openfda", generated.Records[0]["source"])
}

func TestRunAdhocDoesNotPersist(t *testing.T) {
	env := newReportTestEnv(t)
	env.tdb.CreateSnapshot("cdc", models.CategoryObservation, recentObservationRows(8))

	result, err := env.service.RunAdhoc(nil)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	var count int64
	env.tdb.DB.Model(&models.ReadinessReport{}).Count(&count)
	assert.Zero(t, count)
}

func TestRenderTableFixedColumns(t *testing.T) {
	env := newReportTestEnv(t)
	env.tdb.CreateSnapshot("openfda", models.CategoryAdverseEvent, recentAdverseEventRows(12))

	generated, err := env.service.GenerateReport(context.Background(), nil, models.ReportTriggerManual)
	require.NoError(t, err)

	table := env.service.RenderTable(generated)
	require.Len(t, table, 2)
	assert.Equal(t, TableHeader, table[0])

	row := table[1]
	require.Len(t, row, len(TableHeader))
	assert.Equal(t, "openfda", row[0])
	assert.Equal(t, "12", row[1])
	// 全部必填字段齐全且日期在窗口内
	assert.Equal(t, "1.00", row[2])
	assert.Equal(t, "1.00", row[4])
	// 分数固定两位小数
	for _, cell := range row[2:] {
		assert.Regexp(t, `^\d+\.\d{2}$`, cell)
	}
}

func TestLatestReportFromDatabase(t *testing.T) {
	env := newReportTestEnv(t)
	env.tdb.CreateSnapshot("cdc", models.CategoryObservation, recentObservationRows(6))

	first, err := env.service.GenerateReport(context.Background(), nil, models.ReportTriggerManual)
	require.NoError(t, err)

	// 第二份报告生成时间更晚
	env.tdb.DB.Model(&models.ReadinessReport{}).Where("id = ?", first.ID).
		Update("generated_at", first.GeneratedAt.Add(-time.Hour))

	second, err := env.service.GenerateReport(context.Background(), nil, models.ReportTriggerScheduled)
	require.NoError(t, err)

	latest, err := env.service.LatestReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestListReportsPagination(t *testing.T) {
	env := newReportTestEnv(t)
	env.tdb.CreateSnapshot("cdc", models.CategoryObservation, recentObservationRows(4))

	for i := 0; i < 3; i++ {
		_, err := env.service.GenerateReport(context.Background(), nil, models.ReportTriggerManual)
		require.NoError(t, err)
	}

	reports, total, err := env.service.ListReports(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, reports, 2)
}

func TestReportRecommendationsGrouping(t *testing.T) {
	env := newReportTestEnv(t)

	// 一半行缺失三个必填字段，完整性45/60=0.75低于0.8阈值触发建议
	rows := recentAdverseEventRows(10)
	for i := 0; i < 5; i++ {
		rows[i]["medicinalproduct"] = ""
		rows[i]["reactionmeddrapt"] = ""
		rows[i]["occurcountry"] = ""
	}
	env.tdb.CreateSnapshot("openfda", models.CategoryAdverseEvent, rows)

	generated, err := env.service.GenerateReport(context.Background(), nil, models.ReportTriggerManual)
	require.NoError(t, err)

	recommendations := env.service.ReportRecommendations(generated)
	assert.NotEmpty(t, recommendations["openfda"])
}

func TestUpdateActiveConfigRejectsInvalid(t *testing.T) {
	env := newReportTestEnv(t)

	invalid := *env.cfg
	invalid.Weights = models.JSONB{"completeness": -1.0}

	_, err := env.configs.UpdateActiveConfig(&invalid)
	require.Error(t, err)

	// 校验失败时原配置不变
	current, err := env.configs.GetActiveConfig()
	require.NoError(t, err)
	assert.Equal(t, env.cfg.Weights, current.Weights)
}

func TestEngineConfigConversion(t *testing.T) {
	env := newReportTestEnv(t)

	engineCfg, err := EngineConfig(env.cfg)
	require.NoError(t, err)

	assert.Equal(t, 14, engineCfg.RecentWindowDays)
	assert.InDelta(t, 0.30, engineCfg.Weights["completeness"], 1e-12)
	assert.Contains(t, engineCfg.RequiredFields["openfda"], "safetyreportid")
	assert.Equal(t, []string{"NCTId"}, engineCfg.ConsistencyKeys["ctgov"])
	assert.Equal(t, "week_ending_date", engineCfg.DateColumns["cdc"])
}
