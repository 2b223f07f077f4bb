/*
 * @module service/report/metrics
 * @description 报告生成相关的Prometheus监控指标
 * @architecture 分层架构 - 可观测性
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 报告生成时打点 -> /metrics端点暴露
 * @rules 指标注册到默认Registry，由主进程的promhttp统一暴露
 * @dependencies github.com/prometheus/client_golang
 * @refs report_service.go, main.go
 */

package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "readiness_report_runs_total",
		Help: "就绪度报告生成次数，按触发方式与结果区分",
	}, []string{"trigger", "status"})

	reportDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "readiness_report_duration_seconds",
		Help:    "就绪度报告生成耗时分布",
		Buckets: prometheus.DefBuckets,
	})

	portfolioScoreGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "readiness_portfolio_score",
		Help: "最近一次报告的组合平均就绪度分数",
	})
)
