/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers
 */

package api

import (
	"readiness-service/api/controllers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 数据快照管理
	r.Route("/datasets", func(r chi.Router) {
		datasetController := controllers.NewDatasetController()
		r.Post("/", datasetController.RegisterSnapshot)
		r.Get("/", datasetController.ListSnapshots)
		r.Get("/{id}", datasetController.GetSnapshot)
		r.Get("/{id}/preview", datasetController.PreviewSnapshot)
		r.Delete("/{id}", datasetController.DeleteSnapshot)
	})

	// 评分配置与临时评分
	r.Route("/scoring", func(r chi.Router) {
		scorecardController := controllers.NewScorecardController()
		r.Get("/config", scorecardController.GetScoringConfig)
		r.Put("/config", scorecardController.UpdateScoringConfig)
		r.Post("/run", scorecardController.RunScoring)
	})

	// 就绪度报告
	r.Route("/reports", func(r chi.Router) {
		reportController := controllers.NewReportController()
		r.Post("/", reportController.GenerateReport)
		r.Get("/", reportController.ListReports)
		r.Get("/latest", reportController.LatestReport)
		r.Get("/{id}", reportController.GetReport)
		r.Get("/{id}/table", reportController.GetReportTable)
		r.Get("/{id}/recommendations", reportController.GetReportRecommendations)
	})

	// ROI情景管理
	r.Route("/roi", func(r chi.Router) {
		roiController := controllers.NewROIController()
		r.Post("/scenarios", roiController.CreateScenario)
		r.Get("/scenarios", roiController.ListScenarios)
		r.Get("/scenarios/{id}", roiController.GetScenario)
		r.Put("/scenarios/{id}", roiController.UpdateScenario)
		r.Delete("/scenarios/{id}", roiController.DeleteScenario)
		r.Get("/scenarios/{id}/summary", roiController.SummarizeScenario)
	})
}
