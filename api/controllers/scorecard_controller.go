/*
 * @module api/controllers/scorecard_controller
 * @description 评分配置与临时评分控制器
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 配置更新前先做一致性校验，校验失败时不落库
 * @dependencies readiness-service/service, github.com/go-chi/render
 * @refs service/report/config_service.go, service/scorecard
 */

package controllers

import (
	"net/http"

	"readiness-service/service"
	"readiness-service/service/models"
	"readiness-service/service/report"

	"github.com/go-chi/render"
)

// ScorecardController 评分配置控制器
type ScorecardController struct {
	configService *report.ScoringConfigService
	reportService *report.ReportService
}

// NewScorecardController 创建评分配置控制器实例
func NewScorecardController() *ScorecardController {
	return &ScorecardController{
		configService: service.GlobalScoringConfigService,
		reportService: service.GlobalReportService,
	}
}

// GetScoringConfig 获取启用中的评分配置
// @Summary 获取评分配置
// @Description 获取当前启用中的评分配置
// @Tags 评分
// @Produce json
// @Success 200 {object} APIResponse{data=models.ScoringConfig} "获取成功"
// @Failure 404 {object} APIResponse "评分配置不存在"
// @Router /scoring/config [get]
func (c *ScorecardController) GetScoringConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := c.configService.GetActiveConfig()
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "评分配置不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取评分配置成功",
		Data:   cfg,
	})
}

// UpdateScoringConfig 更新评分配置
// @Summary 更新评分配置
// @Description 校验并更新启用中的评分配置
// @Tags 评分
// @Accept json
// @Produce json
// @Param config body models.ScoringConfig true "评分配置"
// @Success 200 {object} APIResponse{data=models.ScoringConfig} "更新成功"
// @Failure 400 {object} APIResponse "配置校验失败"
// @Router /scoring/config [put]
func (c *ScorecardController) UpdateScoringConfig(w http.ResponseWriter, r *http.Request) {
	var cfg models.ScoringConfig
	if err := render.DecodeJSON(r.Body, &cfg); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	updated, err := c.configService.UpdateActiveConfig(&cfg)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "更新评分配置失败: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "更新评分配置成功",
		Data:   updated,
	})
}

// RunScoringRequest 临时评分请求
type RunScoringRequest struct {
	Sources []string `json:"sources"` // 为空时对全部数据源的最新快照评分
}

// RunScoring 执行临时评分
// @Summary 执行临时评分
// @Description 对指定数据源的最新快照执行一次评分，不持久化报告
// @Tags 评分
// @Accept json
// @Produce json
// @Param request body RunScoringRequest false "评分请求"
// @Success 200 {object} APIResponse "评分成功"
// @Failure 500 {object} APIResponse "评分失败"
// @Router /scoring/run [post]
func (c *ScorecardController) RunScoring(w http.ResponseWriter, r *http.Request) {
	var req RunScoringRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.JSON(w, r, APIResponse{
				Status: http.StatusBadRequest,
				Msg:    "请求参数格式错误",
			})
			return
		}
	}

	result, err := c.reportService.RunAdhoc(req.Sources)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "执行评分失败: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "执行评分成功",
		Data:   result,
	})
}
