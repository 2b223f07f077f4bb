/*
 * @module api/controllers/report_controller
 * @description 就绪度报告控制器，提供报告生成、查询、表格渲染和建议查询API接口
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 报告生成为同步操作；最新报告优先走Redis缓存
 * @dependencies readiness-service/service, github.com/go-chi/chi/v5
 * @refs service/report
 */

package controllers

import (
	"net/http"
	"strconv"

	"readiness-service/service"
	"readiness-service/service/models"
	"readiness-service/service/report"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ReportController 就绪度报告控制器
type ReportController struct {
	reportService *report.ReportService
}

// NewReportController 创建就绪度报告控制器实例
func NewReportController() *ReportController {
	return &ReportController{
		reportService: service.GlobalReportService,
	}
}

// GenerateReportRequest 报告生成请求
type GenerateReportRequest struct {
	Sources []string `json:"sources"` // 为空时覆盖全部数据源
}

// GenerateReport 生成就绪度报告
// @Summary 生成就绪度报告
// @Description 对指定数据源的最新快照执行评分并持久化报告
// @Tags 报告
// @Accept json
// @Produce json
// @Param request body GenerateReportRequest false "生成请求"
// @Success 201 {object} APIResponse{data=models.ReadinessReport} "生成成功"
// @Failure 500 {object} APIResponse "生成失败"
// @Router /reports [post]
func (c *ReportController) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req GenerateReportRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.JSON(w, r, APIResponse{
				Status: http.StatusBadRequest,
				Msg:    "请求参数格式错误",
			})
			return
		}
	}

	generated, err := c.reportService.GenerateReport(r.Context(), req.Sources, models.ReportTriggerManual)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "生成报告失败: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "生成报告成功",
		Data:   generated,
	})
}

// ListReports 获取报告列表
// @Summary 获取报告列表
// @Description 分页获取历史报告列表
// @Tags 报告
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.ReadinessReport} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /reports [get]
func (c *ReportController) ListReports(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}

	reports, total, err := c.reportService.ListReports(page, size)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取报告列表失败",
		})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取报告列表成功",
		Data:   reports,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// LatestReport 获取最新报告
// @Summary 获取最新报告
// @Description 获取最近一次生成的报告，优先读取缓存
// @Tags 报告
// @Produce json
// @Success 200 {object} APIResponse{data=models.ReadinessReport} "获取成功"
// @Failure 404 {object} APIResponse "暂无报告"
// @Router /reports/latest [get]
func (c *ReportController) LatestReport(w http.ResponseWriter, r *http.Request) {
	latest, err := c.reportService.LatestReport(r.Context())
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "暂无报告",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取最新报告成功",
		Data:   latest,
	})
}

// GetReport 获取报告详情
// @Summary 获取报告详情
// @Description 根据ID获取报告详情
// @Tags 报告
// @Produce json
// @Param id path string true "报告ID"
// @Success 200 {object} APIResponse{data=models.ReadinessReport} "获取成功"
// @Failure 404 {object} APIResponse "报告不存在"
// @Router /reports/{id} [get]
func (c *ReportController) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := c.reportService.GetReport(id)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "报告不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取报告成功",
		Data:   found,
	})
}

// GetReportTable 获取报告表格
// @Summary 获取报告表格
// @Description 以固定列顺序返回报告的展示表格（表头+数据行，分数保留两位小数）
// @Tags 报告
// @Produce json
// @Param id path string true "报告ID"
// @Success 200 {object} APIResponse "获取成功"
// @Failure 404 {object} APIResponse "报告不存在"
// @Router /reports/{id}/table [get]
func (c *ReportController) GetReportTable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := c.reportService.GetReport(id)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "报告不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取报告表格成功",
		Data:   c.reportService.RenderTable(found),
	})
}

// GetReportRecommendations 获取报告建议
// @Summary 获取报告建议
// @Description 返回报告中按数据源分组的治理建议
// @Tags 报告
// @Produce json
// @Param id path string true "报告ID"
// @Success 200 {object} APIResponse "获取成功"
// @Failure 404 {object} APIResponse "报告不存在"
// @Router /reports/{id}/recommendations [get]
func (c *ReportController) GetReportRecommendations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := c.reportService.GetReport(id)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "报告不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取报告建议成功",
		Data:   c.reportService.ReportRecommendations(found),
	})
}
