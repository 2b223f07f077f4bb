/*
 * @module api/controllers/roi_controller
 * @description ROI情景控制器，提供试验情景CRUD和收益测算API接口
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules months_saved为负时返回参数错误
 * @dependencies readiness-service/service, github.com/go-chi/chi/v5
 * @refs service/roi
 */

package controllers

import (
	"net/http"
	"strconv"

	"readiness-service/service"
	"readiness-service/service/models"
	"readiness-service/service/roi"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ROIController ROI情景控制器
type ROIController struct {
	roiService *roi.Service
}

// NewROIController 创建ROI情景控制器实例
func NewROIController() *ROIController {
	return &ROIController{
		roiService: service.GlobalROIService,
	}
}

// CreateScenario 创建试验情景
// @Summary 创建试验情景
// @Description 创建新的试验ROI情景
// @Tags ROI
// @Accept json
// @Produce json
// @Param scenario body models.TrialScenario true "试验情景信息"
// @Success 201 {object} APIResponse{data=models.TrialScenario} "创建成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /roi/scenarios [post]
func (c *ROIController) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var scenario models.TrialScenario
	if err := render.DecodeJSON(r.Body, &scenario); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	if err := c.roiService.CreateScenario(&scenario); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "创建试验情景失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "创建试验情景成功",
		Data:   scenario,
	})
}

// ListScenarios 获取试验情景列表
// @Summary 获取试验情景列表
// @Description 分页获取试验ROI情景列表
// @Tags ROI
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.TrialScenario} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /roi/scenarios [get]
func (c *ROIController) ListScenarios(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}

	scenarios, total, err := c.roiService.ListScenarios(page, size)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取试验情景列表失败",
		})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取试验情景列表成功",
		Data:   scenarios,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// GetScenario 获取试验情景详情
// @Summary 获取试验情景详情
// @Description 根据ID获取试验情景详情
// @Tags ROI
// @Produce json
// @Param id path string true "情景ID"
// @Success 200 {object} APIResponse{data=models.TrialScenario} "获取成功"
// @Failure 404 {object} APIResponse "情景不存在"
// @Router /roi/scenarios/{id} [get]
func (c *ROIController) GetScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	scenario, err := c.roiService.GetScenario(id)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "试验情景不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取试验情景成功",
		Data:   scenario,
	})
}

// UpdateScenario 更新试验情景
// @Summary 更新试验情景
// @Description 根据ID更新试验情景
// @Tags ROI
// @Accept json
// @Produce json
// @Param id path string true "情景ID"
// @Param updates body map[string]interface{} true "更新字段"
// @Success 200 {object} APIResponse "更新成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /roi/scenarios/{id} [put]
func (c *ROIController) UpdateScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var updates map[string]interface{}
	if err := render.DecodeJSON(r.Body, &updates); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	if err := c.roiService.UpdateScenario(id, updates); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "更新试验情景失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "更新试验情景成功",
	})
}

// DeleteScenario 删除试验情景
// @Summary 删除试验情景
// @Description 根据ID删除试验情景
// @Tags ROI
// @Produce json
// @Param id path string true "情景ID"
// @Success 200 {object} APIResponse "删除成功"
// @Failure 404 {object} APIResponse "情景不存在"
// @Router /roi/scenarios/{id} [delete]
func (c *ROIController) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.roiService.DeleteScenario(id); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "试验情景不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "删除试验情景成功",
	})
}

// SummarizeScenario 测算试验情景收益
// @Summary 测算试验情景收益
// @Description 按节省月数测算情景的直接节省、EV提升和折现收益
// @Tags ROI
// @Produce json
// @Param id path string true "情景ID"
// @Param months_saved query int true "节省月数" example(6)
// @Success 200 {object} APIResponse{data=roi.Summary} "测算成功"
// @Failure 400 {object} APIResponse "参数错误"
// @Failure 404 {object} APIResponse "情景不存在"
// @Router /roi/scenarios/{id}/summary [get]
func (c *ROIController) SummarizeScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	monthsSaved, err := strconv.Atoi(r.URL.Query().Get("months_saved"))
	if err != nil || monthsSaved < 0 {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "months_saved参数必须为非负整数",
		})
		return
	}

	summary, err := c.roiService.SummarizeByID(id, monthsSaved)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "测算试验情景失败: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "测算试验情景成功",
		Data:   summary,
	})
}
