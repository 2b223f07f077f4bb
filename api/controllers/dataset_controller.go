/*
 * @module api/controllers/dataset_controller
 * @description 数据快照控制器，提供快照登记、查询、预览和删除API接口
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式；上传体为原始CSV或JSON数据
 * @dependencies readiness-service/service, github.com/go-chi/chi/v5
 * @refs service/dataset
 */

package controllers

import (
	"net/http"
	"strconv"

	"readiness-service/service"
	"readiness-service/service/dataset"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// DatasetController 数据快照控制器
type DatasetController struct {
	datasetService *dataset.Service
}

// NewDatasetController 创建数据快照控制器实例
func NewDatasetController() *DatasetController {
	return &DatasetController{
		datasetService: service.GlobalDatasetService,
	}
}

// RegisterSnapshot 登记数据快照
// @Summary 登记数据快照
// @Description 以请求体中的CSV或JSON数据登记一份新的数据源快照
// @Tags 数据快照
// @Accept plain
// @Produce json
// @Param source_name query string true "数据源名称" example(openfda)
// @Param category query string true "数据源类别" Enums(adverse_event, trial, observation)
// @Param format query string false "数据格式" Enums(csv, json) default(csv)
// @Param description query string false "快照描述"
// @Success 201 {object} APIResponse{data=models.DatasetSnapshot} "登记成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /datasets [post]
func (c *DatasetController) RegisterSnapshot(w http.ResponseWriter, r *http.Request) {
	sourceName := r.URL.Query().Get("source_name")
	category := r.URL.Query().Get("category")
	description := r.URL.Query().Get("description")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = dataset.FormatCSV
	}

	snapshot, err := c.datasetService.RegisterSnapshot(sourceName, category, description, format, r.Body)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "登记数据快照失败: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "登记数据快照成功",
		Data:   snapshot,
	})
}

// ListSnapshots 获取数据快照列表
// @Summary 获取数据快照列表
// @Description 分页获取数据快照列表（不含行数据）
// @Tags 数据快照
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Param source_name query string false "数据源名称过滤"
// @Success 200 {object} PaginatedResponse{data=[]models.DatasetSnapshot} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /datasets [get]
func (c *DatasetController) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}
	sourceName := r.URL.Query().Get("source_name")

	snapshots, total, err := c.datasetService.ListSnapshots(page, size, sourceName)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取数据快照列表失败",
		})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取数据快照列表成功",
		Data:   snapshots,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// GetSnapshot 获取数据快照详情
// @Summary 获取数据快照详情
// @Description 根据ID获取数据快照详情（含行数据）
// @Tags 数据快照
// @Produce json
// @Param id path string true "快照ID"
// @Success 200 {object} APIResponse{data=models.DatasetSnapshot} "获取成功"
// @Failure 404 {object} APIResponse "快照不存在"
// @Router /datasets/{id} [get]
func (c *DatasetController) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snapshot, err := c.datasetService.GetSnapshot(id)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "数据快照不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取数据快照成功",
		Data:   snapshot,
	})
}

// PreviewSnapshot 预览数据快照
// @Summary 预览数据快照
// @Description 返回快照的前若干行数据
// @Tags 数据快照
// @Produce json
// @Param id path string true "快照ID"
// @Param limit query int false "预览行数" default(10)
// @Success 200 {object} APIResponse "预览成功"
// @Failure 404 {object} APIResponse "快照不存在"
// @Router /datasets/{id}/preview [get]
func (c *DatasetController) PreviewSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}

	rows, err := c.datasetService.PreviewSnapshot(id, limit)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "数据快照不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "预览数据快照成功",
		Data:   rows,
	})
}

// DeleteSnapshot 删除数据快照
// @Summary 删除数据快照
// @Description 根据ID删除数据快照
// @Tags 数据快照
// @Produce json
// @Param id path string true "快照ID"
// @Success 200 {object} APIResponse "删除成功"
// @Failure 404 {object} APIResponse "快照不存在"
// @Router /datasets/{id} [delete]
func (c *DatasetController) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.datasetService.DeleteSnapshot(id); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "数据快照不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "删除数据快照成功",
	})
}
