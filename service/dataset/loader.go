/*
 * @module service/dataset/loader
 * @description 数据快照载入器，将上传的CSV/JSON表格数据解码为行映射集合
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 原始字节流 -> 按格式解码 -> 行映射集合
 * @rules CSV首行视为表头；空单元格保留为空字符串，由评分引擎统一判空
 * @dependencies encoding/csv, github.com/jszwec/csvutil
 * @refs snapshot_service.go, service/scorecard
 */

package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
)

// 上传格式
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// DecodeRows 按指定格式解码上传数据为行映射集合
func DecodeRows(r io.Reader, format string) ([]map[string]interface{}, error) {
	switch format {
	case FormatCSV:
		return decodeCSVRows(r)
	case FormatJSON:
		return decodeJSONRows(r)
	default:
		return nil, fmt.Errorf("不支持的数据格式: %s", format)
	}
}

// decodeCSVRows 解码CSV数据，表头动态映射为行键
// 解码目标为空结构体，所有列都落在Unused集合里，再按表头回填为映射
func decodeCSVRows(r io.Reader) ([]map[string]interface{}, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("CSV数据为空，缺少表头")
		}
		return nil, fmt.Errorf("创建CSV解码器失败: %w", err)
	}

	header := dec.Header()
	rows := make([]map[string]interface{}, 0)
	for {
		var discard struct{}
		if err := dec.Decode(&discard); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("解码CSV第 %d 行失败: %w", len(rows)+1, err)
		}

		record := dec.Record()
		row := make(map[string]interface{}, len(header))
		for _, i := range dec.Unused() {
			row[header[i]] = record[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// decodeJSONRows 解码JSON数组数据
func decodeJSONRows(r io.Reader) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("解码JSON数据失败: %w", err)
	}
	return rows, nil
}
