package api

import "github.com/BaSui01/genesis/types"

// =============================================================================
// 项目生成接口类型
// =============================================================================

// RunRequest 是 POST /run 的请求体。
// @Description 项目生成请求结构
type RunRequest struct {
	// 项目描述提示词
	Prompt string `json:"prompt" example:"build a react todo app" binding:"required"`
	// 模型后端, 缺省 ollama
	Backend string `json:"backend,omitempty" example:"ollama"`
}

// RunData 是 POST /run 成功响应的 data 字段。
// @Description 项目生成结果结构
type RunData struct {
	// 项目 ID（时间戳格式）
	ProjectID string `json:"project_id" example:"20260828_123045"`
	// 解析出的项目名
	ProjectName string `json:"project_name" example:"react-todo-app"`
	// 生成的文件集合
	Files []types.GeneratedFile `json:"files"`
	// 人类可读的结果描述
	Output string `json:"output" example:"Successfully generated 5 files"`
	// 项目写盘路径
	ProjectPath string `json:"project_path" example:"genesis/react-todo-app"`
}

// ErrorDetail 表示错误详细信息。
// @Description 错误详细结构
type ErrorDetail struct {
	// 错误代码
	Code string `json:"code" example:"INVALID_REQUEST"`
	// 人类可读的错误消息
	Message string `json:"message" example:"prompt is required"`
	// HTTP 状态码
	HTTPStatus int `json:"http_status,omitempty" example:"400"`
	// 请求是否可以重试
	Retryable bool `json:"retryable,omitempty" example:"false"`
	// 返回错误的提供者
	Provider string `json:"provider,omitempty" example:"ollama"`
}
