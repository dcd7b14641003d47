// Copyright (c) Genesis Authors.
// Licensed under the MIT License.

/*
Package handlers 提供 Genesis HTTP API 的请求处理器实现。

# 概述

handlers 包实现了 Genesis 所有 HTTP 端点的请求处理逻辑，
包括项目生成、服务元信息、健康检查以及统一的响应/错误处理。
所有 Handler 均遵循标准 net/http 接口。

# 核心类型

  - GenerateHandler  — 项目生成处理器（POST /run）
  - RootHandler      — 服务元信息处理器（GET /）
  - HealthHandler    — 服务健康检查（/health, /healthz, /ready）
  - Response         — 统一 JSON 响应结构（success + message + data + error + timestamp）
  - ErrorInfo        — 结构化错误信息，含 code、message、retryable 标记
  - ResponseWriter   — 包装 http.ResponseWriter 以捕获状态码
  - HealthCheck      — 可插拔就绪检查接口（清单存储、模型后端等）

# 主要能力

  - 统一响应格式：WriteSuccess / WriteError / WriteJSON 辅助函数
  - 请求验证：DecodeJSONBody（严格模式）、ValidateContentType
  - ErrorCode → HTTP 状态码自动映射（4xx/5xx）
  - 可扩展就绪检查：RegisterCheck 注册自定义 HealthCheck 实现
*/
package handlers
