// Package manifest 提供项目清单的持久化能力, 支持文件与 MongoDB 两种驱动.
// 清单记录每次生成的输入提示词、产出文件与写盘路径, 供审计与回溯使用.
package manifest
