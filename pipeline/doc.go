// Package pipeline 实现项目生成主流程:
// 提示词 -> 模型命名 -> 模型产出文件清单 -> 写盘 -> 持久化清单.
// 模型输出不可解析时回退到内置的基础项目骨架, 保证每次请求都有产出.
package pipeline
