// =============================================================================
// 📦 Genesis 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		LLM:       DefaultLLMConfig(),
		Generator: DefaultGeneratorConfig(),
		Manifest:  DefaultManifestConfig(),
		Validator: DefaultValidatorConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultServerConfig 返回默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8000,
		MetricsPort:     9091,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    120 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		RateLimitRPS:    20,
		RateLimitBurst:  40,
	}
}

// DefaultLLMConfig 返回默认模型服务配置
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider: "ollama",
		BaseURL:  "http://localhost:11434",
		Model:    "llama3.1:8b",
		PreferredModels: []string{
			"qwen2.5-coder:1.5b-base",
			"llama3.1:8b",
			"phi3:mini",
			"llama3.1:3b",
		},
		Temperature: 0.1,
		Timeout:     60 * time.Second,
		MaxRetries:  0,
	}
}

// DefaultGeneratorConfig 返回默认生成配置
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		OutputDir:     "genesis",
		NameMaxLength: 20,
	}
}

// DefaultManifestConfig 返回默认清单存储配置
func DefaultManifestConfig() ManifestConfig {
	return ManifestConfig{
		Driver:     "file",
		Dir:        "projects",
		URI:        "mongodb://localhost:27017",
		Database:   "genesis",
		Collection: "projects",
		Timeout:    5 * time.Second,
	}
}

// DefaultValidatorConfig 返回默认语法校验配置
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		Enabled:        false,
		NodeBin:        "node",
		ScriptPath:     "../tree_sitter/validate.js",
		Timeout:        30 * time.Second,
		MaxConcurrency: 4,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{"stdout"},
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "genesis",
		SampleRate:   0.1,
	}
}
