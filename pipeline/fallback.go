package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/BaSui01/genesis/types"
)

// fallbackPackageJSON 保持字段顺序稳定, 方便 diff 与测试
type fallbackPackageJSON struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Description  string            `json:"description"`
	Main         string            `json:"main"`
	Scripts      map[string]string `json:"scripts"`
	Dependencies map[string]string `json:"dependencies"`
}

// FallbackFiles 返回基础项目骨架, 在模型输出不可用时兜底.
// 固定产出三个文件: package.json, src/App.tsx, README.md
func FallbackFiles(prompt, reason string) []types.GeneratedFile {
	pkg := fallbackPackageJSON{
		Name:        "generated-project",
		Version:     "1.0.0",
		Description: fmt.Sprintf("Generated from: %s", prompt),
		Main:        "index.js",
		Scripts: map[string]string{
			"start": "node index.js",
			"dev":   "node index.js",
		},
		Dependencies: map[string]string{
			"react":     "^18.0.0",
			"react-dom": "^18.0.0",
		},
	}
	pkgJSON, _ := json.MarshalIndent(pkg, "", "  ")

	note := ""
	if reason != "" {
		note = fmt.Sprintf("\n      <p>Note: %s</p>", reason)
	}
	appComponent := fmt.Sprintf(`import React from 'react';

function App() {
  return (
    <div className="App">
      <h1>Generated App</h1>
      <p>This app was generated from: %s</p>
      <p>Generated by Genesis</p>%s
    </div>
  );
}

export default App;`, prompt, note)

	readme := fmt.Sprintf(`# Generated Project

This project was generated by Genesis.

## Original Prompt
%s

## Files Generated
- package.json - Project configuration
- src/App.tsx - Main React component
- README.md - This file

## Getting Started
1. Install dependencies: `+"`npm install`"+`
2. Start development server: `+"`npm start`"+`
3. Open http://localhost:3000

Generated on: %s
`, prompt, time.Now().Format("2006-01-02 15:04:05"))

	return []types.GeneratedFile{
		{Name: "package.json", Content: string(pkgJSON), Language: "json"},
		{Name: "src/App.tsx", Content: appComponent, Language: "typescript"},
		{Name: "README.md", Content: readme, Language: "markdown"},
	}
}
