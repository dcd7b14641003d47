package pipeline

import "fmt"

// namePrompt 构造项目命名提示词
func namePrompt(prompt string) string {
	return fmt.Sprintf(`Based on this project description, suggest a short, descriptive project name (max 25 characters, use hyphens for spaces):

Description: %s

Requirements:
- Make it descriptive and specific to the project
- Use hyphens instead of spaces
- Keep it under 25 characters
- Make it unique and meaningful

Examples:
- "react-todo-app" for a React todo application
- "python-web-scraper" for a Python web scraper
- "node-express-api" for a Node.js Express API

Return only the project name, nothing else.`, prompt)
}

// structurePrompt 构造项目结构生成提示词, 要求模型返回纯 JSON 数组
func structurePrompt(prompt, projectName string) string {
	return fmt.Sprintf(`Based on this project description, create a complete project structure with all necessary files:

Project Description: %s
Project Name: %s

Analyze the requirements and create a JSON array of file objects with this structure:
[
  {
    "name": "filename.ext",
    "content": "complete file content here",
    "language": "file extension or language"
  }
]

Requirements:
1. Create files specific to the project type (React, Python, Node.js, etc.)
2. Include all necessary configuration files
3. Include proper package.json with relevant dependencies
4. Include a comprehensive README.md
5. Include main source files with actual implementation
6. Include any additional files needed for the project to work

Examples:
- For React projects: package.json, src/App.js, src/index.js, public/index.html, README.md
- For Python projects: requirements.txt, main.py, README.md, .gitignore
- For Node.js projects: package.json, index.js, README.md, .env.example

Return only valid JSON, no explanations or markdown formatting.`, prompt, projectName)
}
