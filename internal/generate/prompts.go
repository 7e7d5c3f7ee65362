package generate

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed config/prompts.yaml
var promptFiles embed.FS

type promptConfig struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// PromptData is the interpolation context for the prompt templates.
type PromptData struct {
	Heading  string
	Context  string
	Min      int
	Max      int
	MaxWords int
}

// PromptSet holds the parsed system/user prompt templates.
type PromptSet struct {
	system *template.Template
	user   *template.Template
}

// LoadPrompts parses the embedded prompt template file.
func LoadPrompts() (*PromptSet, error) {
	data, err := promptFiles.ReadFile("config/prompts.yaml")
	if err != nil {
		return nil, fmt.Errorf("read prompt config: %w", err)
	}

	var cfg promptConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal prompt config: %w", err)
	}

	system, err := template.New("system").Parse(cfg.System)
	if err != nil {
		return nil, fmt.Errorf("parse system prompt: %w", err)
	}
	user, err := template.New("user").Parse(cfg.User)
	if err != nil {
		return nil, fmt.Errorf("parse user prompt: %w", err)
	}

	return &PromptSet{system: system, user: user}, nil
}

// Render interpolates both templates with the given data.
func (p *PromptSet) Render(data PromptData) (system, user string, err error) {
	var sb, ub strings.Builder
	if err := p.system.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render system prompt: %w", err)
	}
	if err := p.user.Execute(&ub, data); err != nil {
		return "", "", fmt.Errorf("render user prompt: %w", err)
	}
	return strings.TrimSpace(sb.String()), strings.TrimSpace(ub.String()), nil
}
