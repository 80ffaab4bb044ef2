// Package config defines the on-disk configuration schema for lg-cli and
// the CLI-wins-file-fills-gaps merge used to load .lg-cli.yaml, mirroring
// the teacher's .ai-context.yaml handling.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Max-Moro/lg-cli/internal/policy"
)

// ConfigFileName is the project-level config file lg-cli looks for in the
// target directory, analogous to the teacher's ".ai-context.yaml".
const ConfigFileName = ".lg-cli.yaml"

// Config is the full run configuration: where to read from, how to write
// output, and the optimization policy to apply. Every field double-tags
// json/yaml so it can be both CLI-bound and round-tripped through the
// project config file, the way the teacher's Config struct does.
type Config struct {
	Path    string   `json:"path" yaml:"path"`
	Output  string   `json:"output" yaml:"output"`
	Format  string   `json:"format" yaml:"format"`
	Exclude []string `json:"exclude" yaml:"exclude"`
	Include []string `json:"include" yaml:"include"`
	Workers int      `json:"workers" yaml:"workers"`

	Comments            string `json:"comments" yaml:"comments"`
	Imports             string `json:"imports" yaml:"imports"`
	Literals            string `json:"literals" yaml:"literals"`
	LiteralMaxTokens    int    `json:"literal_max_tokens" yaml:"literal_max_tokens"`
	FunctionBodies      string `json:"function_bodies" yaml:"function_bodies"`
	FunctionBodyMaxTokens int  `json:"function_body_max_tokens" yaml:"function_body_max_tokens"`
	FunctionBodyMaxLines  int  `json:"function_body_max_lines" yaml:"function_body_max_lines"`
	BodyBraceStyle        string `json:"body_brace_style" yaml:"body_brace_style"`
	PublicAPIOnly         bool   `json:"public_api_only" yaml:"public_api_only"`
	TargetTokens          int    `json:"target_tokens" yaml:"target_tokens"`
}

// Policy converts the loaded Config into an immutable policy.Policy,
// falling back to policy.Default() for unset string fields.
func (c Config) Policy() policy.Policy {
	p := policy.Default()
	if c.Comments != "" {
		p.Comments = policy.CommentMode(c.Comments)
	}
	if c.Imports != "" {
		p.Imports = policy.ImportMode(c.Imports)
	}
	if c.Literals != "" {
		p.Literals = policy.LiteralMode(c.Literals)
	}
	if c.LiteralMaxTokens > 0 {
		p.LiteralMaxTokens = c.LiteralMaxTokens
	}
	if c.FunctionBodies != "" {
		p.FunctionBodies = policy.FunctionBodyMode(c.FunctionBodies)
	}
	if c.FunctionBodyMaxTokens > 0 {
		p.FunctionBodyMaxTokens = c.FunctionBodyMaxTokens
	}
	if c.FunctionBodyMaxLines > 0 {
		p.FunctionBodyMaxLines = c.FunctionBodyMaxLines
	}
	if c.BodyBraceStyle != "" {
		p.BodyBraceStyle = policy.BraceStyle(c.BodyBraceStyle)
	}
	p.PublicAPIOnly = c.PublicAPIOnly
	p.TargetTokens = c.TargetTokens
	return p
}

// Load reads path (a .lg-cli.yaml file) and merges it into cfg without
// overwriting any field cfg already has set from CLI flags — CLI always
// wins, the file only fills gaps, exactly as the teacher's
// loadConfigFile merges precedence.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var fileCfg Config
	if err := dec.Decode(&fileCfg); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}

	if cfg.Format == "" && fileCfg.Format != "" {
		cfg.Format = fileCfg.Format
	}
	if cfg.Output == "" && fileCfg.Output != "" {
		cfg.Output = fileCfg.Output
	}
	if len(fileCfg.Exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, fileCfg.Exclude...)
	}
	if len(fileCfg.Include) > 0 && len(cfg.Include) == 0 {
		cfg.Include = fileCfg.Include
	}
	if cfg.Workers == 0 && fileCfg.Workers > 0 {
		cfg.Workers = fileCfg.Workers
	}
	if cfg.Comments == "" && fileCfg.Comments != "" {
		cfg.Comments = fileCfg.Comments
	}
	if cfg.Imports == "" && fileCfg.Imports != "" {
		cfg.Imports = fileCfg.Imports
	}
	if cfg.Literals == "" && fileCfg.Literals != "" {
		cfg.Literals = fileCfg.Literals
	}
	if cfg.LiteralMaxTokens == 0 && fileCfg.LiteralMaxTokens > 0 {
		cfg.LiteralMaxTokens = fileCfg.LiteralMaxTokens
	}
	if cfg.FunctionBodies == "" && fileCfg.FunctionBodies != "" {
		cfg.FunctionBodies = fileCfg.FunctionBodies
	}
	if cfg.FunctionBodyMaxTokens == 0 && fileCfg.FunctionBodyMaxTokens > 0 {
		cfg.FunctionBodyMaxTokens = fileCfg.FunctionBodyMaxTokens
	}
	if cfg.FunctionBodyMaxLines == 0 && fileCfg.FunctionBodyMaxLines > 0 {
		cfg.FunctionBodyMaxLines = fileCfg.FunctionBodyMaxLines
	}
	if cfg.BodyBraceStyle == "" && fileCfg.BodyBraceStyle != "" {
		cfg.BodyBraceStyle = fileCfg.BodyBraceStyle
	}
	if !cfg.PublicAPIOnly && fileCfg.PublicAPIOnly {
		cfg.PublicAPIOnly = fileCfg.PublicAPIOnly
	}
	if cfg.TargetTokens == 0 && fileCfg.TargetTokens > 0 {
		cfg.TargetTokens = fileCfg.TargetTokens
	}
	return nil
}

// FileExists reports whether path exists, mirroring the teacher's
// fileExists helper.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
