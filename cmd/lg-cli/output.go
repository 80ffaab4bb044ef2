package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Max-Moro/lg-cli/internal/optimizer"
)

// bundleFile is one optimized file's entry in a batch-mode bundle.
type bundleFile struct {
	Path     string `json:"path" yaml:"path"`
	Language string `json:"language" yaml:"language"`
	Content  string `json:"content" yaml:"content"`
	Tokens   int    `json:"tokens" yaml:"tokens"`
	Skipped  bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Warning  string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// bundle is the combined output of a directory optimize run, the
// batch-mode analogue of the teacher's Context.
type bundle struct {
	ProjectPath string       `json:"project_path" yaml:"project_path"`
	Files       []bundleFile `json:"files" yaml:"files"`
	TotalFiles  int          `json:"total_files" yaml:"total_files"`
	TotalTokens int          `json:"total_tokens" yaml:"total_tokens"`
}

func buildBundle(projectPath string, results []*optimizer.Result) bundle {
	b := bundle{ProjectPath: projectPath}
	for _, r := range results {
		b.Files = append(b.Files, bundleFile{
			Path:     r.Path,
			Language: r.Language,
			Content:  r.Text,
			Tokens:   r.Tokens,
			Skipped:  r.Skipped,
			Warning:  r.Warning,
		})
		b.TotalTokens += r.Tokens
	}
	b.TotalFiles = len(b.Files)
	return b
}

func bundleExtension(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	default:
		return "md"
	}
}

func renderBundle(b bundle, format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(b, "", "  ")
		return string(data), err
	case "yaml", "yml":
		data, err := yaml.Marshal(b)
		return string(data), err
	case "markdown", "md", "":
		return renderMarkdownBundle(b), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// renderMarkdownBundle produces a human-readable grouped-by-language
// bundle, grounded on the teacher's generateMarkdown.
func renderMarkdownBundle(b bundle) string {
	var sb strings.Builder
	sb.WriteString("# Optimized Project Context\n\n")
	sb.WriteString(fmt.Sprintf("**Project Path:** `%s`\n\n", b.ProjectPath))
	sb.WriteString(fmt.Sprintf("**Total Files:** %d\n\n", b.TotalFiles))
	sb.WriteString(fmt.Sprintf("**Total Tokens:** %d\n\n", b.TotalTokens))

	byLang := map[string][]bundleFile{}
	for _, f := range b.Files {
		lang := f.Language
		if lang == "" {
			lang = "plaintext"
		}
		byLang[lang] = append(byLang[lang], f)
	}
	langs := make([]string, 0, len(byLang))
	for lang := range byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	for _, lang := range langs {
		files := byLang[lang]
		sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
		sb.WriteString(fmt.Sprintf("## %s\n\n", lang))
		for _, f := range files {
			sb.WriteString(fmt.Sprintf("### `%s` — %d tokens\n\n", f.Path, f.Tokens))
			if f.Warning != "" {
				sb.WriteString(fmt.Sprintf("> **Warning:** %s\n\n", f.Warning))
			}
			blockLang := lang
			if blockLang == "plaintext" {
				blockLang = ""
			}
			sb.WriteString(fmt.Sprintf("```%s\n", blockLang))
			sb.WriteString(f.Content)
			if !strings.HasSuffix(f.Content, "\n") {
				sb.WriteString("\n")
			}
			sb.WriteString("```\n\n")
		}
	}

	sb.WriteString(fmt.Sprintf("_Generated by lg-cli on %s_\n", time.Now().UTC().Format(time.RFC3339)))
	return sb.String()
}
