package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Max-Moro/lg-cli/internal/config"
	"github.com/Max-Moro/lg-cli/internal/optimizer"
	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

var defaultIgnorePatterns = []string{
	".git", ".svn", ".hg",
	"node_modules", "vendor", "target",
	"build", "dist", "out",
	"__pycache__", ".pytest_cache",
	"*.pyc", "*.pyo", "*.pyd",
	".DS_Store", "Thumbs.db",
	"*.log", "*.tmp", "*.temp",
	".idea", ".vscode", ".vs",
	"*.exe", "*.dll", "*.so", "*.dylib",
	"*.class", "*.jar",
	"coverage", ".nyc_output",
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize a file or project tree under a token budget",
	RunE:  runOptimize,
}

var (
	flagPath                  string
	flagOutput                string
	flagFormat                string
	flagExclude               []string
	flagInclude               []string
	flagWorkers               int
	flagComments              string
	flagImports               string
	flagLiterals              string
	flagLiteralMaxTokens      int
	flagFunctionBodies        string
	flagFunctionBodyMaxTokens int
	flagFunctionBodyMaxLines  int
	flagBodyBraceStyle        string
	flagPublicAPIOnly         bool
	flagTargetTokens          int
)

func init() {
	f := optimizeCmd.Flags()
	f.StringVarP(&flagPath, "path", "p", ".", "File or directory to optimize")
	f.StringVarP(&flagOutput, "output", "o", "", "Output path (default: stdout for a single file, an auto-named bundle for a directory)")
	f.StringVarP(&flagFormat, "format", "f", "markdown", "Bundle format for directory mode (markdown, json, yaml)")
	f.StringSliceVarP(&flagExclude, "exclude", "e", nil, "Glob patterns to exclude")
	f.StringSliceVarP(&flagInclude, "include", "i", nil, "Glob patterns to include (whitelist)")
	f.IntVar(&flagWorkers, "workers", 4, "Concurrent workers for directory mode")

	f.StringVar(&flagComments, "comments", "", "keep_all|keep_doc|keep_first_sentence|strip_all")
	f.StringVar(&flagImports, "imports", "", "keep_all|summarize_groups|strip_all")
	f.StringVar(&flagLiterals, "literals", "", "keep_all|trim_large|max_tokens")
	f.IntVar(&flagLiteralMaxTokens, "literal-max-tokens", 0, "Per-literal token budget")
	f.StringVar(&flagFunctionBodies, "function-bodies", "", "keep_all|strip_large|strip_all|max_tokens")
	f.IntVar(&flagFunctionBodyMaxTokens, "function-body-max-tokens", 0, "max_tokens budget per function body")
	f.IntVar(&flagFunctionBodyMaxLines, "function-body-max-lines", 0, "strip_large line threshold")
	f.StringVar(&flagBodyBraceStyle, "body-brace-style", "", "replace|keep")
	f.BoolVar(&flagPublicAPIOnly, "public-api-only", false, "Elide private top-level declarations and members")
	f.IntVar(&flagTargetTokens, "target-tokens", 0, "Overall token budget (0 = unlimited)")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg := &config.Config{
		Path:                  flagPath,
		Output:                flagOutput,
		Format:                flagFormat,
		Exclude:               append([]string{}, defaultIgnorePatterns...),
		Include:               flagInclude,
		Workers:               flagWorkers,
		Comments:              flagComments,
		Imports:               flagImports,
		Literals:              flagLiterals,
		LiteralMaxTokens:      flagLiteralMaxTokens,
		FunctionBodies:        flagFunctionBodies,
		FunctionBodyMaxTokens: flagFunctionBodyMaxTokens,
		FunctionBodyMaxLines:  flagFunctionBodyMaxLines,
		BodyBraceStyle:        flagBodyBraceStyle,
		PublicAPIOnly:         flagPublicAPIOnly,
		TargetTokens:          flagTargetTokens,
	}
	if len(flagExclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, flagExclude...)
	}

	if configFile := filepath.Join(cfg.Path, config.ConfigFileName); config.FileExists(configFile) {
		if err := config.Load(configFile, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", config.ConfigFileName, err)
		}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	pol := cfg.Policy()
	if err := pol.Validate(); err != nil {
		return err
	}

	counter, err := tokenizer.NewTiktoken()
	if err != nil {
		counter = tokenizer.Approx
	}
	counter = tokenizer.WithCache(counter)

	info, err := os.Stat(cfg.Path)
	if err != nil {
		return fmt.Errorf("lg-cli: %w", err)
	}

	ctx := context.Background()
	if info.IsDir() {
		return runBatch(ctx, cfg, pol, counter)
	}
	return runSingleFile(ctx, cfg, pol, counter)
}

func runSingleFile(ctx context.Context, cfg *config.Config, pol policy.Policy, counter tokenizer.Counter) error {
	data, err := os.ReadFile(cfg.Path)
	if err != nil {
		return fmt.Errorf("lg-cli: %w", err)
	}
	result, err := optimizer.Optimize(ctx, cfg.Path, data, pol, counter)
	if err != nil {
		if _, ok := err.(*optimizer.ErrParse); !ok {
			return err
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if result.Warning != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", result.Warning)
	}
	if cfg.Output == "" {
		fmt.Print(result.Text)
		if result.Records > 0 {
			fmt.Fprintf(os.Stderr, "%d tokens (%d elisions)\n", result.Tokens, result.Records)
		} else {
			fmt.Fprintf(os.Stderr, "%d tokens\n", result.Tokens)
		}
		return nil
	}
	if err := os.WriteFile(cfg.Output, []byte(result.Text), 0644); err != nil {
		return fmt.Errorf("lg-cli: writing %s: %w", cfg.Output, err)
	}
	fmt.Printf("Optimized %s -> %s (%d tokens)\n", cfg.Path, cfg.Output, result.Tokens)
	return nil
}
