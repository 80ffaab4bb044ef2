package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Max-Moro/lg-cli/internal/config"
	"github.com/Max-Moro/lg-cli/internal/optimizer"
	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

// runBatch walks cfg.Path, optimizes every matched file concurrently
// across cfg.Workers goroutines, and writes one combined bundle (spec
// §7 supplemented feature: directory batch mode).
func runBatch(ctx context.Context, cfg *config.Config, pol policy.Policy, counter tokenizer.Counter) error {
	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return fmt.Errorf("lg-cli: %w", err)
	}

	exclude := append([]string{}, cfg.Exclude...)
	exclude = append(exclude, readGitignore(absPath)...)

	var paths []string
	walkErr := filepath.Walk(absPath, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(absPath, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if fi.IsDir() {
			if rel != "." && shouldExclude(rel, exclude, cfg.Include) {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldExclude(rel, exclude, cfg.Include) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("lg-cli: walking %s: %w", absPath, walkErr)
	}
	sort.Strings(paths)

	results := make([]*optimizer.Result, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				path := paths[idx]
				data, err := os.ReadFile(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: reading %s: %v\n", path, err)
					continue
				}
				rel, _ := filepath.Rel(absPath, path)
				res, err := optimizer.Optimize(ctx, filepath.ToSlash(rel), data, pol, counter)
				if err != nil {
					if _, ok := err.(*optimizer.ErrParse); !ok {
						fmt.Fprintf(os.Stderr, "Warning: optimizing %s: %v\n", path, err)
						continue
					}
				}
				results[idx] = res
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var fileResults []*optimizer.Result
	for _, r := range results {
		if r != nil {
			fileResults = append(fileResults, r)
		}
	}

	bundle := buildBundle(absPath, fileResults)
	out, err := renderBundle(bundle, cfg.Format)
	if err != nil {
		return fmt.Errorf("lg-cli: %w", err)
	}

	outPath := cfg.Output
	if outPath == "" {
		ext := bundleExtension(cfg.Format)
		tstamp := time.Now().UTC().Format("20060102_150405")
		outPath = filepath.Join(absPath, fmt.Sprintf("lg-cli-%s.%s", tstamp, ext))
	}
	if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("lg-cli: writing %s: %w", outPath, err)
	}
	fmt.Printf("Optimized %d files -> %s (%d total tokens)\n", len(fileResults), outPath, bundle.TotalTokens)
	return nil
}

// shouldExclude mirrors the teacher's include-whitelist-then-exclude-glob
// matching, generalized to test both the path and its basename.
func shouldExclude(path string, excludePatterns []string, includePatterns []string) bool {
	if len(includePatterns) > 0 {
		included := false
		for _, pat := range includePatterns {
			if ok, _ := doublestar.Match(pat, path); ok {
				included = true
				break
			}
			if ok, _ := doublestar.Match(pat, filepath.Base(path)); ok {
				included = true
				break
			}
		}
		if !included {
			return true
		}
	}

	var negations []string
	for _, pat := range excludePatterns {
		if strings.HasPrefix(pat, "!") {
			negations = append(negations, strings.TrimPrefix(pat, "!"))
		}
	}

	for _, n := range negations {
		if ok, _ := doublestar.Match(n, path); ok {
			return false
		}
	}

	for _, pat := range excludePatterns {
		if pat == "" || strings.HasPrefix(pat, "!") {
			continue
		}
		if ok, _ := doublestar.Match(pat, path); ok {
			return true
		}
		if ok, _ := doublestar.Match(pat, filepath.Base(path)); ok {
			return true
		}
		if strings.Contains(path, pat) {
			return true
		}
	}
	return false
}

// readGitignore reads projectPath/.gitignore's non-empty, non-comment
// lines as additional exclude patterns.
func readGitignore(projectPath string) []string {
	gitignorePath := filepath.Join(projectPath, ".gitignore")
	data, err := os.ReadFile(gitignorePath)
	if err != nil {
		return nil
	}
	var patterns []string
	for _, ln := range strings.Split(string(data), "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		patterns = append(patterns, ln)
	}
	return patterns
}
