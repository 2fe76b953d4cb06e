// Package site builds the frozen static website from weekly Markdown
// summaries and per-document analysis files.
package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"iglesia/internal/core"
	"iglesia/internal/logger"
)

// ParseSummary splits a weekly Markdown file into its YAML frontmatter
// and body.
func ParseSummary(path string, data []byte) (core.WeeklySummary, error) {
	text := string(data)
	if !strings.HasPrefix(text, "---\n") {
		return core.WeeklySummary{}, fmt.Errorf("%s: missing frontmatter", path)
	}
	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return core.WeeklySummary{}, fmt.Errorf("%s: unterminated frontmatter", path)
	}

	var sum core.WeeklySummary
	if err := yaml.Unmarshal([]byte(rest[:end]), &sum); err != nil {
		return core.WeeklySummary{}, fmt.Errorf("%s: invalid frontmatter: %w", path, err)
	}
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	sum.Body = strings.TrimSpace(body)
	sum.FilePath = path
	sum.Loaded = time.Now()
	return sum, nil
}

// RenderSummary writes a weekly summary back out as frontmatter plus
// body, the format the agents step produces and the site consumes.
func RenderSummary(sum core.WeeklySummary) ([]byte, error) {
	front, err := yaml.Marshal(struct {
		Titulo string `yaml:"titulo"`
		Fecha  string `yaml:"fecha"`
		Semana int    `yaml:"semana"`
	}{sum.Title, sum.Date, sum.Week})
	if err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(front)
	b.WriteString("---\n\n")
	b.WriteString(sum.Body)
	b.WriteString("\n")
	return []byte(b.String()), nil
}

// LoadSummaries reads every .md file in dir, newest week first.
// Unparseable files are logged and skipped.
func LoadSummaries(dir string) ([]core.WeeklySummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read summaries dir %s: %w", dir, err)
	}

	var sums []core.WeeklySummary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("could not read summary file", "path", path, "error", err.Error())
			continue
		}
		sum, err := ParseSummary(path, data)
		if err != nil {
			logger.Warn("skipping malformed summary file", "path", path, "error", err.Error())
			continue
		}
		sums = append(sums, sum)
	}

	sort.SliceStable(sums, func(i, j int) bool { return sums[i].Week > sums[j].Week })
	return sums, nil
}

// LoadAnalyses reads every per-document analysis JSON in dir.
func LoadAnalyses(dir string) ([]core.DocumentAnalysis, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read analyses dir %s: %w", dir, err)
	}

	var out []core.DocumentAnalysis
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("could not read analysis file", "path", path, "error", err.Error())
			continue
		}
		var a core.DocumentAnalysis
		if err := json.Unmarshal(data, &a); err != nil {
			logger.Warn("skipping malformed analysis file", "path", path, "error", err.Error())
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
