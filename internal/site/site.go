package site

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"iglesia/internal/config"
	"iglesia/internal/core"
	"iglesia/internal/logger"
)

// MarkdownHTML converts a Markdown body to HTML for safe template
// injection.
func MarkdownHTML(text string) template.HTML {
	if text == "" {
		return ""
	}
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	})
	return template.HTML(markdown.ToHTML([]byte(text), mdParser, renderer))
}

const indexTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="styles.css">
</head>
<body>
<header><h1>{{.Title}}</h1></header>
<main>
{{range .Weeks}}
<section id="{{.Anchor}}">
  <h2><a href="{{.Page}}">{{.Title}}</a></h2>
  <p class="fecha">{{.Date}}</p>
</section>
{{end}}
</main>
</body>
</html>
`

const weekTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="styles.css">
</head>
<body>
<header><h1>{{.Title}}</h1><p class="fecha">{{.Date}}</p></header>
<main>
{{.Body}}
{{if .Analyses}}
<section id="documentos">
<h2>Documentos de la semana</h2>
{{range .Analyses}}
<article>
  <h3><a href="{{.OriginalURL}}">{{.SourceDocument}}</a></h3>
  <p>{{.Summary}}</p>
  {{if .KeyIdeas}}<ul>{{range .KeyIdeas}}<li>{{.}}</li>{{end}}</ul>{{end}}
</article>
{{end}}
</section>
{{end}}
</main>
<footer><a href="index.html">Inicio</a></footer>
</body>
</html>
`

type weekLink struct {
	Title  string
	Date   string
	Anchor string
	Page   string
}

type indexData struct {
	Title string
	Weeks []weekLink
}

type weekData struct {
	Title    string
	Date     string
	Body     template.HTML
	Analyses []core.DocumentAnalysis
}

// Builder freezes the website into plain HTML files.
type Builder struct {
	cfg   config.Site
	index *template.Template
	week  *template.Template
}

// NewBuilder parses the page templates.
func NewBuilder(cfg config.Site) (*Builder, error) {
	idx, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}
	wk, err := template.New("week").Parse(weekTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse week template: %w", err)
	}
	return &Builder{cfg: cfg, index: idx, week: wk}, nil
}

// WeekPage returns the output filename for a week.
func WeekPage(week int) string {
	return fmt.Sprintf("semana-%d.html", week)
}

// Build writes index.html plus one page per weekly summary into the
// build directory. Analyses are grouped onto their week's page by the
// episode-week of their document date.
func (b *Builder) Build(summaries []core.WeeklySummary, analyses map[int][]core.DocumentAnalysis) error {
	if err := os.MkdirAll(b.cfg.BuildDir, 0o755); err != nil {
		return fmt.Errorf("failed to create build dir: %w", err)
	}

	var links []weekLink
	for _, sum := range summaries {
		page := WeekPage(sum.Week)
		links = append(links, weekLink{
			Title:  sum.Title,
			Date:   sum.Date,
			Anchor: core.Slug(sum.Title),
			Page:   page,
		})

		data := weekData{
			Title:    sum.Title,
			Date:     sum.Date,
			Body:     MarkdownHTML(sum.Body),
			Analyses: analyses[sum.Week],
		}
		if err := b.writePage(page, b.week, data); err != nil {
			return err
		}
	}

	if err := b.writePage("index.html", b.index, indexData{Title: "Igles-IA", Weeks: links}); err != nil {
		return err
	}
	logger.Info("site built", "dir", b.cfg.BuildDir, "pages", len(summaries)+1)
	return nil
}

func (b *Builder) writePage(name string, tmpl *template.Template, data any) error {
	path := filepath.Join(b.cfg.BuildDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}
