// Package email renders and sends the weekly summary email to
// subscribers.
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"iglesia/internal/core"
	"iglesia/internal/site"
)

// Data is everything the weekly email template needs.
type Data struct {
	Subject   string
	FirstName string
	Summary   core.WeeklySummary
	BodyHTML  template.HTML
	SiteURL   string
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
  body { margin: 0; padding: 0; background-color: #f4f1ec; font-family: Georgia, 'Times New Roman', serif; color: #2b2b2b; }
  .wrapper { max-width: 600px; margin: 0 auto; padding: 24px 16px; }
  .card { background: #ffffff; border-radius: 8px; padding: 32px 28px; }
  h1 { font-size: 22px; color: #6b2f2f; margin-top: 0; }
  h2, h3 { color: #6b2f2f; }
  a { color: #6b2f2f; }
  .saludo { font-size: 16px; margin-bottom: 20px; }
  .fecha { color: #8a8a8a; font-size: 13px; margin-bottom: 24px; }
  .footer { text-align: center; font-size: 12px; color: #8a8a8a; padding-top: 24px; }
</style>
</head>
<body>
<div class="wrapper">
  <div class="card">
    <h1>{{.Summary.Title}}</h1>
    <div class="fecha">{{.Summary.Date}}</div>
    {{if .FirstName}}<p class="saludo">Hola {{.FirstName}}:</p>{{end}}
    {{.BodyHTML}}
    <p><a href="{{.SiteURL}}">Leer en la web</a></p>
  </div>
  <div class="footer">
    Recibes este correo por estar suscrito a Igles-IA.
  </div>
</div>
</body>
</html>
`

var weeklyTmpl = template.Must(template.New("weekly").Parse(htmlTemplate))

// Subject builds the weekly email subject line.
func Subject(sum core.WeeklySummary) string {
	return fmt.Sprintf("Igles-IA | %s", sum.Title)
}

// RenderWeekly produces the personalized HTML body for one recipient.
func RenderWeekly(sum core.WeeklySummary, firstName, siteURL string) (string, error) {
	data := Data{
		Subject:   Subject(sum),
		FirstName: firstName,
		Summary:   sum,
		BodyHTML:  site.MarkdownHTML(sum.Body),
		SiteURL:   siteURL,
	}
	var buf bytes.Buffer
	if err := weeklyTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render weekly email: %w", err)
	}
	return buf.String(), nil
}
