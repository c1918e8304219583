package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"showcase/internal/render"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// htmlPainter renders pages with html/template. Markdown, code and chart
// nodes are converted by the helpers below and injected as trusted HTML.
type htmlPainter struct {
	tmpl      *template.Template
	md        goldmark.Markdown
	formatter *chromahtml.Formatter
	style     *chroma.Style
	logger    *slog.Logger
}

type pageData struct {
	Page   render.Page
	Active string
}

func newHTMLPainter(logger *slog.Logger) (*htmlPainter, error) {
	p := &htmlPainter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		formatter: chromahtml.New(chromahtml.TabWidth(4)),
		style:     styles.Get("github"),
		logger:    logger,
	}
	tmpl, err := template.New("showcase").Funcs(template.FuncMap{
		"markdown":  p.markdown,
		"code":      p.code,
		"lineChart": p.lineChart,
		"barChart":  p.barChart,
		"join":      strings.Join,
	}).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	p.tmpl = tmpl
	return p, nil
}

// Paint writes the complete HTML document for page.
func (p *htmlPainter) Paint(w io.Writer, page render.Page) error {
	return p.tmpl.ExecuteTemplate(w, "page", pageData{Page: page, Active: page.Active.String()})
}

func (p *htmlPainter) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(src), &buf); err != nil {
		p.logger.Warn("markdown conversion failed", slog.String("error", err.Error()))
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(buf.String())
}

func (p *htmlPainter) code(src, language string) template.HTML {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	var buf bytes.Buffer
	it, err := lexer.Tokenise(nil, src)
	if err == nil {
		err = p.formatter.Format(&buf, p.style, it)
	}
	if err != nil {
		p.logger.Warn("highlighting failed", slog.String("language", language), slog.String("error", err.Error()))
		return template.HTML("<pre><code>" + template.HTMLEscapeString(src) + "</code></pre>")
	}
	return template.HTML(buf.String())
}

func (p *htmlPainter) lineChart(c *render.Chart) template.HTML {
	return p.chart(c, LineChartSVG)
}

func (p *htmlPainter) barChart(c *render.Chart) template.HTML {
	return p.chart(c, BarChartSVG)
}

func (p *htmlPainter) chart(c *render.Chart, draw func(io.Writer, render.Chart) error) template.HTML {
	if c == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := draw(&buf, *c); err != nil {
		p.logger.Warn("chart rendering failed", slog.String("error", err.Error()))
		return template.HTML(`<p class="chart-error">Chart unavailable: ` + template.HTMLEscapeString(err.Error()) + `</p>`)
	}
	buf.WriteString(legendHTML(*c))
	return template.HTML(buf.String())
}

func legendHTML(c render.Chart) string {
	var b strings.Builder
	b.WriteString(`<ul class="legend">`)
	for i, s := range c.Series {
		fmt.Fprintf(&b, `<li><span class="swatch" style="background:#%s"></span>%s</li>`,
			seriesHex[i%len(seriesHex)], template.HTMLEscapeString(s.Name))
	}
	b.WriteString(`</ul>`)
	return b.String()
}
