package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"showcase/internal/dataset"
	"showcase/internal/render"
	"showcase/internal/ui/textutil"
)

const (
	minPageWidth  = 40
	maxSidebar    = 32
	centeredWidth = 90
	maxCellWidth  = 24
	lineChartRows = 8
	columnGap     = 3
)

// PagePainter turns a render.Page into terminal text. It caches the
// markdown renderer between paints, so keep one per program.
type PagePainter struct {
	Width   int
	Focused string // ID of the focused control
	// MarkdownStyle is a glamour standard style name; empty means "dark".
	MarkdownStyle string
	// Editor returns the live view of a control being edited.
	Editor func(id string) (string, bool)

	md      *glamour.TermRenderer
	mdWidth int
}

// Paint renders the heading, sidebar, tab bar, active panel and footer.
func (p *PagePainter) Paint(page render.Page) string {
	width := max(p.Width, minPageWidth)
	sidebarW := min(maxSidebar, width/4)
	mainW := width - sidebarW - columnGap
	if page.Layout == "centered" {
		mainW = min(mainW, centeredWidth)
	}

	side := Styles.Sidebar.Width(sidebarW).Render(p.Nodes(page.Sidebar, sidebarW-2))
	main := lipgloss.NewStyle().Width(mainW).Render(
		TabBar(page) + "\n" + p.Nodes(page.ActivePanel().Body, mainW))

	var b strings.Builder
	b.WriteString(Styles.Heading.Render(page.Heading) + "\n")
	b.WriteString(Styles.Muted.Render(page.Intro) + "\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, side, strings.Repeat(" ", columnGap-1), main))
	b.WriteString("\n" + p.Nodes(page.Footer, width))
	return b.String()
}

// TabBar renders the numbered tab captions with the active one highlighted.
func TabBar(page render.Page) string {
	parts := make([]string, 0, len(page.Tabs))
	for i, tp := range page.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tp.Label)
		if tp.Tab == page.Active {
			parts = append(parts, Styles.TabActive.Render(label))
		} else {
			parts = append(parts, Styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

// Nodes paints nodes top to bottom within width columns.
func (p *PagePainter) Nodes(nodes []render.Node, width int) string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, p.Node(n, width))
	}
	return strings.Join(out, "\n")
}

// Node paints a single node.
func (p *PagePainter) Node(n render.Node, width int) string {
	switch n.Kind {
	case render.KindHeader:
		return Styles.Header.Render(n.Text)
	case render.KindSubheader:
		return Styles.Subheader.Render(n.Text)
	case render.KindText:
		return Styles.Normal.Width(width).Render(n.Text)
	case render.KindMarkdown:
		return p.markdown(n.Text, width)
	case render.KindCode:
		return p.markdown("```"+n.Language+"\n"+n.Text+"\n```", width)
	case render.KindBanner:
		style, ok := Styles.Banners[n.Severity]
		if !ok {
			style = Styles.Normal
		}
		return style.Width(max(width-1, 1)).Render(bannerIcons[n.Severity] + " " + n.Text)
	case render.KindTable:
		return PaintTable(n.Table, width)
	case render.KindLineChart:
		return PaintLineChart(n.Chart, width)
	case render.KindBarChart:
		return PaintBarChart(n.Chart, width)
	case render.KindColumns:
		half := (width - columnGap) / 2
		left := lipgloss.NewStyle().Width(half).Render(p.Nodes(n.Left, half))
		right := lipgloss.NewStyle().Width(half).Render(p.Nodes(n.Right, half))
		return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", columnGap), right)
	case render.KindControl:
		return p.control(n.Control, width)
	case render.KindDivider:
		return Styles.Muted.Render(strings.Repeat("─", width))
	case render.KindCaption:
		return Styles.Caption.Render(n.Text)
	default:
		return ""
	}
}

func (p *PagePainter) markdown(src string, width int) string {
	if p.md == nil || p.mdWidth != width {
		style := p.MarkdownStyle
		if style == "" {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return src
		}
		p.md, p.mdWidth = r, width
	}
	out, err := p.md.Render(src)
	if err != nil {
		return src
	}
	return strings.Trim(out, "\n")
}

func (p *PagePainter) control(c *render.Control, width int) string {
	if c == nil {
		return ""
	}
	marker, labelStyle := "  ", Styles.Normal
	if c.ID == p.Focused {
		marker, labelStyle = Styles.Focused.Render("› "), Styles.Focused
	}

	if c.Kind == render.ControlCheckbox {
		box := "[ ]"
		if c.Value == "true" {
			box = "[x]"
		}
		return marker + labelStyle.Render(box+" "+c.Label)
	}

	label := marker + labelStyle.Render(c.Label)
	if p.Editor != nil {
		if v, ok := p.Editor(c.ID); ok {
			return label + "\n  " + v
		}
	}

	var value string
	switch c.Kind {
	case render.ControlSlider:
		value = slider(c, width-4)
	case render.ControlSelect:
		value = "◀ " + c.Value + " ▶"
	case render.ControlRadio:
		opts := make([]string, len(c.Options))
		for i, o := range c.Options {
			if o == c.Value {
				opts[i] = "(•) " + o
			} else {
				opts[i] = "( ) " + o
			}
		}
		value = strings.Join(opts, "  ")
	case render.ControlFile:
		if c.Value == "" {
			value = "[ browse " + strings.Join(c.Accept, " ") + " ]"
		} else {
			value = "📄 " + c.Value
		}
	default:
		value = "[ " + c.Value + " ]"
	}
	return label + "\n  " + Styles.Value.Render(value)
}

func slider(c *render.Control, width int) string {
	v, _ := strconv.Atoi(c.Value)
	suffix := " " + c.Value
	barW := max(width-len(suffix), 10)
	span := max(c.Max-c.Min, 1)
	pos := (v - c.Min) * (barW - 1) / span
	pos = min(max(pos, 0), barW-1)
	return strings.Repeat("━", pos) + "●" + strings.Repeat("─", barW-pos-1) + suffix
}

// PaintTable draws t with bubbles/table, sized to its content.
func PaintTable(t *dataset.Table, width int) string {
	if t == nil || len(t.Columns) == 0 {
		return Styles.Muted.Render("(empty table)")
	}

	cols := make([]table.Column, len(t.Columns))
	budget := max(width/len(t.Columns)-2, 3)
	for i, name := range t.Columns {
		w := textutil.Width(name)
		for _, row := range t.Rows {
			w = max(w, textutil.Width(row[i]))
		}
		cols[i] = table.Column{Title: name, Width: min(w, maxCellWidth, budget)}
	}
	rows := make([]table.Row, len(t.Rows))
	for i, row := range t.Rows {
		cells := make(table.Row, len(row))
		for j, cell := range row {
			cells[j] = textutil.Truncate(cell, cols[j].Width)
		}
		rows[i] = cells
	}

	tbl := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(len(rows)+2),
		table.WithFocused(false),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	tbl.SetStyles(s)
	return tbl.View()
}

func chartMax(c *render.Chart) float64 {
	m := 0.0
	for _, s := range c.Series {
		for _, v := range s.Values {
			m = math.Max(m, v)
		}
	}
	if m <= 0 {
		return 1
	}
	return m
}

func seriesStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(SeriesColors[i%len(SeriesColors)]))
}

func legend(c *render.Chart) string {
	parts := make([]string, len(c.Series))
	for i, s := range c.Series {
		parts[i] = seriesStyle(i).Render("●") + " " + s.Name
	}
	return strings.Join(parts, "   ")
}

// PaintLineChart plots every series on a shared y axis starting at zero.
func PaintLineChart(c *render.Chart, width int) string {
	if c == nil || len(c.Categories) == 0 {
		return Styles.Muted.Render("(no data)")
	}
	maxV := chartMax(c)
	top := strconv.FormatFloat(maxV, 'f', 0, 64)
	labelW := max(textutil.Width(top), 1)
	n := len(c.Categories)
	step := max((width-labelW-2)/n, 3)
	plotW := step * n

	grid := make([][]string, lineChartRows)
	for r := range grid {
		grid[r] = make([]string, plotW)
		for x := range grid[r] {
			grid[r][x] = " "
		}
	}
	rowOf := func(v float64) int {
		r := lineChartRows - 1 - int(math.Round(v/maxV*float64(lineChartRows-1)))
		return min(max(r, 0), lineChartRows-1)
	}

	for si, s := range c.Series {
		st := seriesStyle(si)
		prevX, prevRow := -1, 0
		for i, v := range s.Values {
			if i >= n {
				break
			}
			x, row := i*step+step/2, rowOf(v)
			if prevX >= 0 {
				for xi := prevX + 1; xi < x; xi++ {
					frac := float64(xi-prevX) / float64(x-prevX)
					ri := int(math.Round(float64(prevRow) + frac*float64(row-prevRow)))
					if grid[ri][xi] == " " {
						grid[ri][xi] = st.Render("·")
					}
				}
			}
			grid[row][x] = st.Render("●")
			prevX, prevRow = x, row
		}
	}

	var b strings.Builder
	for r, cells := range grid {
		label := ""
		switch r {
		case 0:
			label = top
		case lineChartRows - 1:
			label = "0"
		}
		b.WriteString(Styles.Muted.Render(textutil.PadLeft(label, labelW)+" ┤") + strings.Join(cells, "") + "\n")
	}
	b.WriteString(Styles.Muted.Render(strings.Repeat(" ", labelW)+" └"+strings.Repeat("─", plotW)) + "\n")

	var labels strings.Builder
	labels.WriteString(strings.Repeat(" ", labelW+2))
	for _, cat := range c.Categories {
		labels.WriteString(centered(textutil.Truncate(cat, step), step))
	}
	b.WriteString(Styles.Muted.Render(labels.String()) + "\n")
	b.WriteString(legend(c))
	return b.String()
}

func centered(s string, width int) string {
	pad := width - textutil.Width(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// PaintBarChart draws grouped horizontal bars: one group per category,
// one bar per series.
func PaintBarChart(c *render.Chart, width int) string {
	if c == nil || len(c.Categories) == 0 {
		return Styles.Muted.Render("(no data)")
	}
	maxV := chartMax(c)
	catW := textutil.MaxWidth(c.Categories)
	names := make([]string, len(c.Series))
	for i, s := range c.Series {
		names[i] = s.Name
	}
	nameW := textutil.MaxWidth(names)
	numW := len(strconv.FormatFloat(maxV, 'f', 0, 64))
	barMax := max(width-catW-nameW-numW-4, 5)

	var lines []string
	for ci, cat := range c.Categories {
		for si, s := range c.Series {
			v := 0.0
			if ci < len(s.Values) {
				v = s.Values[ci]
			}
			n := int(v / maxV * float64(barMax))
			if v > 0 && n < 1 {
				n = 1
			}
			head := ""
			if si == 0 {
				head = cat
			}
			lines = append(lines, fmt.Sprintf("%s %s %s %s",
				textutil.PadRight(head, catW),
				Styles.Muted.Render(textutil.PadRight(s.Name, nameW)),
				seriesStyle(si).Render(strings.Repeat("█", n)),
				strconv.FormatFloat(v, 'f', 0, 64),
			))
		}
	}
	lines = append(lines, legend(c))
	return strings.Join(lines, "\n")
}
