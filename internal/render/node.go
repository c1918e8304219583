package render

import "showcase/internal/dataset"

// Kind discriminates Node variants.
type Kind string

const (
	KindHeader    Kind = "header"
	KindSubheader Kind = "subheader"
	KindText      Kind = "text"
	KindMarkdown  Kind = "markdown"
	KindCode      Kind = "code"
	KindBanner    Kind = "banner"
	KindTable     Kind = "table"
	KindLineChart Kind = "line_chart"
	KindBarChart  Kind = "bar_chart"
	KindColumns   Kind = "columns"
	KindControl   Kind = "control"
	KindDivider   Kind = "divider"
	KindCaption   Kind = "caption"
)

// Severity of a Banner.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ControlKind is the type of input a Control describes.
type ControlKind string

const (
	ControlText     ControlKind = "text"
	ControlSlider   ControlKind = "slider"
	ControlSelect   ControlKind = "select"
	ControlCheckbox ControlKind = "checkbox"
	ControlRadio    ControlKind = "radio"
	ControlDate     ControlKind = "date"
	ControlNumber   ControlKind = "number"
	ControlFile     ControlKind = "file"
)

// Control IDs. They double as HTML form field names and focus targets.
const (
	IDName   = "name"
	IDAge    = "age"
	IDColor  = "color"
	IDAgree  = "agree"
	IDGenre  = "genre"
	IDDate   = "date"
	IDNumber = "number"
	IDFile   = "file"
)

// Control describes an interactive input and its current value.
type Control struct {
	ID      string      `json:"id"`
	Kind    ControlKind `json:"kind"`
	Label   string      `json:"label"`
	Value   string      `json:"value"`
	Options []string    `json:"options,omitempty"`
	Min     int         `json:"min,omitempty"`
	Max     int         `json:"max,omitempty"`
	Accept  []string    `json:"accept,omitempty"`
}

// Series is one named line or bar group of a chart.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Chart is a categorical chart: one value per category per series.
type Chart struct {
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
}

// Node is one element of the UI tree. Only the fields relevant to Kind are set.
type Node struct {
	Kind     Kind           `json:"kind"`
	Text     string         `json:"text,omitempty"`
	Language string         `json:"language,omitempty"`
	Severity Severity       `json:"severity,omitempty"`
	Table    *dataset.Table `json:"table,omitempty"`
	Chart    *Chart         `json:"chart,omitempty"`
	Control  *Control       `json:"control,omitempty"`
	Left     []Node         `json:"left,omitempty"`
	Right    []Node         `json:"right,omitempty"`
}

// TabPanel is the content of one tab.
type TabPanel struct {
	Tab   Tab    `json:"tab"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Body  []Node `json:"body"`
}

// Page is the complete output of a render pass.
type Page struct {
	Title   string     `json:"title"`
	Icon    string     `json:"icon"`
	Layout  string     `json:"layout"`
	Heading string     `json:"heading"`
	Intro   string     `json:"intro"`
	Sidebar []Node     `json:"sidebar"`
	Tabs    []TabPanel `json:"tabs"`
	Active  Tab        `json:"active"`
	Footer  []Node     `json:"footer"`
}

// Panel returns the panel for t.
func (p Page) Panel(t Tab) (TabPanel, bool) {
	for _, tp := range p.Tabs {
		if tp.Tab == t {
			return tp, true
		}
	}
	return TabPanel{}, false
}

// ActivePanel returns the panel of the active tab.
func (p Page) ActivePanel() TabPanel {
	tp, _ := p.Panel(p.Active)
	return tp
}

func Header(s string) Node    { return Node{Kind: KindHeader, Text: s} }
func Subheader(s string) Node { return Node{Kind: KindSubheader, Text: s} }
func Text(s string) Node      { return Node{Kind: KindText, Text: s} }
func Markdown(s string) Node  { return Node{Kind: KindMarkdown, Text: s} }
func Caption(s string) Node   { return Node{Kind: KindCaption, Text: s} }
func Divider() Node           { return Node{Kind: KindDivider} }

func Code(src, language string) Node {
	return Node{Kind: KindCode, Text: src, Language: language}
}

func Banner(sev Severity, s string) Node {
	return Node{Kind: KindBanner, Severity: sev, Text: s}
}

func TableNode(t dataset.Table) Node {
	return Node{Kind: KindTable, Table: &t}
}

func LineChart(c Chart) Node { return Node{Kind: KindLineChart, Chart: &c} }
func BarChart(c Chart) Node  { return Node{Kind: KindBarChart, Chart: &c} }

func Columns(left, right []Node) Node {
	return Node{Kind: KindColumns, Left: left, Right: right}
}

func ControlNode(c Control) Node {
	return Node{Kind: KindControl, Control: &c}
}

// Walk calls fn for every node in nodes, descending into columns.
func Walk(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		if n.Kind == KindColumns {
			Walk(n.Left, fn)
			Walk(n.Right, fn)
		}
	}
}
