// Package render builds the showcase page as a UI tree.
//
// Render is a pure function of the widget State and the sample table of the
// current pass. Hosts (terminal, HTTP) own the State, call Pass on every
// change, and paint the resulting Page. All four tabs are constructed on
// every pass; hosts show only Page.Active.
package render

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"showcase/internal/dataset"
)

// Options is the page chrome that does not depend on State.
type Options struct {
	Title       string
	Icon        string
	Layout      string
	Footer      string
	PreviewRows int
}

// DefaultOptions returns the stock page chrome.
func DefaultOptions() Options {
	return Options{
		Title:       "Widget Showcase",
		Icon:        "🚀",
		Layout:      "wide",
		Footer:      "Built with Go 🎈",
		PreviewRows: 5,
	}
}

// Pass runs one render pass: a fresh sample table is drawn from rng and the
// page is rendered from st.
func Pass(st State, rng *rand.Rand, opts Options) Page {
	return Render(st, dataset.Sample(rng), opts)
}

// Render produces the full page for st with sample as the data tab content.
func Render(st State, sample dataset.Table, opts Options) Page {
	st = st.Normalize()
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultOptions().PreviewRows
	}

	page := Page{
		Title:   opts.Title,
		Icon:    opts.Icon,
		Layout:  opts.Layout,
		Heading: fmt.Sprintf("%s Welcome to %s!", opts.Icon, opts.Title),
		Intro:   "This is a sample app demonstrating various dashboard features.",
		Sidebar: sidebar(st),
		Active:  st.ActiveTab,
		Footer:  []Node{Divider(), Caption(opts.Footer)},
	}
	for _, t := range Tabs {
		var body []Node
		switch t {
		case TabData:
			body = dataTab(sample)
		case TabWidgets:
			body = widgetsTab(st)
		case TabText:
			body = textTab()
		case TabUpload:
			body = uploadTab(st.Upload, opts.PreviewRows)
		}
		page.Tabs = append(page.Tabs, TabPanel{Tab: t, Name: t.String(), Label: t.Label(), Body: body})
	}
	return page
}

func sidebar(st State) []Node {
	return []Node{
		Header("Settings"),
		ControlNode(Control{ID: IDName, Kind: ControlText, Label: "Enter your name:", Value: st.Name}),
		Text(fmt.Sprintf("Hello, %s!", st.Name)),
	}
}

func dataTab(sample dataset.Table) []Node {
	chart := SampleChart(sample)
	return []Node{
		Header("Data Visualization"),
		Columns(
			[]Node{Subheader("Sample Data"), TableNode(sample)},
			[]Node{Subheader("Line Chart"), LineChart(chart)},
		),
		Subheader("Interactive Bar Chart"),
		BarChart(chart),
	}
}

// SampleChart turns the sample table into Sales and Expenses series indexed
// by month. A missing or non-numeric column plots as zeros.
func SampleChart(t dataset.Table) Chart {
	c := Chart{Categories: t.Column(dataset.ColMonth)}
	for _, col := range []string{dataset.ColSales, dataset.ColExpenses} {
		values, err := t.Floats(col)
		if err != nil {
			values = make([]float64, len(c.Categories))
		}
		c.Series = append(c.Series, Series{Name: col, Values: values})
	}
	return c
}

func widgetsTab(st State) []Node {
	left := []Node{
		ControlNode(Control{ID: IDAge, Kind: ControlSlider, Label: "Select your age:",
			Value: strconv.Itoa(st.Age), Min: AgeMin, Max: AgeMax}),
		Text(fmt.Sprintf("You selected: %d", st.Age)),
		ControlNode(Control{ID: IDColor, Kind: ControlSelect, Label: "Choose your favorite color:",
			Value: st.Color, Options: Colors}),
		Text(fmt.Sprintf("Your favorite color is: %s", st.Color)),
		ControlNode(Control{ID: IDAgree, Kind: ControlCheckbox, Label: "I agree to the terms",
			Value: strconv.FormatBool(st.Agree)}),
	}
	if st.Agree {
		left = append(left, Banner(SeveritySuccess, "Thank you for agreeing!"))
	}

	date := ""
	if !st.Date.IsZero() {
		date = st.Date.Format(DateLayout)
	}
	right := []Node{
		ControlNode(Control{ID: IDGenre, Kind: ControlRadio, Label: "Select your favorite genre:",
			Value: st.Genre, Options: Genres}),
		Text(fmt.Sprintf("You selected: %s", st.Genre)),
		ControlNode(Control{ID: IDDate, Kind: ControlDate, Label: "Select a date:", Value: date}),
		Text(fmt.Sprintf("Selected date: %s", date)),
		ControlNode(Control{ID: IDNumber, Kind: ControlNumber, Label: "Enter a number:",
			Value: strconv.Itoa(st.Number), Min: NumberMin, Max: NumberMax}),
		Text(fmt.Sprintf("You entered: %d", st.Number)),
	}

	return []Node{
		Header("Interactive Widgets"),
		Columns(left, right),
	}
}

func textTab() []Node {
	return []Node{
		Header("Text and Formatting"),
		Subheader("This is a subheader"),
		Text("This is regular text using a text element"),
		Markdown("**Bold text** and *italic text* with markdown"),
		Code("print('Hello, Streamlit!')", "python"),
		Banner(SeverityInfo, "This is an info message"),
		Banner(SeveritySuccess, "This is a success message"),
		Banner(SeverityWarning, "This is a warning message"),
		Banner(SeverityError, "This is an error message"),
	}
}

func uploadTab(up *Upload, previewRows int) []Node {
	nodes := []Node{
		Header("File Upload Example"),
		ControlNode(Control{ID: IDFile, Kind: ControlFile, Label: "Choose a CSV file",
			Value: uploadName(up), Accept: []string{".csv", ".xlsx"}}),
	}
	if up == nil {
		return nodes
	}
	if !up.Result.OK() {
		return append(nodes, Banner(SeverityError,
			fmt.Sprintf("Could not read %s: %v", up.Filename, up.Result.Err)))
	}
	rows, cols := up.Result.Table.Shape()
	return append(nodes,
		Text("File uploaded successfully!"),
		TableNode(up.Result.Table.Head(previewRows)),
		Text(ShapeText(rows, cols)),
	)
}

// ShapeText formats a table shape the way the upload tab reports it.
func ShapeText(rows, cols int) string {
	return fmt.Sprintf("Shape: %d rows, %d columns", rows, cols)
}

func uploadName(up *Upload) string {
	if up == nil {
		return ""
	}
	return up.Filename
}
