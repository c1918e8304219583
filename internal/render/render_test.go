package render

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showcase/internal/dataset"
)

var today = time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)

func texts(nodes []Node) []string {
	var out []string
	Walk(nodes, func(n Node) {
		if n.Text != "" {
			out = append(out, n.Text)
		}
	})
	return out
}

func hasText(nodes []Node, want string) bool {
	for _, s := range texts(nodes) {
		if strings.Contains(s, want) {
			return true
		}
	}
	return false
}

func countKind(nodes []Node, k Kind) int {
	n := 0
	Walk(nodes, func(node Node) {
		if node.Kind == k {
			n++
		}
	})
	return n
}

func panel(t *testing.T, p Page, tab Tab) TabPanel {
	t.Helper()
	tp, ok := p.Panel(tab)
	require.True(t, ok, "missing panel %s", tab)
	return tp
}

func TestRender_AllTabsConstructed(t *testing.T) {
	st := DefaultState(today)
	st.ActiveTab = TabText
	p := Pass(st, dataset.NewRand(1), DefaultOptions())

	require.Len(t, p.Tabs, 4)
	for i, tab := range Tabs {
		assert.Equal(t, tab, p.Tabs[i].Tab)
		assert.NotEmpty(t, p.Tabs[i].Body)
	}
	assert.Equal(t, TabText, p.Active)
	assert.Equal(t, TabText, p.ActivePanel().Tab)
}

func TestRender_PageChrome(t *testing.T) {
	p := Pass(DefaultState(today), dataset.NewRand(1), DefaultOptions())
	assert.Equal(t, "Widget Showcase", p.Title)
	assert.Equal(t, "wide", p.Layout)
	assert.Equal(t, "🚀 Welcome to Widget Showcase!", p.Heading)
	require.Len(t, p.Footer, 2)
	assert.Equal(t, KindDivider, p.Footer[0].Kind)
	assert.Equal(t, KindCaption, p.Footer[1].Kind)
}

func TestRender_SidebarGreeting(t *testing.T) {
	for _, name := range []string{"Ada", "", "  spaced  "} {
		st := DefaultState(today)
		st.Name = name
		p := Pass(st, dataset.NewRand(1), DefaultOptions())
		assert.Contains(t, texts(p.Sidebar), "Hello, "+name+"!")
	}
}

func TestRender_DataTabUsesSample(t *testing.T) {
	sample := dataset.Sample(dataset.NewRand(9))
	p := Render(DefaultState(today), sample, DefaultOptions())
	body := panel(t, p, TabData).Body

	assert.Equal(t, 1, countKind(body, KindTable))
	assert.Equal(t, 1, countKind(body, KindLineChart))
	assert.Equal(t, 1, countKind(body, KindBarChart))

	var chart *Chart
	Walk(body, func(n Node) {
		if n.Kind == KindBarChart {
			chart = n.Chart
		}
	})
	require.NotNil(t, chart)
	assert.Equal(t, dataset.Months, chart.Categories)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, "Sales", chart.Series[0].Name)

	sales, err := sample.Floats("Sales")
	require.NoError(t, err)
	assert.Equal(t, sales, chart.Series[0].Values)
}

func TestSampleChart_NonNumericColumnPlotsZeros(t *testing.T) {
	tbl := dataset.Table{
		Columns: []string{dataset.ColMonth, dataset.ColSales},
		Rows:    [][]string{{"Jan", "120"}, {"Feb", "n/a"}},
	}
	c := SampleChart(tbl)

	require.Len(t, c.Series, 2)
	assert.Equal(t, []float64{0, 0}, c.Series[0].Values, "unparseable Sales")
	assert.Equal(t, []float64{0, 0}, c.Series[1].Values, "missing Expenses")
}

func TestRender_SliderEcho(t *testing.T) {
	for v := AgeMin; v <= AgeMax; v++ {
		st := DefaultState(today)
		st.Age = v
		p := Pass(st, dataset.NewRand(1), DefaultOptions())
		body := panel(t, p, TabWidgets).Body
		if !hasText(body, "You selected: "+strconv.Itoa(v)) {
			t.Fatalf("age %d not echoed", v)
		}
	}
}

func TestRender_CheckboxRevealsSuccess(t *testing.T) {
	st := DefaultState(today)
	p := Pass(st, dataset.NewRand(1), DefaultOptions())
	assert.False(t, hasText(panel(t, p, TabWidgets).Body, "Thank you for agreeing!"))

	st.Agree = true
	p = Pass(st, dataset.NewRand(1), DefaultOptions())
	body := panel(t, p, TabWidgets).Body
	assert.True(t, hasText(body, "Thank you for agreeing!"))

	st.Agree = false
	p = Pass(st, dataset.NewRand(1), DefaultOptions())
	assert.False(t, hasText(panel(t, p, TabWidgets).Body, "Thank you for agreeing!"))
}

func TestRender_WidgetEchoes(t *testing.T) {
	st := DefaultState(today)
	st.Color = "Blue"
	st.Genre = "Sci-Fi"
	st.Number = 77
	body := panel(t, Pass(st, dataset.NewRand(1), DefaultOptions()), TabWidgets).Body

	assert.True(t, hasText(body, "Your favorite color is: Blue"))
	assert.True(t, hasText(body, "You selected: Sci-Fi"))
	assert.True(t, hasText(body, "Selected date: 2026-10-19"))
	assert.True(t, hasText(body, "You entered: 77"))
}

func TestRender_NormalizesOutOfRange(t *testing.T) {
	st := DefaultState(today)
	st.Age = 140
	st.Number = -3
	st.Color = "Purple"
	body := panel(t, Pass(st, dataset.NewRand(1), DefaultOptions()), TabWidgets).Body

	assert.True(t, hasText(body, "You selected: 100"))
	assert.True(t, hasText(body, "You entered: 0"))
	assert.True(t, hasText(body, "Your favorite color is: Red"))
}

func TestRender_TextTabBanners(t *testing.T) {
	body := panel(t, Pass(DefaultState(today), dataset.NewRand(1), DefaultOptions()), TabText).Body

	var sev []Severity
	Walk(body, func(n Node) {
		if n.Kind == KindBanner {
			sev = append(sev, n.Severity)
		}
	})
	assert.Equal(t, []Severity{SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError}, sev)
	assert.Equal(t, 1, countKind(body, KindCode))
	assert.Equal(t, 1, countKind(body, KindMarkdown))
}

func TestRender_UploadAbsent(t *testing.T) {
	body := panel(t, Pass(DefaultState(today), dataset.NewRand(1), DefaultOptions()), TabUpload).Body
	assert.Equal(t, 0, countKind(body, KindTable))
	assert.False(t, hasText(body, "Shape:"))
	assert.Equal(t, 1, countKind(body, KindControl))
}

func TestRender_UploadShape(t *testing.T) {
	st := DefaultState(today)
	st.Upload = &Upload{
		Filename: "ab.csv",
		Result:   dataset.ParseCSV(strings.NewReader("a,b\n1,2\n")),
	}
	body := panel(t, Pass(st, dataset.NewRand(1), DefaultOptions()), TabUpload).Body

	assert.True(t, hasText(body, "File uploaded successfully!"))
	assert.Contains(t, texts(body), "Shape: 1 rows, 2 columns")
	assert.Equal(t, 1, countKind(body, KindTable))
}

func TestRender_UploadPreviewLimitedToFiveRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("n,sq,cube\n")
	for i := 0; i < 12; i++ {
		b.WriteString(strconv.Itoa(i) + "," + strconv.Itoa(i*i) + "," + strconv.Itoa(i*i*i) + "\n")
	}
	st := DefaultState(today)
	st.Upload = &Upload{Filename: "n.csv", Result: dataset.ParseCSV(strings.NewReader(b.String()))}
	body := panel(t, Pass(st, dataset.NewRand(1), DefaultOptions()), TabUpload).Body

	var preview *dataset.Table
	Walk(body, func(n Node) {
		if n.Kind == KindTable {
			preview = n.Table
		}
	})
	require.NotNil(t, preview)
	rows, cols := preview.Shape()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 3, cols)
	assert.Contains(t, texts(body), "Shape: 12 rows, 3 columns")
}

func TestRender_UploadFailureIsBanner(t *testing.T) {
	st := DefaultState(today)
	st.Upload = &Upload{
		Filename: "bad.csv",
		Result:   dataset.ParseResult{Err: errors.New("boom")},
	}
	body := panel(t, Pass(st, dataset.NewRand(1), DefaultOptions()), TabUpload).Body

	assert.Equal(t, 0, countKind(body, KindTable))
	assert.False(t, hasText(body, "Shape:"))
	assert.True(t, hasText(body, "Could not read bad.csv: boom"))
}

func TestParseTab(t *testing.T) {
	for _, tab := range Tabs {
		got, ok := ParseTab(tab.String())
		assert.True(t, ok)
		assert.Equal(t, tab, got)
	}
	_, ok := ParseTab("nope")
	assert.False(t, ok)
}

func TestTab_JSONUsesNames(t *testing.T) {
	b, err := json.Marshal(struct {
		Tab Tab `json:"tab"`
	}{TabUpload})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tab":"upload"}`, string(b))

	var st State
	require.NoError(t, json.Unmarshal([]byte(`{"active_tab":"widgets"}`), &st))
	assert.Equal(t, TabWidgets, st.ActiveTab)

	assert.Error(t, json.Unmarshal([]byte(`{"active_tab":"settings"}`), &st))
}

func TestCycleOption(t *testing.T) {
	assert.Equal(t, "Green", CycleOption(Colors, "Red", 1))
	assert.Equal(t, "Yellow", CycleOption(Colors, "Red", -1))
	assert.Equal(t, "Red", CycleOption(Colors, "Yellow", 1))
	assert.Equal(t, "Green", CycleOption(Colors, "bogus", 1))
}
