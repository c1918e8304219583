package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"showcase/internal/render"
	"showcase/internal/session"
	"showcase/internal/telemetry"
)

var testToday = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, maxUpload int64) (*Server, *telemetry.Metrics) {
	t.Helper()
	metrics := telemetry.NewMetrics()
	srv, err := New(Options{
		Runner: &session.Runner{
			Host:           "web",
			Seed:           11,
			MaxUploadBytes: maxUpload,
			Metrics:        metrics,
		},
		Now: func() time.Time { return testToday },
	})
	require.NoError(t, err)
	return srv, metrics
}

func do(t *testing.T, srv *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func uploadCount(m *telemetry.Metrics, format, outcome string) float64 {
	return testutil.ToFloat64(m.Uploads.WithLabelValues(format, outcome))
}

func activePanel(doc *goquery.Document) *goquery.Selection {
	return doc.Find("section.panel").FilterFunction(func(_ int, s *goquery.Selection) bool {
		_, hidden := s.Attr("hidden")
		return !hidden
	})
}

// uploadRequest posts a multipart form with an optional file.
func uploadRequest(t *testing.T, fields map[string]string, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile(render.IDFile, filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestPage_Defaults(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	doc := document(t, do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Contains(t, doc.Find("h1").Text(), "Welcome to Widget Showcase!")
	assert.Contains(t, doc.Find("title").Text(), "Widget Showcase")
	assert.Contains(t, doc.Find("aside.sidebar").Text(), "Hello, User!")
	assert.Equal(t, 4, doc.Find("section.panel").Length(), "all four tab panels are built")
	assert.Equal(t, 4, doc.Find("nav.tabs button").Length())

	active := activePanel(doc)
	require.Equal(t, 1, active.Length())
	assert.Equal(t, "data", active.AttrOr("data-tab", ""))
	assert.Equal(t, 6, active.Find("table.dataframe tbody tr").Length(), "sample has six months")
	assert.Equal(t, 2, active.Find("figure.chart svg").Length(), "line and bar charts are inlined")
	assert.Contains(t, doc.Find("p.caption").Text(), "Built with Go")
}

func TestPage_WidgetsFromQuery(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	q := url.Values{
		"tab":    {"widgets"},
		"age":    {"42"},
		"color":  {"Blue"},
		"agree":  {"on"},
		"genre":  {"Sci-Fi"},
		"date":   {"2024-02-29"},
		"number": {"7"},
	}
	doc := document(t, do(t, srv, httptest.NewRequest(http.MethodGet, "/?"+q.Encode(), nil)))

	panel := activePanel(doc)
	assert.Equal(t, "widgets", panel.AttrOr("data-tab", ""))
	text := panel.Text()
	for _, want := range []string{
		"You selected: 42",
		"Your favorite color is: Blue",
		"You selected: Sci-Fi",
		"Selected date: 2024-02-29",
		"You entered: 7",
	} {
		assert.Contains(t, text, want)
	}
	assert.Equal(t, "Thank you for agreeing!", strings.TrimSpace(panel.Find(".banner-success").Text()))
	assert.Equal(t, "Blue", panel.Find("select#color option[selected]").Text())
	_, checked := panel.Find("input#agree").Attr("checked")
	assert.True(t, checked)
}

func TestPage_CheckboxUncheckedHasNoBanner(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	doc := document(t, do(t, srv, httptest.NewRequest(http.MethodGet, "/?tab=widgets", nil)))
	assert.Zero(t, activePanel(doc).Find(".banner-success").Length())
}

func TestPage_TabButtonWinsOverActive(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	req := uploadRequest(t, map[string]string{"active": "widgets", "tab": "text"}, "", "")
	doc := document(t, do(t, srv, req))

	panel := activePanel(doc)
	assert.Equal(t, "text", panel.AttrOr("data-tab", ""))
	assert.Equal(t, 4, panel.Find(".banner").Length())
	assert.Contains(t, panel.Find(".code").Text(), "print(")
	assert.NotZero(t, panel.Find(".markdown strong, .markdown em").Length(), "markdown is converted")
}

func TestPage_UploadCSV(t *testing.T) {
	srv, metrics := newTestServer(t, 0)
	req := uploadRequest(t, map[string]string{"name": "Ada"}, "data.csv", "a,b\n1,2\n")
	doc := document(t, do(t, srv, req))

	panel := activePanel(doc)
	assert.Equal(t, "upload", panel.AttrOr("data-tab", ""))
	assert.Contains(t, panel.Text(), "File uploaded successfully!")
	assert.Contains(t, panel.Text(), "Shape: 1 rows, 2 columns")
	assert.Equal(t, "ab", panel.Find("table.dataframe th").Text())
	assert.Contains(t, doc.Find("aside.sidebar").Text(), "Hello, Ada!")

	assert.Equal(t, 1.0, uploadCount(metrics, "csv", telemetry.OutcomeOK))
}

func TestPage_UploadPreviewIsCapped(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	var csv strings.Builder
	csv.WriteString("n\n")
	for i := range 12 {
		csv.WriteString(strings.Repeat("x", i+1) + "\n")
	}
	doc := document(t, do(t, srv, uploadRequest(t, nil, "many.csv", csv.String())))

	panel := activePanel(doc)
	assert.Equal(t, 5, panel.Find("table.dataframe tbody tr").Length())
	assert.Contains(t, panel.Text(), "Shape: 12 rows, 1 columns")
}

func TestPage_MalformedCSVShowsError(t *testing.T) {
	srv, metrics := newTestServer(t, 0)
	doc := document(t, do(t, srv, uploadRequest(t, nil, "bad.csv", "a,b\n1,2,3\n")))

	panel := activePanel(doc)
	assert.Contains(t, panel.Find(".banner-error").Text(), "Could not read bad.csv")
	assert.NotContains(t, panel.Text(), "Shape:")
	assert.Equal(t, 1.0, uploadCount(metrics, "csv", telemetry.OutcomeFailed))
}

func TestPage_UploadOverLimit(t *testing.T) {
	srv, _ := newTestServer(t, 16)
	doc := document(t, do(t, srv, uploadRequest(t, nil, "big.csv", "a\n"+strings.Repeat("1\n", 50))))

	assert.Contains(t, activePanel(doc).Find(".banner-error").Text(), "exceeds upload limit")
}

func sessionCookieOf(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", sessionCookie)
	return nil
}

func TestPage_UploadSurvivesLaterSubmits(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	first := do(t, srv, uploadRequest(t, nil, "data.csv", "a,b\n1,2\n"))
	cookie := sessionCookieOf(t, first)

	req := uploadRequest(t, map[string]string{"active": "widgets", "tab": "upload", "age": "40"}, "", "")
	req.AddCookie(cookie)
	rec := do(t, srv, req)
	assert.Empty(t, rec.Result().Cookies(), "known session is reused")

	panel := activePanel(document(t, rec))
	assert.Contains(t, panel.Text(), "Shape: 1 rows, 2 columns")
	assert.Equal(t, "data.csv", panel.Find(".upload-name").Text())
}

func TestPage_ClearUpload(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	cookie := sessionCookieOf(t, do(t, srv, uploadRequest(t, nil, "data.csv", "a,b\n1,2\n")))

	req := uploadRequest(t, map[string]string{fieldClearUpload: "1"}, "", "")
	req.AddCookie(cookie)
	panel := activePanel(document(t, do(t, srv, req)))
	assert.Equal(t, "upload", panel.AttrOr("data-tab", ""))
	assert.NotContains(t, panel.Text(), "Shape:")

	get := httptest.NewRequest(http.MethodGet, "/?tab=upload", nil)
	get.AddCookie(cookie)
	assert.NotContains(t, activePanel(document(t, do(t, srv, get))).Text(), "Shape:")
}

func TestPage_UploadIsPerSession(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	do(t, srv, uploadRequest(t, nil, "data.csv", "a,b\n1,2\n"))

	other := httptest.NewRequest(http.MethodGet, "/?tab=upload", nil)
	other.AddCookie(&http.Cookie{Name: sessionCookie, Value: "stale-id"})
	rec := do(t, srv, other)
	assert.NotEqual(t, "stale-id", sessionCookieOf(t, rec).Value, "unknown session gets a new id")
	assert.NotContains(t, activePanel(document(t, rec)).Text(), "Shape:")
}

func TestSessionStore_EvictsOldest(t *testing.T) {
	store, err := newSessionStore(2)
	require.NoError(t, err)
	var ids []string
	for range 3 {
		rec := httptest.NewRecorder()
		ids = append(ids, store.lookup(rec, httptest.NewRequest(http.MethodGet, "/", nil), testToday).ID)
	}
	assert.Equal(t, 2, store.cache.Len())
	assert.False(t, store.cache.Contains(ids[0]))
	assert.True(t, store.cache.Contains(ids[2]))
}

func TestPage_NoUploadHasNoShape(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	doc := document(t, do(t, srv, httptest.NewRequest(http.MethodGet, "/?tab=upload", nil)))

	panel := activePanel(doc)
	assert.Zero(t, panel.Find("table").Length())
	assert.NotContains(t, panel.Text(), "Shape:")
	assert.Equal(t, ".csv,.xlsx", panel.Find("input#file").AttrOr("accept", ""))
}

func TestFormState(t *testing.T) {
	st := FormState(url.Values{}, testToday)
	assert.Equal(t, render.DefaultName, st.Name)
	assert.Equal(t, "2026-10-19", st.Date.Format(render.DateLayout))

	st = FormState(url.Values{"name": {""}}, testToday)
	assert.Equal(t, "", st.Name, "present empty name is kept")

	st = FormState(url.Values{"age": {"500"}, "number": {"-3"}, "color": {"Purple"}, "date": {"soon"}}, testToday)
	assert.Equal(t, render.AgeMax, st.Age)
	assert.Equal(t, render.NumberMin, st.Number)
	assert.Equal(t, render.Colors[0], st.Color)
	assert.Equal(t, "2026-10-19", st.Date.Format(render.DateLayout))

	st = FormState(url.Values{"active": {"text"}}, testToday)
	assert.Equal(t, render.TabText, st.ActiveTab)
}

func TestAPIRender(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	body := `{"name":"Ada","age":30,"agree":true,"date":"2024-02-29","active_tab":"widgets"}`
	rec := do(t, srv, httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var page render.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, render.TabWidgets, page.Active)
	assert.Equal(t, "Hello, Ada!", page.Sidebar[2].Text)

	var texts []string
	render.Walk(page.ActivePanel().Body, func(n render.Node) { texts = append(texts, n.Text) })
	joined := strings.Join(texts, "\n")
	assert.Contains(t, joined, "You selected: 30")
	assert.Contains(t, joined, "Selected date: 2024-02-29")
	assert.Contains(t, joined, "Thank you for agreeing!")
}

func TestAPIRender_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	for name, body := range map[string]string{
		"invalid json":  `{`,
		"unknown field": `{"shoe_size":9}`,
		"bad date":      `{"date":"29/02/2024"}`,
		"bad tab":       `{"active_tab":"settings"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, srv, httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestExport(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/export.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "showcase-sample.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sample")
	require.NoError(t, err)
	assert.Len(t, rows, 7)
	assert.Equal(t, []string{"Month", "Sales", "Expenses"}, rows[0])
}

func TestCharts(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	for _, kind := range []string{"line", "bar"} {
		rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/charts/"+kind+".svg", nil))
		require.Equal(t, http.StatusOK, rec.Code, kind)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "<svg")
	}
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/charts/pie.svg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartsRejectEmptyData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, LineChartSVG(&buf, render.Chart{}), errNoData)
	assert.ErrorIs(t, BarChartSVG(&buf, render.Chart{}), errNoData)
}

func TestHealthzAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	do(t, srv, httptest.NewRequest(http.MethodGet, "/?tab=text", nil))
	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `showcase_render_passes_total{host="web",tab="text"} 1`)
	assert.Contains(t, rec.Body.String(), "showcase_render_duration_seconds")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
