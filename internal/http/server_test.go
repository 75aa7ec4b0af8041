package http

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"splitcalc/internal/app"
	"splitcalc/internal/core"
	"splitcalc/internal/records"
	"splitcalc/internal/slots"
	"splitcalc/internal/slots/memory"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := records.NewStore(memory.New(slots.DefaultName))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	clock := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
	ctrl := app.NewController(store, app.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	s := NewServer("127.0.0.1:0", ctrl, Options{})
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: bad json %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

func stateOf(t *testing.T, env envelope) StateView {
	t.Helper()
	var v StateView
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return v
}

// calculate fills the default ledger and stores one record.
func calculate(t *testing.T, s *Server, water, power string) StateView {
	t.Helper()
	do(t, s, http.MethodPut, "/api/ledger/categories/1", `{"amount":`+water+`}`)
	do(t, s, http.MethodPut, "/api/ledger/categories/2", `{"amount":"`+power+`"}`)
	do(t, s, http.MethodPut, "/api/split/people", `{"people":2}`)
	rec, env := do(t, s, http.MethodPost, "/api/calculate", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("calculate status = %d, body %s", rec.Code, rec.Body.String())
	}
	return stateOf(t, env)
}

func TestIndexRendersState(t *testing.T) {
	s := newTestServer(t)
	rec, _ := do(t, s, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Split Calculator", "Water Bill", "Electricity Bill", "No saved calculations yet."} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("security headers not applied")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Errorf("request id not set")
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec, _ := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t)
	rec, _ := do(t, s, http.MethodGet, "/static/app.css", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestCalculateEqualSplit(t *testing.T) {
	s := newTestServer(t)
	st := calculate(t, s, "30", "20")

	if st.Total != 50 {
		t.Errorf("total = %v", st.Total)
	}
	want := "Total Expense: 50.00 USD, Each Person Pays: 25.00 USD"
	if st.Result != want {
		t.Errorf("result = %q, want %q", st.Result, want)
	}
	if st.Outcome == nil || st.Outcome.Mode != core.Simple {
		t.Errorf("outcome = %+v", st.Outcome)
	}
	if len(st.Records) != 1 || st.Records[0].Total != 50 {
		t.Fatalf("records = %+v", st.Records)
	}

	rec, _ := do(t, s, http.MethodGet, "/api/state", "")
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("api responses should not be cached")
	}
}

func TestCalculateRejectsInvalidSplit(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPut, "/api/ledger/categories/1", `{"amount":"10"}`)

	rec, env := do(t, s, http.MethodPost, "/api/calculate", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Success || env.Error == nil || env.Error.Code != CodeInvalidSplit {
		t.Fatalf("envelope = %+v", env)
	}
	if env.Error.Message != "Please enter a valid number of people (greater than 0)" {
		t.Errorf("message = %q", env.Error.Message)
	}
	if st := stateOf(t, env); len(st.Records) != 0 {
		t.Errorf("invalid split must not be recorded")
	}
}

func TestAdvancedSplitFlow(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPut, "/api/ledger/categories/1", `{"amount":100}`)
	do(t, s, http.MethodPut, "/api/split/people", `{"people":"2"}`)

	_, env := do(t, s, http.MethodPut, "/api/split/advanced", "")
	st := stateOf(t, env)
	if !st.Advanced || len(st.Percentages) != 2 || st.PercentageSum != 100 {
		t.Fatalf("toggle advanced: %+v", st)
	}

	_, env = do(t, s, http.MethodPut, "/api/split/percentages/0", `{"value":"70"}`)
	if st = stateOf(t, env); st.PercentageSum != 120 {
		t.Fatalf("sum = %v", st.PercentageSum)
	}
	rec, env := do(t, s, http.MethodPost, "/api/calculate", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("mismatch accepted: %d", rec.Code)
	}
	if !strings.Contains(env.Error.Message, "Current total: 120.00%") {
		t.Errorf("message = %q", env.Error.Message)
	}

	do(t, s, http.MethodPut, "/api/split/percentages/1", `{"value":30}`)
	rec, env = do(t, s, http.MethodPost, "/api/calculate", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := stateOf(t, env).Result; got != "Person 1: 70.00 USD | Person 2: 30.00 USD" {
		t.Errorf("result = %q", got)
	}

	_, env = do(t, s, http.MethodPut, "/api/split/advanced", `{"advanced":false}`)
	if stateOf(t, env).Advanced {
		t.Errorf("explicit advanced=false ignored")
	}
}

func TestLedgerEndpoints(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodPost, "/api/ledger/categories", `{"name":"Gas Bill"}`)
	st := stateOf(t, env)
	if len(st.Items) != 4 || st.Items[3].Category != "Gas Bill" {
		t.Fatalf("items = %+v", st.Items)
	}

	_, env = do(t, s, http.MethodDelete, "/api/ledger/categories/1", "")
	if st = stateOf(t, env); len(st.Items) != 3 || st.Items[0].Category != "Electricity Bill" {
		t.Fatalf("remove: %+v", st.Items)
	}

	_, env = do(t, s, http.MethodPost, "/api/ledger/reset", "")
	if st = stateOf(t, env); len(st.Items) != 3 || st.Items[0].Category != "Water Bill" {
		t.Fatalf("reset: %+v", st.Items)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"bad category id", http.MethodPut, "/api/ledger/categories/abc", `{"amount":1}`},
		{"malformed body", http.MethodPost, "/api/ledger/categories", `{"name":`},
		{"bad percentage index", http.MethodPut, "/api/split/percentages/x", `{"value":1}`},
		{"bad record id", http.MethodDelete, "/api/records/x", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, s, tt.method, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != CodeBadRequest {
				t.Fatalf("got %d %+v", rec.Code, env.Error)
			}
		})
	}
}

func TestRecordsAndComparison(t *testing.T) {
	s := newTestServer(t)
	first := calculate(t, s, "30", "20").Records[0]
	second := calculate(t, s, "10", "40").Records[1]

	rec, _ := do(t, s, http.MethodPost, "/api/records/12345/load", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown record load = %d", rec.Code)
	}

	_, env := do(t, s, http.MethodPost, fmt.Sprintf("/api/records/%d/load", first.ID), "")
	if st := stateOf(t, env); st.Items[0].Amount != 30 || st.People != 2 {
		t.Fatalf("load: %+v", st)
	}

	for _, id := range []int64{first.ID, second.ID} {
		do(t, s, http.MethodPut, fmt.Sprintf("/api/selection/%d", id), `{"selected":true}`)
	}

	_, env = do(t, s, http.MethodGet, "/api/comparison", "")
	var cmp core.Comparison
	if err := json.Unmarshal(env.Data, &cmp); err != nil {
		t.Fatal(err)
	}
	if len(cmp.Rows) != 2 || len(cmp.Categories) != 3 {
		t.Fatalf("comparison = %+v", cmp)
	}
	if cmp.Rows[0].Amounts[0] != 30 || cmp.Rows[1].Amounts[0] != 10 {
		t.Errorf("rows not aligned: %+v", cmp.Rows)
	}

	rec, _ = do(t, s, http.MethodGet, "/api/comparison.csv", "")
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "splitcalc-comparison-") {
		t.Errorf("disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	if !strings.Contains(rec.Body.String(), "Water Bill,30.00,10.00") {
		t.Errorf("csv = %q", rec.Body.String())
	}

	rec, _ = do(t, s, http.MethodGet, "/", "")
	if !strings.Contains(rec.Body.String(), "Download CSV") {
		t.Errorf("index should render the comparison")
	}

	_, env = do(t, s, http.MethodDelete, fmt.Sprintf("/api/records/%d", first.ID), "")
	st := stateOf(t, env)
	if len(st.Records) != 1 || len(st.Selection) != 1 || st.Selection[0] != second.ID {
		t.Fatalf("delete: records %d selection %v", len(st.Records), st.Selection)
	}

	_, env = do(t, s, http.MethodGet, "/api/comparison", "")
	if err := json.Unmarshal(env.Data, &cmp); err != nil {
		t.Fatal(err)
	}
	if len(cmp.Rows) != 1 {
		t.Errorf("stale comparison served after delete: %d rows", len(cmp.Rows))
	}
}

func TestChartGroups(t *testing.T) {
	cmp := core.Comparison{
		Categories: []string{"Water", "Power"},
		Series: []core.Series{
			{Label: "a", Color: "#000", Data: []float64{50, 0}},
			{Label: "b", Color: "#fff", Data: []float64{25, 0.1}},
		},
	}
	groups := chartGroups(cmp)
	if len(groups) != 2 {
		t.Fatalf("groups = %d", len(groups))
	}
	if w := groups[0].Bars[0].Width; w != 100 {
		t.Errorf("largest bar width = %d", w)
	}
	if w := groups[0].Bars[1].Width; w != 50 {
		t.Errorf("half bar width = %d", w)
	}
	if w := groups[1].Bars[0].Width; w != 0 {
		t.Errorf("zero bar width = %d", w)
	}
	if w := groups[1].Bars[1].Width; w != 2 {
		t.Errorf("tiny bar width = %d", w)
	}
}

func TestOverflowingAmountsStayReadable(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPut, "/api/ledger/categories/1", `{"amount":1e308}`)
	do(t, s, http.MethodPut, "/api/ledger/categories/2", `{"amount":"1e308"}`)
	do(t, s, http.MethodPut, "/api/split/people", `{"people":2}`)

	rec, env := do(t, s, http.MethodPost, "/api/calculate", "")
	if rec.Code != http.StatusUnprocessableEntity || env.Error == nil || env.Error.Code != CodeInvalidSplit {
		t.Fatalf("calculate = %d %+v", rec.Code, env.Error)
	}
	if !strings.Contains(env.Error.Message, "too large") {
		t.Errorf("message = %q", env.Error.Message)
	}

	rec, env = do(t, s, http.MethodGet, "/api/state", "")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("state = %d %s", rec.Code, rec.Body.String())
	}
	st := stateOf(t, env)
	if !st.Overflow || st.Total != 0 || len(st.Records) != 0 {
		t.Fatalf("state = %+v", st)
	}

	rec, _ = do(t, s, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "too large to add up") {
		t.Fatalf("index = %d", rec.Code)
	}
}

func TestRespondReportsEncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"total": math.Inf(1)})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("body %q: %v", rec.Body.String(), err)
	}
	if env.Success || env.Error == nil || env.Error.Code != CodeInternal {
		t.Fatalf("envelope = %+v", env)
	}
}
