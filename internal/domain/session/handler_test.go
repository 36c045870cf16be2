package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestServer(t *testing.T, store *testStore) (*httptest.Server, *Session) {
	t.Helper()
	s := openTest(t, store, newTestNotifier())
	r := chi.NewRouter()
	RegisterRoutes(r, s)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, s
}

func call(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	return res, b
}

func mustID(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.ID == "" {
		t.Fatalf("expected id in %s", string(body))
	}
	return out.ID
}

func TestHTTP_DailyFlow(t *testing.T) {
	ts, _ := newTestServer(t, &testStore{})

	res, body := call(t, ts, "POST", "/members", map[string]any{"name": "Ana", "relation": "madre"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create member: %d %s", res.StatusCode, body)
	}
	memberID := mustID(t, body)

	res, body = call(t, ts, "POST", "/medications", map[string]any{"name": "Ibuprofeno", "dosage": "400 mg"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create medication: %d %s", res.StatusCode, body)
	}
	medID := mustID(t, body)

	res, body = call(t, ts, "POST", "/assignments", map[string]any{
		"member_id":     memberID,
		"medication_id": medID,
		"schedule": map[string]any{
			"frequency":  "daily",
			"times":      []string{"20:00", "08:00"},
			"start_date": "2024-03-01",
		},
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create assignment: %d %s", res.StatusCode, body)
	}
	assignmentID := mustID(t, body)

	res, body = call(t, ts, "PUT", "/doses/"+assignmentID+"/08:00/status", map[string]any{
		"date": "2024-03-01", "status": "taken",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("set status: %d %s", res.StatusCode, body)
	}

	res, body = call(t, ts, "GET", "/doses?date=2024-03-01", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list doses: %d %s", res.StatusCode, body)
	}
	var day dayResponse
	if err := json.Unmarshal(body, &day); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(day.Doses) != 2 || day.Doses[0].Time != "08:00" || day.Doses[0].Status != "taken" || day.Doses[1].Status != "pending" {
		t.Fatalf("unexpected doses: %+v", day.Doses)
	}
	if len(day.Sections) != 4 || len(day.Sections[0].Doses) != 1 || len(day.Sections[2].Doses) != 1 {
		t.Fatalf("unexpected sections: %+v", day.Sections)
	}

	res, body = call(t, ts, "POST", "/doses/"+assignmentID+"/20:00/snooze", map[string]any{
		"date": "2024-03-01", "minutes": 15,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("snooze: %d %s", res.StatusCode, body)
	}

	res, body = call(t, ts, "GET", "/doses/next", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("next: %d %s", res.StatusCode, body)
	}
	var next doseResponse
	_ = json.Unmarshal(body, &next)
	// el snooze vence 07:15 y testNow es 07:00
	if next.Time != "20:00" || next.Status != "snoozed" || next.IsDue {
		t.Fatalf("unexpected next: %+v", next)
	}

	res, _ = call(t, ts, "DELETE", "/medications/"+medID, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete medication: %d", res.StatusCode)
	}
	res, body = call(t, ts, "GET", "/assignments", nil)
	if res.StatusCode != http.StatusOK || string(bytes.TrimSpace(body)) != "[]" {
		t.Fatalf("expected no assignments, got %d %s", res.StatusCode, body)
	}
}

func TestHTTP_ErrorMapping(t *testing.T) {
	ts, s := newTestServer(t, &testStore{})
	_, _, a := seed(t, s)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"bad json member", "POST", "/members", "nope", http.StatusBadRequest},
		{"empty name", "POST", "/members", map[string]any{"name": " "}, http.StatusBadRequest},
		{"unknown member delete", "DELETE", "/members/nope", nil, http.StatusNotFound},
		{"bad time path", "PUT", "/doses/" + a.ID + "/8am/status", map[string]any{"status": "taken"}, http.StatusBadRequest},
		{"bad date", "PUT", "/doses/" + a.ID + "/08:00/status", map[string]any{"date": "01/03/2024", "status": "taken"}, http.StatusBadRequest},
		{"unknown assignment", "PUT", "/doses/nope/08:00/status", map[string]any{"status": "taken"}, http.StatusNotFound},
		{"unscheduled time", "PUT", "/doses/" + a.ID + "/09:00/status", map[string]any{"status": "taken"}, http.StatusBadRequest},
		{"snooze too long", "POST", "/doses/" + a.ID + "/08:00/snooze", map[string]any{"minutes": 5000}, http.StatusBadRequest},
		{"bad weekday", "POST", "/assignments", map[string]any{
			"member_id": "x", "medication_id": "y",
			"schedule": map[string]any{"frequency": "weekly", "times": []string{"08:00"}, "weekdays": []int{9}},
		}, http.StatusBadRequest},
		{"unknown field patch", "PATCH", "/assignments/" + a.ID, map[string]any{"color": "red"}, http.StatusBadRequest},
		{"bad query date", "GET", "/doses?date=tomorrow", nil, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, body := call(t, ts, tc.method, tc.path, tc.body)
			if res.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d body=%s", tc.want, res.StatusCode, body)
			}
		})
	}
}

func TestHTTP_PersistenceWarningHeader(t *testing.T) {
	store := &testStore{}
	ts, _ := newTestServer(t, store)

	res, _ := call(t, ts, "POST", "/members", map[string]any{"name": "Ana"})
	if res.Header.Get(PersistenceWarningHeader) != "" {
		t.Fatalf("unexpected warning on durable save")
	}

	store.saveErr = errors.New("read-only file system")
	res, body := call(t, ts, "POST", "/members", map[string]any{"name": "Luis"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("save failure must not fail the request: %d %s", res.StatusCode, body)
	}
	if res.Header.Get(PersistenceWarningHeader) == "" {
		t.Fatalf("expected %s header", PersistenceWarningHeader)
	}
}

func TestHTTP_NextDose_NoContent(t *testing.T) {
	ts, _ := newTestServer(t, &testStore{})
	res, _ := call(t, ts, "GET", "/doses/next", nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.StatusCode)
	}
}

func TestHTTP_SnoozeOptionsAndExport(t *testing.T) {
	ts, s := newTestServer(t, &testStore{})
	_, _, a := seed(t, s)

	res, body := call(t, ts, "GET", "/doses/snooze-options", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("snooze options: %d %s", res.StatusCode, body)
	}
	var opts snoozeOptionsResponse
	if err := json.Unmarshal(body, &opts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(opts.Presets) != 3 || opts.Presets[0] != 10 || opts.MaxMinutes != MaxSnoozeMinutes {
		t.Fatalf("unexpected options: %+v", opts)
	}

	res, body = call(t, ts, "GET", "/export", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("export: %d %s", res.StatusCode, body)
	}
	var snap struct {
		Members     []json.RawMessage `json:"members"`
		Assignments []struct {
			ID string `json:"id"`
		} `json:"assignments"`
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(snap.Members) != 1 || len(snap.Assignments) != 1 || snap.Assignments[0].ID != a.ID {
		t.Fatalf("unexpected export: %s", body)
	}
}
