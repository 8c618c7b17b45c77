package module

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"dutybot/internal/core/classify"
	"dutybot/internal/core/obligation"
	"dutybot/internal/modkit"
	"dutybot/internal/platform/civil"
	"dutybot/internal/platform/config"
	"dutybot/internal/platform/logger"

	phttp "dutybot/internal/platform/net/http"
	escdom "dutybot/internal/services/escalation/domain"
	ledgerdom "dutybot/internal/services/ledger/domain"
	scheddom "dutybot/internal/services/schedule/domain"
)

type fakeScheduler struct {
	fired []string
	nows  []time.Time
}

func (f *fakeScheduler) Triggers() []escdom.Trigger { return escdom.DefaultTriggers() }

func (f *fakeScheduler) Lookup(name string) (escdom.Trigger, bool) {
	for _, tr := range escdom.DefaultTriggers() {
		if tr.Name == name {
			return tr, true
		}
	}
	return escdom.Trigger{}, false
}

func (f *fakeScheduler) Fire(ctx context.Context, tr escdom.Trigger, now time.Time) error {
	f.fired = append(f.fired, tr.Name)
	f.nows = append(f.nows, now)
	return nil
}

func (f *fakeScheduler) NextFire(tr escdom.Trigger, now time.Time) time.Time {
	return tr.At.Next(now)
}

type fakeLedgerReader struct{}

func (fakeLedgerReader) HasSubmitted(civil.Date, classify.Category, string) bool { return false }

func (fakeLedgerReader) SubmittedSet(civil.Date, classify.Category) map[string]struct{} {
	return nil
}

func (fakeLedgerReader) Payload(civil.Date, classify.Category, string) (string, bool) {
	return "", false
}

func (fakeLedgerReader) Entries(civil.Date, classify.Category) []ledgerdom.Entry { return nil }

func (fakeLedgerReader) Day(d civil.Date) map[classify.Category][]ledgerdom.Entry {
	if d.String() != "2026-08-26" {
		return nil
	}
	return map[classify.Category][]ledgerdom.Entry{
		classify.CategoryReport: {{Handle: "aslan"}},
		classify.CategorySlice:  {{Handle: "aslan", Payload: "#срез готово"}},
	}
}

type fakePatterns struct {
	stored map[string][]int
}

func (f *fakePatterns) Pattern(handle string) obligation.Pattern {
	days, ok := f.stored[handle]
	if !ok {
		return nil
	}
	return obligation.NewPattern(days...)
}

func (f *fakePatterns) Overrides() scheddom.PatternDoc {
	out := scheddom.PatternDoc{}
	for h, d := range f.stored {
		out[h] = d
	}
	return out
}

func (f *fakePatterns) SetPattern(context.Context, string, []int) error { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	m, err := New(modkit.Deps{
		Log: *logger.Named("ops-test"),
		Cfg: config.New(),
	}, sched, fakeLedgerReader{}, &fakePatterns{stored: map[string][]int{"aslan": {0, 5}}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(r)
	srv := httptest.NewServer(r.Mux())
	t.Cleanup(srv.Close)
	return srv, sched
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	var env phttp.Envelope
	if code := getJSON(t, srv.URL+"/healthz", &env); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	data, _ := env.Data.(map[string]any)
	if data["status"] != "ok" {
		t.Fatalf("data = %v", env.Data)
	}
}

func TestStatusListsTriggers(t *testing.T) {
	srv, _ := newTestServer(t)
	var env phttp.Envelope
	if code := getJSON(t, srv.URL+"/status", &env); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	data, _ := env.Data.(map[string]any)
	triggers, _ := data["triggers"].([]any)
	if len(triggers) != len(escdom.DefaultTriggers()) {
		t.Fatalf("triggers = %d", len(triggers))
	}
	first, _ := triggers[0].(map[string]any)
	if first["next_fire"] == "" || first["at"] == "" {
		t.Fatalf("trigger = %v", first)
	}
}

func TestLedgerDay(t *testing.T) {
	srv, _ := newTestServer(t)
	var env phttp.Envelope
	if code := getJSON(t, srv.URL+"/ledger/2026-08-26", &env); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	data, _ := env.Data.(map[string]any)
	cats, _ := data["categories"].(map[string]any)
	if _, ok := cats["report"]; !ok {
		t.Fatalf("categories = %v", cats)
	}
}

func TestScheduleListsOverrides(t *testing.T) {
	srv, _ := newTestServer(t)
	var env phttp.Envelope
	if code := getJSON(t, srv.URL+"/schedule", &env); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	data, _ := env.Data.(map[string]any)
	overrides, _ := data["overrides"].(map[string]any)
	days, ok := overrides["aslan"].([]any)
	if !ok || len(days) != 2 {
		t.Fatalf("overrides = %v", overrides)
	}
}

func TestLedgerDayBadDate(t *testing.T) {
	srv, _ := newTestServer(t)
	if code := getJSON(t, srv.URL+"/ledger/not-a-date", nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", code)
	}
}

func TestFireTrigger(t *testing.T) {
	srv, sched := newTestServer(t)
	resp, err := http.Post(srv.URL+"/triggers/reports_early/fire", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(sched.fired) != 1 || sched.fired[0] != "reports_early" {
		t.Fatalf("fired = %v", sched.fired)
	}
}

func TestFireTriggerForDate(t *testing.T) {
	srv, sched := newTestServer(t)
	body := strings.NewReader(`{"date":"2026-08-25"}`)
	resp, err := http.Post(srv.URL+"/triggers/reports_early/fire", "application/json", body)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	want := civil.Date{Year: 2026, Month: 8, Day: 25}
	if got := civil.DateOf(sched.nows[0]); got != want {
		t.Fatalf("fired at %v", sched.nows[0])
	}
}

func TestFireUnknownTrigger(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/triggers/nonsense/fire", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestFireRejectsBadDate(t *testing.T) {
	srv, _ := newTestServer(t)
	body := strings.NewReader(`{"date":"26.08.2026"}`)
	resp, err := http.Post(srv.URL+"/triggers/reports_early/fire", "application/json", body)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
