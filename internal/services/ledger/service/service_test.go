package service

import (
	"context"
	"testing"

	"dutybot/internal/core/classify"
	"dutybot/internal/platform/civil"
	"dutybot/internal/platform/logger"
	"dutybot/internal/platform/store"
	"dutybot/internal/platform/testkit"

	dom "dutybot/internal/services/ledger/domain"
)

func newTestService(t *testing.T) (*Service, store.Documents) {
	t.Helper()
	docs, err := store.Open(context.Background(), store.Config{
		Backend: "file",
		File:    store.FileConfig{Dir: t.TempDir()},
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	return New(context.Background(), docs, *logger.Named("ledger-test")), docs
}

func date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	return d
}

func TestRecordAndQuery(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	d := date(t, "2026-08-26")

	if err := s.Record(ctx, d, classify.CategoryReport, "aslan", "ignored"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !s.HasSubmitted(d, classify.CategoryReport, "aslan") {
		t.Fatal("report not recorded")
	}
	// reports never keep payload
	if payload, _ := s.Payload(d, classify.CategoryReport, "aslan"); payload != "" {
		t.Fatalf("report payload = %q", payload)
	}

	if err := s.Record(ctx, d, classify.CategorySlice, "aslan", "#срез готово"); err != nil {
		t.Fatalf("Record slice: %v", err)
	}
	if payload, ok := s.Payload(d, classify.CategorySlice, "aslan"); !ok || payload != "#срез готово" {
		t.Fatalf("slice payload = %q, %v", payload, ok)
	}

	if s.HasSubmitted(d, classify.CategoryConclusion, "aslan") {
		t.Fatal("conclusion leaked from other categories")
	}
	if s.HasSubmitted(date(t, "2026-08-27"), classify.CategoryReport, "aslan") {
		t.Fatal("report leaked to other date")
	}
}

func TestRecordIsIdempotent(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	d := date(t, "2026-08-26")

	for i := 0; i < 3; i++ {
		if err := s.Record(ctx, d, classify.CategoryReport, "sergei", ""); err != nil {
			t.Fatalf("Record #%d: %v", i, err)
		}
	}
	set := s.SubmittedSet(d, classify.CategoryReport)
	if len(set) != 1 {
		t.Fatalf("set size = %d", len(set))
	}
	// the first submission timestamp survives re-records
	first := s.Entries(d, classify.CategoryReport)[0].At
	if err := s.Record(ctx, d, classify.CategoryReport, "sergei", ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got := s.Entries(d, classify.CategoryReport)[0].At; !got.Equal(first) {
		t.Fatalf("timestamp bumped: %v -> %v", first, got)
	}
}

func TestRecordReplacesPayload(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	d := date(t, "2026-08-26")

	_ = s.Record(ctx, d, classify.CategoryConclusion, "sergei", "first")
	_ = s.Record(ctx, d, classify.CategoryConclusion, "sergei", "second")

	if payload, _ := s.Payload(d, classify.CategoryConclusion, "sergei"); payload != "second" {
		t.Fatalf("payload = %q", payload)
	}
}

func TestRecordRejectsBadInput(t *testing.T) {
	s, _ := newTestService(t)
	d := date(t, "2026-08-26")

	if err := s.Record(context.Background(), d, classify.CategoryReport, "", ""); err == nil {
		t.Fatal("empty handle accepted")
	}
	if err := s.Record(context.Background(), d, classify.Category("bogus"), "aslan", ""); err == nil {
		t.Fatal("unknown category accepted")
	}
}

func TestPersistenceAcrossRestart(t *testing.T) {
	s, docs := newTestService(t)
	ctx := context.Background()
	d := date(t, "2026-08-26")

	_ = s.Record(ctx, d, classify.CategorySlice, "aslan", "done")

	reloaded := New(ctx, docs, *logger.Named("ledger-test"))
	if payload, ok := reloaded.Payload(d, classify.CategorySlice, "aslan"); !ok || payload != "done" {
		t.Fatalf("reloaded payload = %q, %v", payload, ok)
	}
}

func TestEntriesSortedByHandle(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	d := date(t, "2026-08-26")

	_ = s.Record(ctx, d, classify.CategorySlice, "zoya", "z")
	_ = s.Record(ctx, d, classify.CategorySlice, "aslan", "a")
	_ = s.Record(ctx, d, classify.CategorySlice, "marat", "m")

	got := s.Entries(d, classify.CategorySlice)
	want := []string{"aslan", "marat", "zoya"}
	if len(got) != len(want) {
		t.Fatalf("entries = %v", got)
	}
	for i, e := range got {
		if e.Handle != want[i] {
			t.Fatalf("entries[%d] = %q, want %q", i, e.Handle, want[i])
		}
	}

	var set []string
	for handle := range s.SubmittedSet(d, classify.CategorySlice) {
		set = append(set, handle)
	}
	testkit.SameMembers(t, set, want)
}

func TestPruneRetentionWindow(t *testing.T) {
	s, docs := newTestService(t)
	ctx := context.Background()

	_ = s.Record(ctx, date(t, "2026-02-25"), classify.CategoryReport, "aslan", "")
	_ = s.Record(ctx, date(t, "2026-02-27"), classify.CategoryReport, "aslan", "")
	_ = s.Record(ctx, date(t, "2026-03-01"), classify.CategoryReport, "aslan", "")

	removed, err := s.Prune(ctx, date(t, "2026-03-01"), 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
	// cutoff is today-2 inclusive
	if !s.HasSubmitted(date(t, "2026-02-27"), classify.CategoryReport, "aslan") {
		t.Fatal("entry at cutoff pruned")
	}
	if s.HasSubmitted(date(t, "2026-02-25"), classify.CategoryReport, "aslan") {
		t.Fatal("stale entry survived")
	}

	// prune persisted
	reloaded := New(ctx, docs, *logger.Named("ledger-test"))
	if reloaded.HasSubmitted(date(t, "2026-02-25"), classify.CategoryReport, "aslan") {
		t.Fatal("stale entry survived restart")
	}
}

func TestPruneDropsCorruptDateKeys(t *testing.T) {
	ctx := context.Background()
	docs, err := store.Open(ctx, store.Config{
		Backend: "file",
		File:    store.FileConfig{Dir: t.TempDir()},
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	seed := dom.Doc{
		"garbage":    {"report": {"aslan": {}}},
		"2026-03-01": {"report": {"aslan": {}}},
	}
	if err := docs.Save(ctx, dom.DocName, seed); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s := New(ctx, docs, *logger.Named("ledger-test"))
	removed, err := s.Prune(ctx, date(t, "2026-03-01"), 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
	if !s.HasSubmitted(date(t, "2026-03-01"), classify.CategoryReport, "aslan") {
		t.Fatal("valid entry pruned")
	}
}

func TestLoadRepairsWrongShapedCells(t *testing.T) {
	ctx := context.Background()
	docs, err := store.Open(ctx, store.Config{
		Backend: "file",
		File:    store.FileConfig{Dir: t.TempDir()},
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	seed := map[string]any{
		"2026-08-25": map[string]any{
			"report": map[string]any{"aslan": map[string]any{"at": "2026-08-25T19:03:00Z"}},
		},
		"2026-08-26": map[string]any{
			"report": "oops",
			"slice":  map[string]any{"marat": map[string]any{"payload": "#срез", "at": "2026-08-26T16:10:00Z"}},
		},
		"2026-08-27": "oops",
	}
	if err := docs.Save(ctx, dom.DocName, seed); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s := New(ctx, docs, *logger.Named("ledger-test"))
	if !s.HasSubmitted(date(t, "2026-08-25"), classify.CategoryReport, "aslan") {
		t.Fatal("valid entry lost to a wrong-shaped sibling")
	}
	if !s.HasSubmitted(date(t, "2026-08-26"), classify.CategorySlice, "marat") {
		t.Fatal("valid category lost to a wrong-shaped sibling category")
	}
	if s.HasSubmitted(date(t, "2026-08-26"), classify.CategoryReport, "marat") {
		t.Fatal("wrong-shaped category survived")
	}

	// the next write-through persists the repaired document, not an empty one
	if err := s.Record(ctx, date(t, "2026-08-26"), classify.CategoryReport, "sergei", ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	reloaded := New(ctx, docs, *logger.Named("ledger-test"))
	if !reloaded.HasSubmitted(date(t, "2026-08-25"), classify.CategoryReport, "aslan") {
		t.Fatal("repaired document dropped valid entry on save")
	}
}

func TestPruneNoopDoesNotRewrite(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	_ = s.Record(ctx, date(t, "2026-03-01"), classify.CategoryReport, "aslan", "")

	removed, err := s.Prune(ctx, date(t, "2026-03-01"), 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d", removed)
	}
}
