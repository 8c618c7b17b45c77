package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dutybot/internal/platform/logger"

	perr "dutybot/internal/platform/errors"
)

type ledgerDoc map[string]map[string]map[string]string

func openTestFileStore(t *testing.T) Documents {
	t.Helper()
	docs, err := Open(context.Background(), Config{
		Backend: "file",
		File:    FileConfig{Dir: t.TempDir()},
	}, WithLogger(*logger.Named("store-test")))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return docs
}

func TestFileStoreRoundTrip(t *testing.T) {
	docs := openTestFileStore(t)
	ctx := context.Background()

	in := ledgerDoc{
		"2026-08-26": {
			"report": {"aslan": ""},
			"slice":  {"sergei": "#срез done"},
		},
	}
	if err := docs.Save(ctx, "ledger", in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var out ledgerDoc
	if err := docs.Load(ctx, "ledger", &out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out["2026-08-26"]["slice"]["sergei"] != "#срез done" {
		t.Fatalf("round trip lost payload: %#v", out)
	}
}

func TestFileStoreMissingDocument(t *testing.T) {
	docs := openTestFileStore(t)

	var out ledgerDoc
	err := docs.Load(context.Background(), "ledger", &out)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFileStoreOverwriteIsWhole(t *testing.T) {
	docs := openTestFileStore(t)
	ctx := context.Background()

	_ = docs.Save(ctx, "schedule", map[string][]int{"aslan": {0, 1, 2}})
	_ = docs.Save(ctx, "schedule", map[string][]int{"sergei": {0, 5}})

	var out map[string][]int
	if err := docs.Load(ctx, "schedule", &out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := out["aslan"]; ok {
		t.Fatalf("save must replace the whole document, got %#v", out)
	}
	if len(out["sergei"]) != 2 {
		t.Fatalf("latest write lost: %#v", out)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	docs, err := Open(context.Background(), Config{Backend: "file", File: FileConfig{Dir: dir}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := docs.Save(context.Background(), "ledger", ledgerDoc{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
	if _, err := os.Stat(filepath.Join(dir, "ledger.json")); err != nil {
		t.Fatalf("document file missing: %v", err)
	}
}

func TestRejectsBadDocumentNames(t *testing.T) {
	docs := openTestFileStore(t)
	for _, name := range []string{"", "../etc", "a/b", "x.json"} {
		if err := docs.Save(context.Background(), name, struct{}{}); err == nil {
			t.Fatalf("Save(%q) should fail", name)
		}
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "redis"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
