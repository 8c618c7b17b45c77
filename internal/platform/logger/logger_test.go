package logger

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
)

// reinit resets the once guard so each test can install its own writer
func reinit(opt Options) {
	once = sync.Once{}
	inited.Store(false)
	Init(opt)
}

func TestInitAndNamed(t *testing.T) {
	var buf bytes.Buffer
	reinit(Options{Level: "debug", Format: "json", Service: "dutybot", Writer: &buf})

	Named("escalation").Info().Msg("trigger fired")

	out := buf.String()
	for _, want := range []string{`"service":"dutybot"`, `"component":"escalation"`, "trigger fired"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestContextEnrichment(t *testing.T) {
	var buf bytes.Buffer
	reinit(Options{Level: "debug", Format: "json", Writer: &buf})

	ctx := WithUpdate(context.Background(), 42, -100123)
	C(ctx).Info().Msg("classified")

	out := buf.String()
	if !strings.Contains(out, `"update_id":"42"`) {
		t.Fatalf("missing update_id: %s", out)
	}
	if !strings.Contains(out, `"chat_id":"-100123"`) {
		t.Fatalf("missing chat_id: %s", out)
	}
}

func TestParseLevelFallback(t *testing.T) {
	if parseLevel("nonsense").String() != "debug" {
		t.Fatalf("expected debug fallback")
	}
	if parseLevel("WARN").String() != "warn" {
		t.Fatalf("expected case-insensitive warn")
	}
}
