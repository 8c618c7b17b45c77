package config

import (
	"testing"
	"time"

	"dutybot/internal/platform/testkit"
)

func TestPrefixComposition(t *testing.T) {
	t.Setenv("SCHED_TZ", "Europe/Moscow")

	root := New()
	sched := root.Prefix("SCHED_")
	if got := sched.MayString("TZ", ""); got != "Europe/Moscow" {
		t.Fatalf("prefixed MayString = %q", got)
	}
}

func TestMustStringPanicsOnMissing(t *testing.T) {
	c := New().Prefix("TEST_MISSING_")
	testkit.MustPanic(t, func() { _ = c.MustString("TOKEN") })
}

func TestMustInt64(t *testing.T) {
	t.Setenv("CHAT_MAIN_ID", "-1001234567890")
	c := New().Prefix("CHAT_")
	if got := c.MustInt64("MAIN_ID"); got != -1001234567890 {
		t.Fatalf("MustInt64 = %d", got)
	}

	t.Setenv("CHAT_BAD_ID", "not-a-number")
	testkit.MustPanic(t, func() { _ = c.MustInt64("BAD_ID") })
}

func TestMayAccessorsFallBack(t *testing.T) {
	c := New().Prefix("TEST_MAY_")

	if got := c.MayInt("RETENTION_DAYS", 2); got != 2 {
		t.Fatalf("MayInt default = %d", got)
	}
	if got := c.MayBool("ENABLED", true); !got {
		t.Fatalf("MayBool default = %v", got)
	}
	if got := c.MayDuration("POLL_TIMEOUT", 25*time.Second); got != 25*time.Second {
		t.Fatalf("MayDuration default = %v", got)
	}
}

func TestMayCSV(t *testing.T) {
	t.Setenv("ROSTER_PEOPLE", " a:Aslan , b:Boris ,, ")
	c := New().Prefix("ROSTER_")
	got := c.MayCSV("PEOPLE", nil)
	if len(got) != 2 || got[0] != "a:Aslan" || got[1] != "b:Boris" {
		t.Fatalf("MayCSV = %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	c := New().Prefix("STORE_")
	if got := c.MayEnum("BACKEND", "file", "file", "postgres"); got != "postgres" {
		t.Fatalf("MayEnum = %q", got)
	}

	t.Setenv("STORE_BACKEND", "redis")
	testkit.MustPanic(t, func() { _ = c.MayEnum("BACKEND", "file", "file", "postgres") })
}
