// Package module implements the ops HTTP surface
package module

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dutybot/internal/core/version"
	"dutybot/internal/modkit"
	"dutybot/internal/modkit/httpkit"
	"dutybot/internal/platform/civil"

	perr "dutybot/internal/platform/errors"
	escdom "dutybot/internal/services/escalation/domain"
	ledgerdom "dutybot/internal/services/ledger/domain"
	scheddom "dutybot/internal/services/schedule/domain"
)

// Module exposes health, status, ledger and schedule inspection and manual
// trigger replay
type Module struct {
	deps      modkit.Deps
	scheduler escdom.SchedulerPort
	ledger    ledgerdom.ReaderPort
	patterns  scheddom.PatternsPort
	tz        *time.Location
	started   time.Time
}

// New constructs the ops module
func New(deps modkit.Deps, scheduler escdom.SchedulerPort, ledger ledgerdom.ReaderPort, patterns scheddom.PatternsPort) (*Module, error) {
	tzName := deps.Cfg.Prefix("SCHED_").MayString("TZ", "Europe/Moscow")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, perr.InvalidArgf("bad SCHED_TZ %q: %v", tzName, err)
	}
	return &Module{
		deps:      deps,
		scheduler: scheduler,
		ledger:    ledger,
		patterns:  patterns,
		tz:        tz,
		started:   time.Now(),
	}, nil
}

// Name satisfies module.Module
func (m *Module) Name() string { return "ops" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return nil }

// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.Get(r, "/healthz", m.health)
	httpkit.Get(r, "/status", m.status)
	httpkit.Get(r, "/ledger/{date}", m.ledgerDay)
	httpkit.Get(r, "/schedule", m.schedule)
	httpkit.PostJSON(r, "/triggers/{name}/fire", m.fire)
}

type healthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Build  version.BuildInfo `json:"build"`
}

func (m *Module) health(r *http.Request) (any, error) {
	return healthResponse{
		Status: "ok",
		Uptime: time.Since(m.started).Round(time.Second).String(),
		Build:  version.Info(),
	}, nil
}

type triggerStatus struct {
	Name     string `json:"name"`
	At       string `json:"at"`
	Category string `json:"category"`
	Tier     string `json:"tier"`
	Audience string `json:"audience"`
	Cohort   string `json:"cohort"`
	Target   string `json:"target"`
	Digest   bool   `json:"digest,omitempty"`
	NextFire string `json:"next_fire"`
}

type statusResponse struct {
	TZ       string          `json:"tz"`
	Triggers []triggerStatus `json:"triggers"`
}

func (m *Module) status(r *http.Request) (any, error) {
	now := time.Now()
	triggers := m.scheduler.Triggers()
	out := statusResponse{TZ: m.tz.String(), Triggers: make([]triggerStatus, 0, len(triggers))}
	for _, tr := range triggers {
		out.Triggers = append(out.Triggers, triggerStatus{
			Name:     tr.Name,
			At:       tr.At.String(),
			Category: string(tr.Category),
			Tier:     tr.Tier,
			Audience: string(tr.Audience),
			Cohort:   string(tr.Cohort),
			Target:   string(tr.Target),
			Digest:   tr.Digest,
			NextFire: m.scheduler.NextFire(tr, now).Format(time.RFC3339),
		})
	}
	return out, nil
}

type ledgerEntry struct {
	Handle  string `json:"handle"`
	Payload string `json:"payload,omitempty"`
}

type ledgerDayResponse struct {
	Date       string                   `json:"date"`
	Categories map[string][]ledgerEntry `json:"categories"`
}

func (m *Module) ledgerDay(r *http.Request) (any, error) {
	raw := chi.URLParam(r, "date")
	d, err := civil.ParseDate(raw)
	if err != nil {
		return nil, perr.InvalidArgf("bad date %q", raw)
	}

	out := ledgerDayResponse{Date: d.String(), Categories: map[string][]ledgerEntry{}}
	for cat, entries := range m.ledger.Day(d) {
		rows := make([]ledgerEntry, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, ledgerEntry{Handle: e.Handle, Payload: e.Payload})
		}
		out.Categories[string(cat)] = rows
	}
	return out, nil
}

type scheduleResponse struct {
	// Overrides maps handle to its working-day set, 0=Mon..6=Sun
	Overrides scheddom.PatternDoc `json:"overrides"`
}

func (m *Module) schedule(r *http.Request) (any, error) {
	return scheduleResponse{Overrides: m.patterns.Overrides()}, nil
}

type fireRequest struct {
	// Date replays the trigger for a specific day at its scheduled time;
	// empty means fire as of now
	Date string `json:"date" validate:"omitempty,date_key"`
}

type fireResponse struct {
	Trigger string `json:"trigger"`
	FiredAt string `json:"fired_at"`
}

func (m *Module) fire(r *http.Request, req fireRequest) (any, error) {
	name := chi.URLParam(r, "name")
	tr, ok := m.scheduler.Lookup(name)
	if !ok {
		return nil, perr.NotFoundf("trigger %q", name)
	}

	now := time.Now()
	if req.Date != "" {
		d, err := civil.ParseDate(req.Date)
		if err != nil {
			return nil, perr.InvalidArgf("bad date %q", req.Date)
		}
		now = tr.At.On(d, m.tz)
	}

	if err := m.scheduler.Fire(r.Context(), tr, now); err != nil {
		return nil, err
	}
	return fireResponse{Trigger: tr.Name, FiredAt: now.Format(time.RFC3339)}, nil
}
