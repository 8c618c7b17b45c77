// Command dutybot-replay fires one trigger by name and exits.
// Useful after downtime when a scheduled check was skipped
package main

import (
	"context"
	"flag"
	"time"

	"dutybot/internal/adapters/telegram"
	"dutybot/internal/modkit"
	"dutybot/internal/modkit/module"
	"dutybot/internal/platform/civil"
	"dutybot/internal/platform/config"
	"dutybot/internal/platform/logger"
	"dutybot/internal/platform/store"

	escdom "dutybot/internal/services/escalation/domain"
	escmod "dutybot/internal/services/escalation/module"
	ledgerdom "dutybot/internal/services/ledger/domain"
	ledgermod "dutybot/internal/services/ledger/module"
	notifydom "dutybot/internal/services/notify/domain"
	notifymod "dutybot/internal/services/notify/module"
	rosterdom "dutybot/internal/services/roster/domain"
	rostermod "dutybot/internal/services/roster/module"
	scheddom "dutybot/internal/services/schedule/domain"
	schedmod "dutybot/internal/services/schedule/module"
)

func main() {
	var (
		fTrigger = flag.String("trigger", "", "trigger name to fire (required)")
		fDate    = flag.String("date", "", "replay date YYYY-MM-DD (default: as of now)")
		fList    = flag.Bool("list", false, "list trigger names and exit")
	)
	flag.Parse()

	root := config.New()
	l := logger.Get()
	ctx := context.Background()

	storeCfg := root.Prefix("STORE_")
	st, err := store.Open(ctx, store.Config{
		Backend: storeCfg.MayEnum("BACKEND", "file", "file", "postgres"),
		File: store.FileConfig{
			Dir: storeCfg.MayString("DIR", "./data"),
		},
		PG: store.PGConfig{
			URL:      storeCfg.MayString("PG_DBURL", ""),
			MaxConns: int32(storeCfg.MayInt("PG_MAX_CONNS", 2)),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{Log: *l, Cfg: root, Docs: st}

	tg, err := telegram.NewClient(telegram.Options{
		Token: root.Prefix("TELEGRAM_").MustString("TOKEN"),
	})
	if err != nil {
		l.Panic().Err(err).Msg("telegram client failed")
	}

	roster := rostermod.New(deps)
	sched := schedmod.New(ctx, deps)
	ledger := ledgermod.New(ctx, deps)
	notify := notifymod.New(deps, tg)

	esc, err := escmod.New(deps,
		module.MustPortsOf[rosterdom.ReaderPort](roster),
		module.MustPortsOf[scheddom.ResolverPort](sched),
		module.MustPortsOf[ledgerdom.ReaderPort](ledger),
		module.MustPortsOf[notifydom.RouterPort](notify),
	)
	if err != nil {
		l.Panic().Err(err).Msg("escalation module failed")
	}
	scheduler := module.MustPortsOf[escdom.SchedulerPort](esc)

	if *fList {
		for _, tr := range scheduler.Triggers() {
			l.Info().
				Str("name", tr.Name).
				Str("at", tr.At.String()).
				Str("audience", string(tr.Audience)).
				Msg("trigger")
		}
		return
	}

	if *fTrigger == "" {
		l.Fatal().Msg("-trigger is required")
	}
	tr, ok := scheduler.Lookup(*fTrigger)
	if !ok {
		l.Fatal().Str("trigger", *fTrigger).Msg("unknown trigger")
	}

	now := time.Now()
	if *fDate != "" {
		d, err := civil.ParseDate(*fDate)
		if err != nil {
			l.Fatal().Err(err).Msg("bad -date")
		}
		// anchor to the trigger's scheduled time on that day
		tzName := root.Prefix("SCHED_").MayString("TZ", "Europe/Moscow")
		tz, err := time.LoadLocation(tzName)
		if err != nil {
			l.Fatal().Err(err).Msg("bad SCHED_TZ")
		}
		now = tr.At.On(d, tz)
	}

	if err := scheduler.Fire(ctx, tr, now); err != nil {
		l.Fatal().Err(err).Str("trigger", tr.Name).Msg("fire failed")
	}
	l.Info().Str("trigger", tr.Name).Time("as_of", now).Msg("fired")
}
