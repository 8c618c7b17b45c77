package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/cors"

	"dutybot/internal/adapters/telegram"
	"dutybot/internal/modkit"
	"dutybot/internal/modkit/module"
	"dutybot/internal/platform/civil"
	"dutybot/internal/platform/config"
	"dutybot/internal/platform/logger"
	phttp "dutybot/internal/platform/net/http"
	"dutybot/internal/platform/net/middleware"
	"dutybot/internal/platform/store"

	escdom "dutybot/internal/services/escalation/domain"
	escmod "dutybot/internal/services/escalation/module"
	ingestdom "dutybot/internal/services/ingest/domain"
	ingestmod "dutybot/internal/services/ingest/module"
	ledgerdom "dutybot/internal/services/ledger/domain"
	ledgermod "dutybot/internal/services/ledger/module"
	notifydom "dutybot/internal/services/notify/domain"
	notifymod "dutybot/internal/services/notify/module"
	opsmod "dutybot/internal/services/ops/module"
	rosterdom "dutybot/internal/services/roster/domain"
	rostermod "dutybot/internal/services/roster/module"
	scheddom "dutybot/internal/services/schedule/domain"
	schedmod "dutybot/internal/services/schedule/module"
)

func main() {
	root := config.New()
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// document store (STORE_BACKEND: file | postgres)
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

	// telegram transport
	tg, err := telegram.NewClient(telegram.Options{
		Token: root.Prefix("TELEGRAM_").MustString("TOKEN"),
	})
	if err != nil {
		l.Panic().Err(err).Msg("telegram client failed")
	}

	// modules
	roster := rostermod.New(deps)
	module.Register(roster.Name(), roster.Ports())

	sched := schedmod.New(ctx, deps)
	module.Register(sched.Name(), sched.Ports())

	ledger := ledgermod.New(ctx, deps)
	module.Register(ledger.Name(), ledger.Ports())

	notify := notifymod.New(deps, tg)
	module.Register(notify.Name(), notify.Ports())

	esc, err := escmod.New(deps,
		module.MustPortsOf[rosterdom.ReaderPort](roster),
		module.MustPortsOf[scheddom.ResolverPort](sched),
		module.MustPortsOf[ledgerdom.ReaderPort](ledger),
		module.MustPortsOf[notifydom.RouterPort](notify),
	)
	if err != nil {
		l.Panic().Err(err).Msg("escalation module failed")
	}
	module.Register(esc.Name(), esc.Ports())

	ing, err := ingestmod.New(deps, module.MustPortsOf[ledgerdom.RecorderPort](ledger), tg)
	if err != nil {
		l.Panic().Err(err).Msg("ingest module failed")
	}
	module.Register(ing.Name(), ing.Ports())

	// startup retention prune, cutoff in schedule-local time
	tzName := root.Prefix("SCHED_").MayString("TZ", "Europe/Moscow")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		l.Panic().Err(err).Str("tz", tzName).Msg("bad SCHED_TZ")
	}
	retention := root.Prefix("LEDGER_").MayInt("RETENTION_DAYS", 2)
	today := civil.DateOf(time.Now().In(tz))
	pruner := module.MustPortsOf[ledgerdom.PrunerPort](ledger)
	if removed, err := pruner.Prune(ctx, today, retention); err != nil {
		l.Error().Err(err).Msg("startup prune failed")
	} else if removed > 0 {
		l.Info().Int("removed", removed).Msg("pruned stale ledger days")
	}

	// ops http server
	ops, err := opsmod.New(deps,
		module.MustPortsOf[escdom.SchedulerPort](esc),
		module.MustPortsOf[ledgerdom.ReaderPort](ledger),
		module.MustPortsOf[scheddom.PatternsPort](sched),
	)
	if err != nil {
		l.Panic().Err(err).Msg("ops module failed")
	}

	srv := phttp.NewServer(root.Prefix("OPS_"))
	r := srv.Router()
	r.Use(
		middleware.RequestID,
		middleware.RecoverJSON,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: time.Second}),
		cors.Handler(cors.Options{
			AllowedOrigins: root.Prefix("OPS_").MayCSV("CORS_ORIGINS", []string{"*"}),
			AllowedMethods: []string{"GET", "POST"},
		}),
	)
	ops.MountRoutes(r)

	// schedule dialog + update poller
	dialog := telegram.NewDialog(tg,
		module.MustPortsOf[rosterdom.ReaderPort](roster),
		module.MustPortsOf[scheddom.PatternsPort](sched),
	)
	poller := telegram.NewPoller(tg, module.MustPortsOf[ingestdom.HandlerPort](ing), dialog)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		esc.Service().Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx); err != nil {
			l.Error().Err(err).Msg("ops http server stopped")
		}
	}()

	<-ctx.Done()
	l.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("http shutdown failed")
	}

	wg.Wait()
	l.Info().Msg("bye")
}
