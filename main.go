package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/a-bouts/race-trainer/api"
	"github.com/a-bouts/race-trainer/decisionlog"
	"github.com/a-bouts/race-trainer/scenario"
	"github.com/a-bouts/race-trainer/sim"
	"github.com/a-bouts/race-trainer/xmpp"
)

func initLog(level, file string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if file != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50,
			MaxBackups: 5,
			Compress:   true,
		}))
	}
	return nil
}

func display(snap sim.Snapshot) {
	for _, b := range snap.Boats {
		log.WithFields(log.Fields{
			"second":  snap.Second,
			"boat":    b.Name,
			"x":       fmt.Sprintf("%.1f", b.Location.X),
			"y":       fmt.Sprintf("%.1f", b.Location.Y),
			"heading": b.Heading,
			"speed":   fmt.Sprintf("%.1f", b.Speed),
			"leg":     b.Leg,
		}).Info(b.Decision.Action)
	}
}

// runScenario runs one scenario of the library without the HTTP server.
func runScenario(ctx context.Context, library *scenario.Library, name string, seconds int, speedUp float64, secondsPerDisplay int, decisions string, notifier sim.Notifier) error {
	cfg, found := library.Get(name)
	if !found {
		return fmt.Errorf("unknown scenario %q", name)
	}
	if seconds > 0 {
		cfg.Seconds = seconds
	}
	sc, err := cfg.Build()
	if err != nil {
		return err
	}

	opts := []sim.Option{sim.WithNotifier(notifier)}
	if decisions != "" {
		w, err := decisionlog.Create(decisions)
		if err != nil {
			return err
		}
		opts = append(opts, sim.WithSink(w))
	}

	s, err := sim.New(sc, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.WithError(err).Error("Error closing decision log")
		}
	}()

	if speedUp <= 0 {
		err = sim.RunFor(ctx, s, cfg.Seconds)
		display(s.Snapshot())
		return err
	}

	r := &sim.Runner{Simulation: s, SpeedUp: speedUp, SecondsPerDisplay: secondsPerDisplay, Display: display}
	return r.Run(ctx)
}

func main() {

	fs := flag.NewFlagSet("race-trainer", flag.ExitOnError)
	var (
		listen            = fs.String("listen", ":8888", "http listen address")
		scenarios         = fs.String("scenarios", "scenarios", "scenario directory")
		name              = fs.String("scenario", "", "run this scenario and exit instead of serving")
		seconds           = fs.Int("seconds", 0, "simulated seconds, the scenario limit when zero")
		speedUp           = fs.Float64("speedup", 0, "simulated seconds per real second, unpaced when zero")
		secondsPerDisplay = fs.Int("seconds-per-display", 10, "simulated seconds between two displays")
		logLevel          = fs.String("log-level", "info", "")
		logFile           = fs.String("log-file", "", "rotated log file")
		decisions         = fs.String("decision-log", "", "decision log file, zstd compressed when ending in .zst")
		cpuprofile        = fs.Bool("cpuprofile", false, "profile runs started through the api")
		reloadSeconds     = fs.Uint64("reload-seconds", 15, "scenario directory rescan period")
		xmppHost          = fs.String("xmpp-host", "", "")
		xmppJid           = fs.String("xmpp-jid", "", "")
		xmppPassword      = fs.String("xmpp-password", "", "")
		xmppTo            = fs.String("xmpp-to", "", "")
	)
	ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix())

	if err := initLog(*logLevel, *logFile); err != nil {
		log.WithError(err).Fatal("Bad log configuration")
	}

	var notifier sim.Notifier
	x := xmpp.Xmpp{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}
	if x.Enabled() {
		notifier = x
	}

	log.Infof("Load scenarios from %s", *scenarios)
	library := scenario.NewLibrary(*scenarios)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *name != "" {
		if err := runScenario(ctx, library, *name, *seconds, *speedUp, *secondsPerDisplay, *decisions, notifier); err != nil {
			log.WithError(err).Fatal("Run failed")
		}
		return
	}

	library.Watch(*reloadSeconds)
	defer library.Stop()

	router := api.InitServer(*cpuprofile, library, notifier)

	srv := &http.Server{Addr: *listen, Handler: router}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Infof("Start server on %s", *listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("Server failed")
	}
}
