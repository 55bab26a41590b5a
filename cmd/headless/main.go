// headless runs the simulation without a window for a fixed number of
// ticks at the configured tick rate, logging every event.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"atc-grid/internal/app"
	"atc-grid/internal/config"
	"atc-grid/internal/game/simulation"
	"atc-grid/internal/logging"

	"github.com/labstack/gommon/log"
)

var (
	ticks    = flag.Int("ticks", 3600, "number of ticks to simulate")
	realtime = flag.Bool("realtime", false, "sleep between ticks to run at wall-clock speed")
	envFile  = flag.String("env", ".env", "optional .env file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(log.New("config"), *envFile)
	if err != nil {
		log.Fatal(err)
	}
	sink, err := logging.NewSink(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal(err)
	}
	defer sink.Close()
	lg := sink.Logger("headless")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, sink, lg); err != nil {
		lg.Errorf("%v", err)
		sink.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, sink *logging.Sink, lg *log.Logger) error {
	a, err := app.New(cfg, sink)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			lg.Errorf("close: %v", err)
		}
	}()

	if err := a.Start(simulation.RunningState); err != nil {
		return err
	}

	dt := 1.0 / float64(cfg.TickRate)
	var tick *time.Ticker
	if *realtime {
		tick = time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer tick.Stop()
	}

	lg.Infof("Simulating %d ticks of %.4fs", *ticks, dt)
	for i := 0; i < *ticks; i++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				lg.Infof("Interrupted after %d ticks", i)
				return nil
			case <-tick.C:
			}
		} else if ctx.Err() != nil {
			lg.Infof("Interrupted after %d ticks", i)
			return nil
		}

		if err := a.Tick(dt); err != nil {
			return err
		}
		for _, e := range a.Events.Get() {
			lg.Infof("T+%.2fs %v", a.Sim.GameTimeSeconds, e)
		}
	}

	st := a.Sim.Stats()
	lg.Infof("Done: spawned %d, landed %d, lost %d, %d still airborne",
		st.Spawned, st.Landed, st.Lost, len(a.Sim.Airplanes))
	return nil
}
