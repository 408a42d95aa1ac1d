package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robolight/ledctl/config"
	"github.com/robolight/ledctl/logging"
)

func main() {
	cfile := flag.String("config", "config.yml", "path to the config file")
	realhw := flag.Bool("real", false, "drive the real strip controller instead of the TUI simulation")
	flag.Parse()

	ossignal := make(chan os.Signal, 1)
	signal.Notify(ossignal, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for {
		conf, err := config.ReadConfig(*cfile, *realhw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ledctl: %v\n", err)
			os.Exit(1)
		}
		// In simulation mode logging is buffered until the TUI log pane is up.
		if err := logging.Init(!conf.RealHW, conf.Log.Level, conf.Log.Format, conf.Log.ToFile, conf.Log.File); err != nil {
			fmt.Fprintf(os.Stderr, "ledctl: %v\n", err)
			os.Exit(1)
		}

		app, err := newApp(conf, ossignal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ledctl: %v\n", err)
			os.Exit(1)
		}
		if err := app.start(); err != nil {
			fmt.Fprintf(os.Stderr, "ledctl: %v\n", err)
			os.Exit(1)
		}

		stopWatch, err := config.Watch(conf.Configfile, func() {
			select {
			case ossignal <- syscall.SIGHUP:
			default:
				// A reload is already pending.
			}
		})
		if err != nil {
			slog.Warn("Config file watching disabled", "error", err)
			stopWatch = func() {}
		}

		sig := <-ossignal
		stopWatch()
		app.stop()

		if sig == syscall.SIGHUP {
			slog.Info("Reloading configuration", "file", conf.Configfile)
			logging.Close()
			continue
		}
		slog.Info("Shutting down", "signal", sig)
		logging.Close()
		return
	}
}
