package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	controlpanel "github.com/CrimsonAS/controlpanel/backend"
	"github.com/CrimsonAS/controlpanel/backend/metrics"
	"github.com/CrimsonAS/controlpanel/backend/natssink"
	"github.com/CrimsonAS/controlpanel/internal/config"
	"github.com/CrimsonAS/controlpanel/internal/logger"
	"github.com/CrimsonAS/controlpanel/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath     string
		socket      string
		natsURL     string
		metricsAddr string
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:           "controlpanel",
		Short:         "Control panel for VMs and services",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("socket") {
				cfg.Controller.Socket = socket
			}
			if flags.Changed("nats-url") {
				cfg.NATS.URL = natsURL
			}
			if flags.Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "config file (default $HOME/.config/controlpanel/config.toml)")
	cmd.Flags().StringVar(&socket, "socket", "", "unix socket of the controller")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "publish control actions to this NATS server")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	return cmd
}

func run(cfg config.Config) error {
	// The terminal belongs to the UI, so logs go to a file
	logFile, err := logger.OpenFile(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger.Init(cfg.Log.Level, logFile)

	model := controlpanel.NewServiceModel()
	var sinks []controlpanel.ActionSink
	var conn *controlpanel.Connection

	if cfg.Controller.Socket != "" {
		sock, err := net.Dial("unix", cfg.Controller.Socket)
		if err != nil {
			return fmt.Errorf("connect to controller: %w", err)
		}
		conn = controlpanel.NewConnection(sock, model)
		defer conn.Close()
		sinks = append(sinks, conn)
		log.Info().Str("socket", cfg.Controller.Socket).Msg("connected to controller")
	} else {
		services, err := cfg.SeedServices()
		if err != nil {
			return err
		}
		model.Reset(services)
		log.Info().Int("services", len(services)).Msg("no controller configured, using services from config")
	}

	if cfg.NATS.URL != "" {
		pub, err := natssink.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			return err
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}

	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		sinks = append(sinks, metrics.NewSink(reg))

		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux(reg)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", cfg.Metrics.Addr).Msg("metrics server failed")
			}
		}()
		defer srv.Close()
		log.Info().Str("addr", cfg.Metrics.Addr).Msg("serving metrics")
	}

	app := tui.New(model, tui.Options{
		VisibleRows:      cfg.UI.VisibleRows,
		SettingsSections: cfg.UI.SettingsSections,
		Connection:       conn,
		Sinks:            sinks,
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

func metricsMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	return mux
}
