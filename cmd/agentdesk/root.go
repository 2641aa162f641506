package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"agentdesk/cmd/agentdesk/shell"
	"agentdesk/internal/agentapi"
	"agentdesk/internal/config"
	"agentdesk/internal/console"
	"agentdesk/internal/logging"
	"agentdesk/internal/telemetry"
	"agentdesk/internal/usage"
)

// cliOptions holds the global flags.
type cliOptions struct {
	configPath string
	serverURL  string
	mode       string
	verbose    bool
}

// app is the state shared by every command of one invocation.
type app struct {
	opts cliOptions

	cfg        *config.Config
	mode       console.Mode
	logger     *zap.Logger
	providers  *telemetry.Providers
	client     *agentapi.Client
	dispatcher *console.Dispatcher
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "agentdesk",
		Short: "Terminal console for a remote skill-based AI agent",
		Long: `agentdesk sends natural-language goals to an agent service, shows the
step trace the agent returns and its final output.

In goal mode the agent picks the skills. In skills mode each request is
scoped to one skill chosen from the catalog (ctrl+s opens the menu).

Run without arguments to start the interactive console.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { a.teardown() },
		RunE:              a.runInteractive,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.opts.configPath, "config", "c", config.DefaultConfigPath, "Config file path")
	pf.StringVar(&a.opts.serverURL, "server", "", "Agent service base URL (overrides config)")
	pf.StringVar(&a.opts.mode, "mode", "", "Console mode: goal or skills (overrides config)")
	pf.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newSkillsCmd(a),
		newRunCmd(a),
		newPingCmd(a),
		newStatusCmd(a),
		newConfigCmd(a),
	)
	return root
}

// loadConfig reads the config file and applies the global flags.
func (a *app) loadConfig() error {
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.opts.serverURL != "" {
		cfg.Agent.BaseURL = a.opts.serverURL
	}
	if a.opts.mode != "" {
		cfg.UI.Mode = a.opts.mode
	}
	if a.opts.verbose {
		cfg.Logging.Level = "debug"
	}
	a.cfg = cfg
	return nil
}

// setup builds config, logging, telemetry and the agent client. The
// interactive console owns the terminal, so only one-shot commands with
// --verbose log to stderr.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	mode, err := console.ParseMode(a.cfg.UI.Mode)
	if err != nil {
		return err
	}
	a.mode = mode

	var sink zapcore.WriteSyncer
	if cmd != cmd.Root() && a.opts.verbose {
		sink = zapcore.Lock(os.Stderr)
	}
	if err := logging.Initialize(a.cfg.Logging, sink); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	a.logger = logging.Get(logging.CategoryBoot)
	logging.Boot("config %s, mode %s", a.opts.configPath, mode)

	providers, err := telemetry.Init(a.cfg.Telemetry, version)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	a.providers = providers

	client, err := agentapi.NewClient(a.cfg.Agent.BaseURL,
		agentapi.WithTimeout(a.cfg.RequestTimeout()),
		agentapi.WithLogger(logging.Get(logging.CategoryAPI)),
		agentapi.WithTracerProvider(providers.Tracer),
		agentapi.WithMeterProvider(providers.Meter),
	)
	if err != nil {
		return err
	}
	a.client = client
	a.dispatcher = console.NewDispatcher(client, logging.Get(logging.CategoryDispatch)).
		WithUsage(usage.NewTracker())

	a.logger.Info("agentdesk starting",
		zap.String("version", version),
		zap.String("command", cmd.Name()),
		zap.String("base_url", client.BaseURL()),
		zap.String("mode", mode.String()),
		zap.Bool("telemetry", a.cfg.Telemetry.Active()))
	return nil
}

func (a *app) teardown() {
	if a.dispatcher != nil && a.logger != nil {
		if s := a.dispatcher.Usage().Session(); s.Runs > 0 {
			a.logger.Info("session usage",
				zap.Int64("runs", s.Runs),
				zap.Int64("failures", s.Failures),
				zap.Int64("steps", s.Steps),
				zap.Duration("avg_latency", s.AvgLatency()))
			for scope, c := range a.dispatcher.Usage().Stats().ByScope {
				a.logger.Debug("scope usage",
					zap.String("scope", scope),
					zap.Int64("runs", c.Runs),
					zap.Int64("failures", c.Failures))
			}
		}
	}
	if a.providers != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.providers.Shutdown(ctx); err != nil && a.logger != nil {
			a.logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
		cancel()
	}
	_ = logging.Sync()
}

func (a *app) runInteractive(cmd *cobra.Command, args []string) error {
	return shell.Run(shell.Config{
		Dispatcher: a.dispatcher,
		Mode:       a.mode,
		UI:         a.cfg.UI,
		BaseURL:    a.client.BaseURL(),
		Logger:     logging.Get(logging.CategoryUI),
	})
}
