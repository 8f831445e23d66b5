package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/internal/buildinfo"
	"github.com/skosovsky/toolbox/internal/config"
	"github.com/skosovsky/toolbox/internal/logging"
	"github.com/skosovsky/toolbox/internal/server"
	"github.com/skosovsky/toolbox/internal/telemetry"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to a YAML config file (defaults to $CONFIG_PATH, then toolbox.yaml)",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "override logging.level (trace, debug, info, warn, error)",
	}
	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"o"},
		Value:   formatJSON,
		Usage:   "output format: json or yaml",
	}
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "toolboxd",
		Usage:   "Stateless HTTP tool dispatch service",
		Version: version,
		Flags:   []cli.Flag{configFlag, logLevelFlag},
		Commands: []*cli.Command{
			serveCmd(),
			listCmd(),
			callCmd(),
			versionCmd(),
		},
	}
}

// setup loads the configuration and initializes logging from it.
func setup(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	if lvl := cmd.String(logLevelFlag.Name); lvl != "" {
		cfg.Logging.Level = lvl
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	logging.Debug().
		Str("addr", cfg.Server.Addr()).
		Dur("tool_timeout", cfg.Registry.Timeout).
		Int("max_concurrency", cfg.Registry.MaxConcurrency).
		Msg("configuration loaded")
	return cfg, nil
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server until SIGINT or SIGTERM",
		Description: "With tracing.enabled (TOOLBOX_TRACING_ENABLED=true) every tool call records a span\n" +
			"and finished spans are written to the log.",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownTracing := telemetry.Setup(telemetry.Config{
				Enabled:     cfg.Tracing.Enabled,
				SampleRatio: cfg.Tracing.SampleRatio,
			}, logging.Logger())
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				if err := shutdownTracing(flushCtx); err != nil {
					logging.Error().Err(err).Msg("flushing spans failed")
				}
			}()

			reg := buildRegistry(cfg)
			logging.Info().
				Int("tools", reg.Len()).
				Bool("ai_enabled", cfg.AI.Enabled()).
				Msg("registry ready")
			if !cfg.AI.Enabled() {
				logging.Warn().Msg("no AI API key configured; ai/* tools answer NOT_CONFIGURED")
			}
			return server.New(cfg, reg).Run(ctx)
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print the tool catalog",
		Flags: []cli.Flag{formatFlag},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			reg := buildRegistry(cfg)
			tools := server.Catalog(reg)
			return render(cmd.Root().Writer, cmd.String(formatFlag.Name),
				server.ToolsResponse{Tools: tools, Count: len(tools)})
		},
	}
}

func callCmd() *cli.Command {
	return &cli.Command{
		Name:      "call",
		Usage:     "Execute one tool locally and print its JSON result",
		ArgsUsage: "<category/action> [json-args | -]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return cli.Exit("tool name is required", 2)
			}
			args, err := readCallArgs(cmd.Args().Get(1), cmd.Root().Reader)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			reg := buildRegistry(cfg)
			defer func() { _ = reg.Shutdown(context.Background()) }()

			res := reg.Execute(ctx, toolbox.ToolCall{
				ID:       logging.GenerateRequestID(),
				ToolName: name,
				Args:     args,
			})
			if res.Error != nil {
				code := 1
				if toolbox.IsClientError(res.Error) {
					code = 2
				}
				return cli.Exit(res.Error.Error(), code)
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, string(res.Result))
			return err
		},
	}
}

// readCallArgs returns the raw JSON arguments: the literal argument, stdin for "-",
// or an empty object when omitted.
func readCallArgs(arg string, stdin io.Reader) ([]byte, error) {
	var raw []byte
	switch arg {
	case "":
		return []byte("{}"), nil
	case "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read arguments from stdin: %w", err)
		}
		raw = b
	default:
		raw = []byte(arg)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("arguments are not valid JSON: %s", strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build metadata",
		Flags: []cli.Flag{formatFlag},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return render(cmd.Root().Writer, cmd.String(formatFlag.Name), buildinfo.Get())
		},
	}
}

// render writes v as indented JSON or YAML.
func render(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return cli.Exit(fmt.Sprintf("unknown output format %q", format), 2)
	}
}
