package startup

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/FloodSight/backend/internal/app"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/server"
)

// Options carries the process-level inputs of Run
type Options struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Args     []string
	Registry *app.Registry
	// Listen replaces net.Listen when set
	Listen server.ListenFunc
}

// flags holds command-line overrides. Flags win over the environment.
type flags struct {
	reload   bool
	envFile  string
	logLevel string
	appRef   string
	set      map[string]bool
}

func parseFlags(args []string, output io.Writer) (*flags, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(output)

	f := &flags{set: make(map[string]bool)}
	fs.BoolVar(&f.reload, "reload", false, "Reload the application when source files change (development only)")
	fs.StringVar(&f.envFile, "env-file", "", "Load environment variables from a dotenv file")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.appRef, "app", "", "Application reference in module:attribute form")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// load resolves configuration from the env file, the environment and the
// flags, in increasing precedence.
func (f *flags) load(override bool) (*config.Config, error) {
	cfg, err := config.LoadFile(f.envFile, override)
	if err != nil {
		return nil, err
	}
	if f.set["reload"] {
		cfg.Reload.Enabled = f.reload
	}
	if f.set["log-level"] {
		cfg.Logging.Level = f.logLevel
	}
	if f.set["app"] {
		cfg.App.Ref = f.appRef
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run resolves configuration, prints the banner and serves the configured
// application until ctx is cancelled. Configuration errors are returned
// before anything is printed or bound.
func Run(ctx context.Context, opts Options) error {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	if opts.Registry == nil {
		return fmt.Errorf("no application registry")
	}

	fl, err := parseFlags(opts.Args, stderr)
	if err != nil {
		return err
	}
	cfg, err := fl.load(false)
	if err != nil {
		return err
	}

	// gin's mode is process-wide; it is set once per run.
	if cfg.Logging.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := logging.FromConfig(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	if err := Banner(stdout, cfg.Server.Host, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to write banner: %w", err)
	}

	logger.Debug("Configuration resolved",
		zap.String("app", cfg.App.Ref),
		zap.String("addr", cfg.Server.Addr()),
		zap.Bool("reload", cfg.Reload.Enabled),
		zap.String("log_level", cfg.Logging.Level),
	)

	srvOpts := []server.Option{
		server.WithLogger(logger),
		server.WithConfigLoader(func() (*config.Config, error) {
			return fl.load(true)
		}),
	}
	if opts.Listen != nil {
		srvOpts = append(srvOpts, server.WithListenFunc(opts.Listen))
	}

	return server.New(cfg, opts.Registry, srvOpts...).Run(ctx)
}
