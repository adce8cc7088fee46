package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/odvcencio/gitcat/pkg/config"
	"github.com/odvcencio/gitcat/pkg/logutil"
	"github.com/odvcencio/gitcat/pkg/object"
	"github.com/odvcencio/gitcat/pkg/repo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// globalOptions holds the persistent flags and what is derived from them
// before any subcommand runs.
type globalOptions struct {
	dir        string
	configPath string
	logLevel   string
	logFormat  string
	storeDir   string
	verify     bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "gitcat",
		Short:         "Inspect objects in a git loose object store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&g.dir, "dir", "C", ".", "run as if started in this directory")
	flags.StringVar(&g.configPath, "config", config.DefaultPath(), "path to the TOML config file")
	flags.StringVar(&g.logLevel, "log-level", config.DefaultLogLevel, "log level [debug,info,warn,error]")
	flags.StringVar(&g.logFormat, "log-format", config.DefaultLogFormat, "log format [text,color,json]")
	flags.StringVar(&g.storeDir, "store-dir", config.DefaultStoreDir, "name of the store directory to search for")
	flags.BoolVar(&g.verify, "verify", false, "check the hash of every object read")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newCatFileCmd(g))
	root.AddCommand(newLsTreeCmd(g))
	root.AddCommand(newVerifyCmd(g))
	return root
}

// setup loads the config file and lets explicitly set flags override it.
func (g *globalOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}
	if flags.Changed("store-dir") {
		cfg.StoreDir = g.storeDir
	}
	if flags.Changed("verify") {
		cfg.VerifyHashes = g.verify
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logutil.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	g.cfg = cfg
	g.logger = logger
	g.logger.Debug("config loaded", zap.String("path", g.configPath), zap.String("store_dir", cfg.StoreDir))
	return nil
}

func (g *globalOptions) settings() *config.Config {
	if g.cfg == nil {
		return config.Default()
	}
	return g.cfg
}

func (g *globalOptions) openRepo() (*repo.Repo, error) {
	cfg := g.settings()
	return repo.Open(
		g.dir,
		repo.WithStoreDir(cfg.StoreDir),
		repo.WithStoreOptions(
			object.WithLogger(g.logger),
			object.WithVerify(cfg.VerifyHashes),
		),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gitcat %s\n", version)
		},
	}
}
