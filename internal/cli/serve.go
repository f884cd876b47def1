package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitbridge/internal/config"
	"github.com/mrz1836/gitbridge/internal/errors"
	"github.com/mrz1836/gitbridge/internal/git"
	"github.com/mrz1836/gitbridge/internal/server"
	"github.com/mrz1836/gitbridge/internal/tools"
)

// serveFlags holds flags specific to the serve command.
type serveFlags struct {
	// RepoPath overrides the configured default repository path.
	RepoPath string
	// Engine overrides the configured git engine (cli or native).
	Engine string
}

// AddServeCommand adds the serve command to the root command.
func AddServeCommand(root *cobra.Command, flags *GlobalFlags) {
	sFlags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve version control operations over stdin/stdout",
		Long: `Serve reads newline-delimited JSON-RPC 2.0 requests from stdin and
writes one response per line to stdout. Logs go to stderr and the log
file only; stdout carries nothing but protocol frames.

The server exits when stdin reaches EOF or on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags, sFlags)
		},
	}

	cmd.Flags().StringVar(&sFlags.RepoPath, "repo-path", "", "default repository path for requests that omit repo_path")
	cmd.Flags().StringVar(&sFlags.Engine, "engine", "", "git engine to use (cli|native)")

	root.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, flags *GlobalFlags, sFlags *serveFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	// Flags win over config.
	if sFlags.RepoPath != "" {
		cfg.Server.DefaultRepoPath = sFlags.RepoPath
	}
	if sFlags.Engine != "" {
		cfg.Engine = sFlags.Engine
	}

	engine, err := git.ParseEngine(cfg.Engine)
	if err != nil {
		return err
	}
	style, err := git.ParseMessageStyle(cfg.Message.Style)
	if err != nil {
		return err
	}

	// Reinitialize with the configured rotation settings.
	logger := InitLoggerWithRotation(flags.Verbose, flags.Quiet, cfg.Log)
	defer CloseLogFile()

	dispatcher := tools.NewDispatcher(tools.Options{
		Logger:          logger,
		DefaultRepoPath: cfg.Server.DefaultRepoPath,
		Engine:          engine,
		MessageStyle:    style,
		MessageMaxFiles: cfg.Message.MaxFiles,
	})

	logger.Info().
		Str("engine", string(engine)).
		Str("default_repo_path", cfg.Server.DefaultRepoPath).
		Msg("server starting")

	srv := server.New(logger, dispatcher, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
