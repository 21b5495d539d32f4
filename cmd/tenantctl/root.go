package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"tenantd/internal/config"
	"tenantd/internal/domain"
	"tenantd/internal/infra/backend"
	"tenantd/internal/logger"
	"tenantd/internal/usecase"

	"github.com/spf13/cobra"
)

type app struct {
	cfg     config.Config
	log     logger.Logger
	console *usecase.Console
	backend *backend.Backend

	out    string
	stdout io.Writer
	stderr io.Writer
}

func run(args []string) int {
	return execute(args, os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(context.Background())
	if a.backend != nil {
		_ = a.backend.Close()
	}
	if err == nil {
		return 0
	}
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		fmt.Fprintln(stderr, "not logged in; run: tenantctl login --email <email> --tenant <id>")
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	cfg := config.FromEnv()
	if os.Getenv("STORE_BACKEND") == "" {
		cfg.StoreBackend = config.BackendFile
	}
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "warn"
	}
	a.cfg = cfg

	root := &cobra.Command{
		Use:           "tenantctl",
		Short:         "Manage tenants, users and the console session",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.StoreBackend, "store", a.cfg.StoreBackend, "store backend: memory, file, redis, postgres")
	flags.StringVar(&a.cfg.StorePath, "store-path", a.cfg.StorePath, "file store path")
	flags.StringVar(&a.cfg.StoreNamespace, "namespace", a.cfg.StoreNamespace, "key namespace for redis and postgres")
	flags.StringVar(&a.cfg.RedisAddr, "redis-addr", a.cfg.RedisAddr, "redis address")
	flags.StringVar(&a.cfg.PostgresDSN, "postgres-dsn", a.cfg.PostgresDSN, "postgres dsn")
	flags.StringVar(&a.cfg.PolicyMode, "policy", a.cfg.PolicyMode, "policy mode: static, opa")
	flags.StringVar(&a.cfg.PolicyFile, "policy-file", a.cfg.PolicyFile, "rego module replacing the built-in policy (opa mode)")
	flags.StringVar(&a.cfg.EmailMatch, "email-match", a.cfg.EmailMatch, "email matching: exact, fold")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level")
	flags.BoolVar(&a.cfg.LogJSON, "log-json", a.cfg.LogJSON, "log as JSON")
	flags.StringVar(&a.out, "out", "", "write output to file instead of stdout")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.useCmd(),
		a.tenantsCmd(),
		a.usersCmd(),
		a.canCmd(),
		a.brandCmd(),
		a.switcherCmd(),
		a.seedCmd(),
	)
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	a.cfg = a.cfg.Normalized()
	a.log = logger.New(logger.Config{Level: a.cfg.LogLevel, JSON: a.cfg.LogJSON, Output: a.stderr})
	console, b, err := backend.NewConsole(cmd.Context(), a.cfg, a.log)
	if err != nil {
		return err
	}
	cmd.SetContext(logger.ContextWithLogger(cmd.Context(), a.log.With("command", cmd.Name())))
	a.console = console
	a.backend = b
	return nil
}
