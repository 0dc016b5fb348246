package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/minbot/dashboard/internal/adapters/db/sqlstore"
	discordadapter "github.com/minbot/dashboard/internal/adapters/discord"
	httpadapter "github.com/minbot/dashboard/internal/adapters/http"
	rpcadapter "github.com/minbot/dashboard/internal/adapters/rpcjson"
	"github.com/minbot/dashboard/internal/adapters/system"
	"github.com/minbot/dashboard/internal/application"
	"github.com/minbot/dashboard/internal/config"
	"github.com/minbot/dashboard/internal/domain"
	"github.com/minbot/dashboard/internal/logging"
	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "minbot-dashboard",
		Usage: "Minbot admin dashboard server and operator CLI",
		Commands: []*cli.Command{
			serverCommand(),
			connectCommand(),
			xpCommand(),
			punishmentsCommand(),
			commandsCommand(),
			levelRolesCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run the HTTP API, dashboard and local JSON-RPC socket",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Usage: "directory holding config.yaml"},
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address (overrides server.addr)"},
			&cli.StringFlag{Name: "rpc-socket", Usage: "JSON-RPC unix socket path (overrides server.rpc_socket)"},
			&cli.StringFlag{Name: "db-driver", Usage: "sqlite or postgres (overrides database.driver)"},
			&cli.StringFlag{Name: "db-dsn", Usage: "database DSN (overrides database.dsn)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn, error"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load(c.String("config-dir"))
			if err != nil {
				return err
			}
			if v := c.String("addr"); v != "" {
				cfg.Server.Addr = v
			}
			if v := c.String("rpc-socket"); v != "" {
				cfg.Server.RPCSocket = v
			}
			if v := c.String("db-driver"); v != "" {
				cfg.Database.Driver = v
			}
			if v := c.String("db-dsn"); v != "" {
				cfg.Database.DSN = v
			}
			if v := c.String("log-level"); v != "" {
				cfg.Log.Level = v
			}
			if err := cfg.Finalize(); err != nil {
				return err
			}
			return runServer(ctx, cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	db, err := sqlstore.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.Migrate {
		if err := sqlstore.RunMigrations(ctx, db); err != nil {
			return err
		}
	}
	stats, err := sqlstore.NewStatsReader(db)
	if err != nil {
		return err
	}

	var discord domain.DiscordGateway
	if cfg.Discord.Token != "" {
		gw, err := discordadapter.New(cfg.Discord.Token)
		if err != nil {
			return err
		}
		discord = gw
	} else {
		logger.Warn("discord token not configured; enforcement and role sync run in record-only mode")
	}

	repo := sqlstore.NewDashboardRepository(db)
	service := application.NewDashboardService(repo, discord, stats, system.NewHostMonitor(), logger)

	router := httpadapter.NewRouter(service, logger)
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	rpcSrv, err := rpcadapter.Start(cfg.Server.RPCSocket, service, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = rpcSrv.Close()
	}()
	logger.Info("json-rpc listening", "socket", "unix://"+cfg.Server.RPCSocket)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "driver", cfg.Database.Driver)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func transportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "transport", Usage: "uds or http (defaults to the saved connection)"},
		&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
	}
}

func clientConfig(c *cli.Command) (cliConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cliConfig{}, err
	}
	if v := c.String("transport"); v != "" {
		cfg.Transport = v
	}
	return cfg, nil
}

func connectCommand() *cli.Command {
	return &cli.Command{
		Name:  "connect",
		Usage: "Save how the CLI reaches a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "transport", Value: "uds"},
			&cli.StringFlag{Name: "server", Value: defaultServer},
			&cli.StringFlag{Name: "socket", Value: defaultSocket},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := cliConfig{Transport: c.String("transport"), Server: c.String("server"), Socket: c.String("socket")}
			if cfg.Transport != "uds" && cfg.Transport != "http" {
				return fmt.Errorf("transport must be uds or http, got %q", cfg.Transport)
			}
			if err := saveConfig(cfg); err != nil {
				return err
			}
			fmt.Printf("saved %s connection\n", cfg.Transport)
			return nil
		},
	}
}

func xpCommand() *cli.Command {
	guildFlags := func(extra ...cli.Flag) []cli.Flag {
		flags := append(transportFlags(),
			&cli.StringFlag{Name: "guild", Required: true},
			&cli.StringFlag{Name: "user", Required: true},
		)
		return append(flags, extra...)
	}
	return &cli.Command{
		Name:  "xp",
		Usage: "Inspect and adjust member experience",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show a member's level record",
				Flags: guildFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := clientConfig(c)
					if err != nil {
						return err
					}
					var out domain.UserLevelView
					if err := doXPGet(ctx, cfg, c.String("guild"), c.String("user"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printUserLevel(out)
					return nil
				},
			},
			{
				Name:  "grant",
				Usage: "Apply an experience delta (negative to remove)",
				Flags: guildFlags(&cli.Int64Flag{Name: "delta", Required: true}),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := clientConfig(c)
					if err != nil {
						return err
					}
					var out application.ExperienceResult
					if err := doXPApply(ctx, cfg, c.String("guild"), c.String("user"), c.Int64("delta"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printExperienceResult(out)
					return nil
				},
			},
		},
	}
}

func punishmentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "punishments",
		Usage: "List and revoke punishments",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List a guild's punishments",
				Flags: append(transportFlags(),
					&cli.StringFlag{Name: "guild", Required: true},
					&cli.StringFlag{Name: "user"},
					&cli.BoolFlag{Name: "active", Usage: "only active punishments"},
					&cli.IntFlag{Name: "limit", Value: 100},
				),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := clientConfig(c)
					if err != nil {
						return err
					}
					var out []domain.Punishment
					if err := doPunishmentsList(ctx, cfg, c.String("guild"), c.String("user"), c.Bool("active"), int(c.Int("limit")), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printPunishments(out)
					return nil
				},
			},
			{
				Name:      "revoke",
				Usage:     "Revoke a punishment by id",
				ArgsUsage: "<id>",
				Flags: append(transportFlags(),
					&cli.StringFlag{Name: "by", Usage: "moderator id recorded as revoker"},
				),
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := strconv.ParseUint(c.Args().First(), 10, 64)
					if err != nil || id == 0 {
						return errors.New("punishment id is required")
					}
					cfg, err := clientConfig(c)
					if err != nil {
						return err
					}
					var out domain.Punishment
					if err := doPunishmentRevoke(ctx, cfg, uint(id), c.String("by"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printPunishments([]domain.Punishment{out})
					return nil
				},
			},
		},
	}
}

func commandsCommand() *cli.Command {
	return &cli.Command{
		Name:  "commands",
		Usage: "Inspect slash command configuration",
		Commands: []*cli.Command{
			{
				Name:  "effective",
				Usage: "Show the merged command configuration of a guild",
				Flags: append(transportFlags(),
					&cli.StringFlag{Name: "guild", Required: true},
					&cli.StringFlag{Name: "name", Usage: "a single command"},
				),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := clientConfig(c)
					if err != nil {
						return err
					}
					var out []domain.EffectiveCommand
					if name := c.String("name"); name != "" {
						var one domain.EffectiveCommand
						if err := doEffectiveCommand(ctx, cfg, c.String("guild"), name, &one); err != nil {
							return err
						}
						out = append(out, one)
					} else if err := doEffectiveCommands(ctx, cfg, c.String("guild"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printEffectiveCommands(out)
					return nil
				},
			},
		},
	}
}

func levelRolesCommand() *cli.Command {
	return &cli.Command{
		Name:  "level-roles",
		Usage: "Level role maintenance",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Recompute level role assignments for a guild",
				Flags: append(transportFlags(),
					&cli.StringFlag{Name: "guild", Required: true},
					&cli.StringSliceFlag{Name: "user", Usage: "limit to these members"},
					&cli.BoolFlag{Name: "apply", Usage: "also assign the roles on Discord"},
				),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := clientConfig(c)
					if err != nil {
						return err
					}
					var out application.LevelRoleSyncResult
					if err := doLevelRolesSync(ctx, cfg, c.String("guild"), c.StringSlice("user"), c.Bool("apply"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printLevelRoleSync(out)
					return nil
				},
			},
		},
	}
}
