package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Discord  DiscordConfig
	Log      LogConfig
}

type ServerConfig struct {
	Addr      string
	RPCSocket string
}

type DatabaseConfig struct {
	Driver  string
	DSN     string
	Migrate bool
}

type DiscordConfig struct {
	Token string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env, then an optional config.yaml from dir, then the environment.
// Environment variables use upper-case keys with dots replaced by underscores,
// e.g. DATABASE_DSN. DATABASE_URL and DISCORD_BOT_TOKEN are honoured as fallbacks.
// The result is not validated; see Finalize.
func Load(dir string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rpc_socket", "/tmp/minbot-dashboard.sock")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.migrate", true)
	v.SetDefault("discord.token", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "logfmt")
	_ = v.BindEnv("database.dsn", "DATABASE_DSN", "DATABASE_URL")
	_ = v.BindEnv("discord.token", "DISCORD_TOKEN", "DISCORD_BOT_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:      v.GetString("server.addr"),
			RPCSocket: v.GetString("server.rpc_socket"),
		},
		Database: DatabaseConfig{
			Driver:  strings.ToLower(v.GetString("database.driver")),
			DSN:     v.GetString("database.dsn"),
			Migrate: v.GetBool("database.migrate"),
		},
		Discord: DiscordConfig{Token: v.GetString("discord.token")},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	return cfg, nil
}

// DefaultSQLiteDSN is used when the sqlite driver is selected without a DSN.
const DefaultSQLiteDSN = "minbot.db"

// Finalize fills driver-dependent defaults and validates. Call it once command
// line overrides have been applied on top of Load.
func (c *Config) Finalize() error {
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = DefaultSQLiteDSN
	}
	return c.Validate()
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres", "postgresql", "supabase":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn (or DATABASE_URL) is required for postgres")
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	return nil
}
