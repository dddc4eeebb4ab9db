package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/frequency/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
	usage        string
}

var (
	secret = configVar[string]{
		envKey:       "FREQUENCY_SECRET",
		flagKey:      "secret",
		defaultValue: "",
		usage:        "Token signing secret",
	}
	host = configVar[string]{
		envKey:       "FREQUENCY_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
		usage:        "Server host",
	}
	port = configVar[int]{
		envKey:       "FREQUENCY_PORT",
		flagKey:      "port",
		defaultValue: 8080,
		usage:        "Server port",
	}
	logLevel = configVar[string]{
		envKey:       "FREQUENCY_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
		usage:        "Logging level",
	}
	storage = configVar[string]{
		envKey:       "FREQUENCY_STORAGE",
		flagKey:      "storage",
		defaultValue: app.StorageRedis,
		usage:        "Room storage backend (redis, file)",
	}
	dataDir = configVar[string]{
		envKey:       "FREQUENCY_DATA_DIR",
		flagKey:      "data-dir",
		defaultValue: "./data",
		usage:        "Directory for the file storage backend",
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
		usage:        "Redis host",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
		usage:        "Redis port",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
		usage:        "Redis password",
	}
	roomTTL = configVar[time.Duration]{
		envKey:       "FREQUENCY_ROOM_TTL",
		flagKey:      "room-ttl",
		defaultValue: 0,
		usage:        "Expiry of stored rooms, 0 keeps them forever",
	}
	dbPath = configVar[string]{
		envKey:       "FREQUENCY_DB_PATH",
		flagKey:      "db-path",
		defaultValue: "./frequency.db",
		usage:        "SQLite database path for user accounts",
	}
	requireAuth = configVar[bool]{
		envKey:       "FREQUENCY_REQUIRE_AUTH",
		flagKey:      "require-auth",
		defaultValue: false,
		usage:        "Reject realtime connections without a token",
	}
	flushRetries = configVar[int]{
		envKey:       "FREQUENCY_FLUSH_RETRIES",
		flagKey:      "flush-retries",
		defaultValue: 3,
		usage:        "Retries for a failed room write before it is dropped",
	}
)

func bind[T any](v *viper.Viper, flags *pflag.FlagSet, cv configVar[T]) {
	if err := v.BindPFlag(cv.flagKey, flags.Lookup(cv.flagKey)); err != nil {
		panic(err)
	}
	if err := v.BindEnv(cv.flagKey, cv.envKey); err != nil {
		panic(err)
	}
	v.SetDefault(cv.flagKey, cv.defaultValue)
}

func setupFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	flags.String(secret.flagKey, secret.defaultValue, secret.usage)
	flags.String(host.flagKey, host.defaultValue, host.usage)
	flags.Int(port.flagKey, port.defaultValue, port.usage)
	flags.String(logLevel.flagKey, logLevel.defaultValue, logLevel.usage)
	flags.String(storage.flagKey, storage.defaultValue, storage.usage)
	flags.String(dataDir.flagKey, dataDir.defaultValue, dataDir.usage)
	flags.String(redisHost.flagKey, redisHost.defaultValue, redisHost.usage)
	flags.Int(redisPort.flagKey, redisPort.defaultValue, redisPort.usage)
	flags.String(redisPassword.flagKey, redisPassword.defaultValue, redisPassword.usage)
	flags.Duration(roomTTL.flagKey, roomTTL.defaultValue, roomTTL.usage)
	flags.String(dbPath.flagKey, dbPath.defaultValue, dbPath.usage)
	flags.Bool(requireAuth.flagKey, requireAuth.defaultValue, requireAuth.usage)
	flags.Int(flushRetries.flagKey, flushRetries.defaultValue, flushRetries.usage)

	bind(v, flags, secret)
	bind(v, flags, host)
	bind(v, flags, port)
	bind(v, flags, logLevel)
	bind(v, flags, storage)
	bind(v, flags, dataDir)
	bind(v, flags, redisHost)
	bind(v, flags, redisPort)
	bind(v, flags, redisPassword)
	bind(v, flags, roomTTL)
	bind(v, flags, dbPath)
	bind(v, flags, requireAuth)
	bind(v, flags, flushRetries)
}

func loadAppConfig(v *viper.Viper) *app.AppConfig {
	return &app.AppConfig{
		Secret:        v.GetString(secret.flagKey),
		Host:          v.GetString(host.flagKey),
		Port:          v.GetInt(port.flagKey),
		LogLevel:      strings.ToUpper(v.GetString(logLevel.flagKey)),
		Storage:       v.GetString(storage.flagKey),
		DataDir:       v.GetString(dataDir.flagKey),
		RedisHost:     v.GetString(redisHost.flagKey),
		RedisPort:     v.GetInt(redisPort.flagKey),
		RedisPassword: v.GetString(redisPassword.flagKey),
		RoomTTL:       v.GetDuration(roomTTL.flagKey),
		DBPath:        v.GetString(dbPath.flagKey),
		RequireAuth:   v.GetBool(requireAuth.flagKey),
		FlushRetries:  v.GetInt(flushRetries.flagKey),
	}
}

func main() {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "frequency",
		Short:         "Shared listening rooms server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig := loadAppConfig(v)
			if err := appConfig.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
			fmt.Printf("starting app with config: %s\n", jsonConfig)

			return app.Run(cmd.Context(), appConfig)
		},
	}

	setupFlags(rootCmd, v)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
