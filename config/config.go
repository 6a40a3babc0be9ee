package config

import (
	"log/slog"
	"net"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

var (
	routePattern     = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]*$`)
	namespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	Environment  string `mapstructure:"environment"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	IdleTimeout  string `mapstructure:"idle_timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type ArithmeticConfig struct {
	Route   string `mapstructure:"route"`
	A       int    `mapstructure:"a"`
	B       int    `mapstructure:"b"`
	NDigits int    `mapstructure:"ndigits"`
}

type DatasetConfig struct {
	Route string `mapstructure:"route"`
}

type FunctionsConfig struct {
	Key          string           `mapstructure:"key"`
	MaxBodyBytes int64            `mapstructure:"max_body_bytes"`
	Arithmetic   ArithmeticConfig `mapstructure:"arithmetic"`
	Dataset      DatasetConfig    `mapstructure:"dataset"`
}

type MetricsConfig struct {
	BufferSize int    `mapstructure:"buffer_size"`
	Namespace  string `mapstructure:"namespace"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Functions FunctionsConfig `mapstructure:"functions"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("functions.key", "name")
	v.SetDefault("functions.max_body_bytes", 1<<20)
	v.SetDefault("functions.arithmetic.route", "greet-arithmetic")
	v.SetDefault("functions.arithmetic.a", 10)
	v.SetDefault("functions.arithmetic.b", 20)
	v.SetDefault("functions.arithmetic.ndigits", 2)
	v.SetDefault("functions.dataset.route", "greet-dataset")
	v.SetDefault("metrics.buffer_size", 1000)
	v.SetDefault("metrics.namespace", "trigger")
}

// Load reads config.yaml from ./config or the working directory, overlays
// environment variables (server.address -> SERVER_ADDRESS) and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Info("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

// Timeouts returns the parsed server timeouts. Call after Validate.
func (s ServerConfig) Timeouts() (read, write, idle time.Duration) {
	read, _ = time.ParseDuration(s.ReadTimeout)
	write, _ = time.ParseDuration(s.WriteTimeout)
	idle, _ = time.ParseDuration(s.IdleTimeout)
	return read, write, idle
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
					validation.Field(&sc.ReadTimeout, validation.Required, validation.By(validateDuration)),
					validation.Field(&sc.WriteTimeout, validation.Required, validation.By(validateDuration)),
					validation.Field(&sc.IdleTimeout, validation.Required, validation.By(validateDuration)),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Functions,
			validation.Required,
			validation.By(validateFunctions),
		),
		validation.Field(&c.Metrics,
			validation.Required,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MetricsConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MetricsConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.BufferSize, validation.Required, validation.Min(1)),
					validation.Field(&mc.Namespace, validation.Required, validation.Match(namespacePattern)),
				)
			}),
		),
	)
}

func validateFunctions(value interface{}) error {
	fc, ok := value.(FunctionsConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a FunctionsConfig")
	}

	if fc.Arithmetic.Route != "" && fc.Arithmetic.Route == fc.Dataset.Route {
		return validation.NewError("validation_duplicate_route", "function routes must be distinct")
	}

	return validation.ValidateStruct(&fc,
		validation.Field(&fc.Key, validation.Required, is.PrintableASCII),
		validation.Field(&fc.MaxBodyBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&fc.Arithmetic, validation.By(func(value interface{}) error {
			ac, ok := value.(ArithmeticConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be an ArithmeticConfig")
			}
			return validation.ValidateStruct(&ac,
				validation.Field(&ac.Route, validation.Required, validation.Match(routePattern)),
				validation.Field(&ac.B, validation.By(validateDivisor)),
				validation.Field(&ac.NDigits, validation.Min(0), validation.Max(15)),
			)
		})),
		validation.Field(&fc.Dataset, validation.By(func(value interface{}) error {
			dc, ok := value.(DatasetConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a DatasetConfig")
			}
			return validation.ValidateStruct(&dc,
				validation.Field(&dc.Route, validation.Required, validation.Match(routePattern)),
			)
		})),
	)
}

func validateDivisor(value interface{}) error {
	b, ok := value.(int)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be an int")
	}

	if b == 0 {
		return validation.NewError("validation_zero_divisor", "divisor cannot be zero")
	}

	return nil
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be positive")
	}

	return nil
}
