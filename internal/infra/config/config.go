package config

// Configuration layer for the chart, bench and publish commands
// Sources in increasing priority: defaults, config.yaml, .env, environment, command flags
// Defaults reproduce the fixed behavior: results.csv -> results_plot.png

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config - root configuration
type Config struct {
	Plot     PlotConfig     `mapstructure:"plot"`
	Bench    BenchConfig    `mapstructure:"bench"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	App      AppConfig      `mapstructure:"app"`
}

type PlotConfig struct {
	Input    string  `mapstructure:"input"`     // CSV with bodies, threads, time_sec
	Output   string  `mapstructure:"output"`    // PNG written by the chart run
	WidthIn  float64 `mapstructure:"width_in"`  // figure width in inches
	HeightIn float64 `mapstructure:"height_in"` // figure height in inches
	DPI      int     `mapstructure:"dpi"`
}

type BenchConfig struct {
	Bodies      []int   `mapstructure:"-"` // decoded by parseIntList
	Threads     []int   `mapstructure:"-"`
	Steps       int     `mapstructure:"steps"`    // simulate() calls timed per run
	Timestep    float64 `mapstructure:"timestep"` // seconds of simulated time per step
	Seed        int64   `mapstructure:"seed"`
	Output      string  `mapstructure:"output"`       // results CSV
	MetricsFile string  `mapstructure:"metrics_file"` // prometheus textfile, empty = off
	Strategy    string  `mapstructure:"strategy"`     // pair-buffer (v0) or per-thread (v1)
	Preset      string  `mapstructure:"preset"`       // random or solar
}

type TelegramConfig struct {
	BotToken    string `mapstructure:"bot_token"`
	ChatID      string `mapstructure:"chat_id"`
	Caption     string `mapstructure:"caption"`
	APIEndpoint string `mapstructure:"api_endpoint"` // format string with token and method, tgbotapi style
	MaxRetries  int    `mapstructure:"max_retries"`
	RateLimit   int    `mapstructure:"rate_limit"` // requests per second
}

// AppConfig -
type AppConfig struct {
	LogFile  string `mapstructure:"log_file"` // empty = console only
	LogLevel string `mapstructure:"log_level"`
}

// LoadConfig from defaults, config.yaml, .env, environment and flags
// flags may be nil. A "config" flag, when present and set, names the yaml file to read.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	// .env values become process env, so BindEnv aliases below see them
	godotenv.Load(".env")

	v := viper.New()

	setDefaults(v)

	configFile := ""
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.ReadInConfig() // optional
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setupEnvAliases(v)

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Lists from env/.env arrive as "10,50,100"
	var err error
	if config.Bench.Bodies, err = parseIntList(v.Get("bench.bodies")); err != nil {
		return nil, fmt.Errorf("bench.bodies: %w", err)
	}
	if config.Bench.Threads, err = parseIntList(v.Get("bench.threads")); err != nil {
		return nil, fmt.Errorf("bench.threads: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setupEnvAliases(v *viper.Viper) {
	// Plot
	v.BindEnv("plot.input", "NBODY_PLOT_INPUT")
	v.BindEnv("plot.output", "NBODY_PLOT_OUTPUT")
	v.BindEnv("plot.dpi", "NBODY_PLOT_DPI")

	// Bench
	v.BindEnv("bench.bodies", "NBODY_BENCH_BODIES")
	v.BindEnv("bench.threads", "NBODY_BENCH_THREADS")
	v.BindEnv("bench.steps", "NBODY_BENCH_STEPS")
	v.BindEnv("bench.timestep", "NBODY_BENCH_TIMESTEP")
	v.BindEnv("bench.seed", "NBODY_BENCH_SEED")
	v.BindEnv("bench.output", "NBODY_BENCH_OUTPUT")
	v.BindEnv("bench.metrics_file", "NBODY_BENCH_METRICS_FILE")
	v.BindEnv("bench.strategy", "NBODY_BENCH_STRATEGY")
	v.BindEnv("bench.preset", "NBODY_BENCH_PRESET")

	// Telegram
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	v.BindEnv("telegram.caption", "TELEGRAM_CAPTION")
	v.BindEnv("telegram.api_endpoint", "TELEGRAM_API_ENDPOINT")
	v.BindEnv("telegram.max_retries", "TELEGRAM_MAX_RETRIES")

	// App
	v.BindEnv("app.log_file", "NBODY_LOG_FILE")
	v.BindEnv("app.log_level", "NBODY_LOG_LEVEL")
}

// setDefaults by default
func setDefaults(v *viper.Viper) {
	// Plot - 10x6 inches at 100 DPI
	v.SetDefault("plot.input", "results.csv")
	v.SetDefault("plot.output", "results_plot.png")
	v.SetDefault("plot.width_in", 10.0)
	v.SetDefault("plot.height_in", 6.0)
	v.SetDefault("plot.dpi", 100)

	// Bench
	v.SetDefault("bench.bodies", []int{10, 100, 500, 1000})
	v.SetDefault("bench.threads", []int{1, 2, 4, 8})
	v.SetDefault("bench.steps", 10)
	v.SetDefault("bench.timestep", 300.0) // 5 minutes of simulated time
	v.SetDefault("bench.seed", 1)
	v.SetDefault("bench.output", "results.csv")
	v.SetDefault("bench.metrics_file", "")
	v.SetDefault("bench.strategy", "per-thread")
	v.SetDefault("bench.preset", "random")

	// Telegram
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.caption", "Simulation Time vs Threads per Body Count")
	v.SetDefault("telegram.api_endpoint", "https://api.telegram.org/bot%s/%s")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.rate_limit", 1)

	// App
	v.SetDefault("app.log_file", "")
	v.SetDefault("app.log_level", "info")
}

// flagKeys maps command flag names to config keys
var flagKeys = map[string]string{
	"input":        "plot.input",
	"output":       "plot.output",
	"results":      "bench.output",
	"bodies":       "bench.bodies",
	"threads":      "bench.threads",
	"steps":        "bench.steps",
	"seed":         "bench.seed",
	"metrics-file": "bench.metrics_file",
	"strategy":     "bench.strategy",
	"preset":       "bench.preset",
	"chat-id":      "telegram.chat_id",
	"caption":      "telegram.caption",
	"log-file":     "app.log_file",
	"log-level":    "app.log_level",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// parseIntList accepts a yaml list, a flag slice or a comma-separated string
func parseIntList(raw interface{}) ([]int, error) {
	switch val := raw.(type) {
	case nil:
		return nil, nil
	case []int:
		return val, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return []int{}, nil
		}
		parts := strings.Split(strings.Trim(val, "[]"), ",")
		result := make([]int, 0, len(parts))
		for _, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("invalid integer %q", part)
			}
			result = append(result, n)
		}
		return result, nil
	case []interface{}:
		result := make([]int, 0, len(val))
		for _, item := range val {
			switch n := item.(type) {
			case int:
				result = append(result, n)
			case int64:
				result = append(result, int(n))
			case float64:
				result = append(result, int(n))
			case string:
				parsed, err := strconv.Atoi(strings.TrimSpace(n))
				if err != nil {
					return nil, fmt.Errorf("invalid integer %q", n)
				}
				result = append(result, parsed)
			default:
				return nil, fmt.Errorf("unsupported list item %T", item)
			}
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported list value %T", raw)
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Plot.Input == "" {
		return fmt.Errorf("plot.input is required")
	}
	if cfg.Plot.Output == "" {
		return fmt.Errorf("plot.output is required")
	}
	if cfg.Plot.WidthIn <= 0 || cfg.Plot.HeightIn <= 0 {
		return fmt.Errorf("plot size must be positive, got %vx%v in", cfg.Plot.WidthIn, cfg.Plot.HeightIn)
	}
	if cfg.Plot.DPI <= 0 {
		return fmt.Errorf("plot.dpi must be positive, got %d", cfg.Plot.DPI)
	}
	if cfg.Telegram.MaxRetries < 0 {
		return fmt.Errorf("telegram.max_retries must not be negative")
	}
	return nil
}
