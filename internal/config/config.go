package config

import (
	"strconv"
	"strings"

	"codeberg.org/mutker/pifanctl/internal/errors"
	"codeberg.org/mutker/pifanctl/internal/gpio"
	"codeberg.org/mutker/pifanctl/internal/history"
	"codeberg.org/mutker/pifanctl/internal/sensor"
	"codeberg.org/mutker/pifanctl/internal/state"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	Name             = "pifanctl"
	DefaultEnvPrefix = "PIFANCTL"
	DefaultLogPath   = "/var/log/pifanctl.log"
	DefaultLogLevel  = LogLevelInfo
	DefaultPin       = 17
	DefaultFailMode  = FailClosed
)

type Config struct {
	// Threshold and Variance come from the positional arguments.
	Threshold int `mapstructure:"-"`
	Variance  int `mapstructure:"-"`

	SensorPath string   `mapstructure:"sensor-path"`
	StatusPath string   `mapstructure:"status-path"`
	LogPath    string   `mapstructure:"log-path"`
	LogEnabled bool     `mapstructure:"log-enabled"`
	LogLevel   LogLevel `mapstructure:"log-level"`
	Verbose    bool     `mapstructure:"verbose"`
	Pin        int      `mapstructure:"pin"`
	Driver     string   `mapstructure:"driver"`
	Chip       string   `mapstructure:"chip"`
	FailMode   FailMode `mapstructure:"fail-mode"`
	AllowZero  bool     `mapstructure:"allow-zero"`
	History    bool     `mapstructure:"history"`
	HistoryDB  string   `mapstructure:"history-db"`
	LockFile   string   `mapstructure:"lock-file"`
}

// NewFlagSet defines the command line flags with their defaults.
func NewFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(Name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {}

	fs.String("sensor-path", sensor.DefaultPath, "Temperature sensor file (millidegrees Celsius)")
	fs.String("status-path", state.DefaultPath, "File holding the last commanded fan state")
	fs.String("log-path", DefaultLogPath, "Log file, appended on each run")
	fs.Bool("log-enabled", true, "Write the log file")
	fs.String("log-level", string(DefaultLogLevel), "Log level: debug, info, warning, error")
	fs.BoolP("verbose", "v", false, "Also log to stdout")
	fs.Int("pin", DefaultPin, "BCM GPIO line driving the fan")
	fs.String("driver", gpio.DriverRPIO, "GPIO driver: "+strings.Join(gpio.Drivers(), ", "))
	fs.String("chip", gpio.DefaultChip, "GPIO character device for the gpiocdev driver")
	fs.String("fail-mode", string(DefaultFailMode), "On sensor or status errors: closed (abort) or open (continue)")
	fs.Bool("allow-zero", false, "Accept 0 as threshold or variance")
	fs.Bool("history", false, "Record each run in the history database")
	fs.String("history-db", history.DefaultDBPath, "History database path")
	fs.String("lock-file", "", "PID file guarding against overlapping runs (disabled if empty)")

	return fs
}

// Load parses args (without the program name) into a validated Config.
// Flags may be overridden by PIFANCTL_* environment variables.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{envPrefix: DefaultEnvPrefix, lookupEnv: true}
	for _, opt := range opts {
		opt(&o)
	}

	fs := NewFlagSet()
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil, err
		}
		return nil, errFactory.Wrap(ErrParseFlags, err)
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if o.lookupEnv {
		v.SetEnvPrefix(o.envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.parseArgs(fs.Args()); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) parseArgs(args []string) error {
	errFactory := errors.New()

	if len(args) != 2 {
		return errFactory.WithData(errors.ErrArgumentCount, len(args))
	}

	var err error
	if c.Threshold, err = ParseInt(args[0], c.AllowZero); err != nil {
		return errFactory.Wrap(errors.ErrInvalidThreshold, err).WithData(args[0])
	}
	if c.Variance, err = ParseInt(args[1], c.AllowZero); err != nil {
		return errFactory.Wrap(errors.ErrInvalidVariance, err).WithData(args[1])
	}

	return nil
}

// ParseInt parses a base-10 integer argument. Zero is reported as an error
// unless allowZero is set.
func ParseInt(s string, allowZero bool) (int, error) {
	errFactory := errors.New()

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errFactory.Wrap(ErrNotInteger, err)
	}
	if n == 0 && !allowZero {
		return 0, errFactory.New(ErrZeroValue)
	}

	return n, nil
}

// Validate checks the flag values.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Variance < 0 {
		return errFactory.WithData(errors.ErrInvalidVariance, c.Variance)
	}
	if !c.LogLevel.IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if !c.FailMode.IsValid() {
		return invalid("fail-mode", c.FailMode)
	}
	if c.Pin < 0 {
		return invalid("pin", c.Pin)
	}

	known := false
	for _, d := range gpio.Drivers() {
		if c.Driver == d {
			known = true
			break
		}
	}
	if !known {
		return invalid("driver", c.Driver)
	}

	if c.SensorPath == "" {
		return invalid("sensor-path", c.SensorPath)
	}
	if c.StatusPath == "" {
		return invalid("status-path", c.StatusPath)
	}
	if c.LogEnabled && c.LogPath == "" {
		return invalid("log-path", c.LogPath)
	}
	if c.History && c.HistoryDB == "" {
		return invalid("history-db", c.HistoryDB)
	}

	return nil
}

func invalid(field string, value any) error {
	return errors.New().WithData(errors.ErrInvalidConfig, struct {
		Field string
		Value any
	}{
		Field: field,
		Value: value,
	})
}
