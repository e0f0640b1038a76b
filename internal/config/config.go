// Package config reads the first-boot configuration file and applies the
// environment overrides the appliance scripts set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/runtipios/firstboot/internal/credstore"
	"github.com/runtipios/firstboot/internal/ledger"
)

const (
	DefaultFile    = "/etc/runtipios/firstboot.toml"
	DefaultEnvFile = "/etc/default/runtipios-firstboot"

	DefaultPortalPort        = 80
	DefaultStatusPort        = 8080
	DefaultMinPasswordLength = 6
	DefaultAppDir            = "/opt/runtipi"
	DefaultRefreshInterval   = 10 * time.Second
	DefaultScanTimeout       = 10 * time.Second
)

type portalConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// name of the systemd socket (FileDescriptorName=) to use instead of
	// binding the port ourselves
	Socket            string `toml:"socket"`
	MinPasswordLength int    `toml:"min_password_length"`
	Metrics           bool   `toml:"metrics"`
}

type statusConfig struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	Socket          string        `toml:"socket"`
	AppDir          string        `toml:"app_dir"`
	RefreshInterval time.Duration `toml:"refresh_interval"`
	Metrics         bool          `toml:"metrics"`
}

type scanConfig struct {
	// argv of the scan tool; its output has to be in nmcli terse format
	Command []string      `toml:"command"`
	Timeout time.Duration `toml:"timeout"`
}

type Config struct {
	ConfigFile string       `toml:"config_file"`
	StateFile  string       `toml:"state_file"`
	Portal     portalConfig `toml:"portal"`
	Status     statusConfig `toml:"status"`
	Scan       scanConfig   `toml:"scan"`
}

func defaults() Config {
	return Config{
		ConfigFile: credstore.DefaultPath,
		StateFile:  ledger.DefaultPath,
		Portal: portalConfig{
			Host:              "0.0.0.0",
			Port:              DefaultPortalPort,
			Socket:            "portal",
			MinPasswordLength: DefaultMinPasswordLength,
		},
		Status: statusConfig{
			Host:            "0.0.0.0",
			Port:            DefaultStatusPort,
			Socket:          "status",
			AppDir:          DefaultAppDir,
			RefreshInterval: DefaultRefreshInterval,
		},
		Scan: scanConfig{
			Timeout: DefaultScanTimeout,
		},
	}
}

// Parse reads file on top of the defaults and applies the environment
// overrides looked up through getenv. A missing file is not an error.
func Parse(file string, getenv func(string) string) (*Config, error) {
	config := defaults()

	_, err := toml.DecodeFile(file, &config)
	if err != nil {
		// A non-existing config isn't an error, use defaults in this case.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot parse %s: %w", file, err)
		}

		logrus.Info("Configuration file not found, using defaults")
	}

	if getenv != nil {
		if err := config.applyEnv(getenv); err != nil {
			return nil, err
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("STATUS_PAGE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid STATUS_PAGE_PORT %q: %w", v, err)
		}
		c.Status.Port = port
	}
	if v := getenv("PORTAL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORTAL_PORT %q: %w", v, err)
		}
		c.Portal.Port = port
	}
	if v := getenv("RUNTIPIOS_CONFIG_FILE"); v != "" {
		c.ConfigFile = v
	}
	if v := getenv("RUNTIPIOS_STATE_FILE"); v != "" {
		c.StateFile = v
	}
	return nil
}

func (c *Config) validate() error {
	for name, port := range map[string]int{"portal": c.Portal.Port, "status": c.Status.Port} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid %s port: %d", name, port)
		}
	}
	if c.Portal.MinPasswordLength < 1 {
		return fmt.Errorf("invalid minimum password length: %d", c.Portal.MinPasswordLength)
	}
	if c.Status.RefreshInterval < time.Second {
		return fmt.Errorf("refresh interval must be at least one second, got %s", c.Status.RefreshInterval)
	}
	if c.Scan.Timeout <= 0 || c.Scan.Timeout > DefaultScanTimeout {
		return fmt.Errorf("scan timeout must be within (0, %s], got %s", DefaultScanTimeout, c.Scan.Timeout)
	}
	if c.ConfigFile == "" || c.StateFile == "" {
		return fmt.Errorf("config_file and state_file must not be empty")
	}
	return nil
}

func (c *Config) PortalAddr() string {
	return fmt.Sprintf("%s:%d", c.Portal.Host, c.Portal.Port)
}

func (c *Config) StatusAddr() string {
	return fmt.Sprintf("%s:%d", c.Status.Host, c.Status.Port)
}

// EnvLookup returns a getenv that prefers the process environment and falls
// back to the variables defined in envFile. A missing envFile is ignored.
func EnvLookup(envFile string, getenv func(string) string) (func(string) string, error) {
	vars, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot read environment file %s: %w", envFile, err)
		}
		vars = map[string]string{}
	}

	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return vars[key]
	}, nil
}

