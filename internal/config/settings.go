package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/polyflowrobotics/robot-console/internal/wificonfig"
)

// EnvPrefix prefixes every environment variable the console reads
const EnvPrefix = "ROBOT_CONSOLE"

// Viper keys
const (
	KeyAPIURL         = "api_url"
	KeyTimeout        = "timeout"
	KeyListen         = "listen"
	KeyAllowedOrigins = "allowed_origins"
	KeyRobotID        = "robot_id"
	KeyLogLevel       = "log_level"
)

// Defaults
const (
	DefaultListen  = "127.0.0.1:8080"
	DefaultRobotID = "robot-001"
)

// Settings is the console's resolved configuration
type Settings struct {
	// APIURL is the robot API base, including the /api proxy path
	APIURL string `mapstructure:"api_url"`

	// Timeout bounds every robot API request
	Timeout time.Duration `mapstructure:"timeout"`

	// Listen is the address "serve" binds to
	Listen string `mapstructure:"listen"`

	// AllowedOrigins enables CORS on the /api proxy when non-empty
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// RobotID names the robot in the UI and in discovery lookups
	RobotID string `mapstructure:"robot_id"`

	// LogLevel enables logging (debug, info, warn, error); empty is silent
	LogLevel string `mapstructure:"log_level"`
}

// flagKeys maps command-line flag names to viper keys
var flagKeys = map[string]string{
	"api-url":         KeyAPIURL,
	"timeout":         KeyTimeout,
	"listen":          KeyListen,
	"allowed-origins": KeyAllowedOrigins,
	"robot-id":        KeyRobotID,
	"log-level":       KeyLogLevel,
}

// SetDefaults registers the built-in defaults on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, wificonfig.DefaultBaseURL)
	v.SetDefault(KeyTimeout, wificonfig.DefaultTimeout)
	v.SetDefault(KeyListen, DefaultListen)
	v.SetDefault(KeyAllowedOrigins, []string{})
	v.SetDefault(KeyRobotID, DefaultRobotID)
	v.SetDefault(KeyLogLevel, "")
}

// BindFlags binds the known flags present in fs to their viper keys.
// Flags that fs does not define are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// LoadDotEnv loads environment files into the process environment.
// Variables already set are kept. Missing files are skipped; with no
// arguments ".env" in the working directory is tried.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load resolves Settings from v. configPath selects an explicit config file,
// which must exist; when empty the default location is used if present.
func Load(v *viper.Viper, configPath string) (*Settings, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// The robot API's own variable is honoured when running next to it
	if err := v.BindEnv(KeyAllowedOrigins, EnvPrefix+"_ALLOWED_ORIGINS", "ROBOT_API_ALLOWED_ORIGINS"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		if dir, err := GetConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	s.AllowedOrigins = splitOrigins(s.AllowedOrigins)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings for values the console cannot run with
func (s *Settings) Validate() error {
	u, err := url.Parse(s.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_url %q: must be an http(s) URL", s.APIURL)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", s.Timeout)
	}
	if s.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	return nil
}

// splitOrigins accepts both list values and the comma-separated form used
// in environment variables.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}
