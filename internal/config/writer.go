package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/polyflowrobotics/robot-console/internal/wificonfig"
)

// fileSettings is the on-disk form of Settings
type fileSettings struct {
	APIURL         string   `yaml:"api_url"`
	Timeout        string   `yaml:"timeout"`
	Listen         string   `yaml:"listen"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RobotID        string   `yaml:"robot_id"`
	LogLevel       string   `yaml:"log_level"`
}

// ErrConfigExists is returned by WriteDefault when the file already exists
var ErrConfigExists = errors.New("config file already exists")

// WriteDefault writes a starter config file and returns its path.
// An empty path selects the default location. An existing file is only
// replaced when overwrite is set.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return "", fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !overwrite {
		return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(fileSettings{
		APIURL:         wificonfig.DefaultBaseURL,
		Timeout:        wificonfig.DefaultTimeout.String(),
		Listen:         DefaultListen,
		AllowedOrigins: []string{},
		RobotID:        DefaultRobotID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Robot Console configuration
#
# WiFi credentials are never stored here.
# Every key can be overridden with ROBOT_CONSOLE_<KEY>, e.g. ROBOT_CONSOLE_API_URL.
#
# Location: ` + path + `

`)
	data = append(header, data...)

	// Write to temporary file first, then rename
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save config file: %w", err)
	}

	return path, nil
}
