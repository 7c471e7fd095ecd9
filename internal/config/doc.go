// Package config loads the console's settings.
//
// Settings are layered with viper, lowest precedence first:
//
//  1. built-in defaults (the robot hotspot API at http://10.42.0.1/api)
//  2. the config file, $XDG_CONFIG_HOME/robot-console/config.yaml
//  3. ROBOT_CONSOLE_* environment variables, after .env files are loaded
//  4. command-line flags bound with BindFlags
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/robot-console/config.yaml or $HOME/.config/robot-console/config.yaml
//   - macOS: $HOME/.config/robot-console/config.yaml
//   - Windows: %LOCALAPPDATA%\robot-console\config.yaml
//
// # Security
//
// WiFi credentials are never written to the config file or read from it.
// They only ever travel from the operator to the robot API.
//
// # Usage Example
//
//	_ = config.LoadDotEnv()
//	v := viper.New()
//	_ = config.BindFlags(v, cmd.Flags())
//	settings, err := config.Load(v, "")
//	if err != nil {
//	    return err
//	}
//	client := wificonfig.NewClient(settings.APIURL)
package config
