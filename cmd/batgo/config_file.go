package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/batgo/batgo/internal/config"
)

const appDirName = "batgo"

// configFilePath resolves the one config file this run should read, honoring
// --config-file/--config-dir over BAT_CONFIG_PATH/BAT_CONFIG_DIR over the
// default XDG search chain (§6). It returns ("", nil) when nothing was
// explicitly requested and the default chain found no file -- absence is not
// an error unless the caller asked for a specific path.
func configFilePath(opts *CLIOptions, env config.Env) (string, error) {
	if opts.OptConfigFile != "" {
		return opts.OptConfigFile, nil
	}
	if opts.OptConfigDir != "" {
		return config.DefaultLocator.Locate(opts.OptConfigDir)
	}
	if env.ConfigPath != "" {
		return env.ConfigPath, nil
	}
	if env.ConfigDir != "" {
		return config.DefaultLocator.Locate(env.ConfigDir)
	}
	path, err := config.LocateConfigFile(appDirName, config.DefaultLocator, os.UserHomeDir)
	if err != nil {
		return "", nil
	}
	return path, nil
}

// loadConfigFile reads the resolved config file, if any. A missing file is
// only fatal when the path came from an explicit --config-file/--config-dir
// flag or a BAT_CONFIG_PATH/BAT_CONFIG_DIR override; the default search
// chain finding nothing just means "no config file" (nil, nil).
func loadConfigFile(opts *CLIOptions, env config.Env) (*config.File, error) {
	explicit := opts.OptConfigFile != "" || opts.OptConfigDir != "" || env.ConfigPath != "" || env.ConfigDir != ""

	path, err := configFilePath(opts, env)
	if err != nil {
		if explicit {
			return nil, err
		}
		return nil, nil
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		return nil, nil
	}
	return config.ReadFilename(path)
}

// writeDefaultConfigFile implements --generate-config-file: it writes a
// fully-commented default configuration to the path configFilePath resolves
// (an existing file found by the default search chain is overwritten). When
// that finds no file, it writes config.yaml in the requested config
// directory (--config-dir, then BAT_CONFIG_DIR), otherwise
// $XDG_CONFIG_HOME/batgo/config.yaml, creating parent directories as needed.
func writeDefaultConfigFile(opts *CLIOptions, env config.Env) error {
	path, err := configFilePath(opts, env)
	if err != nil || path == "" {
		switch {
		case opts.OptConfigDir != "":
			path = filepath.Join(opts.OptConfigDir, "config.yaml")
		case env.ConfigDir != "":
			path = filepath.Join(env.ConfigDir, "config.yaml")
		default:
			home, herr := os.UserHomeDir()
			if herr != nil {
				return fmt.Errorf("generate-config-file: cannot resolve a home directory: %w", herr)
			}
			configHome := env.XDGConfigHome
			if configHome == "" {
				configHome = filepath.Join(home, ".config")
			}
			path = filepath.Join(configHome, appDirName, "config.yaml")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("generate-config-file: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigFileContents), 0o644); err != nil {
		return fmt.Errorf("generate-config-file: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Generated default config file at %s\n", path)
	return nil
}

const defaultConfigFileContents = `# batgo configuration file. Every key is optional; a commented-out line
# shows the built-in default. See the --help output for the meaning of each
# value; these match the long-form CLI flag names one for one.

# language:
# theme:
# tabs: 8
# color: auto
# decorations: auto
# paging: auto
# style: auto
# wrap: character
# pager:
# italic-text: never
# map-syntax: []
# ignored-suffix: []
`
