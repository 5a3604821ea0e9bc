package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// InitProjectConfigScaffold 在 dir 下初始化项目级配置模板（./.ideabot/config.json）
// InitProjectConfigScaffold writes the default configuration, without any
// secrets, to dir/.ideabot/config.json. An existing file is left untouched.
// It returns the path of the config file.
func InitProjectConfigScaffold(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get current working directory: %w", err)
		}
		dir = cwd
	}

	cfgDir := filepath.Join(dir, ".ideabot")
	path := filepath.Join(cfgDir, "config.json")

	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("project config path is a directory: %s", path)
		}
		return path, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat project config: %w", err)
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir .ideabot: %w", err)
	}

	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write project config: %w", err)
	}
	return path, nil
}
