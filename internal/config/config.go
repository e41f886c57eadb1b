package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for attic. Sizes are
// strings so users can write human units ("100MB", "1.5GiB"); nil means
// "not set" so layering can tell absence from zero.
type FileConfig struct {
	MaxFileSize         *string `yaml:"max_file_size"`
	WarnFileSize        *string `yaml:"warn_file_size"`
	MaxDirEntries       *int    `yaml:"max_dir_entries"`
	MaxTreeSize         *string `yaml:"max_tree_size"`
	WarnTreeSize        *string `yaml:"warn_tree_size"`
	RecommendedTreeSize *string `yaml:"recommended_tree_size"`

	BackupRoot   *string `yaml:"backup_root"`
	Relocate     *bool   `yaml:"relocate"`
	PriorityDirs *string `yaml:"priority_dirs"` // comma-separated
	Exclude      *string `yaml:"exclude"`       // comma-separated globs
	NoColor      *bool   `yaml:"no_color"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a tree-local config file in the given root.
// It supports .attic.yml/.yaml and attic.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".attic.yml", ".attic.yaml", "attic.yml", "attic.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "attic", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}
