package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ludo-technologies/pystyle/domain"
)

type pyprojectFile struct {
	Tool struct {
		Pystyle *Config `toml:"pystyle"`
	} `toml:"tool"`
}

// hasPystyleTable reports whether path is a pyproject.toml with [tool.pystyle]
func hasPystyleTable(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	var doc pyprojectFile
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return false
	}
	return meta.IsDefined("tool", "pystyle")
}

// loadPyproject reads the [tool.pystyle] table of a pyproject.toml. Keys
// absent from the table keep their defaults.
func loadPyproject(path string) (*Config, error) {
	doc := pyprojectFile{}
	doc.Tool.Pystyle = DefaultConfig()

	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("%s: failed to parse TOML", path), err)
	}
	if !meta.IsDefined("tool", "pystyle") {
		return nil, domain.NewConfigError(fmt.Sprintf("%s: missing [tool.pystyle]", path), nil)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		for _, key := range undecoded {
			if len(key) > 1 && key[0] == "tool" && key[1] == "pystyle" {
				return nil, domain.NewConfigError(fmt.Sprintf("%s: unknown key %s", path, key), nil)
			}
		}
	}

	config := doc.Tool.Pystyle
	if err := applyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}
