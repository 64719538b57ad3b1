package generator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Profile is a generator configuration file.
type Profile struct {
	Devices []string `yaml:"devices"`
	Ranges  Ranges   `yaml:"ranges"`
}

// LoadProfile reads a YAML profile from path. Fields left out of the
// file keep DefaultRanges.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	p := Profile{Ranges: DefaultRanges}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if !p.Ranges.Valid() {
		return Profile{}, fmt.Errorf("profile %s: low must be below high", path)
	}
	if len(p.Devices) == 0 {
		return Profile{}, fmt.Errorf("profile %s: no devices", path)
	}
	return p, nil
}
