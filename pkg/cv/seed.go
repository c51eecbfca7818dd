package cv

import (
	_ "embed"
	"fmt"

	"go.yaml.in/yaml/v4"
)

//go:embed seed.yaml
var seedYAML []byte

// LoadSeed parses a CV document written in YAML.
func LoadSeed(data []byte) (CV, error) {
	var c CV
	if err := yaml.Unmarshal(data, &c); err != nil {
		return CV{}, fmt.Errorf("parse cv seed: %w", err)
	}
	normalize(&c)
	return c, nil
}

// DefaultSeed returns the CV bundled with the binary.
func DefaultSeed() CV {
	c, err := LoadSeed(seedYAML)
	if err != nil {
		panic(err)
	}
	return c
}
