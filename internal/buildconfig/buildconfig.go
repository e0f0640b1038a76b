// Package buildconfig reads the image build description and turns it into
// shell variable assignments for the build scripts.
package buildconfig

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "/build/build-config.yml"

type Base struct {
	Release      string `yaml:"release"`
	Architecture string `yaml:"architecture"`
}

type ISO struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Label   string `yaml:"label"`
}

type BuildConfig struct {
	Base     Base     `yaml:"base"`
	ISO      ISO      `yaml:"iso"`
	Packages []string `yaml:"packages"`
}

// Load reads and checks the build configuration at path.
func Load(path string) (*BuildConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read build configuration: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*BuildConfig, error) {
	var config BuildConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&config); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("build configuration is empty")
		}
		return nil, fmt.Errorf("cannot parse build configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *BuildConfig) validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"base.release", c.Base.Release},
		{"base.architecture", c.Base.Architecture},
		{"iso.name", c.ISO.Name},
		{"iso.version", c.ISO.Version},
		{"iso.label", c.ISO.Label},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("build configuration is missing %s", r.key)
		}
	}
	return nil
}

// shellQuote wraps s in single quotes so it is taken literally by a POSIX
// shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// WriteShell writes the configuration as variable assignments that can be
// eval'd or sourced.
func (c *BuildConfig) WriteShell(w io.Writer) error {
	vars := []struct {
		name  string
		value string
	}{
		{"RELEASE", c.Base.Release},
		{"ARCH", c.Base.Architecture},
		{"ISO_NAME", c.ISO.Name},
		{"ISO_VERSION", c.ISO.Version},
		{"ISO_LABEL", c.ISO.Label},
		{"PACKAGES", strings.Join(c.Packages, " ")},
	}
	for _, v := range vars {
		if _, err := fmt.Fprintf(w, "%s=%s\n", v.name, shellQuote(v.value)); err != nil {
			return err
		}
	}
	return nil
}
