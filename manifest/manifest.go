// Package manifest loads build manifests: YAML files listing the modules of
// a combined runtime and the settings to build it with.
//
//	modules:
//	  - yul/Gas.yul
//	  - yul/Basefee.yul
//	section_shift: 6
//	output: build
//	stub: yul/ConditionalInitcode.yul
package manifest

import (
	"bytes"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/yulpack/section"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the manifest looked up when none is given.
const DefaultPath = "yulpack.yaml"

// Manifest describes one build. Paths are resolved against the directory
// of the manifest file by Load.
type Manifest struct {
	Modules      []string `yaml:"modules"`
	SectionShift int      `yaml:"section_shift,omitempty"`
	Output       string   `yaml:"output,omitempty"`
	Stub         string   `yaml:"stub,omitempty"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.resolve(filepath.Dir(path))
	return m, nil
}

// Parse decodes a manifest. Unknown keys and multiple documents are
// rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if goerrors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty manifest")
		}
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); err == nil {
		return nil, fmt.Errorf("multiple YAML documents are not supported")
	} else if !goerrors.Is(err, io.EOF) {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for settings that cannot produce a build.
func (m *Manifest) Validate() error {
	if len(m.Modules) == 0 {
		return fmt.Errorf("no modules listed")
	}
	seen := make(map[string]bool, len(m.Modules))
	for _, mod := range m.Modules {
		if mod == "" {
			return fmt.Errorf("empty module path")
		}
		if seen[mod] {
			return fmt.Errorf("module %s listed twice", mod)
		}
		seen[mod] = true
	}
	if m.SectionShift != 0 {
		if err := section.ValidShift(m.SectionShift); err != nil {
			return fmt.Errorf("section_shift: %w", err)
		}
	}
	return nil
}

func (m *Manifest) resolve(dir string) {
	for i, mod := range m.Modules {
		m.Modules[i] = join(dir, mod)
	}
	if m.Output != "" && !isRemote(m.Output) {
		m.Output = join(dir, m.Output)
	}
	if m.Stub != "" {
		m.Stub = join(dir, m.Stub)
	}
}

func join(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func isRemote(p string) bool {
	return strings.HasPrefix(p, "s3://")
}
