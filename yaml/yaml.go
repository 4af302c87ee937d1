// Package yaml loads selector configurations from YAML files using
// gopkg.in/yaml.v3.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/quizdoc"
	"gopkg.in/yaml.v3"
)

// RegistryFile is the structure of a site registry file:
//
//	sites:
//	  quiz.example.org:
//	    container: .q
//	    questionText: .q-title
//	    answers:
//	      correct: .right
//	      incorrect: .option:not(.right)
type RegistryFile struct {
	Sites map[string]quizdoc.SelectorConfig `yaml:"sites"`
}

// DefaultRegistryPath returns ~/.quizdoc/sites.yaml.
func DefaultRegistryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".quizdoc", "sites.yaml"), nil
}

// LoadRegistryFile reads a registry file. When optional is true a missing
// file is not an error and yields a nil registry.
func LoadRegistryFile(path string, optional bool) (map[string]quizdoc.SelectorConfig, error) {
	data, err := os.ReadFile(path)
	if optional && errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var file RegistryFile
	if err := decode(data, &file); err != nil {
		return nil, quizdoc.Errorf(quizdoc.EINVALID, "failed to parse registry file %s: %v", path, err)
	}
	for host := range file.Sites {
		if strings.TrimSpace(host) == "" {
			return nil, quizdoc.Errorf(quizdoc.EINVALID, "registry file %s has an empty site key", path)
		}
	}
	return file.Sites, nil
}

// LoadSelectorConfigFile reads a single selector configuration.
func LoadSelectorConfigFile(path string) (*quizdoc.SelectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg quizdoc.SelectorConfig
	if err := decode(data, &cfg); err != nil {
		return nil, quizdoc.Errorf(quizdoc.EINVALID, "failed to parse config file %s: %v", path, err)
	}
	return &cfg, nil
}

// MergeRegistry returns base with every entry of overlay applied on top.
// Neither input is modified.
func MergeRegistry(base, overlay map[string]quizdoc.SelectorConfig) map[string]quizdoc.SelectorConfig {
	out := make(map[string]quizdoc.SelectorConfig, len(base)+len(overlay))
	maps.Copy(out, base)
	maps.Copy(out, overlay)
	return out
}

// EncodeRegistry writes a registry in the format read by LoadRegistryFile.
func EncodeRegistry(w io.Writer, sites map[string]quizdoc.SelectorConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(RegistryFile{Sites: sites}); err != nil {
		return err
	}
	return enc.Close()
}

// decode rejects unknown keys so that misspelled selector names surface
// as errors.
func decode(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
