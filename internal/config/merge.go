package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyService = "service"
	keyBreaker = "breaker"
	keyOutput  = "output"
	keyLogging = "logging"
	keyWeb     = "web"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay, and unknown keys, are left alone.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes one section over that section's defaults and replaces
// the target field with the result, so a section is always replaced as a whole.
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyService:
		v := Defaults().Service
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Service = v
	case keyBreaker:
		v := Defaults().Breaker
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Breaker = v
	case keyOutput:
		v := Defaults().Output
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Output = v
	case keyLogging:
		v := Defaults().Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyWeb:
		v := Defaults().Web
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Web = v
	}
	return nil
}
