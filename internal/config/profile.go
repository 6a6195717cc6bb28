package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stigoleg/activity-sim/internal/behavior"
)

// LoadProfile reads a YAML behavior profile over the defaults. An empty
// path returns the defaults. Unknown keys are rejected so typos surface.
func LoadProfile(path string) (behavior.Profile, error) {
	profile := behavior.DefaultProfile()
	if path == "" {
		return profile, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes YAML over the default profile and validates the
// result. Durations use Go syntax ("250ms", "2m").
func ParseProfile(data []byte) (behavior.Profile, error) {
	profile := behavior.DefaultProfile()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
		return profile, fmt.Errorf("parse profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return profile, fmt.Errorf("invalid profile: %w", err)
	}
	return profile, nil
}

// MarshalProfile renders p as YAML, the format LoadProfile reads.
func MarshalProfile(p behavior.Profile) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
