// Package cliconfig loads the iamfdecode CLI's optional YAML settings
// file. The core decoder never touches the filesystem; only this package
// does, on the CLI's behalf.
package cliconfig

import (
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of an iamfdecode settings file.
type File struct {
	RequestedMix struct {
		MixPresentationID *uint32 `yaml:"mix_presentation_id"`
		OutputLayout      string  `yaml:"output_layout"`
	} `yaml:"requested_mix"`
	RequestedProfileVersions []string `yaml:"requested_profile_versions"`
	ChannelOrdering          string   `yaml:"channel_ordering"`
	RequestedOutputSampleType string  `yaml:"requested_output_sample_type"`
	LogLevel                 string   `yaml:"log_level"`
}

// Load reads and parses path. A missing file is not an error; Load returns
// the zero File so the CLI falls back to flag defaults.
func Load(path string) (File, error) {
	if path == "" {
		return File{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, nil
		}
		return File{}, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, err
	}
	return f, nil
}
