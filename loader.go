package bitlayout

import (
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseConfigJSON decodes a JSON layout description into a Config.
func ParseConfigJSON(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "invalid JSON layout description", Cause: err}}
	}
	return cfg, nil
}

// ParseConfigYAML decodes a YAML layout description into a Config.
func ParseConfigYAML(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "invalid YAML layout description", Cause: err}}
	}
	return cfg, nil
}

// CompileJSON parses a JSON layout description and compiles it.
func CompileJSON(data []byte, opts ...Option) (*Layout, error) {
	cfg, err := ParseConfigJSON(data)
	if err != nil {
		return nil, err
	}
	return Compile(cfg, opts...)
}

// CompileYAML parses a YAML layout description and compiles it.
func CompileYAML(data []byte, opts ...Option) (*Layout, error) {
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, err
	}
	return Compile(cfg, opts...)
}
