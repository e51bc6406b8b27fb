package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// fileConfig mirrors the attributes accepted in a client config file. All
// attributes are optional; absent ones fall through to the defaults or to
// command-line flags.
type fileConfig struct {
	EngineURL  string `hcl:"engine_url,optional"`
	WorkflowID string `hcl:"workflow_id,optional"`
	ExportDir  string `hcl:"export_dir,optional"`
	LogLevel   string `hcl:"log_level,optional"`
	LogFormat  string `hcl:"log_format,optional"`
}

// LoadFile parses an HCL config file into a partial Config. Attribute
// expressions can reference the process environment through the env
// object, e.g. engine_url = env.FLOWCTL_ENGINE_URL.
func LoadFile(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse config file %s: %w", path, diags)
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("decode config file %s: %w", path, diags)
	}

	return &Config{
		EngineURL:  fc.EngineURL,
		WorkflowID: fc.WorkflowID,
		ExportDir:  fc.ExportDir,
		LogLevel:   fc.LogLevel,
		LogFormat:  fc.LogFormat,
	}, nil
}

// envObject exposes the process environment as a cty object for config
// expressions.
func envObject() cty.Value {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = cty.StringVal(value)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
