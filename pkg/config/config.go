// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package config loads strict JSON or YAML configuration files into Go structs.
// Lines starting with # are comments in both formats. Unknown fields are errors.
// YAML follows the 1.2 core schema: y, n, yes, no, on and off are plain strings.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/grand-mother/hotspot/pkg/osutil"
	yamlv3 "gopkg.in/yaml.v3"
	"sigs.k8s.io/yaml"
)

func LoadFile(filename string, cfg any) error {
	if filename == "" {
		return fmt.Errorf("no config file specified")
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadData(data, cfg)
}

var commentRe = regexp.MustCompile(`(^|\n)\s*#[^\n]*`)

// LoadData accepts both JSON and YAML: YAML is converted to JSON first,
// so both formats share the same field names and strictness.
func LoadData(data []byte, cfg any) error {
	data = commentRe.ReplaceAll(data, nil)
	if !isJSON(data) {
		converted, err := yamlToJSON(data)
		if err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
		data = converted
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// yamlToJSON re-encodes a YAML document as JSON.
// sigs.k8s.io/yaml is not used here: it resolves keys with YAML 1.1 rules and turns "y:" into "true:".
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc, err := jsonValue(doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func jsonValue(v any) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		for key, elem := range v {
			conv, err := jsonValue(elem)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", key, err)
			}
			v[key] = conv
		}
		return v, nil
	case map[any]any:
		res := make(map[string]any, len(v))
		for key, elem := range v {
			name, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key %v", key)
			}
			conv, err := jsonValue(elem)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", name, err)
			}
			res[name] = conv
		}
		return res, nil
	case []any:
		for i, elem := range v {
			conv, err := jsonValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%v]: %w", i, err)
			}
			v[i] = conv
		}
		return v, nil
	}
	return v, nil
}

func isJSON(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) != 0 && data[0] == '{'
}

// SaveFile writes cfg as YAML if filename has a .yaml/.yml extension and as JSON otherwise.
func SaveFile(filename string, cfg any) error {
	data, err := json.MarshalIndent(cfg, "", "\t")
	if err != nil {
		return err
	}
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		if data, err = yaml.JSONToYAML(data); err != nil {
			return err
		}
	}
	return osutil.WriteFile(filename, data)
}
