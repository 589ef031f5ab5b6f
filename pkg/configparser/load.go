package configparser

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadAndParseYaml loads the YAML file into the environment and then fills cfg
// from the environment using its `env` and `default` struct tags.
func LoadAndParseYaml(filepath string, cfg any) error {
	if err := LoadYamlFile(filepath); err != nil {
		return err
	}
	return ParseEnv(cfg)
}

// LoadYamlFile reads a YAML file and exports every leaf as an environment variable.
// Nested keys are joined with "_" and upper-cased: database.host -> DATABASE_HOST.
// Variables already present in the environment are left untouched.
// Values of the form ${VAR:-default} resolve to $VAR or default.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}

	vars, err := flattenYaml(data)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, vars[key]); err != nil {
			return fmt.Errorf("could not set env var %s: %w", key, err)
		}
	}

	return nil
}

func flattenYaml(data []byte) (map[string]string, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}

	out := make(map[string]string)
	flatten(nil, root, out)
	return out, nil
}

func flatten(prefix []string, node map[string]any, out map[string]string) {
	for key, value := range node {
		path := append(append([]string{}, prefix...), key)

		switch v := value.(type) {
		case map[string]any:
			flatten(path, v, out)
		case nil:
			// "key:" without value carries nothing
		default:
			out[strings.ToUpper(strings.Join(path, "_"))] = substitute(fmt.Sprint(v))
		}
	}
}

// substitute resolves the ${VAR:-default} syntax.
func substitute(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") || !strings.Contains(value, ":-") {
		return value
	}

	inner := value[2 : len(value)-1]
	parts := strings.SplitN(inner, ":-", 2)
	if env := os.Getenv(strings.TrimSpace(parts[0])); env != "" {
		return env
	}
	return strings.TrimSpace(parts[1])
}
