package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/ragkit/internal/models"
)

// rulesetsFile is the on-disk YAML layout:
//
//	rulesets:
//	  - name: tone
//	    rules:
//	      - value: Be concise
type rulesetsFile struct {
	Rulesets []models.Ruleset `yaml:"rulesets"`
}

// LoadRulesets reads rulesets from a YAML file. An empty path yields no rulesets.
func LoadRulesets(path string) ([]models.Ruleset, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rulesets file %s: %w", path, err)
	}

	return ParseRulesets(data)
}

// ParseRulesets decodes YAML rulesets and rejects unnamed or empty entries
func ParseRulesets(data []byte) ([]models.Ruleset, error) {
	var file rulesetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rulesets: %w", err)
	}

	for i, rs := range file.Rulesets {
		if rs.Name == "" {
			return nil, fmt.Errorf("ruleset %d has no name", i+1)
		}
		if len(rs.Rules) == 0 {
			return nil, fmt.Errorf("ruleset '%s' has no rules", rs.Name)
		}
	}

	return file.Rulesets, nil
}
