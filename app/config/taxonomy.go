package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTaxonomy reads the classification vocabulary. A missing or
// malformed taxonomy is a hard error: the pipeline has no classification
// decision space without it.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var taxonomy Taxonomy
	if err := yaml.Unmarshal(data, &taxonomy); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy YAML: %w", err)
	}

	if len(taxonomy.Topics) == 0 {
		return nil, fmt.Errorf("taxonomy must define at least one topic")
	}
	if len(taxonomy.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy must define at least one category")
	}

	return &taxonomy, nil
}
