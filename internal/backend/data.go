package backend

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"nosh/pkg/schema"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Restaurants []schema.Restaurant `yaml:"restaurants"`
}

// LoadCatalog parses the embedded restaurant reference data.
func LoadCatalog() ([]schema.Restaurant, error) {
	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("parse restaurant catalog: %w", err)
	}
	if len(file.Restaurants) == 0 {
		return nil, fmt.Errorf("restaurant catalog is empty")
	}
	return file.Restaurants, nil
}
