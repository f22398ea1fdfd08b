package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Layout is the initial bed capacity read from BED_LAYOUT_FILE.
//
//	wards:
//	  - ward: ICU
//	    beds:
//	      - distance: 5
//	      - distance: 2
type Layout struct {
	Wards []WardLayout `yaml:"wards"`
}

type WardLayout struct {
	Ward string      `yaml:"ward"`
	Beds []BedLayout `yaml:"beds"`
}

type BedLayout struct {
	Distance float64 `yaml:"distance"`
}

// LoadLayout reads and decodes a layout file
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes layout YAML. Ward names are checked later, when beds are created.
func ParseLayout(data []byte) (*Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	for _, w := range layout.Wards {
		if w.Ward == "" {
			return nil, fmt.Errorf("layout entry without ward name")
		}
	}
	return &layout, nil
}
