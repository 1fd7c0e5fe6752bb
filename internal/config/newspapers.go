package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Newspaper is one configured news source.
type Newspaper struct {
	Name   string `yaml:"name"`
	Domain string `yaml:"domain"`
	URL    string `yaml:"url,omitempty"`
}

// CountrySources lists the newspapers crawled for one country.
type CountrySources struct {
	Newspapers []Newspaper `yaml:"newspapers"`
}

// Newspapers maps ISO country codes to their configured sources.
// Example:
//
//	ar:
//	  newspapers:
//	    - name: clarin
//	      domain: clarin.com
type Newspapers map[string]CountrySources

// LoadNewspapers reads the newspaper configuration from a YAML file.
func LoadNewspapers(path string) (Newspapers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read newspapers config: %w", err)
	}

	var cfg Newspapers
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse newspapers config: %w", err)
	}
	return cfg, nil
}

// CountryFor returns the country code configured for a source name or
// domain, or "" when the source is unknown.
func (n Newspapers) CountryFor(source string) string {
	for code, country := range n {
		for _, paper := range country.Newspapers {
			if paper.Name == source || paper.Domain == source {
				return code
			}
		}
	}
	return ""
}
