package registry

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadTemplatesFromFile reads a YAML map of clause-id → clause prose and
// returns ClauseTemplates overlaid with the file's entries. Unknown IDs are
// added, known IDs replaced.
func LoadTemplatesFromFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read clause templates")
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal clause templates")
	}

	merged := make(map[string]string, len(ClauseTemplates)+len(overrides))
	for id, text := range ClauseTemplates {
		merged[id] = text
	}
	for id, text := range overrides {
		merged[id] = text
	}
	return merged, nil
}

// LoadMandatoryTopicsFromFile reads a YAML list of MandatoryTopic. The file
// fully replaces the built-in default set so a legally reviewed list can be
// dropped in without a code change.
func LoadMandatoryTopicsFromFile(path string) ([]MandatoryTopic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read mandatory topics")
	}

	var topics []MandatoryTopic
	if err := yaml.Unmarshal(data, &topics); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal mandatory topics")
	}

	for _, t := range topics {
		if !IsCanonicalCategory(t.Category) {
			return nil, eris.Errorf("registry: mandatory topic %q references unknown category %q", t.ID, t.Category)
		}
	}
	return topics, nil
}

// LoadTaxonomyFromFile reads a YAML list of ContractType entries that fully
// replaces the built-in taxonomy.
func LoadTaxonomyFromFile(path string) ([]ContractType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read taxonomy")
	}

	var types []ContractType
	if err := yaml.Unmarshal(data, &types); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal taxonomy")
	}
	if len(types) == 0 {
		return nil, eris.New("registry: taxonomy file contains no types")
	}
	return types, nil
}
