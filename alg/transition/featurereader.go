package transition

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

type FeatureGroup struct {
	Group    string
	Cutoff   int
	Features []string
}

// FeatureSetup is the yaml feature configuration:
//
//	punctuation: true
//	punctuation cutoff: 2
//	feature groups:
//	  - group: unigram
//	    cutoff: 0
//	    features: [l0:p, b0:f]
//	  - group: bigram
//	    cutoff: 1
//	    features: [l0:p+b0:p]
type FeatureSetup struct {
	FeatureGroups     []FeatureGroup `yaml:"feature groups"`
	Punctuation       bool           `yaml:"punctuation"`
	PunctuationCutoff int            `yaml:"punctuation cutoff"`

	templates [][]*FeatureTemplate
}

// Templates returns the parsed templates of each group.
func (s *FeatureSetup) Templates() [][]*FeatureTemplate {
	return s.templates
}

func (s *FeatureSetup) Cutoffs() []int {
	cutoffs := make([]int, len(s.FeatureGroups))
	for i, group := range s.FeatureGroups {
		cutoffs[i] = group.Cutoff
	}
	return cutoffs
}

func (s *FeatureSetup) NumTemplates() int {
	var numTemplates int
	for _, group := range s.FeatureGroups {
		numTemplates += len(group.Features)
	}
	return numTemplates
}

// Compile parses every template string.
func (s *FeatureSetup) Compile() error {
	s.templates = make([][]*FeatureTemplate, len(s.FeatureGroups))
	for i, group := range s.FeatureGroups {
		s.templates[i] = make([]*FeatureTemplate, len(group.Features))
		for j, featStr := range group.Features {
			template, err := ParseFeatureTemplate(featStr)
			if err != nil {
				return fmt.Errorf("group %s: %w", group.Group, err)
			}
			s.templates[i][j] = template
		}
	}
	return nil
}

func (s *FeatureSetup) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func LoadFeatureConf(conf []byte) (*FeatureSetup, error) {
	setup := new(FeatureSetup)
	if err := yaml.Unmarshal(conf, setup); err != nil {
		return nil, err
	}
	if err := setup.Compile(); err != nil {
		return nil, err
	}
	return setup, nil
}

func LoadFeatureConfFile(filename string) (*FeatureSetup, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	setup, err := LoadFeatureConf(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return setup, nil
}
