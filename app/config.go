package app

import (
	"fmt"
	"io/ioutil"

	"github.com/yhkim82/clearparser-sub000/alg/linear"
	dep "github.com/yhkim82/clearparser-sub000/nlp/parser/dependency/transition"

	"gopkg.in/yaml.v2"
)

const DEFAULT_MAX_ITERS = 10

// TrainerConfig is the yaml trainer and engine configuration:
//
//	algorithm:
//	  name: liblinear
//	  lossType: 1
//	  c: 0.1
//	  eps: 0.1
//	  bias: -1
//	threads: 4
//	parser: shift-pop
//	max iterations: 10
//	cutoffs: [1, 2]
type TrainerConfig struct {
	Algorithm linear.AlgorithmConfig `yaml:"algorithm"`
	Threads   int                    `yaml:"threads"`
	Parser    string                 `yaml:"parser"`
	MaxIters  int                    `yaml:"max iterations"`
	// per feature group, replacing the cutoffs of the feature setup
	Cutoffs           []int `yaml:"cutoffs"`
	PunctuationCutoff *int  `yaml:"punctuation cutoff"`
}

func LoadTrainerConfig(data []byte) (*TrainerConfig, error) {
	conf := &TrainerConfig{MaxIters: DEFAULT_MAX_ITERS}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, err
	}
	if _, err := linear.NewAlgorithm(conf.Algorithm); err != nil {
		return nil, err
	}
	if _, ok := dep.ParseVariant(conf.Parser); !ok {
		return nil, fmt.Errorf("unknown parser %q", conf.Parser)
	}
	return conf, nil
}

func LoadTrainerConfigFile(filename string) (*TrainerConfig, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	conf, err := LoadTrainerConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return conf, nil
}

// Trainer builds the one-vs-all trainer described by the config.
func (c *TrainerConfig) Trainer() (*linear.OneVsAll, error) {
	alg, err := linear.NewAlgorithm(c.Algorithm)
	if err != nil {
		return nil, err
	}
	threads := c.Threads
	if threads < 1 {
		threads = CPUs
	}
	return &linear.OneVsAll{Algorithm: alg, NumThreads: threads, Log: allOut}, nil
}

func (c *TrainerConfig) Variant() dep.Variant {
	variant, _ := dep.ParseVariant(c.Parser)
	return variant
}
