package linear

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"

	"github.com/yhkim82/clearparser-sub000/alg/linear/model"

	"golang.org/x/sync/errgroup"
)

var (
	ErrMissingAlgorithm = errors.New("missing training algorithm")
	ErrUnknownAlgorithm = errors.New("unknown training algorithm")
)

const (
	ALG_LIBLINEAR = "liblinear"
	ALG_RRM       = "rrm"
)

// Algorithm learns the weight row of one label against all other labels.
// Implementations must only read p.
type Algorithm interface {
	Name() string
	TrainLabel(p *Problem, label int) []float64
}

type Trainer interface {
	Train(ctx context.Context, p *Problem) (*model.OvAModel, error)
}

// OneVsAll trains one binary classifier per label, NumThreads at a time.
// Each worker writes only its own row.
type OneVsAll struct {
	Algorithm  Algorithm
	NumThreads int
	Log        bool
	// Progress is called after each label, from the worker goroutine
	Progress func(label int)
}

var _ Trainer = &OneVsAll{}

func (t *OneVsAll) Train(ctx context.Context, p *Problem) (*model.OvAModel, error) {
	if t.Algorithm == nil {
		return nil, ErrMissingAlgorithm
	}
	threads := t.NumThreads
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	features := p.Features
	if features < 1 {
		features = 1
	}
	if t.Log {
		log.Println("Training", t.Algorithm.Name(), "on", len(p.Instances), "instances,", p.Labels, "labels,", features, "features,", threads, "threads")
	}
	m := model.NewOvAModel(p.Labels, features)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for label := 0; label < p.Labels; label++ {
		if gctx.Err() != nil {
			break
		}
		label := label
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := t.Algorithm.TrainLabel(p, label)
			if len(row) > features {
				row = row[:features]
			}
			m.SetRow(label, row)
			if t.Progress != nil {
				t.Progress(label)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// AlgorithmConfig is the yaml algorithm section of a trainer config.
// Zero fields take the algorithm's defaults.
type AlgorithmConfig struct {
	Name     string   `yaml:"name"`
	LossType int      `yaml:"lossType"`
	C        float64  `yaml:"c"`
	Eps      float64  `yaml:"eps"`
	Bias     *float64 `yaml:"bias"`
	Shuffle  bool     `yaml:"shuffle"`
	Seed     int64    `yaml:"seed"`
	K        int      `yaml:"k"`
	Mu       float64  `yaml:"mu"`
	Eta      float64  `yaml:"eta"`
}

// NewAlgorithm builds the algorithm named by conf.
func NewAlgorithm(conf AlgorithmConfig) (Algorithm, error) {
	switch conf.Name {
	case "":
		return nil, ErrMissingAlgorithm
	case ALG_LIBLINEAR:
		alg := NewLibLinearL2()
		if conf.LossType != 0 {
			if conf.LossType != 1 && conf.LossType != 2 {
				return nil, fmt.Errorf("liblinear: loss type must be 1 or 2, got %d", conf.LossType)
			}
			alg.LossType = conf.LossType
		}
		if conf.C > 0 {
			alg.C = conf.C
		}
		if conf.Eps > 0 {
			alg.Eps = conf.Eps
		}
		if conf.Bias != nil {
			alg.Bias = *conf.Bias
		}
		alg.Shuffle, alg.Seed = conf.Shuffle, conf.Seed
		return alg, nil
	case ALG_RRM:
		alg := NewRRM()
		if conf.K > 0 {
			alg.K = conf.K
		}
		if conf.Mu > 0 {
			alg.Mu = conf.Mu
		}
		if conf.Eta > 0 {
			alg.Eta = conf.Eta
		}
		if conf.C > 0 {
			alg.C = conf.C
		}
		return alg, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, conf.Name)
	}
}

// binaryLabels maps instances to +1 for label and -1 otherwise and
// reports whether any instance is positive.
func binaryLabels(p *Problem, label int) ([]float64, bool) {
	y := make([]float64, len(p.Instances))
	var positive bool
	for i, inst := range p.Instances {
		if inst.Label == label {
			y[i] = 1
			positive = true
		} else {
			y[i] = -1
		}
	}
	return y, positive
}

func value(inst *Instance, j int) float64 {
	if inst.Values == nil {
		return 1
	}
	return inst.Values[j]
}
