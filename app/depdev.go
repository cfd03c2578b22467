package app

import (
	"context"
	"log"

	"github.com/yhkim82/clearparser-sub000/alg/featurevector"
	"github.com/yhkim82/clearparser-sub000/alg/linear"
	"github.com/yhkim82/clearparser-sub000/alg/linear/model"
	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

// Bootstrap alternates evaluation and retraining while the score keeps
// strictly improving, for at most MaxIters evaluations.
type Bootstrap struct {
	MaxIters int
	Evaluate func(m *model.OvAModel) (float64, error)
	// Retrain returns the model trained on instances emitted while
	// following m
	Retrain func(m *model.OvAModel) (*model.OvAModel, error)
}

// Run starts from m and returns the best model and every score seen.
func (b *Bootstrap) Run(m *model.OvAModel) (*model.OvAModel, []float64, error) {
	var (
		best      = m
		bestScore float64
		scores    []float64
	)
	iters := b.MaxIters
	if iters < 1 {
		iters = 1
	}
	for i := 0; i < iters; i++ {
		score, err := b.Evaluate(m)
		if err != nil {
			return nil, nil, err
		}
		scores = append(scores, score)
		if allOut {
			log.Printf("Iteration %d: %4.2f%%", i, score*100)
		}
		if i > 0 && score <= bestScore {
			if allOut {
				log.Println("No improvement, keeping iteration", i-1)
			}
			break
		}
		best, bestScore = m, score
		if i == iters-1 {
			break
		}
		if m, err = b.Retrain(m); err != nil {
			return nil, nil, err
		}
	}
	return best, scores, nil
}

// Develop trains on train with bootstrapping, choosing the model with the
// best LAS on dev.
func (e *DepEngine) Develop(ctx context.Context, train, dev []*nlp.DepTree, maxIters int, punct []string) (*Archive, []float64, error) {
	x, err := e.BuildLexicon(train)
	if err != nil {
		return nil, nil, err
	}
	collector := new(linear.Collector)
	if err := e.Instances(x, train, nil, collector); err != nil {
		return nil, nil, err
	}
	m, err := e.Train(ctx, x, &collector.Problem)
	if err != nil {
		return nil, nil, err
	}
	b := &Bootstrap{
		MaxIters: maxIters,
		Evaluate: func(m *model.OvAModel) (float64, error) {
			return e.Evaluate(x, m, dev, punct)
		},
		Retrain: func(m *model.OvAModel) (*model.OvAModel, error) {
			collector := new(linear.Collector)
			if err := e.Instances(x, train, m, collector); err != nil {
				return nil, err
			}
			return e.Train(ctx, x, &collector.Problem)
		},
	}
	best, scores, err := b.Run(m)
	if err != nil {
		return nil, nil, err
	}
	return &Archive{Setup: e.Setup, Lexica: []*featurevector.Lexicon{x.Lexicon}, Models: []*model.OvAModel{best}}, scores, nil
}

func DepDev(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"tc", "dc", "m"}); err != nil {
		return err
	}
	setup, config, err := loadSetup(depFeaturesFile, depConfigFile)
	if err != nil {
		return err
	}
	engine, err := NewDepEngine(setup, config)
	if err != nil {
		return err
	}
	iters := config.MaxIters
	if maxIters > 0 {
		iters = maxIters
	}
	if allOut {
		log.Printf("Parser:\t\t%v", engine.Variant)
		log.Printf("Algorithm:\t\t%s", config.Algorithm.Name)
		log.Printf("Iterations:\t\t%d", iters)
		log.Printf("Model file:\t\t%s", modelFile)
	}
	punct, err := readPunct()
	if err != nil {
		return err
	}
	train, err := readCorpus(tConll)
	if err != nil {
		return err
	}
	dev, err := readCorpus(devConll)
	if err != nil {
		return err
	}
	archive, scores, err := engine.Develop(context.Background(), train, dev, iters, punct)
	if err != nil {
		return err
	}
	if err := archive.WriteFile(modelFile); err != nil {
		return err
	}
	if allOut {
		log.Println("Dev LAS by iteration:", scores)
		log.Println("Wrote model to", modelFile)
	}
	return nil
}

func DepDevCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       DepDev,
		UsageLine: "depdev <file options> [arguments]",
		Short:     "trains a dependency parser with bootstrapping on a dev set",
		Long: `
trains a dependency parser, then retrains on the parser's own transitions
while the LAS on the dev set strictly improves

	$ ./clearparser depdev -tc <conll> -dc <dev conll> -m <model> [-it <iterations>] [-p <punct tags>] [options]

`,
		Flag: *flag.NewFlagSet("depdev", flag.ExitOnError),
	}
	depTrainFlags(cmd)
	cmd.Flag.StringVar(&devConll, "dc", "", "Dev Conll File")
	cmd.Flag.IntVar(&maxIters, "it", 0, "Maximum bootstrap iterations (0 = from trainer config)")
	cmd.Flag.StringVar(&punctFile, "p", "", "Optional - punctuation POS tags excluded from LAS")
	return cmd
}
