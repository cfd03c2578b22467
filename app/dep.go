package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/yhkim82/clearparser-sub000/alg/featurevector"
	"github.com/yhkim82/clearparser-sub000/alg/linear"
	"github.com/yhkim82/clearparser-sub000/alg/linear/model"
	"github.com/yhkim82/clearparser-sub000/alg/transition"
	"github.com/yhkim82/clearparser-sub000/eval"
	"github.com/yhkim82/clearparser-sub000/nlp/format/conll"
	"github.com/yhkim82/clearparser-sub000/nlp/parser/dependency"
	dep "github.com/yhkim82/clearparser-sub000/nlp/parser/dependency/transition"
	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"
	"github.com/yhkim82/clearparser-sub000/util"
	"github.com/yhkim82/clearparser-sub000/util/conf"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var (
	depFeaturesFile string
	depConfigFile   string
	depVariantName  string
)

// DepEngine runs the corpus passes of dependency training and parsing.
type DepEngine struct {
	Setup   *transition.FeatureSetup
	Variant dep.Variant
	Trainer linear.Trainer
	// replace the cutoffs of Setup when set
	Cutoffs           []int
	PunctuationCutoff *int
}

// NewDepEngine builds an engine from a feature setup and a trainer config.
func NewDepEngine(setup *transition.FeatureSetup, config *TrainerConfig) (*DepEngine, error) {
	trainer, err := config.Trainer()
	if err != nil {
		return nil, err
	}
	return &DepEngine{
		Setup:             setup,
		Variant:           config.Variant(),
		Trainer:           trainer,
		Cutoffs:           config.Cutoffs,
		PunctuationCutoff: config.PunctuationCutoff,
	}, nil
}

func newLexicon(setup *transition.FeatureSetup, cutoffs []int, punctuationCutoff *int) *featurevector.Lexicon {
	groups := setup.Cutoffs()
	if len(cutoffs) == len(groups) {
		groups = cutoffs
	} else if len(cutoffs) > 0 {
		log.Println("Ignoring", len(cutoffs), "cutoffs for", len(groups), "feature groups")
	}
	punct := setup.PunctuationCutoff
	if punctuationCutoff != nil {
		punct = *punctuationCutoff
	}
	return featurevector.NewLexicon(groups, punct)
}

func (e *DepEngine) NewExtractor() *transition.GenericExtractor {
	return &transition.GenericExtractor{
		Setup:   e.Setup,
		Lexicon: newLexicon(e.Setup, e.Cutoffs, e.PunctuationCutoff),
	}
}

// pass runs p over copies of trees.
func (e *DepEngine) pass(p *dep.Parser, trees []*nlp.DepTree) ([]*nlp.DepTree, error) {
	start := time.Now()
	copies := clone(trees)
	step, finish := progress(len(copies), p.Mode.String()+" ")
	err := dependency.Corpus(p, copies, step)
	finish()
	if err != nil {
		return nil, fmt.Errorf("%v pass: %w", p.Mode, err)
	}
	if allOut {
		log.Println("Finished", p.Mode, "pass over", len(trees), "trees,", p.Transitions, "transitions in", time.Since(start))
	}
	return copies, nil
}

// BuildLexicon counts the features and labels of the gold transitions of
// trees and freezes the lexicon.
func (e *DepEngine) BuildLexicon(trees []*nlp.DepTree) (*transition.GenericExtractor, error) {
	x := e.NewExtractor()
	p := &dep.Parser{Mode: transition.BuildLexicon, Variant: e.Variant, Extractor: x}
	if _, err := e.pass(p, trees); err != nil {
		return nil, err
	}
	x.Lexicon.Freeze()
	if allOut {
		log.Println("Lexicon:", x.Lexicon.NumLabels(), "labels,", x.NumFeatures(), "features")
	}
	return x, nil
}

// Instances emits one instance per gold transition of trees. With a
// decoder the parser follows its predictions while emitting.
func (e *DepEngine) Instances(x *transition.GenericExtractor, trees []*nlp.DepTree, decoder transition.Decoder, sink transition.InstanceSink) error {
	p := &dep.Parser{Mode: transition.EmitInstances, Variant: e.Variant, Extractor: x, Sink: sink}
	if decoder != nil {
		p.Mode, p.Decoder = transition.BootstrapRetrain, decoder
	}
	_, err := e.pass(p, trees)
	return err
}

// Train fits a model whose dimensions cover the lexicon.
func (e *DepEngine) Train(ctx context.Context, x *transition.GenericExtractor, problem *linear.Problem) (*model.OvAModel, error) {
	return train(ctx, e.Trainer, problem, x.Lexicon.NumLabels(), x.NumFeatures())
}

func train(ctx context.Context, trainer linear.Trainer, problem *linear.Problem, labels, features int) (*model.OvAModel, error) {
	if problem.Labels < labels {
		problem.Labels = labels
	}
	if problem.Features < features {
		problem.Features = features
	}
	if ova, ok := trainer.(*linear.OneVsAll); ok {
		step, finish := progress(problem.Labels, "train ")
		ova.Progress = func(int) { step() }
		defer finish()
	}
	start := time.Now()
	m, err := trainer.Train(ctx, problem)
	if err != nil {
		return nil, err
	}
	if allOut {
		log.Println("TRAIN Total Time:", time.Since(start))
		util.LogMemory()
	}
	return m, nil
}

// Parse returns parsed copies of trees.
func (e *DepEngine) Parse(x *transition.GenericExtractor, decoder transition.Decoder, trees []*nlp.DepTree) ([]*nlp.DepTree, error) {
	p := &dep.Parser{Mode: transition.Predict, Variant: e.Variant, Extractor: x, Decoder: decoder}
	return e.pass(p, trees)
}

// TransitionLog writes the gold transition sequence of every tree to w.
func (e *DepEngine) TransitionLog(trees []*nlp.DepTree, w io.Writer) error {
	p := &dep.Parser{Mode: transition.EmitTransitionLog, Variant: e.Variant, TransitionLog: w}
	_, err := e.pass(p, trees)
	return err
}

// TrainArchive runs the lexicon, instance and training steps. Instances
// are also written to instances when it is not nil.
func (e *DepEngine) TrainArchive(ctx context.Context, trees []*nlp.DepTree, instances io.Writer) (*Archive, error) {
	x, err := e.BuildLexicon(trees)
	if err != nil {
		return nil, err
	}
	collector := new(linear.Collector)
	var (
		sink   transition.InstanceSink = collector
		writer *linear.InstanceWriter
	)
	if instances != nil {
		writer = linear.NewInstanceWriter(instances)
		sink = multiSink{collector, writer}
	}
	if err := e.Instances(x, trees, nil, sink); err != nil {
		return nil, err
	}
	if writer != nil {
		if err := writer.Flush(); err != nil {
			return nil, err
		}
	}
	m, err := e.Train(ctx, x, &collector.Problem)
	if err != nil {
		return nil, err
	}
	return &Archive{Setup: e.Setup, Lexica: []*featurevector.Lexicon{x.Lexicon}, Models: []*model.OvAModel{m}}, nil
}

// Evaluate parses trees and returns their LAS, ignoring tokens whose gold
// POS tag is in punct.
func (e *DepEngine) Evaluate(x *transition.GenericExtractor, decoder transition.Decoder, trees []*nlp.DepTree, punct []string) (float64, error) {
	parsed, err := e.Parse(x, decoder, trees)
	if err != nil {
		return 0, err
	}
	depEval := eval.NewDepEval(punct)
	for i, tree := range parsed {
		if err := depEval.Evaluate(trees[i], tree); err != nil {
			return 0, err
		}
	}
	return depEval.LAS.Accuracy(), nil
}

type multiSink []transition.InstanceSink

func (m multiSink) Emit(label int, features []int) error {
	for _, sink := range m {
		if err := sink.Emit(label, features); err != nil {
			return err
		}
	}
	return nil
}

// loadSetup resolves and reads the feature setup and trainer config.
func loadSetup(featuresName, configName string) (*transition.FeatureSetup, *TrainerConfig, error) {
	featuresFile, configFile = locate(featuresName), locate(configName)
	if allOut {
		log.Printf("Features File:\t%s", featuresFile)
		log.Printf("Config File:\t\t%s", configFile)
	}
	setup, err := transition.LoadFeatureConfFile(featuresFile)
	if err != nil {
		return nil, nil, err
	}
	config, err := LoadTrainerConfigFile(configFile)
	if err != nil {
		return nil, nil, err
	}
	return setup, config, nil
}

func readPunct() ([]string, error) {
	if punctFile == "" {
		return nil, nil
	}
	punct, err := conf.ReadFile(locate(punctFile))
	if err != nil {
		return nil, fmt.Errorf("reading punctuation tags: %w", err)
	}
	return punct.Values, nil
}

func DepTrain(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"tc", "m"}); err != nil {
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
	if allOut {
		log.Printf("Parser:\t\t%v", engine.Variant)
		log.Printf("Algorithm:\t\t%s", config.Algorithm.Name)
		log.Printf("Model file:\t\t%s", modelFile)
	}
	trees, err := readCorpus(tConll)
	if err != nil {
		return err
	}
	if transLogFile != "" {
		if err := writeTransitionLog(engine, trees, transLogFile); err != nil {
			return err
		}
	}
	var instances io.Writer
	if instFile != "" {
		file, err := os.Create(instFile)
		if err != nil {
			return err
		}
		defer file.Close()
		instances = file
	}
	archive, err := engine.TrainArchive(context.Background(), trees, instances)
	if err != nil {
		return err
	}
	if err := archive.WriteFile(modelFile); err != nil {
		return err
	}
	if allOut {
		log.Println("Wrote model to", modelFile)
	}
	return nil
}

func writeTransitionLog(engine *DepEngine, trees []*nlp.DepTree, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := engine.TransitionLog(trees, file); err != nil {
		return err
	}
	if allOut {
		log.Println("Wrote transition log to", filename)
	}
	return nil
}

func DepParse(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"m", "in", "oc"}); err != nil {
		return err
	}
	archive, err := ReadArchiveFile(locate(modelFile))
	if err != nil {
		return err
	}
	if len(archive.Models) != 1 {
		return fmt.Errorf("%w: expected one classifier, got %d", ErrBadArchive, len(archive.Models))
	}
	variant, ok := dep.ParseVariant(depVariantName)
	if !ok {
		return fmt.Errorf("unknown parser %q", depVariantName)
	}
	engine := &DepEngine{Setup: archive.Setup, Variant: variant}
	trees, err := readCorpus(input)
	if err != nil {
		return err
	}
	parsed, err := engine.Parse(archive.Extractors()[0], archive.Models[0], trees)
	if err != nil {
		return err
	}
	if err := conll.WriteFile(outConll, parsed); err != nil {
		return err
	}
	if allOut {
		log.Println("Wrote", len(parsed), "in conll format to", outConll)
	}
	return nil
}

func depTrainFlags(cmd *commander.Command) {
	cmd.Flag.StringVar(&tConll, "tc", "", "Training Conll File")
	cmd.Flag.StringVar(&modelFile, "m", "", "Model archive file")
	cmd.Flag.StringVar(&depFeaturesFile, "f", "dep.features.yaml", "Features Configuration File")
	cmd.Flag.StringVar(&depConfigFile, "c", "dep.trainer.yaml", "Trainer Configuration File")
	cmd.Flag.IntVar(&limit, "limit", 0, "limit training set")
	cmd.Flag.BoolVar(&progressOut, "progress", false, "Show progress bars")
}

func DepTrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       DepTrain,
		UsageLine: "deptrain <file options> [arguments]",
		Short:     "trains a dependency parser",
		Long: `
trains a dependency parser: lexicon pass, instance pass, one-vs-all training

	$ ./clearparser deptrain -tc <conll> -m <model> [-f <features>] [-c <trainer config>] [options]

`,
		Flag: *flag.NewFlagSet("deptrain", flag.ExitOnError),
	}
	depTrainFlags(cmd)
	cmd.Flag.StringVar(&instFile, "i", "", "Optional - write training instances to file")
	cmd.Flag.StringVar(&transLogFile, "tl", "", "Optional - write the gold transition log to file")
	return cmd
}

func DepParseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       DepParse,
		UsageLine: "depparse <file options> [arguments]",
		Short:     "parses with a trained dependency model",
		Long: `
parses with a trained dependency model

	$ ./clearparser depparse -m <model> -in <conll> -oc <out conll> [-a shift-eager|shift-pop]

`,
		Flag: *flag.NewFlagSet("depparse", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&modelFile, "m", "", "Model archive file")
	cmd.Flag.StringVar(&input, "in", "", "Input Conll File")
	cmd.Flag.StringVar(&outConll, "oc", "", "Output Conll File")
	cmd.Flag.StringVar(&depVariantName, "a", dep.ALG_SHIFT_EAGER, "Parser [shift-eager, shift-pop]")
	cmd.Flag.IntVar(&limit, "limit", 0, "limit input set")
	cmd.Flag.BoolVar(&progressOut, "progress", false, "Show progress bars")
	return cmd
}
