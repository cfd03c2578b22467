package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yhkim82/clearparser-sub000/alg/linear"
	"github.com/yhkim82/clearparser-sub000/alg/transition"
	"github.com/yhkim82/clearparser-sub000/nlp/format/conll"
	"github.com/yhkim82/clearparser-sub000/nlp/parser/dependency"
	"github.com/yhkim82/clearparser-sub000/nlp/parser/srl"
	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var (
	srlFeaturesFile string
	srlConfigFile   string
)

// SRLEngine runs the corpus passes of semantic role labeling. Both scan
// directions share the feature setup but have their own lexicon and model.
type SRLEngine struct {
	Setup   *transition.FeatureSetup
	Trainer linear.Trainer
}

func NewSRLEngine(setup *transition.FeatureSetup, config *TrainerConfig) (*SRLEngine, error) {
	trainer, err := config.Trainer()
	if err != nil {
		return nil, err
	}
	return &SRLEngine{Setup: setup, Trainer: trainer}, nil
}

func (e *SRLEngine) newParser(mode transition.Mode, extractors [2]*transition.GenericExtractor) *srl.Parser {
	return &srl.Parser{Mode: mode, Extractors: extractors}
}

func (e *SRLEngine) pass(p *srl.Parser, trees []*nlp.DepTree) ([]*nlp.DepTree, error) {
	start := time.Now()
	copies := clone(trees)
	step, finish := progress(len(copies), "srl "+p.Mode.String()+" ")
	err := dependency.Corpus(p, copies, step)
	finish()
	if err != nil {
		return nil, fmt.Errorf("srl %v pass: %w", p.Mode, err)
	}
	if allOut {
		log.Println("Finished srl", p.Mode, "pass over", len(trees), "trees,", p.Transitions, "transitions in", time.Since(start))
	}
	return copies, nil
}

// BuildLexica counts features and labels of both directions and freezes
// both lexica.
func (e *SRLEngine) BuildLexica(trees []*nlp.DepTree) ([2]*transition.GenericExtractor, error) {
	var extractors [2]*transition.GenericExtractor
	for i := range extractors {
		extractors[i] = &transition.GenericExtractor{Setup: e.Setup, Lexicon: srl.NewLexicon(e.Setup)}
	}
	if _, err := e.pass(e.newParser(transition.BuildLexicon, extractors), trees); err != nil {
		return extractors, err
	}
	for i, x := range extractors {
		x.Lexicon.Freeze()
		if allOut {
			log.Println("Lexicon", i, ":", x.Lexicon.NumLabels(), "labels")
		}
	}
	return extractors, nil
}

// Instances emits the gold instances of both directions into one
// collector per direction.
func (e *SRLEngine) Instances(extractors [2]*transition.GenericExtractor, trees []*nlp.DepTree) ([2]*linear.Collector, error) {
	collectors := [2]*linear.Collector{new(linear.Collector), new(linear.Collector)}
	p := e.newParser(transition.EmitInstances, extractors)
	p.Sinks = [2]transition.InstanceSink{collectors[0], collectors[1]}
	_, err := e.pass(p, trees)
	return collectors, err
}

// TrainArchive trains one model per scan direction.
func (e *SRLEngine) TrainArchive(ctx context.Context, trees []*nlp.DepTree) (*Archive, error) {
	extractors, err := e.BuildLexica(trees)
	if err != nil {
		return nil, err
	}
	collectors, err := e.Instances(extractors, trees)
	if err != nil {
		return nil, err
	}
	// vector dimensions only depend on the extractors
	sizer := e.newParser(transition.EmitInstances, extractors)
	archive := &Archive{Setup: e.Setup}
	for i, dir := range []int{srl.DIR_LEFT, srl.DIR_RIGHT} {
		x := extractors[srl.Dir(dir)]
		m, err := train(ctx, e.Trainer, &collectors[i].Problem, x.Lexicon.NumLabels(), sizer.NumFeatures(dir))
		if err != nil {
			return nil, err
		}
		archive.Lexica = append(archive.Lexica, x.Lexicon)
		archive.Models = append(archive.Models, m)
	}
	return archive, nil
}

// Parse returns copies of trees with predicted semantic heads.
func (e *SRLEngine) Parse(archive *Archive, trees []*nlp.DepTree) ([]*nlp.DepTree, error) {
	if len(archive.Models) != 2 {
		return nil, fmt.Errorf("%w: expected two classifiers, got %d", ErrBadArchive, len(archive.Models))
	}
	var extractors [2]*transition.GenericExtractor
	copy(extractors[:], archive.Extractors())
	p := e.newParser(transition.Predict, extractors)
	p.Decoders = [2]transition.Decoder{archive.Models[0], archive.Models[1]}
	return e.pass(p, trees)
}

func SRLTrain(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"tc", "m"}); err != nil {
		return err
	}
	setup, config, err := loadSetup(srlFeaturesFile, srlConfigFile)
	if err != nil {
		return err
	}
	engine, err := NewSRLEngine(setup, config)
	if err != nil {
		return err
	}
	if allOut {
		log.Printf("Algorithm:\t\t%s", config.Algorithm.Name)
		log.Printf("Model file:\t\t%s", modelFile)
	}
	trees, err := readCorpus(tConll)
	if err != nil {
		return err
	}
	archive, err := engine.TrainArchive(context.Background(), trees)
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

func SRLParse(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"m", "in", "oc"}); err != nil {
		return err
	}
	archive, err := ReadArchiveFile(locate(modelFile))
	if err != nil {
		return err
	}
	engine := &SRLEngine{Setup: archive.Setup}
	trees, err := readCorpus(input)
	if err != nil {
		return err
	}
	parsed, err := engine.Parse(archive, trees)
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

func SRLTrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       SRLTrain,
		UsageLine: "srltrain <file options> [arguments]",
		Short:     "trains a semantic role labeler",
		Long: `
trains a semantic role labeler with one classifier per scan direction;
the training file needs the predicate and argument columns

	$ ./clearparser srltrain -tc <conll> -m <model> [-f <features>] [-c <trainer config>] [options]

`,
		Flag: *flag.NewFlagSet("srltrain", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&tConll, "tc", "", "Training Conll File")
	cmd.Flag.StringVar(&modelFile, "m", "", "Model archive file")
	cmd.Flag.StringVar(&srlFeaturesFile, "f", "srl.features.yaml", "Features Configuration File")
	cmd.Flag.StringVar(&srlConfigFile, "c", "srl.trainer.yaml", "Trainer Configuration File")
	cmd.Flag.IntVar(&limit, "limit", 0, "limit training set")
	cmd.Flag.BoolVar(&progressOut, "progress", false, "Show progress bars")
	return cmd
}

func SRLParseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       SRLParse,
		UsageLine: "srlparse <file options> [arguments]",
		Short:     "labels semantic roles with a trained model",
		Long: `
labels the arguments of the predicates of a dependency parsed file

	$ ./clearparser srlparse -m <model> -in <conll> -oc <out conll>

`,
		Flag: *flag.NewFlagSet("srlparse", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&modelFile, "m", "", "Model archive file")
	cmd.Flag.StringVar(&input, "in", "", "Input Conll File")
	cmd.Flag.StringVar(&outConll, "oc", "", "Output Conll File")
	cmd.Flag.IntVar(&limit, "limit", 0, "limit input set")
	cmd.Flag.BoolVar(&progressOut, "progress", false, "Show progress bars")
	return cmd
}
