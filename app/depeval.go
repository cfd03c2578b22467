package app

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/yhkim82/clearparser-sub000/eval"
	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

// TreeEvaluator accumulates scores over aligned gold and parsed trees.
type TreeEvaluator interface {
	Evaluate(gold, sys *nlp.DepTree) error
	Write(w io.Writer) error
}

var (
	_ TreeEvaluator = &eval.DepEval{}
	_ TreeEvaluator = &eval.SRLEval{}
)

// EvaluateCorpus feeds every aligned pair of trees to e.
func EvaluateCorpus(e TreeEvaluator, gold, parsed []*nlp.DepTree) error {
	if len(gold) != len(parsed) {
		return fmt.Errorf("gold has %d sentences, parsed has %d", len(gold), len(parsed))
	}
	for i := range gold {
		if err := e.Evaluate(gold[i], parsed[i]); err != nil {
			return fmt.Errorf("sentence %d: %w", i+1, err)
		}
	}
	return nil
}

func DepEvalConfigOut() error {
	log.Println("Data")
	log.Printf("Parsed result file:\t%s", input)
	if !VerifyExists(input) {
		return os.ErrNotExist
	}
	log.Printf("Gold file:\t\t%s", inputGold)
	if !VerifyExists(inputGold) {
		return os.ErrNotExist
	}
	if punctFile != "" {
		log.Printf("Punctuation file:\t%s", locate(punctFile))
	}
	return nil
}

func DepEval(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"g", "in"}); err != nil {
		return err
	}
	if allOut {
		if err := DepEvalConfigOut(); err != nil {
			return err
		}
	}
	gold, err := readCorpus(inputGold)
	if err != nil {
		return err
	}
	parsed, err := readCorpus(input)
	if err != nil {
		return err
	}
	var e TreeEvaluator
	if useSRL {
		e = eval.NewSRLEval()
	} else {
		punct, err := readPunct()
		if err != nil {
			return err
		}
		e = eval.NewDepEval(punct)
	}
	if err := EvaluateCorpus(e, gold, parsed); err != nil {
		return err
	}
	return e.Write(os.Stdout)
}

func DepEvalCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       DepEval,
		UsageLine: "depeval <file options> [arguments]",
		Short:     "evaluates a parsed file against gold",
		Long: `
evaluates the dependencies (LAS, UAS, LS) or, with -srl, the semantic roles
of a parsed file against a gold file

	$ ./clearparser depeval -g <gold conll> -in <parsed conll> [-p <punct tags>] [-srl]

`,
		Flag: *flag.NewFlagSet("depeval", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&inputGold, "g", "", "Gold Conll File")
	cmd.Flag.StringVar(&input, "in", "", "Parsed Conll File")
	cmd.Flag.StringVar(&punctFile, "p", "", "Optional - punctuation POS tags excluded from scoring")
	cmd.Flag.BoolVar(&useSRL, "srl", false, "Evaluate semantic roles instead of dependencies")
	return cmd
}
