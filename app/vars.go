package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/yhkim82/clearparser-sub000/nlp/format/conll"
	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"
	"github.com/yhkim82/clearparser-sub000/util"

	"github.com/cheggaaa/pb"
	"github.com/gonuts/commander"
)

var (
	allOut      bool = true
	progressOut bool = false

	CPUs int

	// file names
	tConll       string
	devConll     string
	input        string
	inputGold    string
	outConll     string
	modelFile    string
	featuresFile string
	configFile   string
	instFile     string
	punctFile    string
	transLogFile string

	limit    int
	maxIters int
	useSRL   bool
)

const NUM_CPUS_FLAG = "cpus"

var (
	DEFAULT_CONF_DIRS = []string{".", "conf", "config"}

	ErrMissingFlag = errors.New("required flag not set")
)

func VerifyExists(filename string) bool {
	_, err := os.Stat(filename)
	if err != nil {
		log.Println("Error accessing file", filename)
		log.Println(err)
		return false
	}
	return true
}

func VerifyFlags(cmd *commander.Command, required []string) error {
	for _, flag := range required {
		f := cmd.Flag.Lookup(flag)
		if f == nil || f.Value.String() == "" {
			log.Printf("Required flag %s not set", flag)
			cmd.Usage()
			return fmt.Errorf("%w: -%s", ErrMissingFlag, flag)
		}
	}
	return nil
}

// locate resolves name against the default conf directories, leaving it
// unchanged when it cannot be found there.
func locate(name string) string {
	if location, found := util.LocateFile(name, DEFAULT_CONF_DIRS); found {
		return location
	}
	return name
}

// progress returns a step function and a finish function for a pass over
// n items; without -progress both do nothing.
func progress(n int, prefix string) (func(), func()) {
	if !progressOut || n == 0 {
		return func() {}, func() {}
	}
	bar := pb.New(n).Prefix(prefix)
	bar.Output = os.Stderr
	bar.Start()
	return func() { bar.Increment() }, bar.Finish
}

// readCorpus reads a CoNLL file, logging the time it took.
func readCorpus(filename string) ([]*nlp.DepTree, error) {
	start := time.Now()
	trees, err := conll.ReadFile(filename, limit)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if allOut {
		log.Println("Read", len(trees), "sentences from", filename, "in", time.Since(start))
	}
	return trees, nil
}

// clone copies trees so that a parser pass does not modify the corpus.
func clone(trees []*nlp.DepTree) []*nlp.DepTree {
	copies := make([]*nlp.DepTree, len(trees))
	for i, tree := range trees {
		copies[i] = tree.Clone()
	}
	return copies
}

func InitCommand(cmd *commander.Command, args []string) {
	maxCPUs := runtime.NumCPU()
	if CPUs > maxCPUs {
		log.Printf("Warning: Number of CPUs capped to all available (%d)", maxCPUs)
		CPUs = 0
	}
	if CPUs == 0 {
		CPUs = maxCPUs
	}
	runtime.GOMAXPROCS(CPUs)
}

func NewAppWrapCommand(f func(cmd *commander.Command, args []string) error) func(cmd *commander.Command, args []string) error {
	wrapped := func(cmd *commander.Command, args []string) error {
		InitCommand(cmd, args)
		return f(cmd, args)
	}
	return wrapped
}
