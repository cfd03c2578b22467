package eval

import (
	"errors"
	"fmt"
	"io"

	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"
)

var ErrSizeMismatch = errors.New("trees differ in size")

// AttachmentError is a token whose head or deprel differs from gold.
type AttachmentError struct {
	ID, Head, GoldHead int
	Form               string
	Deprel, GoldDeprel string
}

func (e *AttachmentError) String() string {
	return fmt.Sprintf("%d %s: %d-%s (gold %d-%s)", e.ID, e.Form, e.Head, e.Deprel, e.GoldHead, e.GoldDeprel)
}

// Class is "head", "label" or "both".
func (e *AttachmentError) Class() string {
	switch {
	case e.Head != e.GoldHead && e.Deprel != e.GoldDeprel:
		return "both"
	case e.Head != e.GoldHead:
		return "head"
	}
	return "label"
}

// DepEval scores parsed trees against gold trees: labeled attachment
// (LAS), unlabeled attachment (UAS) and label accuracy (LS).
type DepEval struct {
	// gold POS tags excluded from scoring
	Punctuation map[string]bool
	// skip tokens the parser left headless
	SkipHeadless bool
	KeepErrors   bool

	LAS, UAS, LS Total
}

func NewDepEval(punctuation []string) *DepEval {
	e := &DepEval{Punctuation: make(map[string]bool, len(punctuation))}
	for _, pos := range punctuation {
		e.Punctuation[pos] = true
	}
	return e
}

func (e *DepEval) Evaluate(gold, sys *nlp.DepTree) error {
	if gold.Size() != sys.Size() {
		return fmt.Errorf("%w: gold %d, parsed %d", ErrSizeMismatch, gold.Size(), sys.Size())
	}
	las, uas, ls := new(Result), new(Result), new(Result)
	for i := 1; i < gold.Size(); i++ {
		g, s := gold.Get(i), sys.Get(i)
		if e.Punctuation[g.POS] || (e.SkipHeadless && !s.HasHead) {
			continue
		}
		head := s.HasHead && s.HeadID == g.HeadID
		label := s.HasHead && s.Deprel == g.Deprel
		count(uas, head)
		count(ls, label)
		count(las, head && label)
		if e.KeepErrors && !(head && label) {
			las.Errors = append(las.Errors, &AttachmentError{
				ID: i, Form: g.Form,
				Head: s.HeadID, GoldHead: g.HeadID,
				Deprel: s.Deprel, GoldDeprel: g.Deprel,
			})
		}
	}
	if e.KeepErrors && e.LAS.Results == nil {
		e.LAS.Results = make([]*Result, 0, 64)
	}
	e.LAS.Add(las)
	e.UAS.Add(uas)
	e.LS.Add(ls)
	return nil
}

func count(r *Result, correct bool) {
	if correct {
		r.TP++
	} else {
		r.FN++
	}
}

func (e *DepEval) Tokens() int {
	return e.LAS.All()
}

// Write prints the micro and macro averaged scores.
func (e *DepEval) Write(w io.Writer) error {
	var err error
	printf := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	printf("== Micro ==\n")
	for _, s := range e.scores() {
		printf("%-3s: %4.2f%% (%d/%d)\n", s.name, s.total.Accuracy()*100, s.total.Correct(), s.total.All())
	}
	printf("\n== Macro ==\n")
	for _, s := range e.scores() {
		printf("%-3s: %4.2f%%\n", s.name, s.total.MacroAccuracy()*100)
	}
	printf("\nExact match: %4.2f%% (%d/%d)\n", e.LAS.ExactMatch()*100, e.LAS.Exact, e.LAS.Population)
	if e.KeepErrors {
		byType := e.LAS.Errors().ByType()
		printf("Errors: head=%d label=%d both=%d\n", byType["head"], byType["label"], byType["both"])
	}
	return err
}

type namedTotal struct {
	name  string
	total *Total
}

func (e *DepEval) scores() []namedTotal {
	return []namedTotal{{"LAS", &e.LAS}, {"UAS", &e.UAS}, {"LS", &e.LS}}
}
