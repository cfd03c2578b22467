package eval

import (
	"fmt"
	"io"
	"sort"

	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"
)

// SRLEval scores semantic heads. An argument is unlabeled-correct when
// the parser attached it to the gold predicate and labeled-correct when
// the role matches as well.
type SRLEval struct {
	Unlabeled, Labeled Result
	Roles              map[string]*Result
}

func NewSRLEval() *SRLEval {
	return &SRLEval{Roles: make(map[string]*Result)}
}

func (e *SRLEval) role(label string) *Result {
	r, exists := e.Roles[label]
	if !exists {
		r = new(Result)
		e.Roles[label] = r
	}
	return r
}

func (e *SRLEval) Evaluate(gold, sys *nlp.DepTree) error {
	if gold.Size() != sys.Size() {
		return fmt.Errorf("%w: gold %d, parsed %d", ErrSizeMismatch, gold.Size(), sys.Size())
	}
	for i := 1; i < gold.Size(); i++ {
		e.measure(gold.Get(i).SRLHeads, sys.Get(i).SRLHeads)
	}
	return nil
}

func (e *SRLEval) measure(gold, sys []nlp.SRLHead) {
	for _, g := range gold {
		predicate, labeled := false, false
		for _, s := range sys {
			if s.HeadID == g.HeadID {
				predicate, labeled = true, s.Label == g.Label
				break
			}
		}
		count(&e.Unlabeled, predicate)
		count(&e.Labeled, labeled)
		count(e.role(g.Label), labeled)
	}
	for _, s := range sys {
		predicate, labeled := false, false
		for _, g := range gold {
			if s.HeadID == g.HeadID {
				predicate, labeled = true, s.Label == g.Label
				break
			}
		}
		if !predicate {
			e.Unlabeled.FP++
		}
		if !labeled {
			e.Labeled.FP++
			e.role(s.Label).FP++
		}
	}
}

func (e *SRLEval) F1() float64 {
	return e.Labeled.F1()
}

// Write prints precision, recall and F1 overall and per role.
func (e *SRLEval) Write(w io.Writer) error {
	var err error
	printf := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	line := "----------------------------------------\n"
	each := func(label string, r *Result) {
		printf("%10s%10.2f%10.2f%10.2f\n", label, r.Precision()*100, r.Recall()*100, r.F1()*100)
	}
	printf("%s", line)
	printf("%10s%10s%10s%10s\n", "LABEL", "P", "R", "F1")
	printf("%s", line)
	each("UAS", &e.Unlabeled)
	each("LAS", &e.Labeled)
	printf("%s", line)
	labels := make([]string, 0, len(e.Roles))
	for label := range e.Roles {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		each(label, e.Roles[label])
	}
	printf("%s", line)
	return err
}
