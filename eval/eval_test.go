package eval

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"
)

type arc struct {
	head   int
	deprel string
}

// The dog barks .
func dogBarks(arcs []arc) *nlp.DepTree {
	tree := nlp.NewDepTree()
	for _, tok := range [][2]string{{"The", "DT"}, {"dog", "NN"}, {"barks", "VBZ"}, {".", "."}} {
		tree.Add(nlp.NewDepNode(0, tok[0], tok[0], tok[1]))
	}
	for i, a := range arcs {
		if a.head != nlp.NULL_HEAD_ID {
			tree.SetHead(i+1, a.head, a.deprel, 1)
		}
	}
	return tree
}

var (
	GOLD   = []arc{{2, "NMOD"}, {3, "SBJ"}, {0, "ROOT"}, {3, "P"}}
	PARSED = []arc{{2, "NMOD"}, {3, "OBJ"}, {0, "ROOT"}, {2, "P"}}
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDepEvalPunctuation(t *testing.T) {
	tests := []struct {
		punctuation  []string
		las, uas, ls float64
		tokens       int
	}{
		{[]string{"."}, 2.0 / 3, 1, 2.0 / 3, 3},
		{nil, 2.0 / 4, 3.0 / 4, 3.0 / 4, 4},
	}
	for _, test := range tests {
		e := NewDepEval(test.punctuation)
		if err := e.Evaluate(dogBarks(GOLD), dogBarks(PARSED)); err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if e.Tokens() != test.tokens {
			t.Errorf("Expected %d tokens, got %d", test.tokens, e.Tokens())
		}
		if !approx(e.LAS.Accuracy(), test.las) || !approx(e.UAS.Accuracy(), test.uas) || !approx(e.LS.Accuracy(), test.ls) {
			t.Errorf("%v: expected %v/%v/%v, got %v/%v/%v", test.punctuation, test.las, test.uas, test.ls,
				e.LAS.Accuracy(), e.UAS.Accuracy(), e.LS.Accuracy())
		}
		if e.LAS.ExactMatch() != 0 {
			t.Errorf("Expected no exact match, got %v", e.LAS.ExactMatch())
		}
	}
}

func TestDepEvalMacro(t *testing.T) {
	e := NewDepEval([]string{"."})
	e.Evaluate(dogBarks(GOLD), dogBarks(GOLD))
	e.Evaluate(dogBarks(GOLD), dogBarks(PARSED))
	if e.LAS.Exact != 1 || e.LAS.Population != 2 {
		t.Errorf("Expected 1 of 2 exact, got %d of %d", e.LAS.Exact, e.LAS.Population)
	}
	// micro 5/6, macro (1 + 2/3) / 2
	if !approx(e.LAS.Accuracy(), 5.0/6) || !approx(e.LAS.MacroAccuracy(), 5.0/6) {
		t.Errorf("Unexpected LAS %v / %v", e.LAS.Accuracy(), e.LAS.MacroAccuracy())
	}
}

func TestDepEvalHeadless(t *testing.T) {
	parsed := []arc{{2, "NMOD"}, {nlp.NULL_HEAD_ID, ""}, {0, "ROOT"}, {3, "P"}}
	e := NewDepEval(nil)
	e.Evaluate(dogBarks(GOLD), dogBarks(parsed))
	if e.Tokens() != 4 || e.LAS.Correct() != 3 {
		t.Errorf("Expected 3/4, got %d/%d", e.LAS.Correct(), e.Tokens())
	}
	e = NewDepEval(nil)
	e.SkipHeadless = true
	e.Evaluate(dogBarks(GOLD), dogBarks(parsed))
	if e.Tokens() != 3 || e.LAS.Correct() != 3 {
		t.Errorf("Expected 3/3, got %d/%d", e.LAS.Correct(), e.Tokens())
	}
}

func TestDepEvalErrors(t *testing.T) {
	e := NewDepEval(nil)
	e.KeepErrors = true
	e.Evaluate(dogBarks(GOLD), dogBarks([]arc{{3, "NMOD"}, {3, "OBJ"}, {0, "ROOT"}, {2, "OBJ"}}))
	byType := e.LAS.Errors().ByType()
	if byType["head"] != 1 || byType["label"] != 1 || byType["both"] != 1 {
		t.Errorf("Unexpected error classes %v", byType)
	}
	var buf bytes.Buffer
	if err := e.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	for _, expected := range []string{"LAS: 25.00% (1/4)", "UAS: 50.00% (2/4)", "Errors: head=1 label=1 both=1"} {
		if !strings.Contains(buf.String(), expected) {
			t.Errorf("Expected %q in report:\n%s", expected, buf.String())
		}
	}
}

func TestDepEvalSizeMismatch(t *testing.T) {
	short := nlp.NewDepTree()
	if err := NewDepEval(nil).Evaluate(dogBarks(GOLD), short); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Expected ErrSizeMismatch, got %v", err)
	}
}

// She said John left .
func saidLeft(srl map[int][]nlp.SRLHead) *nlp.DepTree {
	tree := nlp.NewDepTree()
	for _, form := range []string{"She", "said", "John", "left", "."} {
		tree.Add(nlp.NewDepNode(0, form, form, "_"))
	}
	for id, heads := range srl {
		tree.Get(id).SRLHeads = heads
	}
	return tree
}

func TestSRLEval(t *testing.T) {
	gold := saidLeft(map[int][]nlp.SRLHead{
		1: {{HeadID: 2, Label: "A0"}},
		3: {{HeadID: 4, Label: "A0"}},
		4: {{HeadID: 2, Label: "A1"}},
	})
	sys := saidLeft(map[int][]nlp.SRLHead{
		1: {{HeadID: 2, Label: "A0"}},
		3: {{HeadID: 2, Label: "A0"}},
		4: {{HeadID: 2, Label: "A2"}},
		5: {{HeadID: 2, Label: "AM-TMP"}},
	})
	e := NewSRLEval()
	if err := e.Evaluate(gold, sys); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !approx(e.Unlabeled.Precision(), 0.5) || !approx(e.Unlabeled.Recall(), 2.0/3) {
		t.Errorf("Unexpected unlabeled P/R %v/%v", e.Unlabeled.Precision(), e.Unlabeled.Recall())
	}
	if !approx(e.Labeled.Precision(), 0.25) || !approx(e.Labeled.Recall(), 1.0/3) || !approx(e.F1(), 2.0/7) {
		t.Errorf("Unexpected labeled P/R/F1 %v/%v/%v", e.Labeled.Precision(), e.Labeled.Recall(), e.F1())
	}
	expected := map[string]Result{
		"A0":     {TP: 1, FP: 1, FN: 1},
		"A1":     {FN: 1},
		"A2":     {FP: 1},
		"AM-TMP": {FP: 1},
	}
	if len(e.Roles) != len(expected) {
		t.Errorf("Expected %d roles, got %d", len(expected), len(e.Roles))
	}
	for label, r := range expected {
		got, exists := e.Roles[label]
		if !exists || got.TP != r.TP || got.FP != r.FP || got.FN != r.FN {
			t.Errorf("%s: expected %+v, got %+v", label, r, got)
		}
	}
	var buf bytes.Buffer
	if err := e.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "        A0     50.00     50.00     50.00") {
		t.Errorf("Missing A0 line in report:\n%s", buf.String())
	}
}

func TestZeroDivision(t *testing.T) {
	r := new(Result)
	if r.Precision() != 0 || r.Recall() != 0 || r.F1() != 0 || r.Accuracy() != 0 {
		t.Error("Expected zero scores for an empty result")
	}
}
