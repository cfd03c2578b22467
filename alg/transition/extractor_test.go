package transition

import (
	"reflect"
	"testing"

	"github.com/yhkim82/clearparser-sub000/alg/featurevector"
	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"
)

type testConf struct {
	tree         *nlp.DepTree
	lambda, beta int
	args         []string
}

func (c *testConf) Tree() *nlp.DepTree { return c.tree }
func (c *testConf) Lambda() int        { return c.lambda }
func (c *testConf) Beta() int          { return c.beta }

func (c *testConf) Arg(numbered bool, back int) (string, bool) {
	if back >= len(c.args) {
		return "", false
	}
	return c.args[len(c.args)-1-back], true
}

const TEST_FEATURES = `
punctuation: true
punctuation cutoff: 0
feature groups:
  - group: unigram
    cutoff: 0
    features:
      - l0:p
      - b0:f
      - l0_hd:f
  - group: bigram
    cutoff: 0
    features:
      - l0:p+b0:p
`

func testTree() *nlp.DepTree {
	tree := nlp.NewDepTree()
	for _, tok := range [][2]string{{"The", "DT"}, {"dog", "NN"}, {",", ","}, {"barks", "VBZ"}, {".", "."}} {
		node := nlp.NewDepNode(0, tok[0], tok[0], tok[1])
		node.Feats = []string{"x=1", "y=2"}
		tree.Add(node)
	}
	return tree
}

func TestGetField(t *testing.T) {
	tree := testTree()
	tree.SetHead(1, 2, "NMOD", 1)
	conf := &testConf{tree: tree, lambda: 1, beta: 4, args: []string{"A0", "AM-TMP"}}
	tests := []struct {
		token string
		value string
		ok    bool
	}{
		{"l0:f", "The", true},
		{"b0:p", "VBZ", true},
		{"l+1:f", "dog", true},
		{"l0_hd:f", "dog", true},
		{"l0:d", "NMOD", true},
		{"b0:d", "", false},
		{"l+1_lm:f", "The", true},
		{"l+1_rm:f", "", false},
		{"b+1:f", ".", true},
		{"b+2:f", "", false},
		{"l-2:f", "", false},
		// lambda+3 is beta
		{"l+3:f", "", false},
		{"b-3:f", "", false},
		{"b0:ft1", "y=2", true},
		{"b0:ft2", "", false},
		{"l0:as0", "AM-TMP", true},
		{"l0:as1", "A0", true},
		{"l0:as2", "", false},
		{"l0_xx:f", "", false},
		{"l0:zz", "", false},
	}
	for _, test := range tests {
		token, err := ParseFeatureToken(test.token)
		if err != nil {
			t.Fatalf("%s: %v", test.token, err)
		}
		value, ok := GetField(conf, token)
		if ok != test.ok || value != test.value {
			t.Errorf("%s: expected (%q, %v) got (%q, %v)", test.token, test.value, test.ok, value, ok)
		}
	}
}

func TestExtractJoin(t *testing.T) {
	conf := &testConf{tree: testTree(), lambda: 1, beta: 2}
	template, _ := ParseFeatureTemplate("l0:p+b0:p")
	if feat, ok := Extract(conf, template); !ok || feat != "DT_NN" {
		t.Errorf("Expected DT_NN, got %q (%v)", feat, ok)
	}
	template, _ = ParseFeatureTemplate("l0:p+b0:d")
	if _, ok := Extract(conf, template); ok {
		t.Error("Expected failure when a token does not resolve")
	}
}

func TestLoadFeatureConf(t *testing.T) {
	setup, err := LoadFeatureConf([]byte(TEST_FEATURES))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(setup.FeatureGroups) != 2 || setup.NumTemplates() != 4 {
		t.Fatalf("Unexpected setup %+v", setup)
	}
	if !reflect.DeepEqual(setup.Cutoffs(), []int{0, 0}) {
		t.Errorf("Unexpected cutoffs %v", setup.Cutoffs())
	}
	if len(setup.Templates()[1]) != 1 || len(setup.Templates()[1][0].Tokens) != 2 {
		t.Errorf("Unexpected bigram templates %v", setup.Templates()[1])
	}
	data, err := setup.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	again, err := LoadFeatureConf(data)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if again.NumTemplates() != setup.NumTemplates() || !again.Punctuation {
		t.Error("Setup changed through marshalling")
	}
	if _, err := LoadFeatureConf([]byte("feature groups:\n  - group: g\n    features: [l0]\n")); err == nil {
		t.Error("Expected error on malformed template")
	}
}

func extractorFixture(t *testing.T) (*GenericExtractor, *testConf) {
	setup, err := LoadFeatureConf([]byte(TEST_FEATURES))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	tree := testTree()
	x := &GenericExtractor{Setup: setup, Lexicon: featurevector.NewLexicon(setup.Cutoffs(), setup.PunctuationCutoff)}
	conf := &testConf{tree: tree, lambda: 1, beta: 4}
	x.AddLexica(conf)
	x.Lexicon.AddPunctuation(",")
	x.Lexicon.AddPunctuation(".")
	x.Lexicon.Freeze()
	return x, conf
}

func TestVectorDeterministic(t *testing.T) {
	x, conf := extractorFixture(t)
	// unigram: DT, barks (head of l0 missing); bigram: DT_VBZ
	if x.Lexicon.GroupSize(0) != 2 || x.Lexicon.GroupSize(1) != 1 {
		t.Fatalf("Unexpected group sizes %d %d", x.Lexicon.GroupSize(0), x.Lexicon.GroupSize(1))
	}
	first := x.Vector(conf).Vector()
	second := x.Vector(conf).Vector()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Vectors differ: %v %v", first, second)
	}
	// blocks: [1,2] [3,4] [5,6] [7] punct [8,9] [10,11] [12,13]
	expected := []int{1, 4, 7, 8, 11, 12}
	if !reflect.DeepEqual(first, expected) {
		t.Errorf("Expected %v, got %v", expected, first)
	}
	if n := x.NumFeatures(); n != 14 {
		t.Errorf("Expected 14 features, got %d", n)
	}
	for i := 1; i < len(first); i++ {
		if first[i] <= first[i-1] {
			t.Errorf("Vector not increasing: %v", first)
		}
	}
}

func TestNearestPunctuation(t *testing.T) {
	x, _ := extractorFixture(t)
	tree := testTree()
	if id := RightNearestPunctuation(tree, x.Lexicon, 1, 3); id != 1 {
		t.Errorf("Expected ',' (1), got %d", id)
	}
	if id := RightNearestPunctuation(tree, x.Lexicon, 3, tree.Size()-1); id != 2 {
		t.Errorf("Expected '.' (2), got %d", id)
	}
	if id := LeftNearestPunctuation(tree, x.Lexicon, 2, 0); id != 0 {
		t.Errorf("Expected no punctuation, got %d", id)
	}
	if id := LeftNearestPunctuation(tree, x.Lexicon, 5, 2); id != 1 {
		t.Errorf("Expected ',' (1), got %d", id)
	}
}
