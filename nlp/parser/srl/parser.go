package srl

import (
	"errors"
	"log"
	"regexp"
	"strings"

	"github.com/yhkim82/clearparser-sub000/alg/featurevector"
	"github.com/yhkim82/clearparser-sub000/alg/transition"
	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"
)

const (
	LB_SHIFT  = "SH"
	LB_NO_ARC = "NA"

	DIR_LEFT  = -1
	DIR_RIGHT = 1

	// prefix of adjunct roles
	ARGM_PREFIX = "AM-"
)

var (
	ErrNoDecoder   = errors.New("mode requires a decoder per direction")
	ErrNoSink      = errors.New("mode requires an instance sink per direction")
	ErrNoExtractor = errors.New("parser requires an extractor per direction")

	numberedArg = regexp.MustCompile(`^A\d$`)
)

type arg struct {
	id    int
	label string
	score float64
}

// Parser labels the arguments of every predicate of a tree by scanning
// first leftwards, then rightwards from the predicate (beta) with the
// argument candidate cursor lambda. Each direction has its own extractor
// (and so its own lexicon), decoder and instance sink, indexed by Dir.
type Parser struct {
	Mode       transition.Mode
	Extractors [2]*transition.GenericExtractor
	Decoders   [2]transition.Decoder
	Sinks      [2]transition.InstanceSink
	Log        bool

	// number of classified (lambda, beta) pairs over all parsed trees
	Transitions int

	tree         *nlp.DepTree
	gold         *nlp.DepTree
	lambda, beta int
	dir          int
	args, argn   []arg
	argm         map[string]int
	err          error
}

var (
	_ transition.Configuration = &Parser{}
	_ transition.ArgHistory    = &Parser{}
)

// Dir maps a scan direction to the index of its extractor, decoder and
// sink.
func Dir(dir int) int {
	if dir == DIR_LEFT {
		return 0
	}
	return 1
}

func (p *Parser) Tree() *nlp.DepTree { return p.tree }
func (p *Parser) Lambda() int        { return p.lambda }
func (p *Parser) Beta() int          { return p.beta }

// Arg returns the back'th most recent argument found for the current
// predicate, among all or only the numbered ones.
func (p *Parser) Arg(numbered bool, back int) (string, bool) {
	list := p.args
	if numbered {
		list = p.argn
	}
	i := len(list) - back - 1
	if back < 0 || i < 0 {
		return "", false
	}
	return list[i].label, true
}

// Modifiers returns how many adjunct arguments with label were found for
// the current predicate.
func (p *Parser) Modifiers(label string) int {
	return p.argm[label]
}

func (p *Parser) check() error {
	for i := range p.Extractors {
		if p.Extractors[i] == nil {
			return ErrNoExtractor
		}
		if p.Mode.Predicts() && p.Decoders[i] == nil {
			return ErrNoDecoder
		}
		if (p.Mode == transition.EmitInstances || p.Mode == transition.BootstrapRetrain) && p.Sinks[i] == nil {
			return ErrNoSink
		}
	}
	return nil
}

// Parse scans every predicate of tree. In Predict and BootstrapRetrain
// modes the semantic heads of tree are replaced by the predicted ones.
func (p *Parser) Parse(tree *nlp.DepTree) error {
	if err := p.check(); err != nil {
		return err
	}
	p.init(tree)
	for p.beta < tree.Size() && p.err == nil {
		if p.lambda <= 0 || p.lambda >= tree.Size() {
			p.shift()
			continue
		}
		switch p.Mode {
		case transition.Predict:
			p.predict(p.vector())
		case transition.BootstrapRetrain:
			p.trainConditional()
		default:
			p.train()
		}
		p.Transitions++
	}
	return p.err
}

func (p *Parser) init(tree *nlp.DepTree) {
	p.tree, p.gold, p.err = tree, tree, nil
	p.beta = tree.NextPredicateID(0)
	p.lambda = p.beta - 1
	p.dir = DIR_LEFT
	p.reset()
	if p.Mode == transition.BootstrapRetrain {
		p.gold = tree.Clone()
	}
	if p.Mode.Predicts() {
		tree.ClearSRLHeads()
	}
}

func (p *Parser) reset() {
	p.args = p.args[:0]
	p.argn = p.argn[:0]
	p.argm = make(map[string]int)
}

// GoldLabel returns the role of lambda for beta in the gold tree, or NA.
func (p *Parser) GoldLabel() string {
	if label, exists := p.gold.Get(p.lambda).SRLLabel(p.beta); exists {
		return label
	}
	return LB_NO_ARC
}

func (p *Parser) train() {
	label := p.GoldLabel()
	switch p.Mode {
	case transition.BuildLexicon:
		p.addLexica(label)
	case transition.EmitInstances:
		p.emit(label, p.vector())
	}
	p.apply(label, 1)
}

func (p *Parser) trainConditional() {
	x := p.vector()
	p.emit(p.GoldLabel(), x)
	p.predict(x)
}

func (p *Parser) predict(x []int) {
	label, score := p.Decoders[Dir(p.dir)].Predict(x)
	role := LB_NO_ARC
	if label >= 0 {
		role = p.extractor().Lexicon.Label(label)
	}
	// a shift is never predicted, the scan ends at the sentence boundary
	if role == LB_SHIFT {
		role = LB_NO_ARC
	}
	p.apply(role, score)
}

func (p *Parser) apply(label string, score float64) {
	if label == LB_NO_ARC {
		p.lambda += p.dir
		return
	}
	p.yesArc(label, score)
}

// shift flips the scan direction; after the right side it flushes the
// arguments of the current predicate and moves to the next one.
func (p *Parser) shift() {
	if p.dir == DIR_RIGHT {
		if p.Mode.Predicts() {
			for _, a := range p.args {
				p.tree.Get(a.id).AddSRLHead(p.beta, a.label)
			}
		}
		p.beta = p.tree.NextPredicateID(p.beta)
		p.reset()
	}
	p.dir *= -1
	p.lambda = p.beta + p.dir
}

func (p *Parser) yesArc(label string, score float64) {
	a := arg{p.lambda, label, score}
	p.args = append(p.args, a)
	if numberedArg.MatchString(label) {
		p.argn = append(p.argn, a)
	} else if strings.HasPrefix(label, ARGM_PREFIX) {
		p.argm[label]++
	}
	p.lambda += p.dir
}

func (p *Parser) extractor() *transition.GenericExtractor {
	return p.Extractors[Dir(p.dir)]
}

// setGroup is the lexicon group of the dependent-deprel set, kept after
// the n-gram groups.
func (p *Parser) setGroup() int {
	return len(p.extractor().Setup.Templates())
}

// NewLexicon returns a lexicon with the n-gram groups of setup followed by
// the dependent-deprel group.
func NewLexicon(setup *transition.FeatureSetup) *featurevector.Lexicon {
	return featurevector.NewLexicon(append(setup.Cutoffs(), 0), setup.PunctuationCutoff)
}

// NumFeatures is the dimension of vectors built in direction dir.
func (p *Parser) NumFeatures(dir int) int {
	x := p.Extractors[Dir(dir)]
	n := 1 + 3 + x.Lexicon.GroupSize(len(x.Setup.Templates()))
	for g, templates := range x.Setup.Templates() {
		n += len(templates) * x.Lexicon.GroupSize(g)
	}
	return n
}

func (p *Parser) addLexica(label string) {
	x := p.extractor()
	x.Lexicon.AddLabel(label)
	x.AddLexica(p)
	for _, deprel := range p.tree.DeprelDepSet(p.beta) {
		x.Lexicon.AddNgram(p.setGroup(), deprel)
	}
}

// vector builds the n-gram blocks, three structural bits and the set of
// deprels of beta's dependents.
func (p *Parser) vector() []int {
	var (
		x     = p.extractor()
		b     = featurevector.NewBuilder()
		group = p.setGroup()
	)
	x.AddNgramFeatures(p, b)
	p.addStructuralFeatures(b)
	ids := make([]int, 0, 4)
	for _, deprel := range p.tree.DeprelDepSet(p.beta) {
		if id, exists := x.Lexicon.NgramIndex(group, deprel); exists {
			ids = append(ids, id)
		}
	}
	b.AddSet(ids)
	b.Skip(x.Lexicon.GroupSize(group))
	return b.Vector()
}

// addStructuralFeatures sets bit 1 when lambda depends on beta, bit 2
// when beta depends on lambda, and bit 3 when the verb chain above beta
// reaches a node with a subject.
func (p *Parser) addStructuralFeatures(b *featurevector.Builder) {
	lambda, beta := p.tree.Get(p.lambda), p.tree.Get(p.beta)
	if lambda.HasHead && lambda.HeadID == p.beta {
		b.Add(1)
	} else if beta.HasHead && beta.HeadID == p.lambda {
		b.Add(2)
	}
	for steps := 0; steps < p.tree.Size(); steps++ {
		if !beta.HasHead || !strings.HasPrefix(beta.Deprel, nlp.DEPREL_VC) || !p.tree.InRange(beta.HeadID) {
			break
		}
		beta = p.tree.Get(beta.HeadID)
		if hasDeprel(p.tree.DeprelDepSet(beta.ID), nlp.DEPREL_SBJ) {
			b.Add(3)
			break
		}
	}
	b.Skip(3)
}

func hasDeprel(set []string, deprel string) bool {
	for _, d := range set {
		if d == deprel {
			return true
		}
	}
	return false
}

func (p *Parser) emit(label string, x []int) {
	index, exists := p.extractor().Lexicon.LabelIndex(label)
	if !exists {
		if p.Log {
			log.Println("Skipping instance with unknown label", label)
		}
		return
	}
	if err := p.Sinks[Dir(p.dir)].Emit(index, x); err != nil && p.err == nil {
		p.err = err
	}
}
