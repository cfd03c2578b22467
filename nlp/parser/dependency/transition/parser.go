package transition

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/yhkim82/clearparser-sub000/alg/transition"
	"github.com/yhkim82/clearparser-sub000/nlp/parser/dependency"
	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"
)

var (
	ErrNoDecoder = errors.New("mode requires a decoder")
	ErrNoSink    = errors.New("mode requires an instance sink")
	ErrNoLog     = errors.New("mode requires a transition log writer")
)

// Parser is a left-to-right transition parser with two cursors: lambda,
// the top of the list of processed tokens, and beta, the next input token.
type Parser struct {
	Mode      transition.Mode
	Variant   Variant
	Extractor *transition.GenericExtractor
	Decoder   transition.Decoder
	Sink      transition.InstanceSink
	// receives the transition sequence in EmitTransitionLog mode
	TransitionLog io.Writer
	Log           bool

	// number of non-deterministic transitions over all parsed trees
	Transitions int

	tree         *nlp.DepTree
	gold         []goldArc
	lambda, beta int
	out          *bufio.Writer
	err          error
}

type goldArc struct {
	head   int
	deprel string
}

var (
	_ transition.Configuration    = &Parser{}
	_ dependency.DependencyParser = &Parser{}
)

func (p *Parser) Tree() *nlp.DepTree { return p.tree }
func (p *Parser) Lambda() int        { return p.lambda }
func (p *Parser) Beta() int          { return p.beta }

func (p *Parser) check() error {
	switch p.Mode {
	case transition.Predict:
		if p.Decoder == nil {
			return ErrNoDecoder
		}
	case transition.BootstrapRetrain:
		if p.Decoder == nil {
			return ErrNoDecoder
		}
		if p.Sink == nil {
			return ErrNoSink
		}
	case transition.EmitInstances:
		if p.Sink == nil {
			return ErrNoSink
		}
	case transition.EmitTransitionLog:
		if p.TransitionLog == nil {
			return ErrNoLog
		}
	}
	return nil
}

// Parse runs the parser over tree. The heads of tree are replaced: by the
// gold actions in the training modes and by predictions otherwise.
func (p *Parser) Parse(tree *nlp.DepTree) error {
	if err := p.check(); err != nil {
		return err
	}
	p.init(tree)
	for p.beta < tree.Size() && p.err == nil {
		if p.lambda == -1 {
			p.shift(true)
			continue
		}
		if tree.Get(p.lambda).Skip {
			p.lambda--
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
	switch p.Mode {
	case transition.EmitTransitionLog:
		p.write("\n")
		if p.err == nil {
			p.err = p.out.Flush()
		}
	case transition.Predict:
		p.postProcess()
	case transition.BootstrapRetrain:
		p.postProcessConditional()
	}
	return p.err
}

func (p *Parser) init(tree *nlp.DepTree) {
	p.tree, p.err = tree, nil
	p.gold = p.gold[:0]
	for _, node := range tree.Nodes {
		arc := goldArc{nlp.NULL_HEAD_ID, ""}
		if node.ID == nlp.ROOT_ID {
			arc.head = nlp.NULL_ID
		} else if node.HasHead {
			arc = goldArc{node.HeadID, node.Deprel}
		}
		p.gold = append(p.gold, arc)
	}
	tree.ClearHeads()
	p.lambda, p.beta = 0, 1
	if p.Mode == transition.EmitTransitionLog {
		if p.out == nil {
			p.out = bufio.NewWriter(p.TransitionLog)
		}
		p.logTransition("", "")
	}
}

// GoldAction returns the oracle action for the current cursors.
func (p *Parser) GoldAction() Action {
	lambda, beta := p.gold[p.lambda], p.gold[p.beta]
	switch {
	case lambda.head == p.beta:
		if p.Variant == ShiftPop && p.isPop() {
			return Action{LeftPop, lambda.deprel}
		}
		return Action{LeftArc, lambda.deprel}
	case beta.head == p.lambda:
		return Action{RightArc, beta.deprel}
	case p.isShift():
		return Action{Kind: Shift}
	}
	return Action{Kind: NoArc}
}

// isShift reports whether no node from lambda down to ROOT is attached to
// beta in either direction.
func (p *Parser) isShift() bool {
	betaHead := p.gold[p.beta].head
	for i := p.lambda; i >= 0; i-- {
		if p.gold[i].head == p.beta || i == betaHead {
			return false
		}
	}
	return true
}

// isPop reports whether lambda has no gold dependent right of beta.
func (p *Parser) isPop() bool {
	for i := p.beta + 1; i < len(p.gold); i++ {
		if p.gold[i].head == p.lambda {
			return false
		}
	}
	return true
}

func (p *Parser) train() {
	action := p.GoldAction()
	switch p.Mode {
	case transition.BuildLexicon:
		p.addLexica(action)
	case transition.EmitInstances:
		p.emit(action.String(), p.vector())
	}
	p.apply(action, 1)
}

func (p *Parser) trainConditional() {
	x := p.vector()
	p.emit(p.GoldAction().String(), x)
	p.predict(x)
}

func (p *Parser) predict(x []int) {
	label, score := p.Decoder.Predict(x)
	action := Action{Kind: NoArc}
	if label >= 0 {
		action = ParseAction(p.Extractor.Lexicon.Label(label))
	}
	p.apply(p.guard(action), score)
}

// guard replaces actions that would create a cycle, attach ROOT, or are
// not part of the variant by NoArc.
func (p *Parser) guard(action Action) Action {
	switch action.Kind {
	case LeftPop:
		if p.Variant != ShiftPop {
			return Action{Kind: NoArc}
		}
		fallthrough
	case LeftArc:
		if p.lambda == nlp.ROOT_ID || p.tree.IsAncestor(p.lambda, p.beta) {
			return Action{Kind: NoArc}
		}
	case RightArc:
		if p.tree.IsAncestor(p.beta, p.lambda) {
			return Action{Kind: NoArc}
		}
	}
	return action
}

func (p *Parser) apply(action Action, score float64) {
	switch action.Kind {
	case Shift:
		p.shift(false)
	case NoArc:
		p.noArc()
	case LeftArc, LeftPop:
		p.leftArc(action, score)
	case RightArc:
		p.rightArc(action, score)
	}
}

func (p *Parser) shift(deterministic bool) {
	p.lambda = p.beta
	p.beta++
	if p.Mode == transition.EmitTransitionLog {
		if deterministic {
			p.logTransition("DT-SHIFT", "")
		} else {
			p.logTransition("NT-SHIFT", "")
		}
	}
}

func (p *Parser) noArc() {
	p.lambda--
	if p.Mode == transition.EmitTransitionLog {
		p.logTransition("NO-ARC", "")
	}
}

func (p *Parser) leftArc(action Action, score float64) {
	lambda := p.lambda
	p.tree.SetHead(lambda, p.beta, action.Label, score)
	if action.Kind == LeftPop {
		p.tree.Get(lambda).Skip = true
	}
	p.lambda--
	if p.Mode == transition.EmitTransitionLog {
		name := "LEFT-ARC"
		if action.Kind == LeftPop {
			name = "LEFT-POP"
		}
		p.logTransition(name, fmt.Sprintf("%d <-%s- %d", lambda, action.Label, p.beta))
	}
}

func (p *Parser) rightArc(action Action, score float64) {
	lambda := p.lambda
	p.tree.SetHead(p.beta, lambda, action.Label, score)
	p.lambda--
	if p.Mode == transition.EmitTransitionLog {
		p.logTransition("RIGHT-ARC", fmt.Sprintf("%d -%s-> %d", lambda, action.Label, p.beta))
	}
}

func (p *Parser) vector() []int {
	return p.Extractor.Vector(p).Vector()
}

func (p *Parser) addLexica(action Action) {
	lexicon := p.Extractor.Lexicon
	lexicon.AddLabel(action.String())
	p.Extractor.AddLexica(p)
	if p.gold[p.beta].deprel == nlp.DEPREL_P {
		lexicon.AddPunctuation(p.tree.Get(p.beta).Form)
	}
}

// emit sends an instance to the sink; labels missing from the lexicon are
// skipped.
func (p *Parser) emit(label string, x []int) {
	index, exists := p.Extractor.Lexicon.LabelIndex(label)
	if !exists {
		if p.Log {
			log.Println("Skipping instance with unknown label", label)
		}
		return
	}
	if err := p.Sink.Emit(index, x); err != nil && p.err == nil {
		p.err = err
	}
}

// logTransition writes NAME [lambda1] [lambda2] [beta] arc, where lambda1
// spans 0..lambda, lambda2 the tokens between lambda and beta, and beta
// the remaining input.
func (p *Parser) logTransition(name, arc string) {
	var (
		buf      = make([]byte, 0, 64)
		size     = p.tree.Size()
		lambda2s = p.beta - (p.lambda + 1)
	)
	buf = append(buf, name...)
	buf = append(buf, "\t["...)
	if p.lambda >= 0 {
		buf = append(buf, '0')
	}
	if p.lambda >= 1 {
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(p.lambda), 10)
	}
	buf = append(buf, "]\t["...)
	if lambda2s > 0 {
		buf = strconv.AppendInt(buf, int64(p.lambda+1), 10)
	}
	if lambda2s > 1 {
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(p.beta-1), 10)
	}
	buf = append(buf, "]\t["...)
	if p.beta < size {
		buf = strconv.AppendInt(buf, int64(p.beta), 10)
	}
	if p.beta <= size {
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(size-1), 10)
	}
	buf = append(buf, "]\t"...)
	buf = append(buf, arc...)
	buf = append(buf, '\n')
	p.write(string(buf))
}

func (p *Parser) write(s string) {
	if p.err != nil {
		return
	}
	if _, err := p.out.WriteString(s); err != nil {
		p.err = err
	}
}
