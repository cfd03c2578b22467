package transition

import (
	"log"
	"strings"

	"github.com/yhkim82/clearparser-sub000/alg/featurevector"
	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"
)

// Configuration is the parser state features are read from.
type Configuration interface {
	Tree() *nlp.DepTree
	Lambda() int
	Beta() int
}

// ArgHistory is implemented by configurations that keep the labels of
// the arguments found so far for the current predicate.
type ArgHistory interface {
	// Arg returns the back'th most recent argument label, counting from 0.
	Arg(numbered bool, back int) (string, bool)
}

// GetField resolves token against conf.
func GetField(conf Configuration, token FeatureToken) (string, bool) {
	var (
		tree         = conf.Tree()
		lambda, beta = conf.Lambda(), conf.Beta()
		index        int
		node         *nlp.DepNode
	)
	if token.Source == LAMBDA {
		index = lambda + token.Offset
	} else {
		index = beta + token.Offset
	}
	if !tree.InRange(index) || (token.Source == LAMBDA && index == beta) || (token.Source == BETA && index == lambda) {
		return "", false
	}

	switch token.Relation {
	case R_NONE:
		node = tree.Get(index)
	case R_HD:
		node = tree.Head(index)
	case R_LM:
		node = tree.LeftMostDependent(index)
	case R_RM:
		node = tree.RightMostDependent(index)
	case R_LS:
		node = tree.LeftSibling(index)
	case R_RS:
		node = tree.RightSibling(index)
	}
	if node == nil {
		return "", false
	}

	switch token.Field {
	case F_FORM:
		return node.Form, true
	case F_LEMMA:
		return node.Lemma, true
	case F_POS:
		return node.POS, true
	case F_DEPREL:
		if !node.HasHead {
			return "", false
		}
		return node.Deprel, true
	case F_FEAT:
		return node.Feat(token.FieldArg)
	case F_ARG, F_ARGN:
		if history, ok := conf.(ArgHistory); ok {
			return history.Arg(token.Field == F_ARGN, token.FieldArg)
		}
	}
	return "", false
}

// Extract joins the fields of all tokens of template, failing if any
// token does not resolve.
func Extract(conf Configuration, template *FeatureTemplate) (string, bool) {
	if len(template.Tokens) == 1 {
		return GetField(conf, template.Tokens[0])
	}
	fields := make([]string, len(template.Tokens))
	for i, token := range template.Tokens {
		field, ok := GetField(conf, token)
		if !ok {
			return "", false
		}
		fields[i] = field
	}
	return strings.Join(fields, TAG_DELIM), true
}

// GenericExtractor turns a configuration into lexicon entries or a
// sparse feature vector according to a feature setup.
type GenericExtractor struct {
	Setup   *FeatureSetup
	Lexicon *featurevector.Lexicon
	Log     bool
}

// AddLexica counts the n-gram features of conf.
func (x *GenericExtractor) AddLexica(conf Configuration) {
	for g, templates := range x.Setup.Templates() {
		for _, template := range templates {
			if feat, ok := Extract(conf, template); ok {
				x.Lexicon.AddNgram(g, feat)
			}
		}
	}
}

// AddNgramFeatures adds one block per template, sized by its group.
func (x *GenericExtractor) AddNgramFeatures(conf Configuration, b *featurevector.Builder) {
	for g, templates := range x.Setup.Templates() {
		size := x.Lexicon.GroupSize(g)
		for _, template := range templates {
			if feat, ok := Extract(conf, template); ok {
				if id, exists := x.Lexicon.NgramIndex(g, feat); exists {
					b.Add(id)
				} else if x.Log {
					log.Println("Unknown feature", template, feat)
				}
			}
			b.Skip(size)
		}
	}
}

// AddPunctuationFeatures adds three blocks: the nearest known punctuation
// right of lambda before beta, right of beta, and left of beta after
// lambda.
func (x *GenericExtractor) AddPunctuationFeatures(conf Configuration, b *featurevector.Builder) {
	if !x.Setup.Punctuation {
		return
	}
	var (
		tree         = conf.Tree()
		lambda, beta = conf.Lambda(), conf.Beta()
		size         = x.Lexicon.Punctuation.Len()
	)
	b.Add(RightNearestPunctuation(tree, x.Lexicon, lambda, beta-1))
	b.Skip(size)
	b.Add(RightNearestPunctuation(tree, x.Lexicon, beta, tree.Size()-1))
	b.Skip(size)
	b.Add(LeftNearestPunctuation(tree, x.Lexicon, beta, lambda+1))
	b.Skip(size)
}

// Vector builds the n-gram and punctuation features of conf.
func (x *GenericExtractor) Vector(conf Configuration) *featurevector.Builder {
	b := featurevector.NewBuilder()
	x.AddNgramFeatures(conf, b)
	x.AddPunctuationFeatures(conf, b)
	return b
}

// NumFeatures is the dimension of vectors built by Vector.
func (x *GenericExtractor) NumFeatures() int {
	n := 1
	for g, templates := range x.Setup.Templates() {
		n += len(templates) * x.Lexicon.GroupSize(g)
	}
	if x.Setup.Punctuation {
		n += 3 * x.Lexicon.Punctuation.Len()
	}
	return n
}

// RightNearestPunctuation returns the punctuation id of the first known
// punctuation in (id, rightBound], or 0.
func RightNearestPunctuation(tree *nlp.DepTree, lexicon *featurevector.Lexicon, id, rightBound int) int {
	for i := id + 1; i <= rightBound && i < tree.Size(); i++ {
		if punct, exists := lexicon.PunctuationIndex(tree.Get(i).Form); exists {
			return punct
		}
	}
	return 0
}

// LeftNearestPunctuation returns the punctuation id of the first known
// punctuation in [leftBound, id), or 0.
func LeftNearestPunctuation(tree *nlp.DepTree, lexicon *featurevector.Lexicon, id, leftBound int) int {
	if leftBound < 0 {
		leftBound = 0
	}
	for i := id - 1; i >= leftBound; i-- {
		if punct, exists := lexicon.PunctuationIndex(tree.Get(i).Form); exists {
			return punct
		}
	}
	return 0
}
