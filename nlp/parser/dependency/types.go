package dependency

import (
	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"
)

// DependencyParser runs one pass of a transition parser over a tree. What
// the pass produces (lexicon entries, instances, heads or labels) depends
// on the parser's mode.
type DependencyParser interface {
	Parse(tree *nlp.DepTree) error
}

// Corpus runs parser over every tree in order, stopping at the first error.
func Corpus(parser DependencyParser, trees []*nlp.DepTree, progress func()) error {
	for _, tree := range trees {
		if err := parser.Parse(tree); err != nil {
			return err
		}
		if progress != nil {
			progress()
		}
	}
	return nil
}
