package featurevector

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/yhkim82/clearparser-sub000/util"
)

var ErrFrozen = errors.New("lexicon is frozen")

var _ util.Persist = &Lexicon{}

// LexiconGroup counts the keys of one template group while building and
// maps them to 1-based ids once frozen.
type LexiconGroup struct {
	Cutoff int
	keys   *util.EnumSet
	counts []int
	frozen bool
}

func NewLexiconGroup(cutoff int) *LexiconGroup {
	return &LexiconGroup{Cutoff: cutoff, keys: util.NewEnumSet(64)}
}

func (g *LexiconGroup) Add(key string) {
	if g.frozen {
		panic(ErrFrozen)
	}
	i, isNew := g.keys.Add(key)
	if isNew {
		g.counts = append(g.counts, 0)
	}
	g.counts[i]++
}

// Count returns the number of times key was added; frozen groups no
// longer keep counts.
func (g *LexiconGroup) Count(key string) int {
	if g.frozen {
		return 0
	}
	if i, exists := g.keys.IndexOf(key); exists {
		return g.counts[i]
	}
	return 0
}

// Freeze drops keys seen fewer than Cutoff times and renumbers the rest
// densely in first-seen order. Calling it again has no effect.
func (g *LexiconGroup) Freeze() {
	if g.frozen {
		return
	}
	kept := util.NewEnumSet(g.keys.Len())
	for i, key := range g.keys.Index {
		if g.counts[i] >= g.Cutoff {
			kept.Add(key)
		}
	}
	kept.Frozen = true
	g.keys, g.counts, g.frozen = kept, nil, true
}

func (g *LexiconGroup) Frozen() bool {
	return g.frozen
}

// Index returns the 1-based id of key.
func (g *LexiconGroup) Index(key string) (int, bool) {
	if !g.frozen {
		return 0, false
	}
	i, exists := g.keys.IndexOf(key)
	return i + 1, exists
}

func (g *LexiconGroup) Key(id int) string {
	return g.keys.ValueOf(id - 1)
}

func (g *LexiconGroup) Len() int {
	return g.keys.Len()
}

func (g *LexiconGroup) write(w io.Writer) error {
	g.Freeze()
	return g.keys.Write(w)
}

func readLexiconGroup(r *bufio.Reader, cutoff int) (*LexiconGroup, error) {
	keys, err := util.ReadEnumSet(r)
	if err != nil {
		return nil, err
	}
	return &LexiconGroup{Cutoff: cutoff, keys: keys, frozen: true}, nil
}

// Lexicon holds the label alphabet, one table per n-gram group and the
// punctuation table.
type Lexicon struct {
	Labels      *util.EnumSet
	Groups      []*LexiconGroup
	Punctuation *LexiconGroup
}

func NewLexicon(cutoffs []int, punctuationCutoff int) *Lexicon {
	l := &Lexicon{
		Labels:      util.NewEnumSet(32),
		Groups:      make([]*LexiconGroup, len(cutoffs)),
		Punctuation: NewLexiconGroup(punctuationCutoff),
	}
	for i, cutoff := range cutoffs {
		l.Groups[i] = NewLexiconGroup(cutoff)
	}
	return l
}

func (l *Lexicon) AddLabel(label string) {
	l.Labels.Add(label)
}

func (l *Lexicon) AddNgram(group int, key string) {
	l.Groups[group].Add(key)
}

func (l *Lexicon) AddPunctuation(form string) {
	l.Punctuation.Add(form)
}

// LabelIndex returns the 0-based label id.
func (l *Lexicon) LabelIndex(label string) (int, bool) {
	return l.Labels.IndexOf(label)
}

func (l *Lexicon) Label(index int) string {
	return l.Labels.ValueOf(index)
}

func (l *Lexicon) NumLabels() int {
	return l.Labels.Len()
}

// NgramIndex returns the 1-based id of key in group.
func (l *Lexicon) NgramIndex(group int, key string) (int, bool) {
	return l.Groups[group].Index(key)
}

func (l *Lexicon) GroupSize(group int) int {
	return l.Groups[group].Len()
}

func (l *Lexicon) PunctuationIndex(form string) (int, bool) {
	return l.Punctuation.Index(form)
}

// Freeze applies the cutoffs to all tables and freezes the labels.
func (l *Lexicon) Freeze() {
	for _, g := range l.Groups {
		g.Freeze()
	}
	l.Punctuation.Freeze()
	l.Labels.Frozen = true
}

func (l *Lexicon) Frozen() bool {
	return l.Labels.Frozen
}

// Write freezes the lexicon and dumps labels, n-gram groups and
// punctuation in that order.
func (l *Lexicon) Write(w io.Writer) error {
	l.Freeze()
	bw := bufio.NewWriter(w)
	if err := l.Labels.Write(bw); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(bw, len(l.Groups)); err != nil {
		return err
	}
	for _, g := range l.Groups {
		if err := g.write(bw); err != nil {
			return err
		}
	}
	if err := l.Punctuation.write(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// Read replaces the contents of l with a dump written by Write.
func (l *Lexicon) Read(r io.Reader) error {
	br := bufio.NewReader(r)
	labels, err := util.ReadEnumSet(br)
	if err != nil {
		return fmt.Errorf("reading labels: %w", err)
	}
	n, err := util.ReadCount(br)
	if err != nil {
		return fmt.Errorf("reading group count: %w", err)
	}
	groups := make([]*LexiconGroup, n)
	for i := range groups {
		cutoff := 0
		if i < len(l.Groups) {
			cutoff = l.Groups[i].Cutoff
		}
		if groups[i], err = readLexiconGroup(br, cutoff); err != nil {
			return fmt.Errorf("reading group %d: %w", i, err)
		}
	}
	cutoff := 0
	if l.Punctuation != nil {
		cutoff = l.Punctuation.Cutoff
	}
	punct, err := readLexiconGroup(br, cutoff)
	if err != nil {
		return fmt.Errorf("reading punctuation: %w", err)
	}
	l.Labels, l.Groups, l.Punctuation = labels, groups, punct
	return nil
}

func ReadLexicon(r io.Reader) (*Lexicon, error) {
	l := &Lexicon{}
	if err := l.Read(r); err != nil {
		return nil, err
	}
	return l, nil
}
