package featurevector

import (
	"bytes"
	"testing"
)

func buildLexicon() *Lexicon {
	l := NewLexicon([]int{0, 2}, 1)
	for _, label := range []string{"SH", "LA-SBJ", "SH", "NA"} {
		l.AddLabel(label)
	}
	for _, key := range []string{"NN", "VB", "NN", "DT"} {
		l.AddNgram(0, key)
	}
	for _, key := range []string{"the_NN", "a_NN", "the_NN", "dog", "a_NN", "a_NN"} {
		l.AddNgram(1, key)
	}
	l.AddPunctuation(",")
	l.AddPunctuation(".")
	return l
}

func TestLexiconCutoff(t *testing.T) {
	l := buildLexicon()
	if c := l.Groups[1].Count("a_NN"); c != 3 {
		t.Errorf("Expected count 3 for a_NN, got %d", c)
	}
	l.Freeze()
	if l.GroupSize(0) != 3 {
		t.Errorf("Expected 3 keys in group 0, got %d", l.GroupSize(0))
	}
	if l.GroupSize(1) != 2 {
		t.Fatalf("Expected 2 keys in group 1 after cutoff, got %d", l.GroupSize(1))
	}
	// first-seen order is kept after dropping "dog"
	if id, ok := l.NgramIndex(1, "the_NN"); !ok || id != 1 {
		t.Errorf("Expected the_NN -> 1, got %d (%v)", id, ok)
	}
	if id, ok := l.NgramIndex(1, "a_NN"); !ok || id != 2 {
		t.Errorf("Expected a_NN -> 2, got %d (%v)", id, ok)
	}
	if _, ok := l.NgramIndex(1, "dog"); ok {
		t.Error("Expected dog to be cut off")
	}
	if id, ok := l.LabelIndex("NA"); !ok || id != 2 {
		t.Errorf("Expected NA -> 2, got %d", id)
	}
	if l.Groups[1].Count("a_NN") != 0 {
		t.Error("Frozen groups should not keep counts")
	}
}

func TestLexiconRoundTrip(t *testing.T) {
	l := buildLexicon()
	var buf bytes.Buffer
	if err := l.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	loaded, err := ReadLexicon(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if loaded.NumLabels() != l.NumLabels() {
		t.Fatalf("Expected %d labels, got %d", l.NumLabels(), loaded.NumLabels())
	}
	for i := 0; i < l.NumLabels(); i++ {
		if loaded.Label(i) != l.Label(i) {
			t.Errorf("Label %d: expected %s got %s", i, l.Label(i), loaded.Label(i))
		}
	}
	for g := range l.Groups {
		if loaded.GroupSize(g) != l.GroupSize(g) {
			t.Fatalf("Group %d: expected %d keys, got %d", g, l.GroupSize(g), loaded.GroupSize(g))
		}
		for id := 1; id <= l.GroupSize(g); id++ {
			key := l.Groups[g].Key(id)
			if got, ok := loaded.NgramIndex(g, key); !ok || got != id {
				t.Errorf("Group %d key %q: expected %d got %d", g, key, id, got)
			}
		}
	}
	if id, ok := loaded.PunctuationIndex("."); !ok || id != 2 {
		t.Errorf("Expected . -> 2, got %d", id)
	}
}

func TestLexiconFrozenAdd(t *testing.T) {
	l := buildLexicon()
	l.Freeze()
	defer func() {
		if recover() == nil {
			t.Error("Expected panic adding to a frozen group")
		}
	}()
	l.AddNgram(0, "JJ")
}

func TestBuilderBlocks(t *testing.T) {
	b := NewBuilder()
	b.Add(2)
	b.Skip(3)
	b.Add(0)
	b.Skip(4)
	b.AddSet([]int{3, 1})
	b.Skip(5)
	expected := []int{2, 8, 10}
	v := b.Vector()
	if len(v) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, v)
	}
	for i := range expected {
		if v[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, v)
			break
		}
	}
	if b.Begin() != 13 {
		t.Errorf("Expected next block at 13, got %d", b.Begin())
	}
}
