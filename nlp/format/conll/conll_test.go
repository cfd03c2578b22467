package conll

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

const TEST_CORPUS = `1	John	john	NNP	NNP	_	2	SBJ	_	_
2	runs	run	VBZ	VBZ	_	0	ROOT	_	_

1	The	the	DT	DT	_	2	NMOD	_	_	_	_
2	dog	dog	NN	NN	num=S	3	SBJ	_	_	_	3:A0
3	barked	bark	VBD	VBD	_	0	ROOT	_	_	bark.01	_
4	.	.	.	.	_	3	P	_	_	_	_
`

func TestParseRow(t *testing.T) {
	row := strings.Split("1	EFRWT	_	CDT	CDT	gen=F|num=P	2	num	_	_",
		string(FIELD_SEPARATOR))

	parsed, err := ParseRow(row)
	if err != nil {
		t.Error(err.Error())
	}

	if parsed.ID != 1 {
		t.Errorf("Expected ID 1, got %d", parsed.ID)
	}

	if parsed.Form != "EFRWT" {
		t.Errorf("Expected FORM value EFRWT, got %s", parsed.Form)
	}

	if parsed.Lemma != "EFRWT" {
		t.Errorf("Expected missing LEMMA to default to the form, got %s", parsed.Lemma)
	}

	if parsed.PosTag != "CDT" {
		t.Errorf("Expected POSTAG value CDT, got %s", parsed.PosTag)
	}

	if len(parsed.Feats) != 2 || parsed.Feats[0] != "gen=F" || parsed.Feats[1] != "num=P" {
		t.Errorf("Expected features [gen=F num=P], got %v", parsed.Feats)
	}

	if parsed.Head != 2 {
		t.Errorf("Expected HEAD value 2, got %d", parsed.Head)
	}
}

func TestParseRowWrongFieldCount(t *testing.T) {
	row := strings.Split("19	PRCWPNW	_	NN	NN_S_PP	_	18	pobj", string(FIELD_SEPARATOR))
	if _, err := ParseRow(row); err == nil {
		t.Error("Expected error for 8 fields")
	}
}

func TestParseRowSRL(t *testing.T) {
	row := strings.Split("2	dog	dog	NN	NN	_	3	SBJ	_	_	_	3:A0;5:A1", string(FIELD_SEPARATOR))
	parsed, err := ParseRow(row)
	if err != nil {
		t.Fatal(err.Error())
	}
	if len(parsed.SRL) != 2 {
		t.Fatalf("Expected 2 semantic heads, got %v", parsed.SRL)
	}
	if parsed.SRL[1].HeadID != 5 || parsed.SRL[1].Label != "A1" {
		t.Errorf("Expected 5:A1, got %v", parsed.SRL[1])
	}
}

func TestNormalization(t *testing.T) {
	row := strings.Split("1\tcafe\u0301\t_\tNN\tNN\t_\t0\tROOT\t_\t_", string(FIELD_SEPARATOR))
	parsed, err := ParseRow(row)
	if err != nil {
		t.Fatal(err.Error())
	}
	if parsed.Form != "caf\u00e9" {
		t.Errorf("Expected NFC form, got %q", parsed.Form)
	}
}

func TestReaderTrees(t *testing.T) {
	r := NewReader(strings.NewReader(TEST_CORPUS))
	first, err := r.Next()
	if err != nil {
		t.Fatalf("Got error %v", err)
	}
	if first.Size() != 3 {
		t.Errorf("Expected 3 nodes (with root), got %d", first.Size())
	}
	if john := first.Get(1); john.HeadID != 2 || john.Deprel != "SBJ" || !john.HasHead {
		t.Errorf("Unexpected node %v", john)
	}
	second, err := r.Next()
	if err != nil {
		t.Fatalf("Got error %v", err)
	}
	if !second.Get(3).IsPredicate() {
		t.Error("Expected node 3 to be a predicate")
	}
	if label, ok := second.Get(2).SRLLabel(3); !ok || label != "A0" {
		t.Errorf("Expected A0 for predicate 3, got %q", label)
	}
	if lm := second.LeftMostDependent(3); lm == nil || lm.ID != 2 {
		t.Errorf("Expected leftmost dependent 2 of node 3, got %v", lm)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	trees, err := Read(strings.NewReader(TEST_CORPUS), 0)
	if err != nil {
		t.Fatalf("Got error %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, trees); err != nil {
		t.Fatalf("Got error %v", err)
	}
	again, err := Read(&buf, 0)
	if err != nil {
		t.Fatalf("Got error %v", err)
	}
	if len(again) != len(trees) {
		t.Fatalf("Expected %d trees, got %d", len(trees), len(again))
	}
	for i := range trees {
		if trees[i].String() != again[i].String() {
			t.Errorf("Tree %d changed: %s vs %s", i, trees[i], again[i])
		}
	}
	if label, ok := again[1].Get(2).SRLLabel(3); !ok || label != "A0" {
		t.Error("Semantic heads lost in round trip")
	}
}

func TestReadLimit(t *testing.T) {
	trees, err := Read(strings.NewReader(TEST_CORPUS), 1)
	if err != nil {
		t.Fatalf("Got error %v", err)
	}
	if len(trees) != 1 {
		t.Errorf("Expected 1 tree, got %d", len(trees))
	}
}
