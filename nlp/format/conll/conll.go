package conll

// Package Conll reads ConLL format files
// For a description see http://ilk.uvt.nl/conll/#dataformat
// Two optional trailing columns carry semantic roles: the predicate
// roleset and the argument heads as "pred:label;pred:label".

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	nlp "github.com/yhkim82/clearparser-sub000/nlp/types"

	"golang.org/x/text/unicode/norm"
)

const (
	FIELD_SEPARATOR    = '\t'
	NUM_FIELDS         = 10
	NUM_SRL_FIELDS     = 12
	FEATURES_SEPARATOR = "|"
	SRL_SEPARATOR      = ";"
	SRL_HEAD_SEPARATOR = ":"
)

var (
	// NFC normalization of forms and lemmas
	NORMALIZE = true

	ErrFieldCount = errors.New("wrong number of fields")
)

// A Row is a single parsed row of a conll data set
// *Commented fields are not in use
type Row struct {
	ID      int
	Form    string
	Lemma   string
	CPosTag string
	PosTag  string
	Feats   []string
	Head    int
	DepRel  string
	// PHead int
	// PDepRel string
	Roleset string
	SRL     []nlp.SRLHead
}

func (r Row) String() string {
	fields := []string{
		fmt.Sprintf("%d", r.ID),
		r.Form,
		FormatString(r.Lemma),
		FormatString(r.CPosTag),
		FormatString(r.PosTag),
		FormatFeatures(r.Feats),
		fmt.Sprintf("%d", r.Head),
		FormatString(r.DepRel),
		"_",
		"_"}
	if len(r.Roleset) > 0 || len(r.SRL) > 0 {
		fields = append(fields, FormatString(r.Roleset), FormatSRL(r.SRL))
	}
	return strings.Join(fields, string(FIELD_SEPARATOR))
}

func FormatString(value string) string {
	if value == "" {
		return "_"
	}
	return value
}

func FormatFeatures(feats []string) string {
	if len(feats) == 0 {
		return "_"
	}
	return strings.Join(feats, FEATURES_SEPARATOR)
}

func FormatSRL(heads []nlp.SRLHead) string {
	if len(heads) == 0 {
		return "_"
	}
	strs := make([]string, len(heads))
	for i, h := range heads {
		strs[i] = fmt.Sprintf("%d%s%s", h.HeadID, SRL_HEAD_SEPARATOR, h.Label)
	}
	return strings.Join(strs, SRL_SEPARATOR)
}

func ParseInt(value string) (int, error) {
	if value == "_" {
		return 0, nil
	}
	i, err := strconv.ParseInt(value, 10, 0)
	return int(i), err
}

func ParseString(value string) string {
	if value == "_" {
		return ""
	} else {
		return value
	}
}

func normalize(value string) string {
	if NORMALIZE {
		return norm.NFC.String(value)
	}
	return value
}

func ParseFeatures(featuresStr string) []string {
	if featuresStr == "_" || featuresStr == "" {
		return nil
	}
	return strings.Split(featuresStr, FEATURES_SEPARATOR)
}

func ParseSRL(srlStr string) ([]nlp.SRLHead, error) {
	if srlStr == "_" || srlStr == "" {
		return nil, nil
	}
	parts := strings.Split(srlStr, SRL_SEPARATOR)
	heads := make([]nlp.SRLHead, 0, len(parts))
	for _, part := range parts {
		kv := strings.SplitN(part, SRL_HEAD_SEPARATOR, 2)
		if len(kv) != 2 || kv[1] == "" {
			return nil, fmt.Errorf("bad semantic head %q", part)
		}
		head, err := strconv.Atoi(kv[0])
		if err != nil {
			return nil, fmt.Errorf("bad semantic head %q: %w", part, err)
		}
		heads = append(heads, nlp.SRLHead{HeadID: head, Label: kv[1]})
	}
	return heads, nil
}

func ParseRow(record []string) (Row, error) {
	var row Row
	if len(record) != NUM_FIELDS && len(record) != NUM_SRL_FIELDS {
		return row, fmt.Errorf("%w: %d", ErrFieldCount, len(record))
	}
	id, err := ParseInt(record[0])
	if err != nil {
		return row, fmt.Errorf("Error parsing ID field (%s): %w", record[0], err)
	}
	row.ID = id

	form := ParseString(record[1])
	if form == "" {
		return row, errors.New("Empty FORM field")
	}
	row.Form = normalize(form)
	row.Lemma = normalize(ParseString(record[2]))
	if row.Lemma == "" {
		row.Lemma = row.Form
	}

	row.CPosTag = ParseString(record[3])
	row.PosTag = ParseString(record[4])
	if row.PosTag == "" {
		row.PosTag = row.CPosTag
	}
	if row.PosTag == "" {
		return row, errors.New("Empty POSTAG and CPOSTAG fields")
	}
	row.Feats = ParseFeatures(record[5])

	if record[6] == "_" {
		row.Head = nlp.NULL_HEAD_ID
	} else {
		head, err := ParseInt(record[6])
		if err != nil {
			return row, fmt.Errorf("Error parsing HEAD field (%s): %w", record[6], err)
		}
		row.Head = head
	}
	row.DepRel = ParseString(record[7])

	if len(record) == NUM_SRL_FIELDS {
		row.Roleset = ParseString(record[10])
		srl, err := ParseSRL(record[11])
		if err != nil {
			return row, fmt.Errorf("Error parsing SRL field (%s): %w", record[11], err)
		}
		row.SRL = srl
	}
	return row, nil
}

// Row2Node converts a row to a tree node; a row with a head keeps it as
// an attached arc.
func Row2Node(row Row) *nlp.DepNode {
	node := nlp.NewDepNode(row.ID, row.Form, row.Lemma, row.PosTag)
	node.Feats = row.Feats
	node.Roleset = row.Roleset
	node.SRLHeads = row.SRL
	if row.Head != nlp.NULL_HEAD_ID {
		node.HeadID = row.Head
		node.Deprel = row.DepRel
		node.HasHead = true
		node.Score = 1
	}
	return node
}

func Node2Row(node *nlp.DepNode) Row {
	row := Row{
		ID:      node.ID,
		Form:    node.Form,
		Lemma:   node.Lemma,
		CPosTag: node.POS,
		PosTag:  node.POS,
		Feats:   node.Feats,
		Head:    node.HeadID,
		DepRel:  node.Deprel,
		Roleset: node.Roleset,
		SRL:     node.SRLHeads,
	}
	if !node.HasHead {
		row.Head = 0
		row.DepRel = ""
	}
	return row
}

// Reader yields one tree per blank-line separated block.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(reader io.Reader) *Reader {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &Reader{scanner: scanner}
}

// Next returns the next tree, or io.EOF after the last one.
func (r *Reader) Next() (*nlp.DepTree, error) {
	var tree *nlp.DepTree
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), "\r")
		if len(strings.TrimSpace(line)) == 0 {
			if tree != nil {
				break
			}
			continue
		}
		row, err := ParseRow(strings.Split(line, string(FIELD_SEPARATOR)))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		if tree == nil {
			tree = nlp.NewDepTree()
		}
		if row.ID != tree.Size() {
			return nil, fmt.Errorf("line %d: expected token id %d, got %d", r.line, tree.Size(), row.ID)
		}
		tree.Add(Row2Node(row))
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, io.EOF
	}
	tree.RecomputeDependents()
	return tree, nil
}

func Read(reader io.Reader, limit int) ([]*nlp.DepTree, error) {
	var (
		trees []*nlp.DepTree
		r     = NewReader(reader)
	)
	for limit <= 0 || len(trees) < limit {
		tree, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", len(trees)+1, err)
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

func ReadFile(filename string, limit int) ([]*nlp.DepTree, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file, limit)
}

// Writer writes trees in the format Reader reads.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(writer io.Writer) *Writer {
	return &Writer{bufio.NewWriter(writer)}
}

func (w *Writer) Write(tree *nlp.DepTree) error {
	for i := 1; i < tree.Size(); i++ {
		if _, err := w.w.WriteString(Node2Row(tree.Get(i)).String()); err != nil {
			return err
		}
		if err := w.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return nil
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

func Write(writer io.Writer, trees []*nlp.DepTree) error {
	w := NewWriter(writer)
	for _, tree := range trees {
		if err := w.Write(tree); err != nil {
			return err
		}
	}
	return w.Flush()
}

func WriteFile(filename string, trees []*nlp.DepTree) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return Write(file, trees)
}
