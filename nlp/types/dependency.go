package types

import (
	"fmt"
	"math"
	"strings"
)

const (
	ROOT_ID      = 0
	NULL_ID      = -1
	NULL_HEAD_ID = -2

	ROOT_TOKEN = "#$ROOT$#"
	ROOT_LABEL = "ROOT"

	// deprel of punctuation tokens
	DEPREL_P   = "P"
	DEPREL_SBJ = "SBJ"
	// prefix of verb-chain deprels
	DEPREL_VC = "VC"

	FEAT_SEPARATOR = "|"
	NO_VALUE       = "_"
)

// SRLHead is one (predicate, role) pair of an argument node.
type SRLHead struct {
	HeadID int
	Label  string
}

func (h SRLHead) String() string {
	return fmt.Sprintf("%d:%s", h.HeadID, h.Label)
}

// DepNode is a token in a DepTree. All references to other nodes are
// positions in the owning tree.
type DepNode struct {
	ID     int
	Form   string
	Lemma  string
	POS    string
	Feats  []string
	HeadID int
	Deprel string
	Score  float64
	// HasHead is set once HeadID refers to a real position
	HasHead bool

	LeftDepID  int
	RightDepID int
	// Skip marks a node popped by the pop-eager parser
	Skip bool

	// Roleset is non-empty for predicates
	Roleset  string
	SRLHeads []SRLHead
}

func NewDepNode(id int, form, lemma, pos string) *DepNode {
	return &DepNode{
		ID:         id,
		Form:       form,
		Lemma:      lemma,
		POS:        pos,
		HeadID:     NULL_HEAD_ID,
		LeftDepID:  math.MaxInt32,
		RightDepID: NULL_ID,
	}
}

func NewRootNode() *DepNode {
	n := NewDepNode(ROOT_ID, ROOT_TOKEN, ROOT_TOKEN, ROOT_TOKEN)
	n.HeadID = NULL_ID
	n.Deprel = ROOT_LABEL
	return n
}

func (n *DepNode) IsPredicate() bool {
	return len(n.Roleset) > 0
}

// Feat returns the i'th morphological feature.
func (n *DepNode) Feat(i int) (string, bool) {
	if i < 0 || i >= len(n.Feats) {
		return "", false
	}
	return n.Feats[i], true
}

// SRLLabel returns the role of this node for predicate predID.
func (n *DepNode) SRLLabel(predID int) (string, bool) {
	for _, h := range n.SRLHeads {
		if h.HeadID == predID {
			return h.Label, true
		}
	}
	return "", false
}

func (n *DepNode) IsSRLHead(predID int) bool {
	_, exists := n.SRLLabel(predID)
	return exists
}

func (n *DepNode) AddSRLHead(predID int, label string) {
	n.SRLHeads = append(n.SRLHeads, SRLHead{predID, label})
}

func (n *DepNode) String() string {
	return fmt.Sprintf("%d-%s-%s-%d-%s", n.ID, n.Form, n.POS, n.HeadID, n.Deprel)
}

func (n *DepNode) clone() *DepNode {
	c := *n
	if n.Feats != nil {
		c.Feats = append([]string(nil), n.Feats...)
	}
	if n.SRLHeads != nil {
		c.SRLHeads = append([]SRLHead(nil), n.SRLHeads...)
	}
	return &c
}

func (n *DepNode) clearHead() {
	n.HeadID = NULL_HEAD_ID
	n.Deprel = ""
	n.Score = 0
	n.HasHead = false
	n.LeftDepID = math.MaxInt32
	n.RightDepID = NULL_ID
	n.Skip = false
}

// DepTree is an arena of nodes; position 0 is the ROOT sentinel.
type DepTree struct {
	Nodes []*DepNode
}

func NewDepTree() *DepTree {
	return &DepTree{Nodes: []*DepNode{NewRootNode()}}
}

// Add appends node, assigning it the next position.
func (t *DepTree) Add(node *DepNode) {
	node.ID = len(t.Nodes)
	t.Nodes = append(t.Nodes, node)
}

func (t *DepTree) Get(id int) *DepNode {
	return t.Nodes[id]
}

func (t *DepTree) Size() int {
	return len(t.Nodes)
}

func (t *DepTree) InRange(id int) bool {
	return 0 <= id && id < len(t.Nodes)
}

// SetHead attaches id to head and updates head's dependent caches.
func (t *DepTree) SetHead(id, head int, deprel string, score float64) {
	node, headNode := t.Nodes[id], t.Nodes[head]
	node.HeadID = head
	node.Deprel = deprel
	node.Score = score
	node.HasHead = true
	if id < head && id < headNode.LeftDepID {
		headNode.LeftDepID = id
	} else if id > head && id > headNode.RightDepID {
		headNode.RightDepID = id
	}
}

// Head returns the head of id, or nil if it has none.
func (t *DepTree) Head(id int) *DepNode {
	node := t.Nodes[id]
	if !node.HasHead || !t.InRange(node.HeadID) {
		return nil
	}
	return t.Nodes[node.HeadID]
}

// LeftMostDependent returns the leftmost dependent of id found so far.
func (t *DepTree) LeftMostDependent(id int) *DepNode {
	dep := t.Nodes[id].LeftDepID
	if dep < id && t.InRange(dep) {
		return t.Nodes[dep]
	}
	return nil
}

// RightMostDependent returns the rightmost dependent of id found so far.
func (t *DepTree) RightMostDependent(id int) *DepNode {
	dep := t.Nodes[id].RightDepID
	if dep > id && t.InRange(dep) {
		return t.Nodes[dep]
	}
	return nil
}

// LeftSibling returns the nearest node left of id sharing its head.
func (t *DepTree) LeftSibling(id int) *DepNode {
	node := t.Nodes[id]
	if !node.HasHead {
		return nil
	}
	for i := id - 1; i > 0; i-- {
		if cur := t.Nodes[i]; cur.HasHead && cur.HeadID == node.HeadID {
			return cur
		}
	}
	return nil
}

// RightSibling returns the nearest node right of id sharing its head.
func (t *DepTree) RightSibling(id int) *DepNode {
	node := t.Nodes[id]
	if !node.HasHead {
		return nil
	}
	for i := id + 1; i < len(t.Nodes); i++ {
		if cur := t.Nodes[i]; cur.HasHead && cur.HeadID == node.HeadID {
			return cur
		}
	}
	return nil
}

// IsAncestor reports whether a is a (transitive) head of b.
func (t *DepTree) IsAncestor(a, b int) bool {
	cur := t.Nodes[b]
	for steps := 0; cur.HasHead && steps < len(t.Nodes); steps++ {
		if cur.HeadID == a {
			return true
		}
		if !t.InRange(cur.HeadID) {
			return false
		}
		cur = t.Nodes[cur.HeadID]
	}
	return false
}

// Dependents returns the positions whose head is id.
func (t *DepTree) Dependents(id int) []int {
	var deps []int
	for i := 1; i < len(t.Nodes); i++ {
		if n := t.Nodes[i]; n.HasHead && n.HeadID == id {
			deps = append(deps, i)
		}
	}
	return deps
}

// DeprelDepSet returns the distinct deprels of id's dependents in
// left-to-right order.
func (t *DepTree) DeprelDepSet(id int) []string {
	var (
		set  []string
		seen = make(map[string]bool)
	)
	for _, dep := range t.Dependents(id) {
		deprel := t.Nodes[dep].Deprel
		if !seen[deprel] {
			seen[deprel] = true
			set = append(set, deprel)
		}
	}
	return set
}

// NextPredicateID returns the first predicate after position id, or
// Size() if there is none.
func (t *DepTree) NextPredicateID(id int) int {
	for i := id + 1; i < len(t.Nodes); i++ {
		if t.Nodes[i].IsPredicate() {
			return i
		}
	}
	return len(t.Nodes)
}

func (t *DepTree) Clone() *DepTree {
	c := &DepTree{Nodes: make([]*DepNode, len(t.Nodes))}
	for i, n := range t.Nodes {
		c.Nodes[i] = n.clone()
	}
	return c
}

// ClearHeads removes all syntactic heads except ROOT's.
func (t *DepTree) ClearHeads() {
	for _, n := range t.Nodes[1:] {
		n.clearHead()
	}
	root := t.Nodes[0]
	root.LeftDepID = math.MaxInt32
	root.RightDepID = NULL_ID
}

func (t *DepTree) ClearSRLHeads() {
	for _, n := range t.Nodes {
		n.SRLHeads = nil
	}
}

// RecomputeDependents rebuilds the leftmost/rightmost dependent caches
// from the current heads.
func (t *DepTree) RecomputeDependents() {
	for _, n := range t.Nodes {
		n.LeftDepID = math.MaxInt32
		n.RightDepID = NULL_ID
	}
	for i := 1; i < len(t.Nodes); i++ {
		n := t.Nodes[i]
		if !n.HasHead || !t.InRange(n.HeadID) {
			continue
		}
		head := t.Nodes[n.HeadID]
		if i < n.HeadID && i < head.LeftDepID {
			head.LeftDepID = i
		} else if i > n.HeadID && i > head.RightDepID {
			head.RightDepID = i
		}
	}
}

// CheckTree verifies that every node has an in-range head and that every
// head chain reaches ROOT.
func (t *DepTree) CheckTree() error {
	n := len(t.Nodes)
	for i := 1; i < n; i++ {
		node := t.Nodes[i]
		if !node.HasHead {
			return fmt.Errorf("node %d (%s) has no head", i, node.Form)
		}
		if !t.InRange(node.HeadID) {
			return fmt.Errorf("node %d (%s) has out of range head %d", i, node.Form, node.HeadID)
		}
		cur, steps := node, 0
		for cur.ID != ROOT_ID {
			if steps++; steps > n || !cur.HasHead {
				return fmt.Errorf("node %d (%s) does not reach root", i, node.Form)
			}
			cur = t.Nodes[cur.HeadID]
		}
	}
	return nil
}

// Forms returns the token forms without ROOT.
func (t *DepTree) Forms() []string {
	forms := make([]string, 0, len(t.Nodes)-1)
	for _, n := range t.Nodes[1:] {
		forms = append(forms, n.Form)
	}
	return forms
}

func (t *DepTree) String() string {
	parts := make([]string, 0, len(t.Nodes)-1)
	for _, n := range t.Nodes[1:] {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, " ")
}
