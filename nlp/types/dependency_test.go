package types

import "testing"

// ROOT the big dog barked
func buildTree() *DepTree {
	tree := NewDepTree()
	for _, tok := range [][2]string{{"the", "DT"}, {"big", "JJ"}, {"dog", "NN"}, {"barked", "VBD"}} {
		tree.Add(NewDepNode(0, tok[0], tok[0], tok[1]))
	}
	return tree
}

func TestSetHeadCaches(t *testing.T) {
	tree := buildTree()
	tree.SetHead(2, 3, "NMOD", 1)
	tree.SetHead(1, 3, "NMOD", 1)
	tree.SetHead(3, 4, "SBJ", 1)
	tree.SetHead(4, 0, ROOT_LABEL, 1)

	if lm := tree.LeftMostDependent(3); lm == nil || lm.ID != 1 {
		t.Errorf("Expected leftmost dependent 1, got %v", lm)
	}
	if rm := tree.RightMostDependent(0); rm == nil || rm.ID != 4 {
		t.Errorf("Expected rightmost dependent of root 4, got %v", rm)
	}
	if rm := tree.RightMostDependent(3); rm != nil {
		t.Errorf("Expected no rightmost dependent, got %v", rm)
	}
	if ls := tree.LeftSibling(2); ls == nil || ls.ID != 1 {
		t.Errorf("Expected left sibling 1, got %v", ls)
	}
	if rs := tree.RightSibling(1); rs == nil || rs.ID != 2 {
		t.Errorf("Expected right sibling 2, got %v", rs)
	}
	if err := tree.CheckTree(); err != nil {
		t.Errorf("Expected well formed tree, got %v", err)
	}
}

func TestIsAncestor(t *testing.T) {
	tree := buildTree()
	tree.SetHead(1, 3, "NMOD", 1)
	tree.SetHead(3, 4, "SBJ", 1)
	if !tree.IsAncestor(4, 1) {
		t.Error("Expected 4 to be an ancestor of 1")
	}
	if tree.IsAncestor(1, 4) {
		t.Error("Did not expect 1 to be an ancestor of 4")
	}
	if tree.IsAncestor(2, 1) {
		t.Error("Did not expect unattached 2 to be an ancestor of 1")
	}
}

func TestCheckTree(t *testing.T) {
	tree := buildTree()
	tree.SetHead(1, 3, "NMOD", 1)
	tree.SetHead(2, 3, "NMOD", 1)
	tree.SetHead(3, 4, "SBJ", 1)
	if err := tree.CheckTree(); err == nil {
		t.Error("Expected error for headless node 4")
	}
	// 4 <- 3 <- 4 cycle
	tree.SetHead(4, 3, "X", 1)
	if err := tree.CheckTree(); err == nil {
		t.Error("Expected error for cyclic tree")
	}
}

func TestCloneAndClear(t *testing.T) {
	tree := buildTree()
	tree.SetHead(1, 3, "NMOD", 1)
	tree.Get(1).AddSRLHead(4, "A0")
	c := tree.Clone()
	c.ClearHeads()
	c.ClearSRLHeads()
	if c.Get(1).HasHead || c.LeftMostDependent(3) != nil {
		t.Error("Clone heads not cleared")
	}
	if !tree.Get(1).HasHead || tree.LeftMostDependent(3) == nil {
		t.Error("Clearing the clone modified the original")
	}
	if !tree.Get(1).IsSRLHead(4) {
		t.Error("Clearing the clone removed original semantic heads")
	}
}

func TestDeprelDepSetAndPredicates(t *testing.T) {
	tree := buildTree()
	tree.SetHead(1, 3, "NMOD", 1)
	tree.SetHead(2, 3, "NMOD", 1)
	tree.SetHead(3, 4, "SBJ", 1)
	tree.Get(4).Roleset = "bark.01"
	if set := tree.DeprelDepSet(3); len(set) != 1 || set[0] != "NMOD" {
		t.Errorf("Expected [NMOD], got %v", set)
	}
	if p := tree.NextPredicateID(0); p != 4 {
		t.Errorf("Expected predicate 4, got %d", p)
	}
	if p := tree.NextPredicateID(4); p != tree.Size() {
		t.Errorf("Expected no further predicate, got %d", p)
	}
}
