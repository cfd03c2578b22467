package transition

import (
	"strings"
)

const (
	LB_SHIFT     = "SH"
	LB_NO_ARC    = "NA"
	LB_LEFT_ARC  = "LA"
	LB_RIGHT_ARC = "RA"
	LB_LEFT_POP  = "LP"
	// separates the transition from the dependency label
	LB_DELIM = "-"
)

type Kind byte

const (
	Shift Kind = iota
	NoArc
	LeftArc
	RightArc
	LeftPop
)

var kindLabels = []string{LB_SHIFT, LB_NO_ARC, LB_LEFT_ARC, LB_RIGHT_ARC, LB_LEFT_POP}

func (k Kind) String() string {
	return kindLabels[k]
}

// IsArc reports whether k attaches lambda and beta.
func (k Kind) IsArc() bool {
	return k == LeftArc || k == RightArc || k == LeftPop
}

// Action is a transition with its dependency label, e.g. LA-SBJ.
type Action struct {
	Kind  Kind
	Label string
}

func (a Action) String() string {
	if a.Kind.IsArc() {
		return a.Kind.String() + LB_DELIM + a.Label
	}
	return a.Kind.String()
}

// ParseAction decodes a classifier label. Anything unrecognized is NoArc.
func ParseAction(label string) Action {
	trans, deprel := label, ""
	if i := strings.Index(label, LB_DELIM); i > 0 {
		trans, deprel = label[:i], label[i+1:]
	}
	switch trans {
	case LB_SHIFT:
		return Action{Kind: Shift}
	case LB_LEFT_ARC:
		return Action{LeftArc, deprel}
	case LB_RIGHT_ARC:
		return Action{RightArc, deprel}
	case LB_LEFT_POP:
		return Action{LeftPop, deprel}
	}
	return Action{Kind: NoArc}
}

// Variant selects the transition inventory.
type Variant byte

const (
	ShiftEager Variant = iota
	// ShiftPop adds LeftPop, which retires lambda once it has no
	// dependents left to the right of beta
	ShiftPop
)

const (
	ALG_SHIFT_EAGER = "shift-eager"
	ALG_SHIFT_POP   = "shift-pop"
)

func (v Variant) String() string {
	if v == ShiftPop {
		return ALG_SHIFT_POP
	}
	return ALG_SHIFT_EAGER
}

func ParseVariant(name string) (Variant, bool) {
	switch name {
	case ALG_SHIFT_EAGER, "":
		return ShiftEager, true
	case ALG_SHIFT_POP:
		return ShiftPop, true
	}
	return ShiftEager, false
}
