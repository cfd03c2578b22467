package transition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	FEATURE_SEPARATOR  = "+" // separates tokens of a template
	RELATION_SEPARATOR = "_" // separates a token address from its relation
	FIELD_SEPARATOR    = ":" // separates a token address from its field
	TAG_DELIM          = "_" // joins the extracted fields of a template
)

type Source byte

const (
	LAMBDA Source = 'l'
	BETA   Source = 'b'
)

type Relation string

const (
	R_NONE Relation = ""
	R_HD   Relation = "hd" // head
	R_LM   Relation = "lm" // leftmost dependent
	R_RM   Relation = "rm" // rightmost dependent
	R_LS   Relation = "ls" // left sibling
	R_RS   Relation = "rs" // right sibling
)

const (
	F_FORM   = "f"
	F_LEMMA  = "m"
	F_POS    = "p"
	F_DEPREL = "d"
	F_FEAT   = "ft" // ft<N>: N'th morphological feature
	F_ARG    = "as" // as<N>: N'th most recent argument label
	F_ARGN   = "an" // an<N>: N'th most recent numbered argument label
)

var ErrBadToken = errors.New("bad feature token")

// FeatureToken addresses one field of one node relative to a cursor,
// e.g. "l-1_hd:p" is the pos of the head of the node left of lambda.
type FeatureToken struct {
	Source   Source
	Offset   int
	Relation Relation
	Field    string
	// numeric argument of ft/as/an fields
	FieldArg int
}

func (t FeatureToken) String() string {
	var addr string
	if t.Offset == 0 {
		addr = fmt.Sprintf("%c0", t.Source)
	} else {
		addr = fmt.Sprintf("%c%+d", t.Source, t.Offset)
	}
	if t.Relation != R_NONE {
		addr += RELATION_SEPARATOR + string(t.Relation)
	}
	field := t.Field
	if t.HasFieldArg() {
		field += strconv.Itoa(t.FieldArg)
	}
	return addr + FIELD_SEPARATOR + field
}

func (t FeatureToken) HasFieldArg() bool {
	return t.Field == F_FEAT || t.Field == F_ARG || t.Field == F_ARGN
}

// FeatureTemplate is an ordered list of tokens joined into one feature.
type FeatureTemplate struct {
	Tokens  []FeatureToken
	ConfStr string
}

func (f FeatureTemplate) String() string {
	return f.ConfStr
}

func ParseFeatureToken(tokenStr string) (FeatureToken, error) {
	var token FeatureToken
	parts := strings.Split(tokenStr, FIELD_SEPARATOR)
	if len(parts) != 2 || len(parts[0]) < 1 || len(parts[1]) == 0 {
		return token, fmt.Errorf("%w: %q", ErrBadToken, tokenStr)
	}
	address, field := parts[0], parts[1]

	if rel := strings.Index(address, RELATION_SEPARATOR); rel >= 0 {
		// unknown relations are kept and never resolve
		token.Relation = Relation(address[rel+1:])
		address = address[:rel]
	}
	if len(address) == 0 {
		return token, fmt.Errorf("%w: missing source in %q", ErrBadToken, tokenStr)
	}

	switch Source(address[0]) {
	case LAMBDA, BETA:
		token.Source = Source(address[0])
	default:
		return token, fmt.Errorf("%w: unknown source in %q", ErrBadToken, tokenStr)
	}
	if len(address) > 1 {
		offset, err := strconv.Atoi(address[1:])
		if err != nil {
			return token, fmt.Errorf("%w: offset of %q: %v", ErrBadToken, tokenStr, err)
		}
		token.Offset = offset
	}

	// unknown fields are kept as well, extraction skips them
	token.Field = field
	if strings.HasPrefix(field, F_FEAT) || strings.HasPrefix(field, F_ARG) || strings.HasPrefix(field, F_ARGN) {
		if arg, err := strconv.Atoi(field[2:]); err == nil && arg >= 0 {
			token.Field, token.FieldArg = field[:2], arg
		}
	}
	return token, nil
}

func ParseFeatureTemplate(featTemplateStr string) (*FeatureTemplate, error) {
	// remove any spaces
	featTemplateStr = strings.Replace(featTemplateStr, " ", "", -1)
	if len(featTemplateStr) == 0 {
		return nil, fmt.Errorf("%w: empty template", ErrBadToken)
	}
	tokenStrs := strings.Split(featTemplateStr, FEATURE_SEPARATOR)
	template := &FeatureTemplate{Tokens: make([]FeatureToken, len(tokenStrs)), ConfStr: featTemplateStr}
	for i, tokenStr := range tokenStrs {
		token, err := ParseFeatureToken(tokenStr)
		if err != nil {
			return nil, err
		}
		template.Tokens[i] = token
	}
	return template, nil
}
