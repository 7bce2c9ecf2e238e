package agenda

import (
	"fmt"
	"slices"
	"strings"
)

// TagOpKind distinguishes adding from removing a tag.
type TagOpKind int

const (
	TagAdd TagOpKind = iota
	TagRemove
)

const (
	removeSigil = "^"
	addSigil    = "+"
)

// TagOp is a single parsed token of a tag expression.
type TagOp struct {
	Kind TagOpKind
	Tag  string
}

func (op TagOp) String() string {
	if op.Kind == TagRemove {
		return removeSigil + op.Tag
	}
	return addSigil + op.Tag
}

// ParseTagExpression parses a whitespace-separated list of tokens. A token
// prefixed with "^" removes a tag, anything else (optionally prefixed with
// "+") adds it. Every token is validated before any op is returned.
func ParseTagExpression(expr string) ([]TagOp, error) {
	tokens := strings.Fields(expr)
	if len(tokens) == 0 {
		return nil, &ValidationError{Field: "tags", Message: "no tag tokens given"}
	}

	ops := make([]TagOp, 0, len(tokens))
	for _, token := range tokens {
		op := TagOp{Kind: TagAdd}
		raw := token
		switch {
		case strings.HasPrefix(raw, removeSigil):
			op.Kind = TagRemove
			raw = strings.TrimPrefix(raw, removeSigil)
		case strings.HasPrefix(raw, addSigil):
			raw = strings.TrimPrefix(raw, addSigil)
		}

		op.Tag = NormalizeTag(raw)
		if op.Tag == "" {
			return nil, &ValidationError{
				Field:   "tags",
				Message: fmt.Sprintf("empty tag in token %q", token),
			}
		}
		ops = append(ops, op)
	}

	return ops, nil
}

// NormalizeTag lowercases and trims a tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags returns the sorted, de-duplicated, normalized set of tags.
// Empty input yields nil.
func NormalizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if tag = NormalizeTag(tag); tag != "" {
			out = append(out, tag)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
