// Package doccomment parses XML documentation markup into a text/reference
// tree. Only the first <summary> element is kept.
package doccomment

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed is wrapped by every error Parse returns.
var ErrMalformed = errors.New("malformed doc comment")

// Node is one element of a parsed summary: Text, Reference or Group.
type Node interface {
	node()
}

// Text is character data copied verbatim from the markup.
type Text string

// Reference is a cross-reference marker. Target is the raw cref value,
// including any "T:" style kind prefix.
type Reference struct {
	Target string
}

// Group is an ordered sequence of nodes. Nested markup elements other than
// references become groups of their children.
type Group []Node

func (Text) node()      {}
func (Reference) node() {}
func (Group) node()     {}

const (
	summaryElement   = "summary"
	referenceElement = "see"
	referenceAttr    = "cref"
)

// element is the intermediate tree built from the token stream.
// children holds either string or *element values.
type element struct {
	name     string
	attrs    []xml.Attr
	children []any
}

// Parse parses raw documentation markup and returns the children of its first
// summary element. It returns a nil Group and no error when raw is blank or
// contains no summary. Malformed markup anywhere in raw is an error.
func Parse(raw string) (Group, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	root, err := buildTree(raw)
	if err != nil {
		return nil, err
	}
	summary := findFirst(root, summaryElement)
	if summary == nil {
		return nil, nil
	}
	return convert(summary), nil
}

// buildTree decodes raw into a synthetic root element. Multiple top-level
// elements are allowed.
func buildTree(raw string) (*element, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	root := &element{}
	stack := []*element{root}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, attrs: t.Copy().Attr}
			top.children = append(top.children, el)
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			top.children = append(top.children, string(t))
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: unclosed element <%s>", ErrMalformed, stack[len(stack)-1].name)
	}
	return root, nil
}

// findFirst returns the first element named name in document order.
func findFirst(el *element, name string) *element {
	for _, c := range el.children {
		child, ok := c.(*element)
		if !ok {
			continue
		}
		if child.name == name {
			return child
		}
		if found := findFirst(child, name); found != nil {
			return found
		}
	}
	return nil
}

func convert(el *element) Group {
	out := make(Group, 0, len(el.children))
	for _, c := range el.children {
		switch v := c.(type) {
		case string:
			out = append(out, Text(v))
		case *element:
			if v.name == referenceElement {
				if target := v.attr(referenceAttr); target != "" {
					out = append(out, Reference{Target: target})
				}
				continue
			}
			out = append(out, convert(v))
		}
	}
	return out
}

func (el *element) attr(name string) string {
	for _, a := range el.attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// Walk calls visit for every Text and Reference in g, depth first.
func Walk(g Group, visit func(Node)) {
	for _, n := range g {
		if sub, ok := n.(Group); ok {
			Walk(sub, visit)
			continue
		}
		visit(n)
	}
}
