package symtab

import (
	"strconv"
	"strings"
)

// Accessibility is the declared visibility of a member.
type Accessibility string

const (
	AccessPublic            Accessibility = "Public"
	AccessProtected         Accessibility = "Protected"
	AccessInternal          Accessibility = "Internal"
	AccessProtectedInternal Accessibility = "ProtectedOrInternal"
	AccessPrivateProtected  Accessibility = "ProtectedAndInternal"
	AccessPrivate           Accessibility = "Private"
)

// MethodKind classifies a method member.
type MethodKind string

const (
	MethodOrdinary MethodKind = "ordinary"
	MethodGetter   MethodKind = "getter"
	MethodSetter   MethodKind = "setter"
)

// MemberKind tags the variant held by a Member.
type MemberKind string

const (
	MemberMethod   MemberKind = "method"
	MemberProperty MemberKind = "property"
)

// Param is a single method parameter.
type Param struct {
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

// MethodInfo is the method-specific part of a Member.
type MethodInfo struct {
	ReturnType string     `json:"return_type"`
	Params     []Param    `json:"params,omitempty"`
	Kind       MethodKind `json:"kind"`
}

// PropertyInfo is the property-specific part of a Member.
type PropertyInfo struct {
	Type       string   `json:"type"`
	Nullable   bool     `json:"nullable"`
	Default    *string  `json:"default,omitempty"` // nil when the declaration has no initializer
	Attributes []string `json:"attributes,omitempty"`
}

// Member is a method or property of a type. Exactly one of Method and
// Property is set, matching Kind.
type Member struct {
	Kind     MemberKind    `json:"kind"`
	Name     string        `json:"name"`
	Access   Accessibility `json:"access"`
	Doc      string        `json:"doc,omitempty"` // raw documentation markup
	Method   *MethodInfo   `json:"method,omitempty"`
	Property *PropertyInfo `json:"property,omitempty"`
}

// NewMethod returns a method member.
func NewMethod(name string, access Accessibility, doc string, info MethodInfo) Member {
	if info.Kind == "" {
		info.Kind = MethodOrdinary
	}
	return Member{Kind: MemberMethod, Name: name, Access: access, Doc: doc, Method: &info}
}

// NewProperty returns a property member.
func NewProperty(name string, access Accessibility, doc string, info PropertyInfo) Member {
	return Member{Kind: MemberProperty, Name: name, Access: access, Doc: doc, Property: &info}
}

// TypeSymbol describes a declared type as seen through the semantic model.
// Values are built once by a provider and never mutated afterwards.
type TypeSymbol struct {
	Name       string      `json:"name"`
	Namespace  string      `json:"namespace"`
	Outer      string      `json:"outer,omitempty"` // containing type path for nested types
	Arity      int         `json:"arity,omitempty"` // generic type parameter count
	Assembly   string      `json:"assembly"`
	SourceFile string      `json:"source_file,omitempty"`
	Doc        string      `json:"doc,omitempty"`
	Base       *TypeSymbol `json:"-"`
	Members    []Member    `json:"members,omitempty"`

	// Root marks the universal root type that ends every inheritance chain.
	Root bool `json:"-"`
}

// FullName returns the fully-qualified name used as the Catalog key and as
// the target of reference markers, e.g. "Geo.Outer.Shape`1".
func (t *TypeSymbol) FullName() string {
	var sb strings.Builder
	for _, part := range []string{t.Namespace, t.Outer} {
		if part != "" {
			sb.WriteString(part)
			sb.WriteByte('.')
		}
	}
	sb.WriteString(t.Name)
	if t.Arity > 0 {
		sb.WriteByte('`')
		sb.WriteString(strconv.Itoa(t.Arity))
	}
	return sb.String()
}

// MemberID identifies m within t for diagnostics and memoization.
func (t *TypeSymbol) MemberID(m *Member) string {
	if m.Kind != MemberMethod {
		return t.FullName() + "." + m.Name
	}
	types := make([]string, len(m.Method.Params))
	for i, p := range m.Method.Params {
		types[i] = p.Type
	}
	return t.FullName() + "." + m.Name + "(" + strings.Join(types, ",") + ")"
}

// Model is the semantic model handed to the generator: the declared types
// eligible for documentation, in deterministic discovery order.
type Model struct {
	Types []*TypeSymbol
}
