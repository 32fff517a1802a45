package indexer

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

// keywordTypes maps C# keyword types to their framework type names.
var keywordTypes = map[string]string{
	"bool":    "Boolean",
	"byte":    "Byte",
	"sbyte":   "SByte",
	"char":    "Char",
	"decimal": "Decimal",
	"double":  "Double",
	"float":   "Single",
	"int":     "Int32",
	"uint":    "UInt32",
	"long":    "Int64",
	"ulong":   "UInt64",
	"short":   "Int16",
	"ushort":  "UInt16",
	"nint":    "IntPtr",
	"nuint":   "UIntPtr",
	"object":  "Object",
	"dynamic": "Object",
	"string":  "String",
	"void":    "Void",
}

var crefRe = regexp.MustCompile(`cref="([^"]*)"`)

// csClass is a class declaration awaiting base and reference resolution.
type csClass struct {
	sym   *symtab.TypeSymbol
	bases []string
}

// csLoader extracts class declarations from C# sources with tree-sitter.
type csLoader struct {
	parser   *sitter.Parser
	assembly string
	classes  []*csClass
	byName   map[string]*csClass   // full name without arity
	bySimple map[string][]*csClass // simple name
}

func loadCSharp(ctx context.Context, root string) (*symtab.Model, error) {
	project, err := findProjectFile(root)
	if err != nil {
		return nil, err
	}
	files, err := sourceFiles(root)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(csharp.GetLanguage())

	l := &csLoader{
		parser:   parser,
		assembly: assemblyName(project),
		byName:   make(map[string]*csClass),
		bySimple: make(map[string][]*csClass),
	}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		if err := l.parseFile(ctx, rel, src); err != nil {
			return nil, err
		}
	}
	return l.resolve(), nil
}

// assemblyName reads <AssemblyName> from the project file, defaulting to
// the project file name.
func assemblyName(project string) string {
	name := strings.TrimSuffix(filepath.Base(project), filepath.Ext(project))
	data, err := os.ReadFile(project)
	if err != nil {
		return name
	}
	var proj struct {
		Groups []struct {
			AssemblyName string `xml:"AssemblyName"`
		} `xml:"PropertyGroup"`
	}
	if err := xml.Unmarshal(data, &proj); err != nil {
		return name
	}
	for _, g := range proj.Groups {
		if g.AssemblyName != "" {
			return strings.TrimSpace(g.AssemblyName)
		}
	}
	return name
}

func (l *csLoader) parseFile(ctx context.Context, rel string, src []byte) error {
	tree, err := l.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", rel, err)
	}
	defer tree.Close()

	l.declarations(tree.RootNode(), src, filepath.Base(rel), "", "")
	return nil
}

// declarations walks the named children of node collecting classes.
// ns and outer carry the enclosing namespace and class path.
func (l *csLoader) declarations(node *sitter.Node, src []byte, file, ns, outer string) {
	for i := range int(node.NamedChildCount()) {
		child := node.NamedChild(i)
		switch child.Type() {
		case "namespace_declaration":
			inner := joinName(ns, nodeText(child.ChildByFieldName("name"), src))
			if body := child.ChildByFieldName("body"); body != nil {
				l.declarations(body, src, file, inner, "")
			}
		case "file_scoped_namespace_declaration":
			// Applies to every following declaration in the file.
			ns = joinName(ns, nodeText(child.ChildByFieldName("name"), src))
			l.declarations(child, src, file, ns, "")
		case "class_declaration":
			l.class(child, src, file, ns, outer)
		case "declaration_list":
			l.declarations(child, src, file, ns, outer)
		}
	}
}

func (l *csLoader) class(node *sitter.Node, src []byte, file, ns, outer string) {
	sym := &symtab.TypeSymbol{
		Name:       nodeText(node.ChildByFieldName("name"), src),
		Namespace:  ns,
		Outer:      outer,
		Assembly:   l.assembly,
		SourceFile: file,
	}
	if tp := node.ChildByFieldName("type_parameters"); tp != nil {
		sym.Arity = int(tp.NamedChildCount())
	}
	c := &csClass{sym: sym}
	if doc := docComment(node, src); doc != "" {
		sym.Doc = `<member name="T:` + sym.FullName() + `">` + "\n" + doc + "\n</member>"
	}

	for i := range int(node.NamedChildCount()) {
		child := node.NamedChild(i)
		if child.Type() != "base_list" {
			continue
		}
		for j := range int(child.NamedChildCount()) {
			if name := baseName(child.NamedChild(j), src); name != "" {
				c.bases = append(c.bases, name)
			}
		}
	}

	l.classes = append(l.classes, c)
	key := joinName(joinName(ns, outer), sym.Name)
	if _, dup := l.byName[key]; !dup {
		l.byName[key] = c
	}
	l.bySimple[sym.Name] = append(l.bySimple[sym.Name], c)

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	nested := joinName(outer, sym.Name)
	for i := range int(body.NamedChildCount()) {
		child := body.NamedChild(i)
		switch child.Type() {
		case "method_declaration":
			sym.Members = append(sym.Members, l.method(child, src, sym))
		case "property_declaration":
			sym.Members = append(sym.Members, l.property(child, src, sym)...)
		case "class_declaration":
			l.class(child, src, file, ns, nested)
		}
	}
}

func (l *csLoader) method(node *sitter.Node, src []byte, owner *symtab.TypeSymbol) symtab.Member {
	ret := node.ChildByFieldName("returns")
	if ret == nil {
		ret = node.ChildByFieldName("type")
	}
	info := symtab.MethodInfo{ReturnType: typeName(ret, src), Kind: symtab.MethodOrdinary}
	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := range int(params.NamedChildCount()) {
			p := params.NamedChild(i)
			if p.Type() != "parameter" {
				continue
			}
			info.Params = append(info.Params, symtab.Param{
				Type: typeName(p.ChildByFieldName("type"), src),
				Name: nodeText(p.ChildByFieldName("name"), src),
			})
		}
	}
	m := symtab.NewMethod(nodeText(node.ChildByFieldName("name"), src), accessibility(node, src), "", info)
	m.Doc = memberDoc("M", owner.FullName()+"."+m.Name, docComment(node, src))
	return m
}

// property returns the property member followed by its synthesized
// accessor methods.
func (l *csLoader) property(node *sitter.Node, src []byte, owner *symtab.TypeSymbol) []symtab.Member {
	typ := node.ChildByFieldName("type")
	name := nodeText(node.ChildByFieldName("name"), src)
	access := accessibility(node, src)

	info := symtab.PropertyInfo{
		Type:       typeName(typ, src),
		Nullable:   typ != nil && typ.Type() == "nullable_type",
		Attributes: attributes(node, src),
	}
	if v := node.ChildByFieldName("value"); v != nil && v.Type() != "arrow_expression_clause" {
		def := nodeText(v, src)
		info.Default = &def
	}
	prop := symtab.NewProperty(name, access, "", info)
	prop.Doc = memberDoc("P", owner.FullName()+"."+name, docComment(node, src))
	members := []symtab.Member{prop}

	accessors := node.ChildByFieldName("accessors")
	if accessors == nil {
		// Expression-bodied properties only have a getter.
		return append(members, symtab.NewMethod("get_"+name, access, "", symtab.MethodInfo{
			ReturnType: info.Type,
			Kind:       symtab.MethodGetter,
		}))
	}
	for i := range int(accessors.NamedChildCount()) {
		acc := accessors.NamedChild(i)
		if acc.Type() != "accessor_declaration" {
			continue
		}
		accAccess := access
		if hasModifiers(acc) {
			accAccess = accessibility(acc, src)
		}
		switch accessorKeyword(acc, src) {
		case "get":
			members = append(members, symtab.NewMethod("get_"+name, accAccess, "", symtab.MethodInfo{
				ReturnType: info.Type,
				Kind:       symtab.MethodGetter,
			}))
		case "set", "init":
			members = append(members, symtab.NewMethod("set_"+name, accAccess, "", symtab.MethodInfo{
				ReturnType: "Void",
				Params:     []symtab.Param{{Type: info.Type, Name: "value"}},
				Kind:       symtab.MethodSetter,
			}))
		}
	}
	return members
}

// resolve links base types and rewrites references, then returns the model
// in discovery order.
func (l *csLoader) resolve() *symtab.Model {
	model := &symtab.Model{}
	for _, c := range l.classes {
		for _, b := range c.bases {
			if base := l.lookup(b, c.sym.Namespace); base != nil && !closesCycle(c.sym, base.sym) {
				c.sym.Base = base.sym
				break
			}
		}
		c.sym.Doc = l.rewriteRefs(c.sym.Doc, c.sym.Namespace)
		for i := range c.sym.Members {
			c.sym.Members[i].Doc = l.rewriteRefs(c.sym.Members[i].Doc, c.sym.Namespace)
		}
		model.Types = append(model.Types, c.sym)
	}
	return model
}

// lookup finds a project class by the name used in source, trying the
// enclosing namespaces from innermost out and then a unique simple name.
func (l *csLoader) lookup(name, ns string) *csClass {
	name = stripGeneric(name)
	for scope := ns; ; {
		if c, ok := l.byName[joinName(scope, name)]; ok {
			return c
		}
		if scope == "" {
			break
		}
		if i := strings.LastIndex(scope, "."); i >= 0 {
			scope = scope[:i]
		} else {
			scope = ""
		}
	}
	if cs := l.bySimple[name]; len(cs) == 1 {
		return cs[0]
	}
	return nil
}

// rewriteRefs qualifies cref attributes the way the compiler does: known
// types become "T:Full.Name" and anything else "!:name".
func (l *csLoader) rewriteRefs(doc, ns string) string {
	if doc == "" {
		return doc
	}
	return crefRe.ReplaceAllStringFunc(doc, func(m string) string {
		target := crefRe.FindStringSubmatch(m)[1]
		if len(target) > 1 && target[1] == ':' {
			return m
		}
		if c := l.lookup(target, ns); c != nil {
			return `cref="T:` + c.sym.FullName() + `"`
		}
		return `cref="!:` + target + `"`
	})
}

// docComment returns the text of the /// lines directly preceding node.
func docComment(node *sitter.Node, src []byte) string {
	var lines []string
	for prev := node.PrevNamedSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevNamedSibling() {
		text := nodeText(prev, src)
		if !strings.HasPrefix(text, "///") {
			break
		}
		text = strings.TrimPrefix(text, "///")
		text = strings.TrimPrefix(text, " ")
		lines = append(lines, strings.TrimRight(text, "\r\n"))
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n")
}

func memberDoc(kind, id, doc string) string {
	if doc == "" {
		return ""
	}
	return `<member name="` + kind + ":" + id + `">` + "\n" + doc + "\n</member>"
}

func hasModifiers(node *sitter.Node) bool {
	for i := range int(node.NamedChildCount()) {
		if node.NamedChild(i).Type() == "modifier" {
			return true
		}
	}
	return false
}

// accessibility reads the access modifiers of a declaration. Members
// without one are private.
func accessibility(node *sitter.Node, src []byte) symtab.Accessibility {
	mods := make(map[string]bool)
	for i := range int(node.NamedChildCount()) {
		child := node.NamedChild(i)
		if child.Type() == "modifier" {
			mods[nodeText(child, src)] = true
		}
	}
	switch {
	case mods["public"]:
		return symtab.AccessPublic
	case mods["protected"] && mods["internal"]:
		return symtab.AccessProtectedInternal
	case mods["private"] && mods["protected"]:
		return symtab.AccessPrivateProtected
	case mods["protected"]:
		return symtab.AccessProtected
	case mods["internal"]:
		return symtab.AccessInternal
	}
	return symtab.AccessPrivate
}

func accessorKeyword(acc *sitter.Node, src []byte) string {
	if n := acc.ChildByFieldName("name"); n != nil {
		return nodeText(n, src)
	}
	for i := range int(acc.ChildCount()) {
		switch t := acc.Child(i).Type(); t {
		case "get", "set", "init":
			return t
		}
	}
	return ""
}

// attributes returns the attribute class names attached to a declaration.
func attributes(node *sitter.Node, src []byte) []string {
	var names []string
	for i := range int(node.NamedChildCount()) {
		list := node.NamedChild(i)
		if list.Type() != "attribute_list" {
			continue
		}
		for j := range int(list.NamedChildCount()) {
			attr := list.NamedChild(j)
			if attr.Type() != "attribute" {
				continue
			}
			name := stripGeneric(nodeText(attr.ChildByFieldName("name"), src))
			if k := strings.LastIndex(name, "."); k >= 0 {
				name = name[k+1:]
			}
			if name == "" {
				continue
			}
			if !strings.HasSuffix(name, "Attribute") {
				name += "Attribute"
			}
			names = append(names, name)
		}
	}
	return names
}

// typeName renders a type node by its simple name, the way metadata names
// types: keywords map to framework names and type arguments are dropped.
func typeName(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	switch node.Type() {
	case "predefined_type", "void_keyword", "implicit_type":
		text := nodeText(node, src)
		if name, ok := keywordTypes[text]; ok {
			return name
		}
		return text
	case "nullable_type":
		if node.NamedChildCount() > 0 {
			return typeName(node.NamedChild(0), src)
		}
	case "generic_name":
		if node.NamedChildCount() > 0 {
			return nodeText(node.NamedChild(0), src)
		}
	case "qualified_name":
		if n := node.ChildByFieldName("name"); n != nil {
			return typeName(n, src)
		}
	case "array_type":
		if n := node.ChildByFieldName("type"); n != nil {
			return typeName(n, src) + "[]"
		}
	}
	text := nodeText(node, src)
	if name, ok := keywordTypes[text]; ok {
		return name
	}
	return strings.Join(strings.Fields(stripGeneric(text)), " ")
}

// baseName returns the dotted name of a base list entry without type
// arguments or constructor arguments.
func baseName(node *sitter.Node, src []byte) string {
	if node.Type() == "primary_constructor_base_type" && node.NamedChildCount() > 0 {
		node = node.NamedChild(0)
	}
	if node.Type() == "argument_list" {
		return ""
	}
	return stripGeneric(nodeText(node, src))
}

func stripGeneric(name string) string {
	for _, open := range []string{"<", "{"} {
		if i := strings.Index(name, open); i >= 0 {
			name = name[:i]
		}
	}
	return strings.TrimSpace(name)
}

func joinName(prefix, name string) string {
	switch {
	case prefix == "":
		return name
	case name == "":
		return prefix
	}
	return prefix + "." + name
}

func nodeText(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	return string(src[node.StartByte():node.EndByte()])
}
