package indexer

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

// goLoader turns type-checked Go packages into TypeSymbols. Struct types are
// documented types; the first embedded struct acts as the base type.
type goLoader struct {
	root    string
	fset    *token.FileSet
	pkgs    map[string]*packages.Package // every loaded package, including deps
	docs    map[string]map[token.Pos]string
	symbols map[*types.TypeName]*symtab.TypeSymbol
}

func loadGo(ctx context.Context, root string) (*symtab.Model, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedModule |
			packages.NeedDeps |
			packages.NeedImports,
		Dir:  root,
		Fset: fset,
	}

	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	l := &goLoader{
		root:    root,
		fset:    fset,
		pkgs:    make(map[string]*packages.Package),
		docs:    make(map[string]map[token.Pos]string),
		symbols: make(map[*types.TypeName]*symtab.TypeSymbol),
	}
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		l.pkgs[p.PkgPath] = p
	})

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	model := &symtab.Model{}
	for _, pkg := range pkgs {
		if pkg.Types == nil || len(pkg.GoFiles) == 0 || !isUnderRoot(pkg.GoFiles[0], root) {
			continue
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok {
				continue
			}
			if _, ok := named.Underlying().(*types.Struct); !ok {
				continue
			}
			model.Types = append(model.Types, l.symbol(named))
		}
	}
	return model, nil
}

// symbol returns the TypeSymbol for a named struct type, building it and
// its base chain on first use.
func (l *goLoader) symbol(named *types.Named) *symtab.TypeSymbol {
	tn := named.Obj()
	if sym, ok := l.symbols[tn]; ok {
		return sym
	}

	pkgPath := ""
	if tn.Pkg() != nil {
		pkgPath = tn.Pkg().Path()
	}
	docs := l.docMap(pkgPath)
	pos := l.fset.Position(tn.Pos())

	sym := &symtab.TypeSymbol{
		Name:      tn.Name(),
		Namespace: pkgPath,
		Assembly:  l.module(pkgPath),
		Doc:       l.markup(docs[tn.Pos()], tn.Pkg()),
	}
	if named.TypeParams() != nil {
		sym.Arity = named.TypeParams().Len()
	}
	if pos.Filename != "" {
		sym.SourceFile = filepath.Base(pos.Filename)
	}
	// Registered before recursing so self-embedding through pointers terminates.
	l.symbols[tn] = sym

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return sym
	}
	qual := relativeTo(tn.Pkg())
	for i := range st.NumFields() {
		f := st.Field(i)
		if f.Anonymous() {
			if sym.Base == nil {
				if named := embeddedStruct(f.Type()); named != nil {
					// A type reachable back through its own embedding is not a base.
					if base := l.symbol(named); !closesCycle(sym, base) {
						sym.Base = base
					}
				}
			}
			continue
		}
		sym.Members = append(sym.Members, l.fieldMember(f, st.Tag(i), docs, qual))
	}
	for i := range named.NumMethods() {
		sym.Members = append(sym.Members, l.methodMember(named.Method(i), docs, qual))
	}
	return sym
}

func (l *goLoader) fieldMember(f *types.Var, tag string, docs map[token.Pos]string, qual types.Qualifier) symtab.Member {
	return symtab.NewProperty(f.Name(), access(f.Name()), l.markup(docs[f.Pos()], f.Pkg()), symtab.PropertyInfo{
		Type:       types.TypeString(f.Type(), qual),
		Nullable:   nullable(f.Type()),
		Attributes: tagKeys(tag),
	})
}

func (l *goLoader) methodMember(fn *types.Func, docs map[token.Pos]string, qual types.Qualifier) symtab.Member {
	info := symtab.MethodInfo{Kind: symtab.MethodOrdinary}
	sig, ok := fn.Type().(*types.Signature)
	if ok {
		info.ReturnType = resultString(sig.Results(), qual)
		for i := range sig.Params().Len() {
			p := sig.Params().At(i)
			typ := types.TypeString(p.Type(), qual)
			if sig.Variadic() && i == sig.Params().Len()-1 {
				if s, ok := p.Type().(*types.Slice); ok {
					typ = "..." + types.TypeString(s.Elem(), qual)
				}
			}
			info.Params = append(info.Params, symtab.Param{Type: typ, Name: p.Name()})
		}
	}
	return symtab.NewMethod(fn.Name(), access(fn.Name()), l.markup(docs[fn.Pos()], fn.Pkg()), info)
}

// markup converts a Go doc comment to documentation markup, or "" if empty.
func (l *goLoader) markup(text string, pkg *types.Package) string {
	if text == "" {
		return ""
	}
	return docMarkup(text, pkg)
}

// module returns the module path owning pkgPath, falling back to the
// package path itself for packages outside any module.
func (l *goLoader) module(pkgPath string) string {
	if p, ok := l.pkgs[pkgPath]; ok && p.Module != nil {
		return p.Module.Path
	}
	return pkgPath
}

// docMap returns the doc comments of pkgPath keyed by declaration name
// position, built on first use.
func (l *goLoader) docMap(pkgPath string) map[token.Pos]string {
	if docs, ok := l.docs[pkgPath]; ok {
		return docs
	}
	docs := make(map[token.Pos]string)
	if p, ok := l.pkgs[pkgPath]; ok {
		buildDocMap(docs, p.Syntax)
		buildFieldDocMap(docs, p.Syntax)
	}
	l.docs[pkgPath] = docs
	return docs
}

// embeddedStruct returns the named struct behind an embedded field type,
// unwrapping one pointer.
func embeddedStruct(t types.Type) *types.Named {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return nil
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil
	}
	return named
}

func access(name string) symtab.Accessibility {
	if token.IsExported(name) {
		return symtab.AccessPublic
	}
	return symtab.AccessPrivate
}

// nullable reports whether the zero value of t is nil.
func nullable(t types.Type) bool {
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Interface, *types.Chan, *types.Signature:
		return true
	}
	return false
}

// relativeTo qualifies types outside pkg by package name only.
func relativeTo(pkg *types.Package) types.Qualifier {
	return func(other *types.Package) string {
		if other == pkg {
			return ""
		}
		return other.Name()
	}
}

func resultString(results *types.Tuple, qual types.Qualifier) string {
	switch results.Len() {
	case 0:
		return ""
	case 1:
		return types.TypeString(results.At(0).Type(), qual)
	}
	parts := make([]string, results.Len())
	for i := range results.Len() {
		parts[i] = types.TypeString(results.At(i).Type(), qual)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// tagKeys returns the keys of a struct tag in order, e.g. `json:"a" xml:"b"`
// gives [json xml]. Parsing stops at the first malformed pair.
func tagKeys(tag string) []string {
	var keys []string
	for tag != "" {
		tag = strings.TrimLeft(tag, " ")
		i := 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			break
		}
		key := tag[:i]
		tag = tag[i+1:]

		// Skip the quoted value.
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			break
		}
		keys = append(keys, key)
		tag = tag[i+1:]
	}
	return keys
}

// buildDocMap extracts doc comments for top-level declarations, keyed by the name's position.
func buildDocMap(docs map[token.Pos]string, files []*ast.File) {
	for _, f := range files {
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Doc != nil {
					docs[d.Name.Pos()] = strings.TrimSpace(d.Doc.Text())
				}
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					if s, ok := spec.(*ast.TypeSpec); ok {
						if doc := specDoc(s.Doc, d.Doc, len(d.Specs)); doc != "" {
							docs[s.Name.Pos()] = doc
						}
					}
				}
			}
		}
	}
}

// buildFieldDocMap extracts comments for struct fields, keyed by field name position.
func buildFieldDocMap(docs map[token.Pos]string, files []*ast.File) {
	for _, f := range files {
		ast.Inspect(f, func(n ast.Node) bool {
			field, ok := n.(*ast.Field)
			if !ok {
				return true
			}
			comment := ""
			if field.Doc != nil {
				comment = strings.TrimSpace(field.Doc.Text())
			} else if field.Comment != nil {
				comment = strings.TrimSpace(field.Comment.Text())
			}
			if comment != "" {
				for _, name := range field.Names {
					docs[name.Pos()] = comment
				}
			}
			return true
		})
	}
}

// specDoc returns the doc comment for a spec within a GenDecl.
// It prefers the spec's own doc, falling back to the group doc for single-spec decls.
func specDoc(specDoc, groupDoc *ast.CommentGroup, specCount int) string {
	if specDoc != nil {
		return strings.TrimSpace(specDoc.Text())
	}
	if groupDoc != nil && specCount == 1 {
		return strings.TrimSpace(groupDoc.Text())
	}
	return ""
}
