package indexer

import (
	"encoding/xml"
	"go/doc/comment"
	"go/types"
	"strconv"
	"strings"
)

// docMarkup converts a Go doc comment into summary markup. Doc links such as
// [Shape] or [io.Reader] become reference markers naming the linked type.
func docMarkup(text string, pkg *types.Package) string {
	p := comment.Parser{
		LookupPackage: func(name string) (string, bool) {
			if pkg == nil {
				return "", false
			}
			for _, imp := range pkg.Imports() {
				if imp.Name() == name {
					return imp.Path(), true
				}
			}
			return "", false
		},
		LookupSym: func(recv, name string) bool {
			if pkg == nil {
				return false
			}
			if recv != "" {
				return pkg.Scope().Lookup(recv) != nil
			}
			return pkg.Scope().Lookup(name) != nil
		},
	}

	w := &markupWriter{pkg: pkg}
	w.sb.WriteString("<summary>")
	w.blocks(p.Parse(text).Content)
	w.sb.WriteString("</summary>")
	return w.sb.String()
}

type markupWriter struct {
	sb  strings.Builder
	pkg *types.Package
}

func (w *markupWriter) blocks(blocks []comment.Block) {
	for i, b := range blocks {
		if i > 0 {
			w.escape("\n\n")
		}
		switch b := b.(type) {
		case *comment.Paragraph:
			w.texts(b.Text)
		case *comment.Heading:
			w.texts(b.Text)
		case *comment.Code:
			w.sb.WriteString("<code>")
			w.escape(strings.TrimRight(b.Text, "\n"))
			w.sb.WriteString("</code>")
		case *comment.List:
			for j, item := range b.Items {
				if j > 0 {
					w.escape("\n")
				}
				w.escape("- ")
				w.blocks(item.Content)
			}
		}
	}
}

func (w *markupWriter) texts(texts []comment.Text) {
	for _, t := range texts {
		switch t := t.(type) {
		case comment.Plain:
			w.escape(string(t))
		case comment.Italic:
			w.escape(string(t))
		case *comment.Link:
			w.texts(t.Text)
		case *comment.DocLink:
			w.docLink(t)
		}
	}
}

func (w *markupWriter) docLink(l *comment.DocLink) {
	path := l.ImportPath
	if path == "" && w.pkg != nil {
		path = w.pkg.Path()
	}
	pkg := w.linked(l.ImportPath)
	cref := "T:" + path + "." + l.Name + arity(pkg, l.Name)
	if l.Recv != "" {
		cref = "M:" + path + "." + l.Recv + arity(pkg, l.Recv) + "." + l.Name
	}
	if l.Name == "" {
		// Link to a whole package.
		cref = "N:" + path
	}
	w.sb.WriteString(`<see cref="`)
	w.escape(cref)
	w.sb.WriteString(`"/>`)
}

// linked returns the package a doc link points into, if it is loaded.
func (w *markupWriter) linked(importPath string) *types.Package {
	if w.pkg == nil || importPath == "" {
		return w.pkg
	}
	for _, imp := range w.pkg.Imports() {
		if imp.Path() == importPath {
			return imp
		}
	}
	return nil
}

// arity returns the "`N" suffix FullName gives a generic type, or "".
func arity(pkg *types.Package, name string) string {
	if pkg == nil {
		return ""
	}
	tn, ok := pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return ""
	}
	named, ok := tn.Type().(*types.Named)
	if !ok || named.TypeParams().Len() == 0 {
		return ""
	}
	return "`" + strconv.Itoa(named.TypeParams().Len())
}

func (w *markupWriter) escape(s string) {
	// Writes to a strings.Builder never fail.
	_ = xml.EscapeText(&w.sb, []byte(s))
}
