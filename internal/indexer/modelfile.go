package indexer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

// ErrInvalidModel is returned when a model file is well-formed but
// describes an impossible model.
var ErrInvalidModel = errors.New("invalid model")

// rootNames are the base names that denote the universal root type.
var rootNames = map[string]struct{}{
	"System.Object": {},
	"object":        {},
	"Object":        {},
}

// modelFile is the on-disk form of a semantic model dump. JSON dumps are
// read through the same decoder.
type modelFile struct {
	Assembly string      `yaml:"assembly"`
	Types    []modelType `yaml:"types" validate:"dive"`
}

type modelType struct {
	Name      string        `yaml:"name" validate:"required"`
	Namespace string        `yaml:"namespace"`
	Outer     string        `yaml:"outer"`
	Arity     int           `yaml:"arity" validate:"gte=0"`
	Assembly  string        `yaml:"assembly"`
	Source    string        `yaml:"source"`
	Base      string        `yaml:"base"`
	Doc       string        `yaml:"doc"`
	External  bool          `yaml:"external"`
	Members   []modelMember `yaml:"members" validate:"dive"`
}

type modelMember struct {
	Kind       string         `yaml:"kind" validate:"required,oneof=method property"`
	Name       string         `yaml:"name" validate:"required"`
	Access     string         `yaml:"access" validate:"omitempty,oneof=Public Protected Internal ProtectedOrInternal ProtectedAndInternal Private"`
	Doc        string         `yaml:"doc"`
	Returns    string         `yaml:"returns"`
	Params     []symtab.Param `yaml:"params"`
	MethodKind string         `yaml:"method_kind" validate:"omitempty,oneof=ordinary getter setter"`
	Type       string         `yaml:"type"`
	Nullable   bool           `yaml:"nullable"`
	Default    *string        `yaml:"default"`
	Attributes []string       `yaml:"attributes"`
}

func loadModelFile(path string) (*symtab.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return parseModel(data)
}

// parseModel decodes a model dump and links base types by full name.
// Bases naming the root type end the chain; other unknown bases become
// stubs outside the model.
func parseModel(data []byte) (*symtab.Model, error) {
	var mf modelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	if err := validator.New().Struct(mf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	root := &symtab.TypeSymbol{Name: "Object", Namespace: "System", Root: true}
	syms := make([]*symtab.TypeSymbol, len(mf.Types))
	byName := make(map[string]*symtab.TypeSymbol, len(mf.Types))
	for i, mt := range mf.Types {
		sym := mt.symbol(mf.Assembly)
		syms[i] = sym
		if _, dup := byName[sym.FullName()]; dup {
			return nil, fmt.Errorf("%w: type %s declared twice", ErrInvalidModel, sym.FullName())
		}
		byName[sym.FullName()] = sym
	}

	model := &symtab.Model{}
	for i, mt := range mf.Types {
		sym := syms[i]
		switch _, isRoot := rootNames[mt.Base]; {
		case mt.Base == "":
		case isRoot:
			sym.Base = root
		default:
			base, ok := byName[mt.Base]
			if !ok {
				base = externalStub(mt.Base)
				byName[mt.Base] = base
			}
			sym.Base = base
		}
		if !mt.External {
			model.Types = append(model.Types, sym)
		}
	}

	for _, sym := range syms {
		if err := checkChain(sym); err != nil {
			return nil, err
		}
	}
	return model, nil
}

func (mt modelType) symbol(assembly string) *symtab.TypeSymbol {
	sym := &symtab.TypeSymbol{
		Name:       mt.Name,
		Namespace:  mt.Namespace,
		Outer:      mt.Outer,
		Arity:      mt.Arity,
		Assembly:   assembly,
		SourceFile: mt.Source,
		Doc:        mt.Doc,
	}
	if mt.Assembly != "" {
		sym.Assembly = mt.Assembly
	}
	for _, mm := range mt.Members {
		sym.Members = append(sym.Members, mm.member())
	}
	return sym
}

func (mm modelMember) member() symtab.Member {
	access := symtab.Accessibility(mm.Access)
	if access == "" {
		access = symtab.AccessPublic
	}
	if mm.Kind == string(symtab.MemberProperty) {
		return symtab.NewProperty(mm.Name, access, mm.Doc, symtab.PropertyInfo{
			Type:       mm.Type,
			Nullable:   mm.Nullable,
			Default:    mm.Default,
			Attributes: mm.Attributes,
		})
	}
	return symtab.NewMethod(mm.Name, access, mm.Doc, symtab.MethodInfo{
		ReturnType: mm.Returns,
		Params:     mm.Params,
		Kind:       symtab.MethodKind(mm.MethodKind),
	})
}

// externalStub stands in for a base type declared outside the model.
func externalStub(fullName string) *symtab.TypeSymbol {
	stub := &symtab.TypeSymbol{Name: fullName}
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		stub.Namespace, stub.Name = fullName[:i], fullName[i+1:]
	}
	return stub
}

// checkChain rejects base chains that loop back on themselves.
func checkChain(sym *symtab.TypeSymbol) error {
	seen := map[*symtab.TypeSymbol]struct{}{sym: {}}
	for b := sym.Base; b != nil && !b.Root; b = b.Base {
		if _, ok := seen[b]; ok {
			return fmt.Errorf("%w: inheritance cycle through %s", ErrInvalidModel, sym.FullName())
		}
		seen[b] = struct{}{}
	}
	return nil
}
