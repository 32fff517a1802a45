package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

func TestLoadModelFile(t *testing.T) {
	model, err := loadModelFile(fixtureModel)
	require.NoError(t, err)

	var names []string
	for _, ts := range model.Types {
		names = append(names, ts.FullName())
	}
	assert.Equal(t, []string{"Zoo.Animal", "Zoo.Dog", "Zoo.Puppy", "Zoo.Recorder"}, names, "external types are not documented")

	animal, dog, puppy, recorder := model.Types[0], model.Types[1], model.Types[2], model.Types[3]

	assert.Equal(t, "Zoo.Core", animal.Assembly)
	assert.Equal(t, "Zoo.Audio", recorder.Assembly, "per-type assembly overrides the default")
	assert.Equal(t, "Animal.cs", animal.SourceFile)

	require.NotNil(t, animal.Base)
	assert.True(t, animal.Base.Root)
	assert.Same(t, animal, dog.Base)
	assert.Same(t, dog, puppy.Base)

	require.NotNil(t, recorder.Base)
	assert.Equal(t, "System.IO.Stream", recorder.Base.FullName())
	assert.False(t, recorder.Base.Root)
	assert.Len(t, recorder.Base.Members, 1)

	legs := animal.Members[0]
	require.Equal(t, symtab.MemberProperty, legs.Kind)
	assert.Equal(t, symtab.AccessPublic, legs.Access, "access defaults to public")
	require.NotNil(t, legs.Property.Default)
	assert.Equal(t, "4", *legs.Property.Default)
	assert.Equal(t, []string{"RequiredAttribute"}, legs.Property.Attributes)

	getter := animal.Members[1]
	assert.Equal(t, symtab.MethodGetter, getter.Method.Kind)

	speak := animal.Members[2]
	assert.Equal(t, symtab.MethodOrdinary, speak.Method.Kind, "method kind defaults to ordinary")
	assert.Equal(t, []symtab.Param{{Type: "Int32", Name: "times"}}, speak.Method.Params)

	assert.Equal(t, symtab.AccessPrivate, animal.Members[3].Access)
}

func TestParseModelErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
		errMsg  string
	}{
		{
			name:   "not yaml",
			data:   "types: [",
			errMsg: "decoding model",
		},
		{
			name:    "missing type name",
			data:    "types:\n  - namespace: A\n",
			invalid: true,
		},
		{
			name:    "unknown member kind",
			data:    "types:\n  - name: T\n    members:\n      - {kind: event, name: E}\n",
			invalid: true,
		},
		{
			name:    "bad accessibility",
			data:    "types:\n  - name: T\n    members:\n      - {kind: method, name: M, access: Friend}\n",
			invalid: true,
		},
		{
			name:    "duplicate type",
			data:    "types:\n  - {name: T, namespace: A}\n  - {name: T, namespace: A}\n",
			invalid: true,
			errMsg:  "declared twice",
		},
		{
			name:    "inheritance cycle",
			data:    "types:\n  - {name: A, namespace: N, base: N.B}\n  - {name: B, namespace: N, base: N.A}\n",
			invalid: true,
			errMsg:  "inheritance cycle",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseModel([]byte(tc.data))
			require.Error(t, err)
			if tc.invalid {
				assert.ErrorIs(t, err, ErrInvalidModel)
			}
			if tc.errMsg != "" {
				assert.ErrorContains(t, err, tc.errMsg)
			}
		})
	}
}

func TestParseModelJSON(t *testing.T) {
	model, err := parseModel([]byte(`{"types": [{"name": "T", "namespace": "N", "base": "object"}]}`))
	require.NoError(t, err)
	require.Len(t, model.Types, 1)
	assert.True(t, model.Types[0].Base.Root)
}

func TestParseModelUnknownBase(t *testing.T) {
	model, err := parseModel([]byte("types:\n  - {name: T, namespace: N, base: Vendor.Lib.Thing}\n"))
	require.NoError(t, err)

	base := model.Types[0].Base
	require.NotNil(t, base)
	assert.Equal(t, "Thing", base.Name)
	assert.Equal(t, "Vendor.Lib", base.Namespace)
	assert.Nil(t, base.Base)
}
