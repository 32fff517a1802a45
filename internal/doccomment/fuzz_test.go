package doccomment

import "testing"

func FuzzParse(f *testing.F) {
	f.Add(`<summary>A shape.</summary>`)
	f.Add(`<summary>See <see cref="T:Geo.Circle"/></summary>`)
	f.Add(`<summary><para>nested</para>`)
	f.Add(`</summary>`)
	f.Add("")
	f.Fuzz(func(t *testing.T, raw string) {
		g, err := Parse(raw) // must not panic
		if err != nil && g != nil {
			t.Fatalf("Parse returned a tree alongside error %v", err)
		}
	})
}
