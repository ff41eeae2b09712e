package spec

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeNumeric parses JSON preserving number source text, the same way
// the fingerprint path does.
func decodeNumeric(t *testing.T, data string) any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var doc any
	require.NoError(t, dec.Decode(&doc))
	return doc
}

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	doc := decodeNumeric(t, `{"zebra": 1, "apple": 2, "mango": 3}`)

	got, err := MarshalCanonical(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"apple":2,"mango":3,"zebra":1}`, string(got))
}

func TestMarshalCanonicalKeyOrderIrrelevant(t *testing.T) {
	a := decodeNumeric(t, `{"nodes": [{"alias": "c", "label": "Candidate"}], "limit": 5}`)
	b := decodeNumeric(t, `{"limit": 5, "nodes": [{"label": "Candidate", "alias": "c"}]}`)

	aBytes, err := MarshalCanonical(a)
	require.NoError(t, err)
	bBytes, err := MarshalCanonical(b)
	require.NoError(t, err)

	assert.Equal(t, string(aBytes), string(bBytes))
}

func TestMarshalCanonicalScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, `null`},
		{"true", true, `true`},
		{"false", false, `false`},
		{"string", "hello", `"hello"`},
		{"number keeps source text", json.Number("1e3"), `1e3`},
		{"integer number", json.Number("42"), `42`},
		{"int", 7, `7`},
		{"int64", int64(-9), `-9`},
		{"float64", float64(2.5), `2.5`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(got))
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// e followed by a combining acute accent vs the precomposed é.
	decomposed, err := MarshalCanonical("café")
	require.NoError(t, err)
	precomposed, err := MarshalCanonical("café")
	require.NoError(t, err)

	assert.Equal(t, string(precomposed), string(decomposed))
}

func TestMarshalCanonicalNested(t *testing.T) {
	doc := decodeNumeric(t, `{"b": [1, {"y": null, "x": true}], "a": "s"}`)

	got, err := MarshalCanonical(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"s","b":[1,{"x":true,"y":null}]}`, string(got))
}

func TestMarshalCanonicalRejectsUnsupportedType(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestCompareKeysUTF16OutsideBMP(t *testing.T) {
	// U+FF61 sorts after U+1D11E in UTF-16 order (surrogates are low),
	// the opposite of UTF-8 byte order. Key sorting must be UTF-16.
	doc := map[string]any{
		"｡":     1,
		"\U0001D11E": 2,
	}

	got, err := MarshalCanonical(doc)
	require.NoError(t, err)

	first := bytes.Index(got, []byte("\U0001D11E"))
	second := bytes.Index(got, []byte("｡"))
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second, "astral-plane key sorts first under UTF-16 ordering")
}
