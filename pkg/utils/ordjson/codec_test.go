package ordjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarshalPreservesOrderAndLiterals(t *testing.T) {
	input := `{
  "zeta": 1.50,
  "alpha": {
    "nested": [
      1e3,
      "x",
      null,
      true
    ],
    "empty": {}
  },
  "list": [],
  "html": "<a & b>"
}
`
	v, err := Parse([]byte(input))
	require.NoError(t, err)

	out, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestMapSetReplacesInPlace(t *testing.T) {
	v, err := Parse([]byte(`{"a": 1, "b": 2, "c": 3}`))
	require.NoError(t, err)

	m := v.AsMap()
	require.NotNil(t, m)
	m.Set("b", NewString("two"))
	m.Set("d", NewBool(false))

	assert.Equal(t, []string{"a", "b", "c", "d"}, m.Keys())
	got, ok := m.String("b")
	assert.True(t, ok)
	assert.Equal(t, "two", got)

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("missing"))
	assert.Equal(t, []string{"b", "c", "d"}, m.Keys())
}

func TestDuplicateKeysSurviveRoundTrip(t *testing.T) {
	input := "{\n  \"a\": 1,\n  \"b\": 2,\n  \"a\": 3\n}\n"
	v, err := Parse([]byte(input))
	require.NoError(t, err)

	m := v.AsMap()
	assert.Equal(t, []string{"a", "b", "a"}, m.Keys())
	n, ok := m.Get("a").AsNumber()
	assert.True(t, ok)
	assert.Equal(t, "3", n.String())

	out, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))

	m.Set("a", NewNumber("4"))
	out, err = Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": 2,\n  \"a\": 4\n}\n", string(out))

	assert.True(t, m.Delete("a"))
	assert.Equal(t, []string{"b"}, m.Keys())
}

func TestStringLiteralsKeepTheirEscapes(t *testing.T) {
	input := `{
  "caf\u00e9": "Caf\u00e9 \/ <b>",
  "list": [
    "tab\there",
    "plain"
  ]
}
`
	v, err := Parse([]byte(input))
	require.NoError(t, err)

	m := v.AsMap()
	got, ok := m.String("café")
	require.True(t, ok)
	assert.Equal(t, "Café / <b>", got)

	out, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))

	// A replaced value is written in canonical form.
	m.Set("café", NewString("Café / <i>"))
	out, err = Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"caf\u00e9": "Café / <i>"`)
}

func TestAccessorsOnWrongKinds(t *testing.T) {
	v, err := Parse([]byte(`{"s": "x", "n": 2, "arr": [1], "obj": {"k": "v"}}`))
	require.NoError(t, err)
	m := v.AsMap()

	_, ok := m.String("n")
	assert.False(t, ok)
	assert.Nil(t, m.Map("s"))
	assert.Nil(t, m.Array("obj"))
	assert.NotNil(t, m.Array("arr"))
	assert.Nil(t, m.Get("missing"))
	assert.Equal(t, Null, m.Get("missing").Kind())

	var nilMap *Map
	assert.Nil(t, nilMap.Get("k"))
	assert.Equal(t, 0, nilMap.Len())
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "truncated", input: `{"a": [1, 2`},
		{name: "trailing", input: `{"a": 1} {"b": 2}`},
		{name: "garbage", input: `{"a": nope}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestBuildAndMarshal(t *testing.T) {
	m := &Map{}
	m.Set("type", NewString("script"))
	m.Set("res", NewStrings("a.lua", "b.lua"))
	m.Set("count", NewNumber("2"))

	out, err := Marshal(NewObject(m))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"type\": \"script\",\n  \"res\": [\n    \"a.lua\",\n    \"b.lua\"\n  ],\n  \"count\": 2\n}\n", string(out))
}
