package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(".foo[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")

	assert.Panics(t, func() { MustCompile("{") })
}

func TestProgram_Run(t *testing.T) {
	p := MustCompile(`.message.content[]? | select(.type == "tool_use")`)
	values, errs := p.Run(decode(t, `{"message": {"content": [
		{"type": "text", "text": "hi"},
		{"type": "tool_use", "name": "Bash", "input": {"command": "ls"}}
	]}}`))
	assert.Empty(t, errs)
	require.Len(t, values, 1)
	assert.Equal(t, "Bash", values[0].(map[string]any)["name"])
	assert.Equal(t, `.message.content[]? | select(.type == "tool_use")`, p.String())
}

func TestProgram_RunCollectsErrors(t *testing.T) {
	p := MustCompile(`.a[]`)
	values, errs := p.Run(decode(t, `{"a": 5}`))
	assert.Empty(t, values)
	require.Len(t, errs, 1)
}

func TestProgram_RunSkipsNull(t *testing.T) {
	p := MustCompile(`.a, .b`)
	values, errs := p.Run(decode(t, `{"a": 1}`))
	assert.Empty(t, errs)
	assert.Equal(t, []any{float64(1)}, values)
}

func TestProgram_FirstString(t *testing.T) {
	p := MustCompile(`.type`)

	s, ok := p.FirstString(decode(t, `{"type": "system"}`))
	assert.True(t, ok)
	assert.Equal(t, "system", s)

	_, ok = p.FirstString(decode(t, `{"type": 3}`))
	assert.False(t, ok)

	_, ok = p.FirstString(decode(t, `"not an object"`))
	assert.False(t, ok)
}

func TestProgram_RunSamples(t *testing.T) {
	p := MustCompile(`.items[].name`)
	samples := [][]byte{
		[]byte(`{"items": [{"name": "a"}, {"name": "b"}]}`),
		[]byte(`{"items": [{"name": "a"}]}`),
		[]byte(`{"other": true}`),
		[]byte(`not json`),
	}

	result := p.RunSamples(samples, []string{"first", "", "third"}, true, 0)
	assert.Equal(t, []any{"a", "b"}, result.Values)
	assert.Equal(t, 3, result.RawCount)
	assert.Equal(t, []int{0, 1}, result.MatchedIndices)
	assert.Equal(t, 2, result.LabelCounts["first"])
	assert.Equal(t, 1, result.LabelCounts["sample[1]"])
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "third")
	assert.Contains(t, result.Errors[0], "the path may not exist")
	assert.Contains(t, result.Errors[1], "sample[3]: invalid JSON")
}

func TestProgram_RunSamplesMaxResults(t *testing.T) {
	p := MustCompile(`.[]`)
	samples := [][]byte{[]byte(`[1, 2, 3]`), []byte(`[4, 5]`)}

	result := p.RunSamples(samples, nil, false, 4)
	assert.Equal(t, []any{float64(1), float64(2), float64(3), float64(4)}, result.Values)
}

func TestValueKey(t *testing.T) {
	assert.Equal(t, "s:x", valueKey("x"))
	assert.Equal(t, "n:1.5", valueKey(1.5))
	assert.Equal(t, "b:true", valueKey(true))
	assert.Equal(t, `j:{"a":1}`, valueKey(map[string]any{"a": 1}))
}
