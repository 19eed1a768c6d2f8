package bitlayout_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	bitlayout "github.com/reoring/bitlayout"
)

func TestCodec_ToBytesBigEndian(t *testing.T) {
	l, err := bitlayout.Compile(bitlayout.Config{
		"Word": {Start: 0, Width: 12, Type: "unsigned"},
	})
	require.NoError(t, err)

	in := l.New()
	require.NoError(t, in.Set("Word", 0xABC))
	require.Equal(t, []byte{0x0A, 0xBC}, in.ToBytes())

	back, err := l.FromBytes([]byte{0x0A, 0xBC})
	require.NoError(t, err)
	require.True(t, back.Equal(in))
}

func TestCodec_FromBytesShortIsZeroExtended(t *testing.T) {
	l, err := bitlayout.Compile(bitlayout.Config{
		"Word": {Start: 0, Width: 16, Type: "unsigned"},
	})
	require.NoError(t, err)

	in, err := l.FromBytes([]byte{0x7F})
	require.NoError(t, err)
	require.Equal(t, uint64(0x7F), in.ToInt())
}

func TestCodec_FromBytesTooLong(t *testing.T) {
	l := mustScenario(t)
	_, err := l.FromBytes([]byte{1, 2})
	require.True(t, bitlayout.IsRangeError(err))
}

func TestCodec_ToJSON(t *testing.T) {
	l := mustScenario(t)
	in, err := l.FromInt(142)
	require.NoError(t, err)

	m, err := in.ToJSON()
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"Constant": true,
		"Mode":     false,
		"Reserved": nil,
		"SubValue": map[string]any{
			"PropA": uint64(2),
			"PropB": int64(-1),
		},
	}, m)

	// Switching the selector swaps the nested mapping entirely; fields from
	// the non-selected variant never appear.
	require.NoError(t, in.Set("Mode", true))
	m, err = in.ToJSON()
	require.NoError(t, err)
	sub, ok := m["SubValue"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, sub, "PropC")
	require.Contains(t, sub, "PropD")
	require.NotContains(t, sub, "PropA")
}

func TestCodec_ToJSONFailsOnUnresolvableSelector(t *testing.T) {
	l, err := bitlayout.Compile(bitlayout.Config{
		"Tag": {Start: 2, Width: 2, Type: "unsigned"},
		"Body": {
			Start: 0, Width: 2, Type: "nested", Selector: "Tag",
			Subtype: []bitlayout.Config{{"N": {Start: 0, Width: 2, Type: "unsigned"}}},
		},
	})
	require.NoError(t, err)

	in := l.New()
	require.NoError(t, in.Set("Tag", 2))
	_, err = in.ToJSON()
	require.True(t, bitlayout.IsIndexError(err))
}

func TestCodec_MarshalJSON(t *testing.T) {
	l := mustScenario(t)
	in, err := l.FromInt(142)
	require.NoError(t, err)

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, true, decoded["Constant"])
	require.Nil(t, decoded["Reserved"])
	sub, ok := decoded["SubValue"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(2), sub["PropA"])
	require.Equal(t, float64(-1), sub["PropB"])
}

const scenarioJSON = `{
  "Constant": {"start": 7, "width": 1, "type": "bool"},
  "Mode":     {"start": 6, "width": 1, "type": "bool"},
  "Reserved": {"start": 4, "width": 2, "type": "reserved"},
  "SubValue": {
    "start": 0, "width": 4, "type": "nested", "selector": "Mode",
    "subtype": [
      {
        "PropA": {"start": 0, "width": 2, "type": "unsigned", "default": 0},
        "PropB": {"start": 2, "width": 2, "type": "signed", "default": -1}
      },
      {
        "PropC": {"start": 0, "width": 3, "type": "unsigned", "default": 1},
        "PropD": {"start": 3, "width": 1, "type": "bool", "default": true}
      }
    ]
  }
}`

const scenarioYAML = `
Constant: {start: 7, width: 1, type: bool}
Mode: {start: 6, width: 1, type: bool}
Reserved: {start: 4, width: 2, type: reserved}
SubValue:
  start: 0
  width: 4
  type: nested
  selector: Mode
  subtype:
    - PropA: {start: 0, width: 2, type: unsigned, default: 0}
      PropB: {start: 2, width: 2, type: signed, default: -1}
    - PropC: {start: 0, width: 3, type: unsigned, default: 1}
      PropD: {start: 3, width: 1, type: bool, default: true}
`

func TestLoader_JSONAndYAMLAgree(t *testing.T) {
	jl, err := bitlayout.CompileJSON([]byte(scenarioJSON))
	require.NoError(t, err)
	yl, err := bitlayout.CompileYAML([]byte(scenarioYAML))
	require.NoError(t, err)

	require.Equal(t, 8, jl.Width())
	require.Equal(t, 8, yl.Width())
	require.Equal(t, jl.FieldNames(), yl.FieldNames())

	ji, err := jl.FromMap(map[string]any{
		"Constant": true,
		"SubValue": map[string]any{"PropA": 2, "PropB": -1},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(142), ji.ToInt())

	yi, err := yl.FromInt(142)
	require.NoError(t, err)
	require.Equal(t, ji.ToInt(), yi.ToInt())
}

func TestLoader_ParseErrors(t *testing.T) {
	_, err := bitlayout.CompileJSON([]byte("{not json"))
	require.True(t, bitlayout.IsConfigurationError(err))

	_, err = bitlayout.CompileYAML([]byte("\t- bad"))
	require.True(t, bitlayout.IsConfigurationError(err))
}
