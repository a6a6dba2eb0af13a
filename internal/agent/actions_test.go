package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActions_ClickObject(t *testing.T) {
	actions := ParseActions(json.RawMessage(`{"click":{"x":100,"y":200}}`))

	require.Len(t, actions, 1)
	assert.Equal(t, ClickAction{X: 100, Y: 200}, actions[0])
}

func TestParseActions_TypeString(t *testing.T) {
	actions := ParseActions(json.RawMessage(`{"type":"hello world"}`))

	require.Len(t, actions, 1)
	assert.Equal(t, TypeAction{Text: "hello world"}, actions[0])
}

func TestParseActions_KeyString(t *testing.T) {
	actions := ParseActions(json.RawMessage(`{"key":"ArrowUp"}`))

	require.Len(t, actions, 1)
	assert.Equal(t, KeyAction{Key: "ArrowUp"}, actions[0])
}

func TestParseActions_ActionsList(t *testing.T) {
	input := json.RawMessage(`{"actions":[
		{"type":"click","x":10,"y":20},
		{"type":"key","key":"Enter"},
		{"type":"scroll","x":5,"y":6,"direction":"up","amount":2},
		{"type":"screenshot"},
		{"type":"teleport"}
	]}`)

	actions := ParseActions(input)

	require.Len(t, actions, 5)
	assert.Equal(t, ClickAction{X: 10, Y: 20}, actions[0])
	assert.Equal(t, KeyAction{Key: "Enter"}, actions[1])
	assert.Equal(t, ScrollAction{X: 5, Y: 6, Direction: "up", Amount: 2}, actions[2])
	assert.Equal(t, ScreenshotAction{}, actions[3])
	assert.IsType(t, UnknownAction{}, actions[4])
}

func TestParseActions_StringWrappedInput(t *testing.T) {
	// The model sometimes returns the input object serialized inside a JSON
	// string. It must decode the same as the bare object.
	wrapped, err := json.Marshal(`{"click":{"x":7,"y":8}}`)
	require.NoError(t, err)

	actions := ParseActions(wrapped)

	require.Len(t, actions, 1)
	assert.Equal(t, ClickAction{X: 7, Y: 8}, actions[0])
}

func TestParseActions_StringWithInvalidJSON(t *testing.T) {
	actions := ParseActions(json.RawMessage(`"press the button"`))

	assert.Empty(t, actions)
}

func TestParseActions_MalformedJSON(t *testing.T) {
	actions := ParseActions(json.RawMessage(`{"click":`))

	assert.Empty(t, actions)
}

func TestParseActions_EmptyInput(t *testing.T) {
	assert.Empty(t, ParseActions(nil))
	assert.Empty(t, ParseActions(json.RawMessage(``)))
}

func TestParseActions_KeyStringWinsOverLegacyAction(t *testing.T) {
	// Shape matching is first-match-wins: a string-valued "key" field takes
	// precedence over a legacy "action" field in the same object.
	actions := ParseActions(json.RawMessage(`{"action":"scroll","key":"Escape"}`))

	require.Len(t, actions, 1)
	assert.Equal(t, KeyAction{Key: "Escape"}, actions[0])
}

func TestParseActions_LegacyClick(t *testing.T) {
	actions := ParseActions(json.RawMessage(`{"action":"click","coordinate":[30,40]}`))

	require.Len(t, actions, 1)
	assert.Equal(t, ClickAction{X: 30, Y: 40}, actions[0])
}

func TestParseActions_LegacyType(t *testing.T) {
	actions := ParseActions(json.RawMessage(`{"action":"type","text":"abc"}`))

	require.Len(t, actions, 1)
	assert.Equal(t, TypeAction{Text: "abc"}, actions[0])
}

func TestParseActions_LegacyKey(t *testing.T) {
	actions := ParseActions(json.RawMessage(`{"action":"key","key":"ArrowLeft"}`))

	require.Len(t, actions, 1)
	assert.Equal(t, KeyAction{Key: "ArrowLeft"}, actions[0])
}

func TestParseActions_LegacyScreenshot(t *testing.T) {
	actions := ParseActions(json.RawMessage(`{"action":"screenshot"}`))

	require.Len(t, actions, 1)
	assert.Equal(t, ScreenshotAction{}, actions[0])
}

func TestParseActions_LegacyScrollDefaults(t *testing.T) {
	actions := ParseActions(json.RawMessage(`{"action":"scroll"}`))

	require.Len(t, actions, 1)
	assert.Equal(t, ScrollAction{
		X:         DefaultScrollX,
		Y:         DefaultScrollY,
		Direction: "down",
		Amount:    DefaultScrollAmount,
	}, actions[0])
}

func TestParseActions_LegacyScrollExplicit(t *testing.T) {
	actions := ParseActions(json.RawMessage(`{"action":"scroll","coordinate":[500,300],"direction":"up","amount":3}`))

	require.Len(t, actions, 1)
	assert.Equal(t, ScrollAction{X: 500, Y: 300, Direction: "up", Amount: 3}, actions[0])
}

func TestParseActions_UnknownShape(t *testing.T) {
	raw := json.RawMessage(`{"foo":"bar"}`)
	actions := ParseActions(raw)

	require.Len(t, actions, 1)
	unknown, ok := actions[0].(UnknownAction)
	require.True(t, ok)
	assert.JSONEq(t, string(raw), string(unknown.Raw))
}

func TestParseActions_IsPure(t *testing.T) {
	raw := json.RawMessage(`{"actions":[{"type":"click","x":1,"y":2}]}`)
	before := string(raw)

	first := ParseActions(raw)
	second := ParseActions(raw)

	assert.Equal(t, first, second)
	assert.Equal(t, before, string(raw))
}

func TestWheelDelta_Down(t *testing.T) {
	delta := ScrollAction{Direction: "down", Amount: 3}.WheelDelta()
	assert.Equal(t, 300.0, delta)
}

func TestWheelDelta_UpNegates(t *testing.T) {
	delta := ScrollAction{Direction: "up", Amount: 3}.WheelDelta()
	assert.Equal(t, -300.0, delta)
}

func TestWheelDelta_MissingAmountUsesDefault(t *testing.T) {
	delta := ScrollAction{Direction: "down"}.WheelDelta()
	assert.Equal(t, float64(DefaultScrollAmount*ScrollUnitPx), delta)
}

func TestEncodeActions_RoundTrip(t *testing.T) {
	original := []Action{
		ClickAction{X: 1, Y: 2},
		TypeAction{Text: "hi"},
		KeyAction{Key: "Enter"},
		ScrollAction{X: 3, Y: 4, Direction: "up", Amount: 5},
		ScreenshotAction{},
		UnknownAction{Raw: json.RawMessage(`{"foo":1}`)},
	}

	encoded, err := EncodeActions(original)
	require.NoError(t, err)

	decoded := ParseActions(encoded)
	require.Len(t, decoded, len(original))
	for i := range original {
		if unknown, ok := original[i].(UnknownAction); ok {
			got, ok := decoded[i].(UnknownAction)
			require.True(t, ok)
			assert.JSONEq(t, string(unknown.Raw), string(got.Raw))
			continue
		}
		assert.Equal(t, original[i], decoded[i])
	}
}
