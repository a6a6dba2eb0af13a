package agent

import (
	"encoding/json"
	"fmt"
)

// Scroll defaults. The model frequently omits the coordinate or amount on
// scroll requests; these match the values the computer-use tool documents.
const (
	DefaultScrollX      = 640
	DefaultScrollY      = 400
	DefaultScrollAmount = 3

	// ScrollUnitPx converts a scroll amount in tool units to a mouse wheel
	// delta in pixels. Applied at dispatch time, not during translation.
	ScrollUnitPx = 100
)

// Action is a normalized browser action extracted from a tool use input.
type Action interface {
	// kind returns the per-action discriminator used by the {"actions":[...]}
	// wire shape.
	kind() string
}

type ClickAction struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type TypeAction struct {
	Text string `json:"text"`
}

type KeyAction struct {
	Key string `json:"key"`
}

type ScrollAction struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Direction string `json:"direction"`
	Amount    int    `json:"amount"`
}

// ScreenshotAction requests a fresh observation. It is a no-op at dispatch
// time because the loop captures a screenshot after every tool call anyway.
type ScreenshotAction struct{}

// UnknownAction preserves an input the translator did not recognize. It is
// skipped at dispatch time.
type UnknownAction struct {
	Raw json.RawMessage `json:"raw"`
}

func (ClickAction) kind() string      { return "click" }
func (TypeAction) kind() string       { return "type" }
func (KeyAction) kind() string        { return "key" }
func (ScrollAction) kind() string     { return "scroll" }
func (ScreenshotAction) kind() string { return "screenshot" }
func (UnknownAction) kind() string    { return "unknown" }

// WheelDelta returns the vertical mouse wheel delta for the scroll, in
// pixels. Direction "up" negates the magnitude; a missing amount falls back
// to DefaultScrollAmount.
func (s ScrollAction) WheelDelta() float64 {
	amount := s.Amount
	if amount == 0 {
		amount = DefaultScrollAmount
	}
	delta := float64(amount * ScrollUnitPx)
	if s.Direction == "up" {
		delta = -delta
	}
	return delta
}

// toolInput covers every input shape the computer tool has used across its
// revisions. Fields that can legitimately hold more than one JSON type are
// kept raw and inspected during translation.
type toolInput struct {
	Actions []json.RawMessage `json:"actions"`
	Click   *struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"click"`
	Type json.RawMessage `json:"type"`
	Key  json.RawMessage `json:"key"`

	// Legacy single-action shape used by the synchronous variant of the
	// computer tool.
	Action     string `json:"action"`
	Coordinate []int  `json:"coordinate"`
	Text       string `json:"text"`
	Direction  string `json:"direction"`
	Amount     *int   `json:"amount"`
}

// ParseActions normalizes a tool use input into an ordered list of actions.
// It is pure and total: malformed input yields no actions, and unrecognized
// shapes yield UnknownAction rather than an error. Input shapes are matched
// in a fixed precedence order; the first match wins.
func ParseActions(raw json.RawMessage) []Action {
	raw = unquoteInput(raw)
	if len(raw) == 0 {
		return nil
	}

	var input toolInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil
	}

	switch {
	case input.Actions != nil:
		actions := make([]Action, 0, len(input.Actions))
		for _, element := range input.Actions {
			actions = append(actions, parseActionElement(element))
		}
		return actions

	case input.Click != nil:
		return []Action{ClickAction{X: input.Click.X, Y: input.Click.Y}}

	case isJSONString(input.Type):
		var text string
		if err := json.Unmarshal(input.Type, &text); err != nil {
			return []Action{UnknownAction{Raw: raw}}
		}
		return []Action{TypeAction{Text: text}}

	case isJSONString(input.Key):
		var key string
		if err := json.Unmarshal(input.Key, &key); err != nil {
			return []Action{UnknownAction{Raw: raw}}
		}
		return []Action{KeyAction{Key: key}}

	case input.Action != "":
		return []Action{parseLegacyAction(input, raw)}

	default:
		return []Action{UnknownAction{Raw: raw}}
	}
}

// parseLegacyAction handles the {"action": ..., "coordinate": [...]} shape.
func parseLegacyAction(input toolInput, raw json.RawMessage) Action {
	switch input.Action {
	case "screenshot":
		return ScreenshotAction{}
	case "click":
		x, y := coordinateOrDefault(input.Coordinate, 0, 0)
		return ClickAction{X: x, Y: y}
	case "type":
		return TypeAction{Text: input.Text}
	case "key":
		var key string
		if isJSONString(input.Key) {
			_ = json.Unmarshal(input.Key, &key)
		}
		return KeyAction{Key: key}
	case "scroll":
		x, y := coordinateOrDefault(input.Coordinate, DefaultScrollX, DefaultScrollY)
		direction := input.Direction
		if direction == "" {
			direction = "down"
		}
		amount := DefaultScrollAmount
		if input.Amount != nil {
			amount = *input.Amount
		}
		return ScrollAction{X: x, Y: y, Direction: direction, Amount: amount}
	default:
		return UnknownAction{Raw: raw}
	}
}

// parseActionElement decodes one element of an {"actions": [...]} list. Each
// element carries a "type" discriminator.
func parseActionElement(element json.RawMessage) Action {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(element, &probe); err != nil {
		return UnknownAction{Raw: element}
	}

	switch probe.Type {
	case "click":
		var a ClickAction
		if err := json.Unmarshal(element, &a); err != nil {
			return UnknownAction{Raw: element}
		}
		return a
	case "type":
		var a TypeAction
		if err := json.Unmarshal(element, &a); err != nil {
			return UnknownAction{Raw: element}
		}
		return a
	case "key":
		var a KeyAction
		if err := json.Unmarshal(element, &a); err != nil {
			return UnknownAction{Raw: element}
		}
		return a
	case "scroll":
		var a ScrollAction
		if err := json.Unmarshal(element, &a); err != nil {
			return UnknownAction{Raw: element}
		}
		return a
	case "screenshot":
		return ScreenshotAction{}
	default:
		return UnknownAction{Raw: element}
	}
}

// EncodeActions renders an action list back into the {"actions": [...]} wire
// shape. Decoding the result with ParseActions yields an equal sequence.
func EncodeActions(actions []Action) (json.RawMessage, error) {
	elements := make([]json.RawMessage, 0, len(actions))
	for _, action := range actions {
		element, err := encodeActionElement(action)
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
	return json.Marshal(struct {
		Actions []json.RawMessage `json:"actions"`
	}{Actions: elements})
}

func encodeActionElement(action Action) (json.RawMessage, error) {
	if unknown, ok := action.(UnknownAction); ok {
		// Unknown inputs round-trip verbatim.
		return unknown.Raw, nil
	}

	body, err := json.Marshal(action)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s action: %w", action.kind(), err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to re-read %s action: %w", action.kind(), err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	fields["type"] = json.RawMessage(fmt.Sprintf("%q", action.kind()))
	return json.Marshal(fields)
}

// unquoteInput unwraps inputs that arrive as a JSON string containing a
// serialized document. Anything that fails to decode is returned empty so the
// caller degrades to an empty action set.
func unquoteInput(raw json.RawMessage) json.RawMessage {
	if !isJSONString(raw) {
		return raw
	}
	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return nil
	}
	if !json.Valid([]byte(inner)) {
		return nil
	}
	return json.RawMessage(inner)
}

func coordinateOrDefault(coordinate []int, defaultX, defaultY int) (int, int) {
	if len(coordinate) < 2 {
		return defaultX, defaultY
	}
	return coordinate[0], coordinate[1]
}

func isJSONString(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b == '"'
		}
	}
	return false
}
