package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// CodeInvalidArgument marks a tool call with missing or malformed parameters.
const CodeInvalidArgument = rules.CodeInvalidArgument

// ArgumentError reports a bad tool parameter.
type ArgumentError struct {
	Tool   string
	Param  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: parameter %q %s", e.Tool, e.Param, e.Reason)
}

func (e *ArgumentError) Code() rules.Code { return CodeInvalidArgument }

// Args are the named parameters of a tool call as decoded from JSON.
type Args map[string]any

// paramAliases maps parameter names accepted from older clients to canonical ones.
var paramAliases = map[string]string{
	"property_position": "tile",
	"position":          "tile",
	"player":            "player_name",
}

func (a Args) lookup(name string) (any, bool) {
	if v, ok := a[name]; ok {
		return v, true
	}
	for alias, canonical := range paramAliases {
		if canonical == name {
			if v, ok := a[alias]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// Int reads an integer parameter. JSON numbers, integral floats and numeric
// strings are accepted.
func (a Args) Int(tool, name string) (int, error) {
	v, ok := a.lookup(name)
	if !ok {
		return 0, &ArgumentError{Tool: tool, Param: name, Reason: "is required"}
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, &ArgumentError{Tool: tool, Param: name, Reason: "must be an integer"}
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, &ArgumentError{Tool: tool, Param: name, Reason: "must be an integer"}
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, &ArgumentError{Tool: tool, Param: name, Reason: "must be an integer"}
		}
		return i, nil
	}
	return 0, &ArgumentError{Tool: tool, Param: name, Reason: fmt.Sprintf("has unsupported type %T", v)}
}

// String reads a non-empty string parameter.
func (a Args) String(tool, name string) (string, error) {
	v, ok := a.lookup(name)
	if !ok {
		return "", &ArgumentError{Tool: tool, Param: name, Reason: "is required"}
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", &ArgumentError{Tool: tool, Param: name, Reason: "must be a non-empty string"}
	}
	return s, nil
}
