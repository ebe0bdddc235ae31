package ai

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// GenerateSchema creates a JSON Schema from the given Go type, suitable for
// structured-output requests.
func GenerateSchema(value any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v := reflect.New(t).Interface()
	return reflector.Reflect(v)
}

// StripCodeFences removes markdown code-fence markers (``` and ```json)
// surrounding a model response.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, "```") {
		return s
	}
	var b strings.Builder
	for line := range strings.Lines(s) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			continue
		}
		b.WriteString(line)
	}
	return strings.TrimSpace(b.String())
}

// ExtractJSONBlock locates the outermost balanced {...} block in raw after
// stripping code fences. Brace counting is string-aware, so explanatory prose
// before or after the JSON object does not confuse it the way a naive
// first-{/last-} scan would. The second return value is false when no
// balanced block exists.
func ExtractJSONBlock(raw string) (string, bool) {
	s := StripCodeFences(raw)

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// UnmarshalFlexible attempts to unmarshal model output into the target with
// multiple fallback strategies: standard JSON first, then double-encoded JSON
// strings, then a best-effort repair pass for malformed output (trailing
// commas, unquoted keys and values).
func UnmarshalFlexible(input string, out any) error {
	input = strings.TrimSpace(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	var asString string
	if err := json.Unmarshal([]byte(input), &asString); err == nil {
		asString = strings.TrimSpace(asString)
		if err := json.Unmarshal([]byte(asString), out); err == nil {
			return nil
		}
		input = asString
	}

	repaired, ok := TryRepairJSON(input)
	if !ok {
		return fmt.Errorf("json repair failed (input: %s)", input)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("unmarshal failed after repair: input=%s repaired=%s", input, repaired)
	}
	return nil
}

// TryRepairJSON runs the best-effort repair heuristic over raw and reports
// whether the result parses as JSON. Callers are expected to fall back to a
// static default when it returns false, never to propagate a parse panic.
func TryRepairJSON(raw string) (string, bool) {
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return "", false
	}
	if !json.Valid([]byte(repaired)) {
		return "", false
	}
	return repaired, true
}
