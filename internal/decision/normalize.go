package decision

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Parse errors are distinct error kinds so the handler can map them to the
// right client-facing 502 variant.
var (
	// ErrMalformed means the model output was not valid JSON even after
	// fence stripping.
	ErrMalformed = errors.New("model output is not valid JSON")
	// ErrStructure means the JSON parsed but does not match the decision
	// schema.
	ErrStructure = errors.New("model output does not match the decision schema")
)

var (
	jsonFenceRe = regexp.MustCompile("```json\n?")
	fenceRe     = regexp.MustCompile("```\n?")
)

// StripCodeFences removes markdown code-fence wrapping from raw model output.
// Best-effort: anything still unparsable afterwards is reported by
// ParseModelOutput as ErrMalformed.
func StripCodeFences(s string) string {
	s = jsonFenceRe.ReplaceAllString(s, "")
	s = fenceRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParseModelOutput normalizes and structurally validates raw model output.
// Only JSON syntax failures are ErrMalformed; a document that parses but has
// missing, wrong-typed, or out-of-range fields is ErrStructure. Length caps
// on reasoning and suggestion are advisory to the model and not enforced
// here.
func ParseModelOutput(raw string) (*Decision, error) {
	cleaned := StripCodeFences(raw)

	var top any
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	obj, ok := top.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrStructure)
	}

	var d Decision

	verdict, ok := obj["decision"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: decision missing or not a string", ErrStructure)
	}
	switch verdict {
	case VerdictBuy, VerdictWait, VerdictNo:
	default:
		return nil, fmt.Errorf("%w: decision %q", ErrStructure, verdict)
	}
	d.Decision = verdict

	confidence, ok := obj["confidence"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: confidence missing or not a number", ErrStructure)
	}
	if confidence < 0 || confidence > 100 {
		return nil, fmt.Errorf("%w: confidence %v out of range", ErrStructure, confidence)
	}
	d.Confidence = confidence

	rawReasons, ok := obj["reasoning"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: reasoning missing or not a sequence", ErrStructure)
	}
	reasons := make([]string, 0, len(rawReasons))
	for _, r := range rawReasons {
		s, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("%w: reasoning contains a non-string entry", ErrStructure)
		}
		reasons = append(reasons, s)
	}
	d.Reasoning = reasons

	suggestion, ok := obj["suggestion"].(string)
	if !ok || suggestion == "" {
		return nil, fmt.Errorf("%w: suggestion missing", ErrStructure)
	}
	d.Suggestion = suggestion

	return &d, nil
}
