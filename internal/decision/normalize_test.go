package decision

import (
	"errors"
	"testing"
)

const validPayload = `{"decision":"BUY","confidence":75,"reasoning":["a","b","c"],"suggestion":"Go for it"}`

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "unfenced passes through",
			input: `{"decision":"BUY"}`,
			want:  `{"decision":"BUY"}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"decision\":\"BUY\"}\n```",
			want:  `{"decision":"BUY"}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"decision\":\"BUY\"}\n```",
			want:  `{"decision":"BUY"}`,
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  \n{\"decision\":\"BUY\"}\n  ",
			want:  `{"decision":"BUY"}`,
		},
		{
			name:  "fences without newlines",
			input: "```json{\"decision\":\"BUY\"}```",
			want:  `{"decision":"BUY"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.input); got != tt.want {
				t.Errorf("StripCodeFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseModelOutputValid(t *testing.T) {
	for _, input := range []string{
		validPayload,
		"```json\n" + validPayload + "\n```",
	} {
		d, err := ParseModelOutput(input)
		if err != nil {
			t.Fatalf("ParseModelOutput(%q) error = %v", input, err)
		}
		if d.Decision != VerdictBuy || d.Confidence != 75 {
			t.Errorf("parsed decision = %+v", d)
		}
		if len(d.Reasoning) != 3 || d.Suggestion != "Go for it" {
			t.Errorf("parsed decision = %+v", d)
		}
	}
}

func TestParseModelOutputMalformed(t *testing.T) {
	for _, input := range []string{
		"not json at all",
		"```json\n{truncated",
		"",
	} {
		_, err := ParseModelOutput(input)
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseModelOutput(%q) error = %v, want ErrMalformed", input, err)
		}
	}
}

func TestParseModelOutputStructure(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "invalid enum value",
			input: `{"decision":"MAYBE","confidence":75,"reasoning":["a"],"suggestion":"x"}`,
		},
		{
			name:  "missing decision",
			input: `{"confidence":75,"reasoning":["a"],"suggestion":"x"}`,
		},
		{
			name:  "missing confidence",
			input: `{"decision":"BUY","reasoning":["a","b","c"],"suggestion":"x"}`,
		},
		{
			name:  "confidence as string",
			input: `{"decision":"BUY","confidence":"75","reasoning":["a"],"suggestion":"x"}`,
		},
		{
			name:  "reasoning as string",
			input: `{"decision":"BUY","confidence":75,"reasoning":"because","suggestion":"x"}`,
		},
		{
			name:  "reasoning with non-string entry",
			input: `{"decision":"BUY","confidence":75,"reasoning":["a",2,"c"],"suggestion":"x"}`,
		},
		{
			name:  "suggestion as number",
			input: `{"decision":"BUY","confidence":75,"reasoning":["a"],"suggestion":5}`,
		},
		{
			name:  "top-level array",
			input: `[1,2,3]`,
		},
		{
			name:  "top-level string",
			input: `"BUY"`,
		},
		{
			name:  "confidence above range",
			input: `{"decision":"BUY","confidence":101,"reasoning":["a"],"suggestion":"x"}`,
		},
		{
			name:  "confidence below range",
			input: `{"decision":"BUY","confidence":-1,"reasoning":["a"],"suggestion":"x"}`,
		},
		{
			name:  "missing reasoning",
			input: `{"decision":"BUY","confidence":75,"suggestion":"x"}`,
		},
		{
			name:  "missing suggestion",
			input: `{"decision":"BUY","confidence":75,"reasoning":["a"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModelOutput(tt.input)
			if !errors.Is(err, ErrStructure) {
				t.Errorf("ParseModelOutput() error = %v, want ErrStructure", err)
			}
		})
	}
}

func TestParseModelOutputEmptyReasoningIsSequence(t *testing.T) {
	// The schema requires a sequence, not a particular length; the 3-bullet
	// expectation is advisory to the model.
	d, err := ParseModelOutput(`{"decision":"WAIT","confidence":50,"reasoning":[],"suggestion":"hold"}`)
	if err != nil {
		t.Fatalf("ParseModelOutput() error = %v", err)
	}
	if d.Reasoning == nil || len(d.Reasoning) != 0 {
		t.Errorf("Reasoning = %#v, want empty non-nil slice", d.Reasoning)
	}
}
