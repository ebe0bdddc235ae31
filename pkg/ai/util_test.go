package ai

import (
	"testing"
)

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		found bool
	}{
		{
			name:  "plain object",
			raw:   `{"triples": []}`,
			want:  `{"triples": []}`,
			found: true,
		},
		{
			name:  "fenced object",
			raw:   "```json\n{\"triples\": []}\n```",
			want:  `{"triples": []}`,
			found: true,
		},
		{
			name:  "prose before and after",
			raw:   "Here is the result:\n{\"a\": {\"b\": 1}}\nLet me know if you need anything else.",
			want:  `{"a": {"b": 1}}`,
			found: true,
		},
		{
			name:  "brace inside string value",
			raw:   `{"note": "contains } and { inside"} trailing prose`,
			want:  `{"note": "contains } and { inside"}`,
			found: true,
		},
		{
			name:  "escaped quote inside string",
			raw:   `{"note": "a \" quote"} rest`,
			want:  `{"note": "a \" quote"}`,
			found: true,
		},
		{
			name:  "unbalanced",
			raw:   `{"a": 1`,
			found: false,
		},
		{
			name:  "no object",
			raw:   "no json here",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractJSONBlock(tt.raw)
			if found != tt.found {
				t.Fatalf("ExtractJSONBlock() found = %v, want %v", found, tt.found)
			}
			if found && got != tt.want {
				t.Errorf("ExtractJSONBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnmarshalFlexible(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Items []int  `json:"items"`
	}

	tests := []struct {
		name    string
		input   string
		want    payload
		wantErr bool
	}{
		{
			name:  "standard json",
			input: `{"name": "test", "items": [1, 2]}`,
			want:  payload{Name: "test", Items: []int{1, 2}},
		},
		{
			name:  "double encoded",
			input: `"{\"name\": \"test\", \"items\": [1]}"`,
			want:  payload{Name: "test", Items: []int{1}},
		},
		{
			name:  "trailing comma",
			input: `{"name": "test", "items": [1, 2,],}`,
			want:  payload{Name: "test", Items: []int{1, 2}},
		},
		{
			name:  "unquoted keys",
			input: `{name: "test", items: [3]}`,
			want:  payload{Name: "test", Items: []int{3}},
		},
		{
			name:  "unquoted string value",
			input: `{"name": test, "items": []}`,
			want:  payload{Name: "test", Items: []int{}},
		},
		{
			name:    "hopeless input",
			input:   `not even close`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := UnmarshalFlexible(tt.input, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.want.Name {
				t.Errorf("Name = %q, want %q", got.Name, tt.want.Name)
			}
			if len(got.Items) != len(tt.want.Items) {
				t.Fatalf("Items = %v, want %v", got.Items, tt.want.Items)
			}
			for i := range got.Items {
				if got.Items[i] != tt.want.Items[i] {
					t.Errorf("Items[%d] = %d, want %d", i, got.Items[i], tt.want.Items[i])
				}
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	raw := "```json\n{\"a\": 1}\n```"
	if got := StripCodeFences(raw); got != `{"a": 1}` {
		t.Errorf("StripCodeFences() = %q", got)
	}

	plain := `{"a": 1}`
	if got := StripCodeFences(plain); got != plain {
		t.Errorf("StripCodeFences() should not change unfenced input, got %q", got)
	}
}
