package markdown_test

import (
	"readbrief/internal/markdown"
	"testing"
)

func TestEscapeV2(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain", "hello", "hello"},
		{"Punctuation", "a.b!c-d", `a\.b\!c\-d`},
		{"Backslash", `a\b`, `a\\b`},
		{"Link", "[x](https://e.com)", `\[x\]\(https://e\.com\)`},
		{"Multibyte", "📌 一句话总结：好!", `📌 一句话总结：好\!`},
		{"Tags", "#Go #编程", `\#Go \#编程`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := markdown.EscapeV2(test.input); got != test.want {
				t.Errorf("Expected %q, got %q", test.want, got)
			}
		})
	}
}

func TestBold(t *testing.T) {
	if got := markdown.Bold("Read.Brief"); got != `*Read\.Brief*` {
		t.Fatalf("unexpected bold text: %q", got)
	}
}
