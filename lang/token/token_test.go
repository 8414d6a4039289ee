package token

import (
	"strings"
	"testing"
)

func TestTokenString(t *testing.T) {
	for tok := ILLEGAL; tok < maxToken; tok++ {
		if tokenNames[tok] == "" {
			t.Errorf("missing string representation of token %d", tok)
		}
	}
}

func TestTokenGoString(t *testing.T) {
	if got := PLUS.GoString(); got != "'+'" {
		t.Errorf("want quoted punctuation, got %q", got)
	}
	if got := LET.GoString(); strings.Contains(got, "'") {
		t.Errorf("keyword GoString should not be quoted, got %q", got)
	}
}

func TestKeywords(t *testing.T) {
	for word, tok := range Keywords {
		if got := tok.String(); got != word {
			t.Errorf("Keywords[%q] = %v, String() = %q", word, tok, got)
		}
	}
}
