package randx

import (
	"strings"
	"testing"
)

func TestConnectionIDUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := ConnectionID()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate connection id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestKeySuffix(t *testing.T) {
	suffix, err := KeySuffix()
	if err != nil {
		t.Fatalf("key suffix: %v", err)
	}

	if len(suffix) != KeySuffixLength {
		t.Fatalf("suffix length %d, want %d", len(suffix), KeySuffixLength)
	}

	for _, r := range suffix {
		if !strings.ContainsRune(Base62Chars, r) {
			t.Fatalf("suffix %q contains non-Base62 character %q", suffix, r)
		}
	}
}
