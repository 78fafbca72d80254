package cache

import "testing"

// TestKeyNormalisation verifies that queries which tokenize to the same term
// set share one cache entry, regardless of spelling, casing, or term order.
func TestKeyNormalisation(t *testing.T) {
	same := [][2]string{
		{"cat sat", "Cat Sat"},
		{"cat sat", "sat cat"},
		{"cat sat", `"cat" sat!`},
		{"cat cat sat", "cat sat"},
	}
	for _, pair := range same {
		if Key(pair[0], 10) != Key(pair[1], 10) {
			t.Errorf("queries %q and %q should share a cache key", pair[0], pair[1])
		}
	}
}

func TestKeyDiffersByTermsAndLimit(t *testing.T) {
	if Key("cat", 10) == Key("dog", 10) {
		t.Error("different queries share a cache key")
	}
	if Key("cat", 10) == Key("cat", 20) {
		t.Error("different limits share a cache key")
	}
}

func TestKeyPrefix(t *testing.T) {
	key := Key("anything", 10)
	if len(key) <= len(keyPrefix) || key[:len(keyPrefix)] != keyPrefix {
		t.Errorf("key %q missing %q prefix used for pattern invalidation", key, keyPrefix)
	}
}
