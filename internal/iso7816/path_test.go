package iso7816

import "testing"

func TestPathCacheMatchPrefix(t *testing.T) {
	tests := []struct {
		name      string
		cached    []byte
		cachedOK  bool
		query     []byte
		wantMatch int
	}{
		{"invalid cache", nil, false, []byte{0x3F, 0x00}, -1},
		{"exact match", []byte{0x3F, 0x00, 0x50, 0x15}, true, []byte{0x3F, 0x00, 0x50, 0x15}, 4},
		{"partial prefix", []byte{0x3F, 0x00}, true, []byte{0x3F, 0x00, 0x50, 0x15}, 2},
		{"no overlap beyond MF", []byte{0x3F, 0x00, 0x50, 0x15}, true, []byte{0x3F, 0x00, 0x60, 0x20}, 2},
		{"query shorter than cache", []byte{0x3F, 0x00, 0x50, 0x15}, true, []byte{0x3F, 0x00}, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cache PathCache
			if tc.cachedOK {
				cache.Set(PathKindPath, tc.cached)
			}
			if got := cache.MatchPrefix(tc.query); got != tc.wantMatch {
				t.Errorf("MatchPrefix(%X) = %d, want %d", tc.query, got, tc.wantMatch)
			}
		})
	}
}

func TestPathCacheMatchPrefixWrongKind(t *testing.T) {
	var cache PathCache
	cache.Set(PathKindDFName, []byte{0xA0, 0x00, 0x00, 0x01})
	if got := cache.MatchPrefix([]byte{0x3F, 0x00}); got != -1 {
		t.Errorf("MatchPrefix against a DF_NAME cache entry = %d, want -1", got)
	}
}

func TestPathCacheInvalidate(t *testing.T) {
	var cache PathCache
	cache.Set(PathKindPath, []byte{0x3F, 0x00})
	if !cache.Valid {
		t.Fatal("cache should be valid after Set")
	}
	cache.Invalidate()
	if cache.Valid {
		t.Fatal("cache should be invalid after Invalidate")
	}
	if cache.MatchPrefix([]byte{0x3F, 0x00}) != -1 {
		t.Error("MatchPrefix should return -1 once invalidated")
	}
}

func TestPathCacheSetCopiesValue(t *testing.T) {
	var cache PathCache
	value := []byte{0x3F, 0x00}
	cache.Set(PathKindPath, value)
	value[0] = 0xFF
	if cache.Path.Value[0] != 0x3F {
		t.Error("Set must copy its input rather than alias it")
	}
}
