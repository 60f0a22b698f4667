package availability

import (
	"path/filepath"
	"testing"
)

func Test_LoadOrCreateAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_key")

	key, err := LoadOrCreateAPIKey(testLogger(), path)
	if err != nil {
		t.Fatalf("LoadOrCreateAPIKey() error = %v", err)
	}
	if len(key) != 32 {
		t.Errorf("generated key length = %d, expected 32", len(key))
	}

	// a second call must return the saved key, not generate a new one
	again, err := LoadOrCreateAPIKey(testLogger(), path)
	if err != nil {
		t.Fatalf("LoadOrCreateAPIKey() error = %v", err)
	}
	if again != key {
		t.Errorf("reloaded key %q does not match generated key %q", again, key)
	}
}
