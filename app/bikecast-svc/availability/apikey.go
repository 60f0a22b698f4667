package availability

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	logger "log"
	"os"
	"strings"
)

// LoadOrCreateAPIKey reads the service api key at path, generating and
// saving a new one on first run so the service is never left unprotected.
func LoadOrCreateAPIKey(log *logger.Logger, path string) (string, error) {
	contents, err := os.ReadFile(path)
	if err == nil {
		key := strings.TrimSpace(string(contents))
		if len(key) > 0 {
			return key, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("unable to read api key at %s: %w", path, err)
	}

	keyBytes := make([]byte, 16)
	if _, err = rand.Read(keyBytes); err != nil {
		return "", fmt.Errorf("unable to generate api key: %w", err)
	}
	key := hex.EncodeToString(keyBytes)
	if err = os.WriteFile(path, []byte(key+"\n"), 0600); err != nil {
		return "", fmt.Errorf("unable to save api key at %s: %w", path, err)
	}
	log.Printf("generated new api key at %s", path)
	return key, nil
}
