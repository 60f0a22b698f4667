// Package locations persists the rider's configured reference points, the
// places trips start and end, in a small json config file.
package locations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// HomeKey and WorkKey are the two location roles the trip engine fuses: the
// morning trip runs Home to Work, the rest of the day Work to Home.
const (
	HomeKey = "Home"
	WorkKey = "Work"
)

// Location is one configured reference point
type Location struct {
	Lat     float64 `koanf:"lat" json:"lat"`
	Lon     float64 `koanf:"lon" json:"lon"`
	Address string  `koanf:"address" json:"address"`
}

// DefaultPath returns the config file location in the user's home directory
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to locate home directory: %w", err)
	}
	return filepath.Join(home, ".bikecast_config.json"), nil
}

// Load reads the location config file at path.
// Returns an empty map when the file does not exist yet.
func Load(path string) (map[string]Location, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]Location{}, nil
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), koanfjson.Parser()); err != nil {
		return nil, fmt.Errorf("unable to load location config at %s: %w", path, err)
	}
	results := map[string]Location{}
	if err := k.Unmarshal("", &results); err != nil {
		return nil, fmt.Errorf("unable to parse location config at %s: %w", path, err)
	}
	return results, nil
}

// Save writes the location config file at path
func Save(path string, configured map[string]Location) error {
	jsonData, err := json.MarshalIndent(configured, "", "    ")
	if err != nil {
		return fmt.Errorf("unable to marshal location config: %w", err)
	}
	return os.WriteFile(path, jsonData, 0600)
}

// HasHomeAndWork reports whether both required roles are configured
func HasHomeAndWork(configured map[string]Location) bool {
	_, homePresent := configured[HomeKey]
	_, workPresent := configured[WorkKey]
	return homePresent && workPresent
}
