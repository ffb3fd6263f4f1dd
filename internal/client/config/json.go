package config

import (
	"encoding/json"
	"os"

	"github.com/EmySim/mdd/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling; parsed
// values are copied into the runtime Config.
type JsonConfig struct {
	ServerBaseURL string `json:"server_base_url"`
	CachePath     string `json:"cache_path"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// comes from the -c/-config flags (flagx.JsonConfigFlags). Missing flag
// means no JSON is loaded. Empty JSON fields keep the current value.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later
// stages override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.CachePath != "" {
		cfg.CachePath = jc.CachePath
	}
}
