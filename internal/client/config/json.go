package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/taskforge/internal/flagx"
	"github.com/dmitrijs2005/taskforge/internal/timex"
)

// JsonConfig is the JSON-file counterpart of Config, using timex.Duration so
// the timeout can be written as "30s" or integer nanoseconds.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, if any. Invalid files panic, matching the other
// components.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.APIBaseURL = c.APIBaseURL
	config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
}
