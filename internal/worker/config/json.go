package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/taskforge/internal/flagx"
	"github.com/dmitrijs2005/taskforge/internal/timex"
)

// JsonConfig is the JSON-file counterpart of Config, using timex.Duration so
// intervals can be written as "5m" or integer nanoseconds.
type JsonConfig struct {
	APIBaseURL      string         `json:"api_base_url"`
	ServiceUser     string         `json:"service_user"`
	ServicePassword string         `json:"service_password"`
	PollInterval    timex.Duration `json:"poll_interval"`
	MaxAttempts     int            `json:"max_attempts"`
	Once            bool           `json:"once"`
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
	config.ServiceUser = c.ServiceUser
	config.ServicePassword = c.ServicePassword
	config.PollInterval = time.Duration(c.PollInterval.Duration)
	config.MaxAttempts = c.MaxAttempts
	config.Once = c.Once
}
