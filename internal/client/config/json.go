package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/jobcontrolroom/jobctl/internal/flagx"
	"github.com/jobcontrolroom/jobctl/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "15s" or as integer nanoseconds.
type JsonConfig struct {
	BackendBaseURL string         `json:"backend_base_url"`
	StateDBPath    string         `json:"state_db_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	Environment    string         `json:"environment"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// is given via the -c/-config flags. When no path is given, nothing
// happens. Only fields present in the file override the current values.
// Read or unmarshal errors panic; the entrypoint treats a broken explicit
// config file as fatal.
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

	if jc.BackendBaseURL != "" {
		cfg.BackendBaseURL = jc.BackendBaseURL
	}
	if jc.StateDBPath != "" {
		cfg.StateDBPath = jc.StateDBPath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.Environment != "" {
		cfg.Environment = jc.Environment
	}
}
