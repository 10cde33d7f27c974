package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Environment variables provided by the Cloud Functions runtime, plus the
// database URL variable the recommender deployment has always used.
const (
	envFirebaseConfig = "FIREBASE_CONFIG"
	envCloudProject   = "GOOGLE_CLOUD_PROJECT"
	envGCloudProject  = "GCLOUD_PROJECT"
	envDatabaseURL    = "FIREBASE_DB_URL"
)

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyRuntimeDefaults fills Firebase settings left empty in the config from
// the hosting environment. It returns the keys that were filled so callers can
// log where the values came from.
func ApplyRuntimeDefaults(cfg *Config, lookup LookupFunc) (map[string]string, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}

	applied := make(map[string]string)

	var fbConfig struct {
		ProjectID   string `json:"projectId"`
		DatabaseURL string `json:"databaseURL"`
	}
	if raw, ok := lookup(envFirebaseConfig); ok && strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &fbConfig); err != nil {
			return nil, fmt.Errorf("parse %s: %w", envFirebaseConfig, err)
		}
	}

	if strings.TrimSpace(cfg.Firebase.ProjectID) == "" {
		switch {
		case fbConfig.ProjectID != "":
			cfg.Firebase.ProjectID = fbConfig.ProjectID
			applied["firebase.project_id"] = envFirebaseConfig
		default:
			for _, key := range []string{envCloudProject, envGCloudProject} {
				if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
					cfg.Firebase.ProjectID = strings.TrimSpace(value)
					applied["firebase.project_id"] = key
					break
				}
			}
		}
	}

	if strings.TrimSpace(cfg.Firebase.DatabaseURL) == "" {
		switch {
		case fbConfig.DatabaseURL != "":
			cfg.Firebase.DatabaseURL = fbConfig.DatabaseURL
			applied["firebase.database_url"] = envFirebaseConfig
		default:
			if value, ok := lookup(envDatabaseURL); ok && strings.TrimSpace(value) != "" {
				cfg.Firebase.DatabaseURL = strings.TrimSpace(value)
				applied["firebase.database_url"] = envDatabaseURL
			}
		}
	}

	return applied, nil
}
