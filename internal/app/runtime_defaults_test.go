package app

import "testing"

func envMap(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestApplyRuntimeDefaultsFromFirebaseConfig(t *testing.T) {
	cfg := &Config{}

	applied, err := ApplyRuntimeDefaults(cfg, envMap(map[string]string{
		"FIREBASE_CONFIG":      `{"projectId":"paint-prod","databaseURL":"https://paint-prod.firebaseio.com"}`,
		"GOOGLE_CLOUD_PROJECT": "ignored",
	}))
	if err != nil {
		t.Fatalf("ApplyRuntimeDefaults returned error: %v", err)
	}

	if cfg.Firebase.ProjectID != "paint-prod" {
		t.Fatalf("expected project id from FIREBASE_CONFIG, got %q", cfg.Firebase.ProjectID)
	}
	if cfg.Firebase.DatabaseURL != "https://paint-prod.firebaseio.com" {
		t.Fatalf("expected database url from FIREBASE_CONFIG, got %q", cfg.Firebase.DatabaseURL)
	}
	if applied["firebase.project_id"] != "FIREBASE_CONFIG" || applied["firebase.database_url"] != "FIREBASE_CONFIG" {
		t.Fatalf("unexpected applied map: %#v", applied)
	}
}

func TestApplyRuntimeDefaultsFallsBackToProjectVariables(t *testing.T) {
	cfg := &Config{}

	applied, err := ApplyRuntimeDefaults(cfg, envMap(map[string]string{
		"GCLOUD_PROJECT":  "legacy-project",
		"FIREBASE_DB_URL": " https://legacy.firebaseio.com ",
	}))
	if err != nil {
		t.Fatalf("ApplyRuntimeDefaults returned error: %v", err)
	}

	if cfg.Firebase.ProjectID != "legacy-project" {
		t.Fatalf("expected project id from GCLOUD_PROJECT, got %q", cfg.Firebase.ProjectID)
	}
	if cfg.Firebase.DatabaseURL != "https://legacy.firebaseio.com" {
		t.Fatalf("expected trimmed database url, got %q", cfg.Firebase.DatabaseURL)
	}
	if applied["firebase.project_id"] != "GCLOUD_PROJECT" || applied["firebase.database_url"] != "FIREBASE_DB_URL" {
		t.Fatalf("unexpected applied map: %#v", applied)
	}
}

func TestApplyRuntimeDefaultsPreservesConfiguredValues(t *testing.T) {
	cfg := &Config{}
	cfg.Firebase.ProjectID = "configured"
	cfg.Firebase.DatabaseURL = "https://configured.firebaseio.com"

	applied, err := ApplyRuntimeDefaults(cfg, envMap(map[string]string{
		"FIREBASE_CONFIG": `{"projectId":"other","databaseURL":"https://other.firebaseio.com"}`,
	}))
	if err != nil {
		t.Fatalf("ApplyRuntimeDefaults returned error: %v", err)
	}

	if len(applied) != 0 {
		t.Fatalf("expected no values applied, got %#v", applied)
	}
	if cfg.Firebase.ProjectID != "configured" {
		t.Fatalf("project id was overwritten: %q", cfg.Firebase.ProjectID)
	}
}

func TestApplyRuntimeDefaultsRejectsMalformedFirebaseConfig(t *testing.T) {
	if _, err := ApplyRuntimeDefaults(&Config{}, envMap(map[string]string{"FIREBASE_CONFIG": "{"})); err == nil {
		t.Fatal("expected error for malformed FIREBASE_CONFIG")
	}
	if _, err := ApplyRuntimeDefaults(nil, nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
