package config

import (
	"os"
	"testing"
)

func TestLoad_RequiresMongoURI(t *testing.T) {
	os.Unsetenv("MONGO_URI")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error when MONGO_URI is missing")
	}
}

func TestLoad_WithMongoURI(t *testing.T) {
	os.Setenv("MONGO_URI", "mongodb://localhost:27017")
	defer os.Unsetenv("MONGO_URI")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("expected MONGO_URI to be set, got %s", cfg.MongoURI)
	}

	if cfg.Port != "5000" {
		t.Errorf("expected default port 5000, got %s", cfg.Port)
	}

	if cfg.MongoDB != "clinic" {
		t.Errorf("expected default database 'clinic', got %s", cfg.MongoDB)
	}

	if cfg.UploadDir != "uploads" {
		t.Errorf("expected default upload dir 'uploads', got %s", cfg.UploadDir)
	}
}

func TestLoad_DevJWTSecretDefault(t *testing.T) {
	os.Setenv("MONGO_URI", "mongodb://localhost:27017")
	os.Setenv("ENV", "development")
	os.Unsetenv("JWT_SECRET")
	defer func() {
		os.Unsetenv("MONGO_URI")
		os.Unsetenv("ENV")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected a development JWT secret default")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestConfig_Validate(t *testing.T) {
	c := &Config{Env: "production", JWTSecret: "", UploadDir: "uploads"}
	if err := c.Validate(); err == nil {
		t.Error("expected error for missing JWT_SECRET in production")
	}

	c.JWTSecret = "secret"
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	c.UploadDir = ""
	if err := c.Validate(); err == nil {
		t.Error("expected error for empty upload dir")
	}
}
