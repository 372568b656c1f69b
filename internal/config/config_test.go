package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("DB_PASSWORD", "test_password")
	os.Setenv("JWT_SECRET_KEY", "this_is_a_test_secret_key_with_32_chars_minimum")
	os.Setenv("GAME_COST", "250")
	defer func() {
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("JWT_SECRET_KEY")
		os.Unsetenv("GAME_COST")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DBPassword != "test_password" {
		t.Errorf("DBPassword = %q, want %q", cfg.DBPassword, "test_password")
	}

	if cfg.GameCost != 250 {
		t.Errorf("GameCost = %d, want 250", cfg.GameCost)
	}

	if cfg.CodeLength != 16 {
		t.Errorf("CodeLength = %d, want default 16", cfg.CodeLength)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name: "Missing DB_PASSWORD",
			envVars: map[string]string{
				"JWT_SECRET_KEY": "this_is_a_test_secret_key_with_32_chars_minimum",
			},
		},
		{
			name: "Missing JWT_SECRET_KEY",
			envVars: map[string]string{
				"DB_PASSWORD": "password",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			_, err := LoadConfig()
			if err == nil {
				t.Error("LoadConfig() expected error for missing required field, got nil")
			}
		})
	}
}

func TestValidate_JWTSecretTooShort(t *testing.T) {
	cfg := &Config{
		DBPassword: "password",
		JWTSecret:  "short",
		GameCost:   100,
		CodeLength: 16,
	}

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for short JWT secret, got nil")
	}
}

func TestValidate_GameCost(t *testing.T) {
	tests := []struct {
		name    string
		cost    int64
		wantErr bool
	}{
		{name: "Positive cost", cost: 1, wantErr: false},
		{name: "Zero cost", cost: 0, wantErr: true},
		{name: "Negative cost", cost: -5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DBPassword: "password",
				JWTSecret:  "this_is_a_test_secret_key_with_32_chars_minimum",
				GameCost:   tt.cost,
				CodeLength: 16,
			}

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateProductionSecurity(t *testing.T) {
	cfg := &Config{
		AppEnv:     "production",
		DBSSLMode:  "disable",
		DBPassword: "password",
		JWTSecret:  "this_is_a_test_secret_key_with_32_chars_minimum",
		GameCost:   100,
		CodeLength: 16,
	}

	if err := cfg.ValidateProductionSecurity(); err == nil {
		t.Error("ValidateProductionSecurity() expected error for sslmode=disable, got nil")
	}

	cfg.AppEnv = "development"
	if err := cfg.ValidateProductionSecurity(); err != nil {
		t.Errorf("ValidateProductionSecurity() in development = %v, want nil", err)
	}
}
