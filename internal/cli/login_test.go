package cli

import "testing"

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid key", "lt_abc123def456", false},
		{"empty key", "", true},
		{"missing prefix", "abc123def456", true},
		{"wrong prefix", "xx_abc123", true},
		{"just prefix", "lt_", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAPIKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAPIKey(%q) err = %v, wantErr = %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestLoginWithKeySavesToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runLogin("http://myhost:9090", "lt_storedkey", ""); err != nil {
		t.Fatalf("login: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "lt_storedkey" {
		t.Errorf("token = %q, want lt_storedkey", cfg.Token)
	}
	if cfg.ServerURL != "http://myhost:9090" {
		t.Errorf("server_url = %q, want saved server flag", cfg.ServerURL)
	}
}

func TestLoginRejectsMalformedKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runLogin("", "not-a-key", ""); err == nil {
		t.Fatal("expected error for malformed key")
	}
}
