package config

import (
	"reflect"
	"testing"
)

func TestLoadFromEnvironmentOnly(t *testing.T) {
	// No .env file in the directory: everything comes from the process
	// environment, the way a container deployment supplies it.
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_EMAILS", "ops@example.com, lead@example.com,")
	t.Setenv("SMTP_HOST", "mail.example.com")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.JWTSecret != "test-secret" {
		t.Fatalf("JWTSecret = %q", cfg.JWTSecret)
	}
	want := []string{"ops@example.com", "lead@example.com"}
	if !reflect.DeepEqual(cfg.AdminEmails, want) {
		t.Fatalf("AdminEmails = %v, want %v", cfg.AdminEmails, want)
	}
	if cfg.SMTP.Host != "mail.example.com" {
		t.Fatalf("SMTP.Host = %q", cfg.SMTP.Host)
	}
	if cfg.HTTPAddr != ":8080" || cfg.MaintenanceMinutes != 15 {
		t.Fatalf("defaults not applied: addr %q, interval %d", cfg.HTTPAddr, cfg.MaintenanceMinutes)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("load succeeded without JWT_SECRET")
	}
}

func TestSplitList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a@x.com", []string{"a@x.com"}},
		{"a@x.com,b@y.com", []string{"a@x.com", "b@y.com"}},
		{" a@x.com , , b@y.com ", []string{"a@x.com", "b@y.com"}},
	}
	for _, c := range cases {
		if got := splitList(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("splitList(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
