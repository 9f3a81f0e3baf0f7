package config

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/logger"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
		check   func(t *testing.T, c Config)
	}{
		{
			name: "defaults",
			env:  map[string]string{"DB_DSN": "postgres://lab", "JWT_SECRET": "s"},
			check: func(t *testing.T, c Config) {
				if c.Port != "8080" || c.DBDriver != "postgres" || c.TokenTTL != 24*time.Hour {
					t.Errorf("config = %+v", c)
				}
				if !c.TreatMissingAsNotFound || c.PasswordStrengthChecks {
					t.Errorf("option defaults = %+v", c)
				}
				if c.LoginFailureDelay != time.Second || c.IsProduction() {
					t.Errorf("login delay %v, production %v", c.LoginFailureDelay, c.IsProduction())
				}
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"DB_DSN": "file:lab.db", "JWT_SECRET": "s", "DB_DRIVER": "SQLite",
				"APP_ENV": "production", "TREAT_MISSING_AS_NOT_FOUND": "false", "TOKEN_TTL": "2h",
			},
			check: func(t *testing.T, c Config) {
				if c.DBDriver != "sqlite" || !c.IsProduction() || c.TreatMissingAsNotFound || c.TokenTTL != 2*time.Hour {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{name: "missing dsn", env: map[string]string{"JWT_SECRET": "s"}, wantErr: "DB_DSN"},
		{name: "missing secret", env: map[string]string{"DB_DSN": "x"}, wantErr: "JWT_SECRET"},
		{name: "bad driver", env: map[string]string{"DB_DSN": "x", "JWT_SECRET": "s", "DB_DRIVER": "mysql"}, wantErr: "DB_DRIVER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DB_DSN", "JWT_SECRET", "DB_DRIVER", "APP_ENV", "TREAT_MISSING_AS_NOT_FOUND", "TOKEN_TTL"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Load error = %v, expected mention of %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestMigrationsAndSeedAdmin(t *testing.T) {
	db, err := Connect("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatal(err)
	}
	defer Close(db)

	if err := Migrations(db); err != nil {
		t.Fatalf("Migrations: %v", err)
	}
	// a second run is a no-op
	if err := Migrations(db); err != nil {
		t.Fatalf("Migrations rerun: %v", err)
	}

	cfg := Config{SeedAdminUsername: "root_admin", SeedAdminPassword: "secret1"}
	for i := 0; i < 2; i++ {
		if err := SeedAdmin(db, cfg, logger.Nop()); err != nil {
			t.Fatalf("SeedAdmin #%d: %v", i+1, err)
		}
	}
	var users []models.User
	db.Find(&users)
	if len(users) != 1 || users[0].Role != models.RoleAdmin {
		t.Errorf("users = %+v", users)
	}

	if err := SeedAdmin(db, Config{}, logger.Nop()); err != nil {
		t.Errorf("SeedAdmin without credentials: %v", err)
	}
}
