package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c := Load()

	if c.AppPort != "8080" {
		t.Errorf("AppPort = %s, want 8080", c.AppPort)
	}
	if c.DBDriver != "mysql" {
		t.Errorf("DBDriver = %s, want mysql", c.DBDriver)
	}
	if c.PriceFreshnessSecs != 3600 {
		t.Errorf("PriceFreshnessSecs = %d, want 3600", c.PriceFreshnessSecs)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/test.db")
	t.Setenv("PRICE_FRESHNESS_SECONDS", "60")

	c := Load()
	if c.DBDriver != "sqlite" || c.SQLitePath != "/tmp/test.db" || c.PriceFreshnessSecs != 60 {
		t.Errorf("overrides not applied: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("sqlite config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown driver", func(c *Config) { c.DBDriver = "postgres" }, "unknown DB_DRIVER"},
		{"missing sqlite path", func(c *Config) { c.DBDriver = "sqlite"; c.SQLitePath = "" }, "SQLITE_PATH"},
		{"missing mysql host", func(c *Config) { c.MySQLHost = "" }, "MySQL config"},
		{"bad mysql port", func(c *Config) { c.MySQLPort = "not-a-port" }, "MYSQL_PORT"},
		{"zero freshness", func(c *Config) { c.PriceFreshnessSecs = 0 }, "PRICE_FRESHNESS_SECONDS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Load()
			tc.mutate(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %v, want mention of %s", err, tc.wantErr)
			}
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	c := Load()
	dsn := c.MySQLDSN()
	if !strings.Contains(dsn, "@tcp(mysql:3306)/agrifund") || !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("dsn = %s", dsn)
	}
}
