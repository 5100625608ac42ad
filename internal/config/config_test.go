package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8686" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DataFile != "./data.json" {
		t.Errorf("DataFile = %q", cfg.DataFile)
	}
	if cfg.BackupBucket != "gatetracker-backups" || cfg.BackupTime != "03:00" {
		t.Errorf("backup defaults = %q %q", cfg.BackupBucket, cfg.BackupTime)
	}
	if !cfg.BackupUseSSL {
		t.Error("BackupUseSSL should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_ADDR", ":9999")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("BACKUP_USE_SSL", "false")

	cfg := Load()
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.BackupUseSSL {
		t.Error("BackupUseSSL override ignored")
	}
}

func TestGetenvBoolBadValueFallsBack(t *testing.T) {
	t.Setenv("BACKUP_USE_SSL", "certainly")
	if !Load().BackupUseSSL {
		t.Error("unparseable bool should fall back to default")
	}
}
