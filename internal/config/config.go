package config

import (
	"os"
	"strconv"
)

type Config struct {
	Addr     string
	DataFile string
	// Redis/Postgres override the file store when set.
	RedisURL    string
	DatabaseURL string
	// HistoryDir enables the git audit trail when set.
	HistoryDir string
	// Meilisearch Configuration
	MeiliURL       string
	MeiliMasterKey string
	// Backup (S3-compatible object store) Configuration
	BackupEndpoint  string
	BackupAccessKey string
	BackupSecretKey string
	BackupBucket    string
	BackupUseSSL    bool
	BackupTime      string
}

func Load() Config {
	return Config{
		Addr:           getenv("BOT_ADDR", ":8686"),
		DataFile:       getenv("TRACKER_DATA_FILE", "./data.json"),
		RedisURL:       getenv("REDIS_URL", ""),
		DatabaseURL:    getenv("DATABASE_URL", ""),
		HistoryDir:     getenv("TRACKER_HISTORY_DIR", "./data/history"),
		MeiliURL:       getenv("MEILI_URL", ""),
		MeiliMasterKey: getenv("MEILI_MASTER_KEY", ""),
		// Backup - empty endpoint disables it
		BackupEndpoint:  getenv("BACKUP_ENDPOINT", ""),
		BackupAccessKey: getenv("BACKUP_ACCESS_KEY", ""),
		BackupSecretKey: getenv("BACKUP_SECRET_KEY", ""),
		BackupBucket:    getenv("BACKUP_BUCKET", "gatetracker-backups"),
		BackupUseSSL:    getenvBool("BACKUP_USE_SSL", true),
		BackupTime:      getenv("BACKUP_TIME", "03:00"),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
