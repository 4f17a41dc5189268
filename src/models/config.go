package models

// MConfig Structure
type MConfig struct {
	Name          string         `yaml:"name"`
	Host          string         `yaml:"host"`
	Port          int            `yaml:"port"`
	GrpcPort      int            `yaml:"grpc_port"`
	DefaultWindow string         `yaml:"default_window"`
	Log           MLogConfig     `yaml:"log"`
	Network       MNetworkConfig `yaml:"network"`
	Catalog       MCatalogConfig `yaml:"catalog"`
	History       MHistoryConfig `yaml:"history"`
	Storage       MStorageConfig `yaml:"storage"`
}

type MLogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // "text" or "json"
	Output     string `yaml:"output"` // "stdout", "stderr" or "file"
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type MNetworkConfig struct {
	Enabled           bool     `yaml:"enabled"` // proxy rotation
	Proxies           []string `yaml:"proxies"`
	RequestTimeout    int      `yaml:"timeout"`
	MaxRetries        int      `yaml:"retries"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
	Burst             int      `yaml:"burst"`
	UserAgent         string   `yaml:"user_agent"`
}

type MCatalogConfig struct {
	URL         string       `yaml:"url"`
	TTLMinutes  int          `yaml:"ttl_minutes"`
	RefreshCron string       `yaml:"refresh_cron"`
	Cache       MCacheConfig `yaml:"cache"`
}

type MCacheConfig struct {
	Backend       string `yaml:"backend"` // "memory" or "redis"
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type MHistoryConfig struct {
	BaseURL  string `yaml:"base_url"`
	Interval string `yaml:"interval"`
}

type MStorageConfig struct {
	Enabled            bool   `yaml:"enabled"`
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}
