package models

// MConfig Structure
type MConfig struct {
	Name         string              `yaml:"name"`
	Host         string              `yaml:"host"`
	Port         int                 `yaml:"port"`
	LogLevel     string              `yaml:"log_level"`
	GrpcHost     string              `yaml:"grpc_host"`
	GrpcPort     int                 `yaml:"grpc_port"`
	Server       MServerConfig       `yaml:"server"`
	Storage      MStorageConfig      `yaml:"storage"`
	Network      MNetworkConfig      `yaml:"network"`
	AlphaVantage MAlphaVantageConfig `yaml:"alphavantage"`
	Credentials  MCredentialsConfig  `yaml:"credentials"`
	Charts       MChartsConfig       `yaml:"charts"`
}

type MServerConfig struct {
	AlwaysOKStatus bool     `yaml:"always_ok_status"` // legacy clients expect 200 + {error}
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"` // memory | sqlite | postgres
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	RetentionDays      int    `yaml:"retention_days"`
	MemoryCapacity     int    `yaml:"memory_capacity"`
	CleanupCron        string `yaml:"cleanup_cron"`
}

type MNetworkConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Proxies        []string `yaml:"proxies"`
	RequestTimeout int      `yaml:"timeout"`
	MaxRetries     int      `yaml:"retries"`
	UserAgent      string   `yaml:"user_agent"`
}

type MAlphaVantageConfig struct {
	BaseURL string `yaml:"base_url"`
}

type MCredentialsConfig struct {
	Source     string `yaml:"source"` // file | env | chain
	APIKeyFile string `yaml:"api_key_file"`
	APIKeyEnv  string `yaml:"api_key_env"`
	DotEnvFile string `yaml:"dotenv_file"`
}

type MChartsConfig struct {
	Mode                string  `yaml:"mode"` // full | combined
	MovingAverageWindow int     `yaml:"moving_average_window"`
	HistogramBins       int     `yaml:"histogram_bins"`
	WidthInches         float64 `yaml:"width_inches"`
	HeightInches        float64 `yaml:"height_inches"`
}
