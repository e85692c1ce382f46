package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name" validate:"required"`
	Host       string            `yaml:"host" validate:"required"`
	Port       int               `yaml:"port" validate:"gt=1024,lte=65535"`
	LogLevel   string            `yaml:"log_level" validate:"omitempty,oneof=DEBUG INFO WARNING ERROR debug info warning error"`
	GrpcHost   string            `yaml:"grpc_host"`
	GrpcPort   int               `yaml:"grpc_port" validate:"omitempty,gt=1024,lte=65535"`
	Storage    MStorageConfig    `yaml:"storage"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
	Forecast   MForecastConfig   `yaml:"forecast"`
	Auth       MAuthConfig       `yaml:"auth"`
	Scheduler  MSchedulerConfig  `yaml:"scheduler"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type" validate:"required,oneof=sqlite postgres"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MNetworkConfig struct {
	Proxies        []string `yaml:"proxies"`
	RequestTimeout int      `yaml:"timeout" validate:"gt=0"`
	MaxRetries     int      `yaml:"retries" validate:"gte=0"`
	RateLimit      float64  `yaml:"rate_limit" validate:"gte=0"` // requests per second, 0 = unlimited
	UserAgent      string   `yaml:"user_agent"`
}

type MDataSourceConfig struct {
	CacheTTLSeconds int             `yaml:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxEntries int             `yaml:"cache_max_entries" validate:"gte=0"` // 0 = sized from system memory
	DefaultPeriod   string          `yaml:"default_period" validate:"omitempty,oneof=1mo 3mo 6mo 1y 2y 5y"`
	Sources         []MSourceConfig `yaml:"sources" validate:"min=1,dive"`
}

type MSourceConfig struct {
	Name    string `yaml:"name" validate:"required"`
	Type    string `yaml:"type" validate:"required,oneof=yahoo financego"`
	BaseURL string `yaml:"base_url"` // Optional
}

type MForecastConfig struct {
	MinHistoryBars  int    `yaml:"min_history_bars" validate:"gte=0"`
	MinPreparedRows int    `yaml:"min_prepared_rows" validate:"gte=0"`
	MaxHorizonDays  int    `yaml:"max_horizon_days" validate:"gte=0"`
	StepMode        string `yaml:"step_mode" validate:"omitempty,oneof=calendar trading"`
}

type MAuthConfig struct {
	SessionTTLMinutes int    `yaml:"session_ttl_minutes" validate:"gte=0"`
	SessionSecret     string `yaml:"session_secret"`
	BcryptCost        int    `yaml:"bcrypt_cost" validate:"omitempty,gte=4,lte=31"`
	CookieSecure      bool   `yaml:"cookie_secure"`
}

type MSchedulerConfig struct {
	JanitorCron string `yaml:"janitor_cron"`
}
