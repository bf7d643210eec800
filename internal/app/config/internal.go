package config

type InternalConfig struct {
	App             App                `mapstructure:"app"`
	Assessment      AppAssessment      `mapstructure:"assessment"`
	SubjectProvider AppSubjectProvider `mapstructure:"subject_provider"`
	JWT             AppJWT             `mapstructure:"jwt"`
	Admin           AppAdmin           `mapstructure:"admin"`
}

type App struct {
	Env                        string `mapstructure:"env"`
	Port                       string `mapstructure:"port"`
	Version                    string `mapstructure:"version"`
	Timezone                   string `mapstructure:"timezone"`
	EndpointPrefix             string `mapstructure:"endpoint_prefix"`
	MaxRequests                int    `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds   int    `mapstructure:"shutdown_timeout_in_seconds"`
	RequestTimeoutInSeconds    int    `mapstructure:"request_timeout_in_seconds"`
	RequestBodyLimitInMegabyte int    `mapstructure:"request_body_limit_in_megabyte"`
	// AutosaveRatePerSecond and AutosaveBurst shape the per-session limiter on
	// the answer route. AutosaveBlockSeconds adds a hard block once a session
	// runs dry; 0 disables it.
	AutosaveRatePerSecond int `mapstructure:"autosave_rate_per_second"`
	AutosaveBurst         int `mapstructure:"autosave_burst"`
	AutosaveBlockSeconds  int `mapstructure:"autosave_block_seconds"`

	CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type AppAssessment struct {
	LookbackDays     int    `mapstructure:"lookback_days"`
	LockTTLInSeconds int    `mapstructure:"lock_ttl_in_seconds"`
	SubmittedQueue   string `mapstructure:"submitted_queue"`
	ArchiveBucket    string `mapstructure:"archive_bucket"`
}

type AppSubjectProvider struct {
	BaseUrl          string `mapstructure:"base_url"`
	TimeoutInSeconds int    `mapstructure:"timeout_in_seconds"`
}

type AppJWT struct {
	Secret           string `mapstructure:"secret"`
	ExpTimeInMinutes int    `mapstructure:"exp_time_in_minutes"`
}

type AppAdmin struct {
	// APIKeyHash is the bcrypt hash of the key admin routes accept.
	APIKeyHash string `mapstructure:"api_key_hash"`
}
