package config

// Config represents the complete configuration structure
type Config struct {
	RTBHouse RTBHouseConfig `mapstructure:"rtbhouse"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// RTBHouseConfig holds panel API credentials and connection details
type RTBHouseConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	// RequestTimeout is the per-request timeout in seconds.
	RequestTimeout int `mapstructure:"request_timeout"`
}

// FilterConfig contains the default row filter and named presets
type FilterConfig struct {
	DefaultExpression string            `mapstructure:"default"`
	Presets           map[string]string `mapstructure:"presets"`
}

// OutputConfig controls how command results are printed
type OutputConfig struct {
	ShowDetails bool `mapstructure:"show_details"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
