package config

// AdminConfig holds the optional admin HTTP server settings.
type AdminConfig struct {
	Enabled         bool `yaml:"enabled" koanf:"enabled"`
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// Config is the top-level lifebot configuration, corresponding to
// .lifebot.yml.
type Config struct {
	BotToken      string      `yaml:"bot_token" koanf:"bot_token"`
	BotSecret     string      `yaml:"bot_secret" koanf:"bot_secret"`
	APIBaseURL    string      `yaml:"api_base_url" koanf:"api_base_url"`
	PollTimeout   int         `yaml:"poll_timeout" koanf:"poll_timeout"`
	SubmitTimeout int         `yaml:"submit_timeout" koanf:"submit_timeout"`
	DataDir       string      `yaml:"data_dir" koanf:"data_dir"`
	Admin         AdminConfig `yaml:"admin" koanf:"admin"`
}

// DefaultConfig returns a Config with sensible defaults. The bot token and
// secret have no defaults; they must come from the config file or the
// environment.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:    "https://localhost:3000/api",
		PollTimeout:   50,
		SubmitTimeout: 30,
		DataDir:       ".lifebot",
		Admin: AdminConfig{
			Enabled: false,
			Port:    8090,
		},
	}
}
