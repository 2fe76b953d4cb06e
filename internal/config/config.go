package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration. It is constructed once at
// process start and passed into component constructors; no package keeps
// a client initialized from the environment at import time.
type Config struct {
	App        App        `mapstructure:"app"`
	Scraper    Scraper    `mapstructure:"scraper"`
	AI         AI         `mapstructure:"ai"`
	Audio      Audio      `mapstructure:"audio"`
	AWS        AWS        `mapstructure:"aws"`
	Supabase   Supabase   `mapstructure:"supabase"`
	Email      Email      `mapstructure:"email"`
	Telegram   Telegram   `mapstructure:"telegram"`
	Podcast    Podcast    `mapstructure:"podcast"`
	Site       Site       `mapstructure:"site"`
}

// App holds general application configuration.
type App struct {
	Debug        bool   `mapstructure:"debug"`
	DataDir      string `mapstructure:"data_dir"`      // json-rss root
	SummariesDir string `mapstructure:"summaries_dir"` // weekly summaries folder
	ConfigFile   string `mapstructure:"config_file"`
}

// Scraper holds vatican.va crawl configuration.
type Scraper struct {
	BaseURL      string   `mapstructure:"base_url"`
	CacheDir     string   `mapstructure:"cache_dir"`
	LinksDir     string   `mapstructure:"links_dir"`
	Pope         string   `mapstructure:"pope"`
	Languages    []string `mapstructure:"languages"`
	MinDelaySecs float64  `mapstructure:"min_delay_secs"`
	MaxDelaySecs float64  `mapstructure:"max_delay_secs"`
	TimeoutSecs  int      `mapstructure:"timeout_secs"`
}

// AI holds LLM configuration.
type AI struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	Model        string `mapstructure:"model"`
}

// Audio holds synthesis admission policy and chunking limits.
type Audio struct {
	MinChars  int `mapstructure:"min_chars"`  // below this, no episode
	MaxChars  int `mapstructure:"max_chars"`  // above this, skipped entirely
	ChunkSize int `mapstructure:"chunk_size"` // per Polly call
}

// AWS holds region, bucket and Cognito pool configuration.
type AWS struct {
	Region     string `mapstructure:"region"`
	Bucket     string `mapstructure:"bucket"`
	UserPoolID string `mapstructure:"user_pool_id"`
}

// Supabase holds hosted database credentials.
type Supabase struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// Email holds SMTP credentials and sender identity.
type Email struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	FromName string `mapstructure:"from_name"`
}

// Telegram holds Bot API credentials.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// Podcast holds the feed channel constants.
type Podcast struct {
	Title       string `mapstructure:"title"`
	Link        string `mapstructure:"link"`
	Description string `mapstructure:"description"`
	Language    string `mapstructure:"language"`
	Author      string `mapstructure:"author"`
	Image       string `mapstructure:"image"`
	AudioBase   string `mapstructure:"audio_base"`
	ImageBase   string `mapstructure:"image_base"`
}

// Site holds static site build configuration.
type Site struct {
	BaseURL  string `mapstructure:"base_url"`
	BuildDir string `mapstructure:"build_dir"`
}

var loaded *Config

// Load reads configuration from an optional YAML file, a local .env file
// and the environment, in that order of increasing precedence. Missing
// required settings return an error; callers treat that as fatal.
func Load(cfgFile string) (*Config, error) {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("iglesia")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.App.ConfigFile = v.ConfigFileUsed()

	loaded = &cfg
	return &cfg, nil
}

// Get returns the last loaded configuration. It panics if Load was never
// called; commands always load before constructing components.
func Get() *Config {
	if loaded == nil {
		panic("config.Get called before config.Load")
	}
	return loaded
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.data_dir", "json-rss")
	v.SetDefault("app.summaries_dir", "summaries")

	v.SetDefault("scraper.base_url", "https://www.vatican.va/")
	v.SetDefault("scraper.cache_dir", "cache")
	v.SetDefault("scraper.links_dir", "links")
	v.SetDefault("scraper.pope", "leo-xiv")
	v.SetDefault("scraper.languages", []string{"es"})
	v.SetDefault("scraper.min_delay_secs", 1.0)
	v.SetDefault("scraper.max_delay_secs", 3.0)
	v.SetDefault("scraper.timeout_secs", 15)

	v.SetDefault("ai.model", "gemini-flash-lite-latest")

	v.SetDefault("audio.min_chars", 750)
	v.SetDefault("audio.max_chars", 10000)
	v.SetDefault("audio.chunk_size", 3000)

	v.SetDefault("aws.region", "us-east-1")

	v.SetDefault("email.host", "smtp.gmail.com")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.from_name", "Igles-IA")

	v.SetDefault("podcast.title", "Homilías Papa León XIV")
	v.SetDefault("podcast.link", "https://igles-ia.es/podcast")
	v.SetDefault("podcast.description",
		"Podcast con los discursos y homilías del Santo Padre íntegras. Leídos con locutor profesional gracias a la IA.")
	v.SetDefault("podcast.language", "es")
	v.SetDefault("podcast.author", "igles-ia.es")
	v.SetDefault("podcast.image", "https://igles-ia.es/images/podcast-cover.jpg")
	v.SetDefault("podcast.audio_base", "https://igles-ia.es/audio/")
	v.SetDefault("podcast.image_base", "https://igles-ia.es/images/episodios/")

	v.SetDefault("site.base_url", "https://igles-ia.es")
	v.SetDefault("site.build_dir", "build")
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("ai.gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("aws.region", "AWS_DEFAULT_REGION")
	_ = v.BindEnv("aws.bucket", "S3_BUCKET_NAME")
	_ = v.BindEnv("aws.user_pool_id", "USER_POOL_ID")
	_ = v.BindEnv("supabase.url", "SUPABASE_URL")
	_ = v.BindEnv("supabase.service_key", "SUPABASE_SERVICE_KEY")
	_ = v.BindEnv("email.user", "SMTP_USER")
	_ = v.BindEnv("email.password", "SMTP_PASS")
	_ = v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	_ = v.BindEnv("app.summaries_dir", "SUMMARIES_FOLDER")
}

// RequireSupabase validates that Supabase credentials are present.
func (c *Config) RequireSupabase() error {
	if c.Supabase.URL == "" || c.Supabase.ServiceKey == "" {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set")
	}
	return nil
}

// RequireBucket validates that the audio bucket is configured.
func (c *Config) RequireBucket() error {
	if c.AWS.Bucket == "" {
		return fmt.Errorf("S3_BUCKET_NAME must be set")
	}
	return nil
}

// RequireGemini validates that the LLM API key is present.
func (c *Config) RequireGemini() error {
	if c.AI.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY must be set")
	}
	return nil
}

// RequireSMTP validates that SMTP credentials are present.
func (c *Config) RequireSMTP() error {
	if c.Email.User == "" || c.Email.Password == "" {
		return fmt.Errorf("SMTP_USER and SMTP_PASS must be set")
	}
	return nil
}

// RequireCognito validates that the subscriber pool is configured.
func (c *Config) RequireCognito() error {
	if c.AWS.UserPoolID == "" {
		return fmt.Errorf("USER_POOL_ID must be set")
	}
	return nil
}
