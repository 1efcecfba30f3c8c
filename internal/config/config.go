package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, database connection,
// external providers (LLM, search), the generation pipeline, and graceful
// shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// CORSAllowedOrigins lists origins allowed to call the API from a browser
		CORSAllowedOrigins []string `env:"HTTP_CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:"," yaml:"corsAllowedOrigins"` //nolint: lll
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"blogbrain" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// LLM configures the OpenAI-compatible model provider driving the agents
	LLM struct {
		// APIKey authenticates against the model provider
		APIKey string `env:"LLM_API_KEY" yaml:"apiKey"`
		// BaseURL overrides the provider endpoint (empty means the provider default)
		BaseURL string `env:"LLM_BASE_URL" yaml:"baseUrl"`
		// Model names the chat model used by all agents
		Model string `env:"LLM_MODEL" env-default:"gpt-4o-mini" yaml:"model"`
		// MaxSteps bounds the researcher's tool-calling loop
		MaxSteps int `env:"LLM_MAX_STEPS" env-default:"12" yaml:"maxSteps"`
		// ResearcherTemperature is the sampling temperature of the research agent
		ResearcherTemperature float64 `env:"LLM_RESEARCHER_TEMPERATURE" env-default:"0.2" yaml:"researcherTemperature"`
		// StrategistTemperature is the sampling temperature of the content strategist
		StrategistTemperature float64 `env:"LLM_STRATEGIST_TEMPERATURE" env-default:"0.4" yaml:"strategistTemperature"`
		// WriterTemperature is the sampling temperature of the writer
		WriterTemperature float64 `env:"LLM_WRITER_TEMPERATURE" env-default:"0.7" yaml:"writerTemperature"`
		// EditorTemperature is the sampling temperature of the editor
		EditorTemperature float64 `env:"LLM_EDITOR_TEMPERATURE" env-default:"0.3" yaml:"editorTemperature"`
	} `yaml:"llm"`

	// Search configures the Serper.dev search provider
	Search struct {
		// APIKey authenticates against Serper.dev
		APIKey string `env:"SEARCH_API_KEY" yaml:"apiKey"`
		// Timeout bounds a single search request
		Timeout time.Duration `env:"SEARCH_TIMEOUT" env-default:"10s" yaml:"timeout"`
		// MaxRetries bounds transparent retries of transient search failures
		MaxRetries int `env:"SEARCH_MAX_RETRIES" env-default:"3" yaml:"maxRetries"`
	} `yaml:"search"`

	// Research configures the credibility-ranked research tools
	Research struct {
		// MaxResults is the default result count of a multi-source research run
		MaxResults int `env:"RESEARCH_MAX_RESULTS" env-default:"20" yaml:"maxResults"`
		// MinCredibility is the priority floor a source must reach to count towards a verified claim
		MinCredibility float64 `env:"RESEARCH_MIN_CREDIBILITY" env-default:"0.8" yaml:"minCredibility"`
		// MinSources is the default evidence pool size for claim verification
		MinSources int `env:"RESEARCH_MIN_SOURCES" env-default:"3" yaml:"minSources"`
	} `yaml:"research"`

	// Scraper configures web page fetching for the research agent
	Scraper struct {
		// Timeout bounds a single page fetch
		Timeout time.Duration `env:"SCRAPER_TIMEOUT" env-default:"15s" yaml:"timeout"`
		// MaxContentLength caps extracted page content in characters
		MaxContentLength int `env:"SCRAPER_MAX_CONTENT_LENGTH" env-default:"5000" yaml:"maxContentLength"`
	} `yaml:"scraper"`

	// Generator configures the asynchronous generation pipeline
	Generator struct {
		// MaxAttempts is how many times a generation job is tried before the post is marked FAILED
		MaxAttempts int `env:"GENERATOR_MAX_ATTEMPTS" env-default:"3" yaml:"maxAttempts"`
		// Timeout bounds a single generation run end to end
		Timeout time.Duration `env:"GENERATOR_TIMEOUT" env-default:"10m" yaml:"timeout"`
		// ResultCacheTTL is how long a completed post satisfies an identical new request
		ResultCacheTTL time.Duration `env:"GENERATOR_RESULT_CACHE_TTL" env-default:"24h" yaml:"resultCacheTtl"`
		// RateLimitSnooze is how long a job sleeps after an upstream rate limit
		RateLimitSnooze time.Duration `env:"GENERATOR_RATE_LIMIT_SNOOZE" env-default:"1m" yaml:"rateLimitSnooze"`
		// MaxWorkers caps concurrently running generation jobs
		MaxWorkers int `env:"GENERATOR_MAX_WORKERS" env-default:"2" yaml:"maxWorkers"`
	} `yaml:"generator"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
