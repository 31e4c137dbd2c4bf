package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Storage backend identifiers.
const (
	FileBackend   = "file"
	SQLiteBackend = "sqlite"
	RedisBackend  = "redis"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string        `yaml:"git_commit" envconfig:"DLIB_GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"DLIB_GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"DLIB_BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"DLIB_IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"DLIB_LOG_LEVEL"`
	LogFolder          string        `yaml:"log_folder" envconfig:"DLIB_LOG_FOLDER"`
	LogMaxSize         int           `yaml:"log_max_size" envconfig:"DLIB_LOG_MAX_SIZE"`
	ProfilerEnable     bool          `yaml:"profiler_enable" envconfig:"DLIB_PROFILER_ENABLE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"DLIB_OPS_ENDPOINTS_ENABLE"`
	Server             ServerConfig  `yaml:"server"`
	Storage            StorageConfig `yaml:"storage"`
	SQLite             SQLiteConfig  `yaml:"sqlite"`
	Redis              RedisConfig   `yaml:"redis"`
	Journal            JournalConfig `yaml:"journal"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"DLIB_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"DLIB_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"DLIB_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"DLIB_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"DLIB_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"DLIB_SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects the books storage backend at construction time.
type StorageConfig struct {
	Backend  string `yaml:"backend" envconfig:"DLIB_STORAGE_BACKEND"`
	FilePath string `yaml:"filepath" envconfig:"DLIB_STORAGE_FILE_PATH"` // file backend only
}

type SQLiteConfig struct {
	FilePath string `yaml:"filepath" envconfig:"DLIB_SQLITE_FILE_PATH"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"DLIB_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"DLIB_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"DLIB_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"DLIB_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"DLIB_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"DLIB_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"DLIB_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"DLIB_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"DLIB_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"DLIB_REDIS_DATABASE_INDEX"`
}

// JournalConfig drives the lending events journal. When disabled the
// service keeps working with a no-op queue.
type JournalConfig struct {
	Enable     bool          `yaml:"enable" envconfig:"DLIB_JOURNAL_ENABLE"`
	FilePath   string        `yaml:"filepath" envconfig:"DLIB_JOURNAL_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"DLIB_JOURNAL_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"DLIB_JOURNAL_BUCKET_NAME"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	switch config.Storage.Backend {
	case FileBackend:
		if len(config.Storage.FilePath) == 0 {
			return errors.New("make sure to set the books file path for the file storage backend")
		}
	case SQLiteBackend:
		if len(config.SQLite.FilePath) == 0 {
			return errors.New("make sure to set the sqlite database path for the sqlite storage backend")
		}
	case RedisBackend:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port for the redis storage backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q: expect file, sqlite or redis", config.Storage.Backend)
	}

	if config.Journal.Enable {
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port to enable the lending journal")
		}
		if len(config.Journal.FilePath) == 0 || len(config.Journal.BucketName) == 0 {
			return errors.New("make sure to set the journal file path and bucket name to enable the lending journal")
		}
	}

	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 100
	}

	if len(config.LogFolder) == 0 {
		config.LogFolder = "logs"
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil && !os.IsNotExist(err) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `DLIB`.
	err = LoadConfigEnvs("DLIB", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
