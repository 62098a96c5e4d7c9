package config

import (
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Server   Server   `yaml:"server"`
	Platform Platform `yaml:"platform"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

type Platform struct {
	JwtSecret string `yaml:"jwtSecret"`
	// OpenSourceHostSlug names the single host whose collectives may use the
	// GitHub automated approval path.
	OpenSourceHostSlug   string `yaml:"opensourceHostSlug"`
	GithubStarsThreshold int    `yaml:"githubStarsThreshold"`
}

func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}
	if config.Platform.OpenSourceHostSlug == "" {
		config.Platform.OpenSourceHostSlug = "opensource"
	}

	return config, nil
}
