package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel     string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort     string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort   string   `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	JWTSecretKey string   `yaml:"jwt-secret-key" env:"JWT_SECRET_KEY"`
	Redis        Redis    `yaml:"redis"`
	Evidence     Evidence `yaml:"evidence"`
	Game         Game     `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Evidence struct {
	Dir     string `yaml:"dir" env:"EVIDENCE_DIR" env-default:"./evidence"`
	BaseURL string `yaml:"base-url" env:"EVIDENCE_BASE_URL" env-default:"http://localhost:9090/evidence"`
}

type Game struct {
	MinPlayers int `yaml:"min-players" env:"GAME_MIN_PLAYERS" env-default:"3"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
