package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env:"PORT" env-default:"8080"`
}

type MySQLConfig struct {
	HostName string `yaml:"host" env:"MYSQL_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"MYSQL_PORT" env-default:"3306"`
	UserName string `yaml:"user" env:"MYSQL_USER" env-default:"bonuspoint"`
	Password string `yaml:"password" env:"MYSQL_PASSWORD" env-default:""`
	Database string `yaml:"database" env:"MYSQL_DATABASE" env-default:"bonuspoint"`
}

type MongoConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	Host     string `yaml:"host" env:"MONGO_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
	User     string `yaml:"user" env:"MONGO_USER" env-default:""`
	Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"bonuspoint"`
}

type VkConfig struct {
	ServiceKey string `yaml:"service_key" env:"VK_SERVICE_KEY" env-default:""`
	APIVersion string `yaml:"api_version" env-default:"5.131"`
	BotURL     string `yaml:"bot_url" env:"BOT_URL" env-default:""`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	APIKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
	ChatID  int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID" env-default:"0"`
}

type SessionConfig struct {
	TTLHours int `yaml:"ttl_hours" env-default:"72"`
}

type Pagination struct {
	GroupsPerPage   int `yaml:"groups_per_page" env-default:"4"`
	MentorsPerPage  int `yaml:"mentors_per_page" env-default:"12"`
	StudentsPerPage int `yaml:"students_per_page" env-default:"12"`
	RecordsPerPage  int `yaml:"records_per_page" env-default:"20"`
}

type Config struct {
	Env        string         `yaml:"env" env:"ENV" env-default:"local"`
	Listen     Listen         `yaml:"listen"`
	MySQL      MySQLConfig    `yaml:"mysql"`
	Mongo      MongoConfig    `yaml:"mongo"`
	Vk         VkConfig       `yaml:"vk"`
	Telegram   TelegramConfig `yaml:"telegram"`
	Session    SessionConfig  `yaml:"session"`
	Pagination Pagination     `yaml:"pagination"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
