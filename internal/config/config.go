package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultDatasetURL é o CSV público do Superstore usado quando nenhuma fonte é configurada
const DefaultDatasetURL = "https://gist.githubusercontent.com/nnbphuong/38db511db14542f3ba9ef16e69d3814c/raw/Superstore.csv"

const (
	DatasetSourceHTTP     = "http"
	DatasetSourcePostgres = "postgres"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Dataset        Dataset        `mapstructure:",squash"`
	DatasetRefresh DatasetRefresh `mapstructure:",squash"`
	Metrics        Metrics        `mapstructure:",squash"`
}

type Server struct {
	Host        string   `mapstructure:"host"`
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Dataset struct {
	Source       string        `mapstructure:"dataset_source"`
	URL          string        `mapstructure:"dataset_url"`
	FetchTimeout time.Duration `mapstructure:"dataset_fetch_timeout"`
	Table        string        `mapstructure:"dataset_table"`
}

type DatasetRefresh struct {
	CronSchedule string `mapstructure:"dataset_refresh_cron"`
	Enabled      bool   `mapstructure:"dataset_refresh_enabled"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Metrics struct {
	Enabled bool `mapstructure:"metrics_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/superstore?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("DATASET_SOURCE", DatasetSourceHTTP)
	viper.SetDefault("DATASET_URL", DefaultDatasetURL)
	viper.SetDefault("DATASET_FETCH_TIMEOUT", "60s")
	viper.SetDefault("DATASET_TABLE", "superstore")

	// Recarga do dataset desabilitada: o comportamento padrão é carregar uma única vez
	viper.SetDefault("DATASET_REFRESH_CRON", "0 4 * * *") // Todos os dias às 4h da manhã
	viper.SetDefault("DATASET_REFRESH_ENABLED", false)

	viper.SetDefault("METRICS_ENABLED", true)

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize valida a fonte do dataset e monta o DSN do banco
func (c *Config) normalize() error {
	c.Dataset.Source = strings.ToLower(strings.TrimSpace(c.Dataset.Source))
	switch c.Dataset.Source {
	case "":
		c.Dataset.Source = DatasetSourceHTTP
	case DatasetSourceHTTP, DatasetSourcePostgres:
	default:
		return fmt.Errorf("config: fonte de dataset inválida %q (use %s ou %s)",
			c.Dataset.Source, DatasetSourceHTTP, DatasetSourcePostgres)
	}

	if c.Dataset.Source == DatasetSourceHTTP && c.Dataset.URL == "" {
		c.Dataset.URL = DefaultDatasetURL
	}

	if c.Dataset.FetchTimeout <= 0 {
		c.Dataset.FetchTimeout = 60 * time.Second
	}

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
