package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultEasypayAPIHost     = "http://testpgapi.easypay.co.kr"
	DefaultEasypayMallID      = "T0001995"
	DefaultWalletBrandName    = "ALIPAY_CN"
	DefaultServicePort        = "8080"
	DefaultPaymentEventsTopic = "payment-events"
)

type Config struct {
	ServicePort      string
	MetricsPort      string
	Environment      string
	PostgreSQLConfig PostgreSQLConfig
	EasypayConfig    EasypayConfig
	KafkaConfig      KafkaConfig
	TracingConfig    TracingConfig
}

type PostgreSQLConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUsername string
	DBPassword string
}

type EasypayConfig struct {
	APIHost                string
	MallID                 string
	DefaultWalletBrandName string
	CircuitBreakerEnabled  bool
}

// KafkaConfig is optional. An empty BrokerAddress disables status events.
type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type TracingConfig struct {
	CollectorHost string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: getEnv("SERVICE_PORT", DefaultServicePort),
		MetricsPort: os.Getenv("METRICS_PORT"),
		Environment: os.Getenv("ENVIRONMENT"),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBName:     os.Getenv("DB_NAME"),
			DBPort:     os.Getenv("DB_PORT"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
		},
		EasypayConfig: EasypayConfig{
			APIHost:                getEnv("EASYPAY_API_HOST", DefaultEasypayAPIHost),
			MallID:                 getEnv("EASYPAY_MALL_ID", DefaultEasypayMallID),
			DefaultWalletBrandName: getEnv("EASYPAY_DEFAULT_WALLET_BRAND", DefaultWalletBrandName),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", DefaultPaymentEventsTopic),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
	}

	cbEnabled, err := strconv.ParseBool(os.Getenv("GATEWAY_CIRCUIT_BREAKER_ENABLED"))
	if err == nil {
		conf.EasypayConfig.CircuitBreakerEnabled = cbEnabled
	}

	brokerPartition, err := strconv.Atoi(os.Getenv("BROKER_PARTITION"))
	if err == nil {
		conf.KafkaConfig.BrokerPartition = brokerPartition
	}

	return &conf
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
