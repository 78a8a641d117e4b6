package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Catalog  CatalogConfig
	Bus      BusConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RabbitMQConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	VHost    string
}

// CatalogConfig points at the menu service consulted during order validation.
type CatalogConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// BusConfig names the logical bus destinations. Publishing and consuming
// sides are configured separately; wiring one onto the other is broker
// topology, not application code.
type BusConfig struct {
	OrderEvents                 string
	NotificationRequests        string
	ProcessNotificationRequests string
	ProcessOrderEvents          string
	SendNotifications           string
	PrefetchCount               int
}

func Load() (*Config, error) {
	var missing []string

	get := func(key string) string {
		val := os.Getenv(key)
		if val == "" {
			missing = append(missing, key)
		}
		return val
	}

	getDefault := func(key, def string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return def
	}

	getInt := func(key string, def int) int {
		if val := os.Getenv(key); val != "" {
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				return n
			}
		}
		return def
	}

	config := &Config{
		Server: ServerConfig{
			Port: getDefault("SERVER_PORT", "8084"),
			Host: getDefault("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     get("DB_HOST"),
			Port:     get("DB_PORT"),
			User:     get("DB_USER"),
			Password: get("DB_PASSWORD"),
			DBName:   get("DB_NAME"),
			SSLMode:  getDefault("DB_SSLMODE", "disable"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      os.Getenv("RABBITMQ_URL"),
			Host:     get("RABBITMQ_HOST"),
			Port:     get("RABBITMQ_PORT"),
			User:     get("RABBITMQ_USER"),
			Password: get("RABBITMQ_PASSWORD"),
			VHost:    getDefault("RABBITMQ_VHOST", "/"),
		},
		Catalog: CatalogConfig{
			BaseURL:        getDefault("MENU_SERVICE_URL", "http://localhost:8082"),
			TimeoutSeconds: getInt("MENU_SERVICE_TIMEOUT_SECONDS", 5),
		},
		Bus: BusConfig{
			OrderEvents:                 getDefault("QUEUE_ORDER_EVENTS", "order-events"),
			NotificationRequests:        getDefault("QUEUE_NOTIFICATION_REQUESTS", "notification-requests"),
			ProcessNotificationRequests: getDefault("QUEUE_PROCESS_NOTIFICATION_REQUESTS", "process-notification-requests"),
			ProcessOrderEvents:          getDefault("QUEUE_PROCESS_ORDER_EVENTS", "process-order-events"),
			SendNotifications:           getDefault("QUEUE_SEND_NOTIFICATIONS", "send-notifications"),
			PrefetchCount:               getInt("CONSUMER_PREFETCH_COUNT", 10),
		},
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	return config, nil
}

// ConnectionString returns a DSN string for GORM
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

func (c *RabbitMQConfig) ConnectionURL() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%s%s",
		c.User, c.Password, c.Host, c.Port, c.VHost)
}
