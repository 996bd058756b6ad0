package rmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"text2phenotype.com/postag/logger"
)

type Config struct {
	Host       string `envconfig:"POS_RMQ_HOST" default:""`
	Port       string `envconfig:"POS_RMQ_PORT" default:"5672"`
	Username   string `envconfig:"POS_RMQ_USERNAME" default:"guest"`
	Password   string `envconfig:"POS_RMQ_PASSWORD" default:"guest"`
	Exchange   string `envconfig:"POS_RMQ_EXCHANGE" default:"pos-tagging"`
	RoutingKey string `envconfig:"POS_RMQ_ROUTING_KEY" default:"pos.file.processed"`
}

// Enabled reports whether a broker host is configured.
func (config Config) Enabled() bool {
	return config.Host != ""
}

func ReadEnvironment() (Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return config, errors.Wrap(err, "read rmq environment")
	}
	return config, nil
}

// publisher is the part of an amqp channel the client uses.
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Client publishes JSON messages to a topic exchange.
type Client struct {
	config    Config
	conn      *amqp.Connection
	channel   publisher
	mu        sync.Mutex
	fdlLogger *zerolog.Logger
}

func NewClient(config Config) (*Client, error) {
	fdlLogger := logger.NewLogger("RMQ client")

	conn, channel, err := setup(getURL(config))
	if err != nil {
		return nil, errors.Wrapf(err, "failed connection to %s:%s", config.Host, config.Port)
	}
	if err := channel.ExchangeDeclare(
		config.Exchange, // name
		"topic",         // kind
		true,            // durable
		false,           // auto-deleted
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	); err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "declare exchange %s", config.Exchange)
	}
	fdlLogger.Info().Str("exchange", config.Exchange).Msg("Connected to RMQ")

	return newClient(config, conn, channel, &fdlLogger), nil
}

func newClient(config Config, conn *amqp.Connection, channel publisher, fdlLogger *zerolog.Logger) *Client {
	return &Client{config: config, conn: conn, channel: channel, fdlLogger: fdlLogger}
}

// Publish sends msg encoded as JSON with the configured routing key.
func (c *Client) Publish(msg interface{}) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "encode message")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		c.config.Exchange,
		c.config.RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		return errors.Wrapf(err, "publish to %s", c.config.Exchange)
	}
	c.fdlLogger.Debug().Str("routing_key", c.config.RoutingKey).Msg("Published message")
	return nil
}

func (c *Client) Close() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func getURL(config Config) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", config.Username, config.Password, config.Host, config.Port)
}

func setup(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
