package event

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Connection holds the AMQP connection and channel used by the publisher.
type Connection struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
	log        zerolog.Logger
}

func Connect(url string, log zerolog.Logger) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	log.Info().Msg("connected to rabbitmq")
	return &Connection{Connection: conn, Channel: ch, log: log}, nil
}

func (c *Connection) Close() error {
	if c.Channel != nil {
		if err := c.Channel.Close(); err != nil {
			c.log.Error().Err(err).Msg("failed to close rabbitmq channel")
		}
	}
	if c.Connection != nil {
		if err := c.Connection.Close(); err != nil {
			c.log.Error().Err(err).Msg("failed to close rabbitmq connection")
			return err
		}
	}
	return nil
}
