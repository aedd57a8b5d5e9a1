package broker

import (
	"fmt"

	"nftrelay/internal/config"
	"nftrelay/internal/constants"
	"nftrelay/internal/logger"
)

func Enabled(cfg config.BrokerConfig) bool {
	return cfg.Type != constants.BrokerNone
}

// Topics returns the events and commands topic (or subject) for the
// configured broker.
func Topics(cfg config.BrokerConfig) (events, commands string) {
	switch cfg.Type {
	case constants.BrokerNATS:
		return cfg.NATS.EventsSubject, cfg.NATS.CommandsSubject
	default:
		return cfg.Kafka.EventsTopic, cfg.Kafka.CommandsTopic
	}
}

func NewProducer(cfg config.BrokerConfig, log logger.Logger) (Producer, error) {
	switch cfg.Type {
	case constants.BrokerKafka:
		return NewKafkaProducer(cfg.Kafka, log), nil
	case constants.BrokerNATS:
		return NewNATSProducer(cfg.NATS, log)
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Type)
	}
}

func NewConsumer(cfg config.BrokerConfig, log logger.Logger) (Consumer, error) {
	switch cfg.Type {
	case constants.BrokerKafka:
		return NewKafkaConsumer(cfg.Kafka, log), nil
	case constants.BrokerNATS:
		return NewNATSConsumer(cfg.NATS, log)
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Type)
	}
}
