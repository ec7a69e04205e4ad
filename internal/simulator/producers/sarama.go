package producers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/calebmoran/giftsim/internal/models"
)

type SaramaProducer struct {
	producer sarama.SyncProducer
}

func NewSaramaProducer(config *models.Config) (*SaramaProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	if config.SessionTimeoutMs > 0 {
		saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	} else {
		saramaConfig.Consumer.Group.Session.Timeout = 45 * time.Second // default value
	}

	brokerList := strings.Split(config.KafkaBrokerList, ",")

	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log.Printf("Sarama producer created successfully with brokers %v", brokerList)
	return &SaramaProducer{producer: producer}, nil
}

func (s *SaramaProducer) WriteMessage(topic string, msg []byte) error {
	if s.producer == nil {
		return fmt.Errorf("Sarama producer is not initialized")
	}

	_, _, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		log.Printf("Failed to send message to topic %s: %v", topic, err)
		return err
	}

	return nil
}

func (s *SaramaProducer) Close() error {
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}

// SaramaConsumer tails the status-change topic and invokes a handler per
// record. The payload beyond the trigger signal is not inspected here;
// aggregation recomputes full windows regardless of what changed.
type SaramaConsumer struct {
	consumer sarama.Consumer
	topic    string
}

func NewSaramaConsumer(config *models.Config) (*SaramaConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Net.DialTimeout = 30 * time.Second

	brokerList := strings.Split(config.KafkaBrokerList, ",")
	consumer, err := sarama.NewConsumer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama consumer: %w", err)
	}

	return &SaramaConsumer{consumer: consumer, topic: config.StatusTopic}, nil
}

// Consume blocks until the context is cancelled, calling handle with the
// raw message value for every record on every partition of the topic.
func (c *SaramaConsumer) Consume(ctx context.Context, handle func(value []byte)) error {
	partitions, err := c.consumer.Partitions(c.topic)
	if err != nil {
		return fmt.Errorf("failed to list partitions for %s: %w", c.topic, err)
	}

	var wg sync.WaitGroup
	for _, partition := range partitions {
		pc, err := c.consumer.ConsumePartition(c.topic, partition, sarama.OffsetNewest)
		if err != nil {
			return fmt.Errorf("failed to consume partition %d of %s: %w", partition, c.topic, err)
		}

		wg.Add(1)
		go func(pc sarama.PartitionConsumer) {
			defer wg.Done()
			defer pc.Close()
			for {
				select {
				case msg, ok := <-pc.Messages():
					if !ok {
						return
					}
					handle(msg.Value)
				case err, ok := <-pc.Errors():
					if !ok {
						return
					}
					log.Printf("Consumer error on %s: %v", c.topic, err)
				case <-ctx.Done():
					return
				}
			}
		}(pc)
	}

	wg.Wait()
	return ctx.Err()
}

func (c *SaramaConsumer) Close() error {
	if c.consumer != nil {
		return c.consumer.Close()
	}
	return nil
}
