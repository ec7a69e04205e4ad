package simulator

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/calebmoran/giftsim/internal/models"
)

// OutputDestination is where status-change notifications go: Kafka in a
// deployed run, a file or stdout locally.
type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
}

type ConsoleOutput struct{}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	output := fmt.Sprintf("[%s] %s\n", topic, string(msg))

	_, err := os.Stdout.Write([]byte(output))
	if err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}

	// Try to sync, but don't return an error if it fails
	_ = os.Stdout.Sync()

	return nil
}

type FileOutput struct {
	files    map[string]*os.File
	basePath string // Base directory for output files
}

// NewFileOutput creates a new FileOutput instance with initialized values.
func NewFileOutput(basePath string) *FileOutput {
	return &FileOutput{
		files:    make(map[string]*os.File),
		basePath: basePath,
	}
}

func (f *FileOutput) WriteMessage(topic string, msg []byte) error {
	if _, ok := f.files[topic]; !ok {
		if err := os.MkdirAll(f.basePath, 0o755); err != nil {
			return fmt.Errorf("failed to create notification directory %s: %w", f.basePath, err)
		}
		filename := fmt.Sprintf("%s/%s.jsonl", f.basePath, topic)
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create file for topic %s: %w", topic, err)
		}
		f.files[topic] = file
	}

	if _, err := f.files[topic].Write(append(msg, '\n')); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}

	return nil
}

func (f *FileOutput) Close() error {
	for _, file := range f.files {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

// serializeStatusChange builds the notification payload for a transition
// that actually changed the order's status.
func serializeStatusChange(order *models.Order, from models.OrderStatus, at time.Time) ([]byte, error) {
	change := StatusChange{
		OrderID:    order.ID,
		VendorID:   order.VendorID,
		From:       from,
		To:         order.Status,
		OccurredAt: at.Unix(),
	}
	return json.Marshal(change)
}
