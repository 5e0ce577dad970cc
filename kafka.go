package rentledger

import (
	"context"
	"encoding/json"

	"github.com/rentlabs/rentledger/schema"
	"github.com/segmentio/kafka-go"
)

const (
	StatusTopic = "rentledger_status"
)

type KWriter struct {
	w *kafka.Writer
}

func NewKWriter(topic string, uri string) (*KWriter, error) {
	w := &kafka.Writer{
		Addr:     kafka.TCP(uri),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &KWriter{
		w: w,
	}, nil
}

func (kw *KWriter) Write(body []byte) error {
	err := kw.w.WriteMessages(
		context.Background(),
		kafka.Message{
			Value: body,
		},
	)
	return err
}

func (kw *KWriter) Close() {
	kw.w.Close()
}

// notifyStatusMessage is fire and forget, the ledger never waits on the sink.
func (l *Ledger) notifyStatusMessage(msg schema.Message) {
	if l.kwriter == nil {
		return
	}
	body, err := json.Marshal(schema.StatusMessage{
		Timestamp: msg.DateTime,
		Text:      msg.Text,
	})
	if err != nil {
		log.Error("marshal status message", "err", err)
		return
	}
	go func() {
		if err := l.kwriter.Write(body); err != nil {
			log.Error("kafka write status message", "err", err)
		}
	}()
}
