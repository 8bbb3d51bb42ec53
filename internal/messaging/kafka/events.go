package kafka

import (
	"encoding/json"
	"time"
)

// Топики брокера.
const (
	// TopicOrderEvents получает события жизненного цикла заказов.
	TopicOrderEvents = "storefront.order.events"
	// TopicDeadLetterQueue получает события, которые не удалось доставить.
	TopicDeadLetterQueue = "storefront.dlq"
)

// Envelope — внешний формат события заказа в Kafka.
// Payload передаётся как есть, без повторной сериализации.
type Envelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishedAt   time.Time       `json:"published_at"`
}
