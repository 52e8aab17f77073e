package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/pipeline/types"
)

const (
	Topic = "pipeline.events"

	metadataEventType = "event_type"
)

var _ types.Listener = &Bus{}

// Bus fans store events out to any number of subscribers.
//
// Publishing blocks until every subscriber acked the message, so subscribers
// see events in store order and must ack before doing slow work.
type Bus struct {
	pubsub *gochannel.GoChannel

	mu     sync.RWMutex
	closed bool
}

func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			BlockPublishUntilSubscriberAck: true,
		}, newLogrusAdapter()),
	}
}

func (b *Bus) OnEvent(e *types.Event) {
	if err := b.Publish(e); err != nil {
		log.Errorf("publish %s event failed: %v", e.Type, err)
	}
}

func (b *Bus) Publish(e *types.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return errors.MethodNotAllowedf("bus closed")
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return errors.Trace(err)
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(metadataEventType, string(e.Type))
	return errors.Trace(b.pubsub.Publish(Topic, msg))
}

// Subscribe returns raw messages. The subscription ends when ctx is done.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	msgs, err := b.pubsub.Subscribe(ctx, Topic)
	return msgs, errors.Trace(err)
}

// Watch decodes and acks every message before handing it to fn, until ctx
// is done or the bus is closed.
func (b *Bus) Watch(ctx context.Context, fn func(e *types.Event)) error {
	msgs, err := b.Subscribe(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	go func() {
		for msg := range msgs {
			e, err := Decode(msg)
			msg.Ack()
			if err != nil {
				log.Warnf("drop undecodable message %s: %v", msg.UUID, err)
				continue
			}
			fn(e)
		}
	}()
	return nil
}

func Decode(msg *message.Message) (*types.Event, error) {
	e := &types.Event{}
	if err := json.Unmarshal(msg.Payload, e); err != nil {
		return nil, errors.Annotatef(err, "decode event %s", msg.UUID)
	}
	return e, nil
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	return errors.Trace(b.pubsub.Close())
}
