package nats

import (
	"github.com/nats-io/nats.go"

	"paycode/internal/repository"
)

// Bus publishes engine events (payments.completed, wallet.recharged) over
// NATS. Publishes are fire-and-forget: the settlement has already committed,
// so delivery is best effort by contract.
type Bus struct {
	nc *nats.Conn
}

var _ repository.MessageBus = (*Bus)(nil)

func NewBus(nc *nats.Conn) *Bus {
	return &Bus{nc: nc}
}

func (b *Bus) Publish(topic string, data []byte) error {
	return b.nc.Publish(topic, data)
}
