package repository

// Topics carried on the message bus.
const (
	TopicPaymentCompleted = "payments.completed"
	TopicWalletRecharged  = "wallet.recharged"
	TopicRechargeCommand  = "commands.recharge"
)

type MessageBus interface {
	Publish(topic string, data []byte) error
}
