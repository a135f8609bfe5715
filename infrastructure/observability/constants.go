package observability

// Metric name prefixes
const (
	MetricPrefix = "nexus"
)

// Metric names
const (
	// Discord metrics
	MessagesReadTotal  = MetricPrefix + ".messages.read_total"
	CommandsTotal      = MetricPrefix + ".commands.total"
	CommandErrorsTotal = MetricPrefix + ".commands.errors_total"

	// Leveling metrics
	LevelUpsTotal = MetricPrefix + ".leveling.level_ups_total"

	// NATS metrics
	NATSMessagesReceivedTotal  = MetricPrefix + ".nats.messages_received_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Balance metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"

	// Moderation metrics
	ModerationActionsTotal = MetricPrefix + ".moderation.actions_total"
	MutesReleasedTotal     = MetricPrefix + ".moderation.mutes_released_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelCommand   = "command"
	LabelAction    = "action"
	LabelErrorType = "error_type"
)

// Message types for Discord
const (
	MessageTypeCommand     = "command"
	MessageTypeInteraction = "interaction"
	MessageTypeMessage     = "message"
)
