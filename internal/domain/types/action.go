package types

// Values of the "action" log attribute.
const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionDatabaseTransactionFailed = "database_transaction_failed"

	ActionDispatchCycle   = "dispatch_cycle"
	ActionStaleSweep      = "stale_processing_sweep"
	ActionSendReminder    = "send_reminder"
	ActionDispatchBooking = "dispatch_booking"
	ActionNotifyUser      = "notify_user"
	ActionCycleLock       = "cycle_lock"

	ActionHTTPRequest = "http_request"
	ActionHTTPPanic   = "http_panic"
)
