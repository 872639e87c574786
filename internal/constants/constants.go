package constants

// RabbitMQ
const (
	ScanEventsExchange     = "land_scanner_exchange"
	ScanEventsExchangeType = "direct"

	RoutingKeyScanCompleted = "scan.completed"
	RoutingKeyParcelScored  = "parcel.scored"
)

// Message headers
const (
	HeaderTraceID      = "x-trace-id"
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
	EventVersion       = "1.0.0"
)

// HTTP
const (
	HeaderRequestID = "X-Request-ID"
	APIPrefix       = "/api/v1"
)
