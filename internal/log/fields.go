package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldCarID     = "car_id"
	FieldUnit      = "unit"
	FieldCurrency  = "currency"
	FieldFillUps   = "fill_ups"
	FieldIntervals = "intervals"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldCacheKey  = "cache_key"
	FieldCacheHit  = "cache_hit"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentStats   = "stats"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentCache   = "cache"
	ComponentCLI     = "cli"
)
