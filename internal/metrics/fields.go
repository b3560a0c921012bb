package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod    = "method"
	AttrPath      = "path"
	AttrStatus    = "status"
	AttrOperation = "operation"
	AttrErrorKind = "error_kind"
	AttrEventKind = "event_kind"
	AttrSink      = "sink"
)
