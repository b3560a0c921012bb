package logging

import "log/slog"

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldDate       = "date"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldGameID     = "game_id"
	FieldOrgID      = "org_id"
	FieldMemberID   = "member_id"
	FieldEvent      = "event"
	FieldSink       = "sink"
	FieldOp         = "op"
	FieldErrorKind  = "error_kind"
)

// WithCommon appends service/version fields when provided.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if version != "" {
		attrs = append(attrs, slog.String(FieldVersion, version))
	}
	return attrs
}

// GameAttrs returns the attributes identifying a game and its organization.
func GameAttrs(gameID, orgID string) []any {
	attrs := make([]any, 0, 2)
	if gameID != "" {
		attrs = append(attrs, slog.String(FieldGameID, gameID))
	}
	if orgID != "" {
		attrs = append(attrs, slog.String(FieldOrgID, orgID))
	}
	return attrs
}
