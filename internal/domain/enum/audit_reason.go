package enum

// AuditReason records why an inventory quantity changed
type AuditReason string

const (
	AuditReasonAdjustment   AuditReason = "ADJUSTMENT"
	AuditReasonSale         AuditReason = "SALE"
	AuditReasonCancellation AuditReason = "CANCELLATION"
)
