// Package domain holds shared identifier and role types used across features.
// Keeping them here avoids import cycles between feature packages that
// reference each other's entities (e.g. the company delete guard reading
// shareholder rows).
package domain

import "strconv"

// Entity identifiers are auto-increment integers assigned by the store.
// Distinct named types keep call sites honest about which id they carry.
type (
	CompanyID     int64
	ShareholderID int64
	HoldingID     int64
	ShareClassID  int64
	CertificateID int64
	TransactionID int64
	DTCRequestID  int64
	InvitationID  int64
	UserID        int64
	AuditEventID  int64
)

// ParseID parses a decimal id from a URL path segment. Zero and negative
// values are rejected because the stores never assign them.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
