package schema

import "time"

const (
	// ConsentRecordsBlob is the storage key for the obfuscated record
	// collection. It is a single key shared by every principal: all
	// logged-in users see the same ledger. That is a product decision,
	// not an oversight.
	ConsentRecordsBlob = "consent_records_encrypted"

	// ConsentRequestsBlob is the storage key for the request collection,
	// stored as plain JSON so that both requester and recipient can read
	// it regardless of which principal last encoded the records blob.
	ConsentRequestsBlob = "consent_requests"
)

// DateLayout is the calendar-date format used for consent dates and
// request deadlines.
const DateLayout = "2006-01-02"

// ConsentRecord is an attestation that a named person consented to a named
// activity on a given date. Records are immutable once created; withdrawal
// removes the record entirely.
type ConsentRecord struct {
	ID              string    `json:"id"`
	SubjectName     string    `json:"subjectName"`
	Activity        string    `json:"activity"`
	ConsentDate     string    `json:"consentDate"`
	RecordedAt      time.Time `json:"recordedAt"`
	RecordedByEmail string    `json:"recordedByEmail"`

	// SourceRequestID links back to the ConsentRequest that produced this
	// record. Empty for freeform submissions.
	SourceRequestID string `json:"sourceRequestId,omitempty"`

	// OriginAddress and UserAgent are advisory metadata captured
	// best-effort at creation time.
	OriginAddress string `json:"originAddress,omitempty"`
	UserAgent     string `json:"userAgent,omitempty"`
}

// RecordDraft carries the user-supplied fields of a new record. The ledger
// assigns everything else.
type RecordDraft struct {
	SubjectName string `json:"subjectName"`
	Activity    string `json:"activity"`
	ConsentDate string `json:"consentDate"`

	SourceRequestID string `json:"-"`
	OriginAddress   string `json:"-"`
	UserAgent       string `json:"-"`
}
