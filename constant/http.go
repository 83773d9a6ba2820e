package constant

// HeaderConstants defines HTTP header names used in requests
const (
	// FastSpringSignatureHeader carries the base64 HMAC-SHA256 over the raw webhook body
	FastSpringSignatureHeader = "X-FS-Signature"

	// PatreonSignatureHeader carries the hex HMAC-MD5 over the raw webhook body
	PatreonSignatureHeader = "X-Patreon-Signature"

	// PatreonEventHeader carries the pledge trigger name (e.g. "pledges:create")
	PatreonEventHeader = "X-Patreon-Event"
)

// Form field names for the manual issuance endpoint
const (
	// QueryHashField is the signature field of the query-hash scheme
	QueryHashField = "security_request_hash"

	// SignedURLField is the signature field of the signed-URL scheme
	SignedURLField = "signature"
)
