package constant

// Structured error codes for license bridge responses
const (
	ErrUnauthorizedWebhook   = "LBG-0001"
	ErrMalformedEventBatch   = "LBG-0002"
	ErrMalformedEventPayload = "LBG-0003"
	ErrQuantityOutOfRange    = "LBG-0004"
	ErrMissingIssuanceFields = "LBG-0005"
	ErrOriginalOrderNotFound = "LBG-0006"
	ErrUpstreamLicenseAPI    = "LBG-0007"
	ErrUpstreamCommerceAPI   = "LBG-0008"
	ErrPatronEmailNotFound   = "LBG-0009"
)
