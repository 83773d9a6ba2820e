package constant

// License-related constants
const (
	// ActivationCodeDelimiter joins the activation token and the license key.
	// Neither part is checked for embedded delimiters; the remote key format
	// is trusted not to contain one.
	ActivationCodeDelimiter = "."

	// MinLicenseQuantity and MaxLicenseQuantity bound a single issuance request
	MinLicenseQuantity = 1
	MaxLicenseQuantity = 10

	// LicenseKeyBytes is the size of the random candidate key before hex encoding
	LicenseKeyBytes = 16

	// PledgeSubscriptionRef marks pledge-granted licenses in license metadata
	PledgeSubscriptionRef = "PATREON"

	// BillingOrderSuffix marks recurring billing order references; the one
	// entry without it is the original order
	BillingOrderSuffix = "B"
)
