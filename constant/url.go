package constant

// URLConstants defines upstream service endpoint URLs
const (
	// DefaultKeygenBaseURL is the licensing service API root
	DefaultKeygenBaseURL = "https://api.keygen.sh/v1"

	// DefaultFastSpringBaseURL is the commerce platform API root
	DefaultFastSpringBaseURL = "https://api.fastspring.com"
)
