package keygen

// JSON:API envelope types for the licensing service.

// -------- license create

type licenseCreateRequest struct {
	Data licenseCreateData `json:"data"`
}

type licenseCreateData struct {
	Type          string                     `json:"type"`
	Attributes    licenseCreateAttributes    `json:"attributes"`
	Relationships licenseCreateRelationships `json:"relationships"`
}

type licenseCreateAttributes struct {
	Key      string          `json:"key"`
	Metadata licenseMetadata `json:"metadata"`
}

type licenseMetadata struct {
	SubscriptionID string `json:"fastSpringSubscriptionId,omitempty"`
	InvoiceID      string `json:"invoiceId,omitempty"`
}

type licenseCreateRelationships struct {
	Policy licenseRelationship `json:"policy"`
}

type licenseRelationship struct {
	Data relationshipData `json:"data"`
}

type relationshipData struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type licenseCreateResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Key string `json:"key"`
		} `json:"attributes"`
	} `json:"data"`
}

// -------- activation token

type tokenCreateRequest struct {
	Data tokenCreateData `json:"data"`
}

type tokenCreateData struct {
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes"`
}

type tokenCreateResponse struct {
	Data struct {
		Attributes struct {
			Token string `json:"token"`
		} `json:"attributes"`
	} `json:"data"`
}

// -------- errors

type errorResponse struct {
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Code   string `json:"code"`
	} `json:"errors"`
}
