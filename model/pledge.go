package model

// PledgeEvent is the JSON:API payload delivered by the pledge webhook. The
// patron's email is not inlined; it is resolved from the included resources
// by id match.
type PledgeEvent struct {
	Data     PledgeData         `json:"data"`
	Included []IncludedResource `json:"included"`
}

// PledgeData carries the pledge resource's relationships.
type PledgeData struct {
	Relationships PledgeRelationships `json:"relationships"`
}

// PledgeRelationships names the related resources of a pledge.
type PledgeRelationships struct {
	Patron ResourceLinkage `json:"patron"`
}

// ResourceLinkage is a JSON:API to-one relationship.
type ResourceLinkage struct {
	Data ResourceIdentifier `json:"data"`
}

// ResourceIdentifier identifies a JSON:API resource.
type ResourceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// IncludedResource is one compound-document entry.
type IncludedResource struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Attributes IncludedAttributes `json:"attributes"`
}

// IncludedAttributes holds the subset of attributes this service reads.
type IncludedAttributes struct {
	Email string `json:"email"`
}

// PatronEmail resolves the patron's email by matching the patron id against
// the included resources. It reports false when no match carries an email.
func (p *PledgeEvent) PatronEmail() (string, bool) {
	patronID := p.Data.Relationships.Patron.Data.ID
	if patronID == "" {
		return "", false
	}

	for _, inc := range p.Included {
		if inc.ID == patronID && inc.Attributes.Email != "" {
			return inc.Attributes.Email, true
		}
	}

	return "", false
}
