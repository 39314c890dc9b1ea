package domain

// Client is a customer of a company that invoices are billed to.
type Client struct {
	ClientID  string `json:"clientID"`
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	TaxID     string `json:"taxID"`
	Notes     string `json:"notes"`
	AuditFields
}

// ClientFilter narrows a client listing.
type ClientFilter struct {
	Search string // case-insensitive match on name or email
}
