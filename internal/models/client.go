package models

// Client is a row of the clients table.
type Client struct {
	ClientID  string `db:"client_id"`
	CompanyID string `db:"company_id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`
	Address   string `db:"address"`
	TaxID     string `db:"tax_id"`
	Notes     string `db:"notes"`
	AuditFields
}
