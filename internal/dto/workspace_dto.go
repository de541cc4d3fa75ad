package dto

// WorkspaceResponse is the state the form starts from: a blank invoice with
// its number, today's date and the saved biller already filled in.
type WorkspaceResponse struct {
	Counter int            `json:"counter"`
	Invoice InvoicePayload `json:"invoice"`
}

type BillerResponse struct {
	Biller CompanyPayload `json:"biller"`
}

type SaveBillerResponse struct {
	// Saved is false when the name was empty and nothing was persisted.
	Saved  bool           `json:"saved"`
	Biller CompanyPayload `json:"biller"`
}
