package dto

type EmailInvoiceRequest struct {
	To      string         `json:"to"      validate:"required,email"`
	Subject string         `json:"subject" validate:"omitempty,max=200"`
	Invoice InvoicePayload `json:"invoice"`
}

type EmailQueuedResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}
