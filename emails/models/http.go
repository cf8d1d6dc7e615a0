// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

// SendEmailRequest is the body of POST /emails/send.
type SendEmailRequest struct {
	ClientName     string   `json:"client_name"`
	ClientEmail    string   `json:"client_email"`
	RecipientEmail string   `json:"recipient_email"`
	Subject        string   `json:"subject"`
	Message        string   `json:"message"`
	Cc             []string `json:"cc,omitempty"`
}

// BroadcastRequest is the body of POST /emails/broadcast.
type BroadcastRequest struct {
	Subject       string `json:"subject"`
	Message       string `json:"message"`
	RecipientType string `json:"recipient_type"`
}

// RecipientsQuery is the query string of GET /emails/recipients,
// decoded with gorilla/schema.
type RecipientsQuery struct {
	Category string `schema:"category,required"`
}

// OutcomeResponse is the per-recipient detail in a broadcast response.
type OutcomeResponse struct {
	Email    string `json:"email"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Attempts int    `json:"attempts"`
}

// BroadcastResponse is the body of a completed broadcast.
type BroadcastResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Total   int               `json:"total"`
	Sent    int               `json:"sent"`
	Failed  int               `json:"failed"`
	Results []OutcomeResponse `json:"results"`
}

// RecipientsResponse is the body of the recipients preview endpoint.
type RecipientsResponse struct {
	Category string   `json:"category"`
	Total    int      `json:"total"`
	Emails   []string `json:"emails"`
}
