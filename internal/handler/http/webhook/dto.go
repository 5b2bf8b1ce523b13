// Package webhook provides the HTTP handler that forwards purchase-request
// events to the team-chat webhook.
package webhook

// itemDTO is one material line of the incoming event.
type itemDTO struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Brand    string  `json:"brand,omitempty"`
}

// notifyRequest is the JSON body of a webhook notify call, mirroring the
// host application's request event shape.
type notifyRequest struct {
	ID             string    `json:"id"`
	RequestNumber  string    `json:"request_number"`
	SiteName       string    `json:"site_name"`
	RequestedBy    string    `json:"requested_by_name"`
	CreatedAt      string    `json:"created_at"`
	Specifications string    `json:"specifications,omitempty"`
	Items          []itemDTO `json:"items"`
	IsRejection    bool      `json:"isRejection,omitempty"`
}

// notifyResponse reports the outcome. Skipped is set when no endpoint is
// configured and the event was accepted without delivery.
type notifyResponse struct {
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
	Message string `json:"message,omitempty"`
}
