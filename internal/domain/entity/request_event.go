package entity

import "time"

// RequestItem is one material line of a purchase request.
type RequestItem struct {
	Name     string
	Quantity float64
	Unit     string
	Brand    string
}

// RequestEvent describes a purchase-request business event as handed over
// by the host application. It is the input of the webhook channel.
type RequestEvent struct {
	ID             string
	Number         string
	Site           string
	Requester      string
	CreatedAt      time.Time
	Specifications string
	Items          []RequestItem
	IsRejection    bool
}

// Validate checks the fields the webhook card cannot be built without.
func (e *RequestEvent) Validate() error {
	if e.Number == "" {
		return &ValidationError{Field: "request_number", Message: "is required"}
	}
	if e.Requester == "" {
		return &ValidationError{Field: "requested_by_name", Message: "is required"}
	}
	return nil
}
