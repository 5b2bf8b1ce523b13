// Package notification provides the HTTP handlers for the push fan-out
// endpoint and the delivery log read API.
package notification

import "time"

// sendRequest is the JSON body of a push notification send.
type sendRequest struct {
	Title   string         `json:"title"`
	Body    string         `json:"body"`
	Data    map[string]any `json:"data,omitempty"`
	UserIDs []string       `json:"userIds,omitempty"`
	Roles   []string       `json:"roles,omitempty"`
	SiteID  string         `json:"siteId,omitempty"`
}

// sendResult is the per-user outcome in the send response.
type sendResult struct {
	UserID  string `json:"userId"`
	Success bool   `json:"success"`
}

// sendResponse is the aggregate outcome of one send.
type sendResponse struct {
	Message string       `json:"message"`
	Results []sendResult `json:"results"`
}

// logDTO is one delivery log row in the read API.
type logDTO struct {
	ID           int64          `json:"id"`
	SentBy       string         `json:"sentBy"`
	Channel      string         `json:"channel"`
	Subject      string         `json:"subject"`
	TargetCount  int            `json:"targetCount"`
	SuccessCount int            `json:"successCount"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}
