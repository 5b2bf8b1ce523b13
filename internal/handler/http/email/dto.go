// Package email provides the HTTP handler for template-based email sends.
package email

// sendRequest is the JSON body of an email send. Either recipients carries
// literal addresses, or the userIds/roles/siteId filters select opted-in
// profiles from the store.
type sendRequest struct {
	Type       string            `json:"type"`
	Recipients []string          `json:"recipients,omitempty"`
	UserIDs    []string          `json:"userIds,omitempty"`
	Roles      []string          `json:"roles,omitempty"`
	SiteID     string         `json:"siteId,omitempty"`
	Data       map[string]any `json:"data"`
}

// sendResult is the per-address outcome in the send response.
type sendResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
}

// sendResponse is the aggregate outcome of one send.
type sendResponse struct {
	Message string       `json:"message"`
	Results []sendResult `json:"results"`
}
