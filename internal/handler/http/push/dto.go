// Package push provides the HTTP handlers for browser push registration:
// subscribe, unsubscribe, and the VAPID public-key handout.
package push

// subscribeRequest is the JSON body of a push subscription registration.
type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

// publicKeyResponse carries the VAPID public key clients register with.
type publicKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

// unsubscribeResponse reports how many registrations were removed.
type unsubscribeResponse struct {
	Removed int64 `json:"removed"`
}
