package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	appconfig "procure-notify/internal/config"
	"procure-notify/internal/domain/entity"
)

// GraphTransport sends mail through a hosted-mailbox HTTP API using a
// tenant application credential. Tokens are acquired via the OAuth2 client
// credentials flow and cached by the token source.
type GraphTransport struct {
	cfg    appconfig.GraphConfig
	client *http.Client

	// apiBase is overridable in tests.
	apiBase string
}

// NewGraphTransport creates the hosted-mailbox transport. The returned
// transport acquires tokens lazily on first use.
func NewGraphTransport(cfg appconfig.GraphConfig) *GraphTransport {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}
	client := cc.Client(context.Background())
	client.Timeout = 30 * time.Second

	return &GraphTransport{
		cfg:     cfg,
		client:  client,
		apiBase: "https://graph.microsoft.com/v1.0",
	}
}

func (t *GraphTransport) Name() string { return "graph" }

type graphRecipient struct {
	EmailAddress struct {
		Address string `json:"address"`
	} `json:"emailAddress"`
}

type graphSendMailRequest struct {
	Message struct {
		Subject string `json:"subject"`
		Body    struct {
			ContentType string `json:"contentType"`
			Content     string `json:"content"`
		} `json:"body"`
		ToRecipients []graphRecipient `json:"toRecipients"`
	} `json:"message"`
	SaveToSentItems bool `json:"saveToSentItems"`
}

// Send posts one message to the sendMail endpoint of the configured mailbox.
// The API acknowledges with 202 and no body, so the correlation header is
// returned as the message ID when present.
func (t *GraphTransport) Send(ctx context.Context, to string, msg *Message) (string, error) {
	if !t.cfg.Enabled() {
		return "", &entity.ConfigurationError{Channel: entity.ChannelEmail, Missing: "tenant/application credential"}
	}

	var payload graphSendMailRequest
	payload.Message.Subject = msg.Subject
	payload.Message.Body.ContentType = "HTML"
	payload.Message.Body.Content = msg.HTML
	var rcpt graphRecipient
	rcpt.EmailAddress.Address = to
	payload.Message.ToRecipients = []graphRecipient{rcpt}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal sendMail payload: %w", err)
	}

	url := fmt.Sprintf("%s/users/%s/sendMail", t.apiBase, t.cfg.SenderMailbox)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create sendMail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", &entity.TransportError{Channel: entity.ChannelEmail, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.Header.Get("request-id"), nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return "", &entity.TransportError{
		Channel:    entity.ChannelEmail,
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("sendMail rejected: %s", string(body)),
	}
}

// TestConnection fetches the sender mailbox resource, which exercises both
// token acquisition and API reachability.
func (t *GraphTransport) TestConnection(ctx context.Context) error {
	if !t.cfg.Enabled() {
		return &entity.ConfigurationError{Channel: entity.ChannelEmail, Missing: "tenant/application credential"}
	}

	url := fmt.Sprintf("%s/users/%s", t.apiBase, t.cfg.SenderMailbox)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create mailbox request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return &entity.TransportError{Channel: entity.ChannelEmail, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &entity.TransportError{
			Channel:    entity.ChannelEmail,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("mailbox lookup failed: %s", string(body)),
		}
	}
	return nil
}
