package email

import (
	"fmt"
	"html"
	"strings"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/infra/mailer"
)

// TemplateKind selects one of the four typed email templates.
type TemplateKind string

const (
	KindNewRequest   TemplateKind = "new_request"
	KindStatusChange TemplateKind = "status_change"
	KindNewOffer     TemplateKind = "new_offer"
	KindCustom       TemplateKind = "custom"
)

// TemplateData carries the union of all template fields. Which fields are
// required depends on the kind; Render validates before building anything.
type TemplateData struct {
	// new_request, status_change, new_offer
	Title  string
	Number string
	// new_request
	Requester string
	Site      string
	// status_change
	OldStatus string
	NewStatus string
	Comment   string
	// new_offer
	Supplier string
	Amount   string
	Currency string
	// custom
	Subject string
	Content string
	// optional detail-view reference
	RequestID string
}

// Render validates the data for the selected kind and produces the message.
// Validation failures surface before any network attempt.
func Render(kind TemplateKind, data TemplateData) (*mailer.Message, error) {
	switch kind {
	case KindNewRequest:
		return renderNewRequest(data)
	case KindStatusChange:
		return renderStatusChange(data)
	case KindNewOffer:
		return renderNewOffer(data)
	case KindCustom:
		return renderCustom(data)
	default:
		return nil, &entity.ValidationError{Field: "type", Message: fmt.Sprintf("unknown template kind %q", kind)}
	}
}

func renderNewRequest(data TemplateData) (*mailer.Message, error) {
	if err := requireFields(
		field{"title", data.Title},
		field{"number", data.Number},
		field{"requester", data.Requester},
	); err != nil {
		return nil, err
	}

	var b htmlBuilder
	b.heading("New purchase request")
	b.row("Request", fmt.Sprintf("%s (%s)", data.Title, data.Number))
	b.row("Requested by", data.Requester)
	if data.Site != "" {
		b.row("Site", data.Site)
	}

	return &mailer.Message{
		Subject: fmt.Sprintf("New purchase request: %s", data.Number),
		HTML:    b.done(),
		Text: fmt.Sprintf("New purchase request %s (%s) by %s",
			data.Title, data.Number, data.Requester),
	}, nil
}

func renderStatusChange(data TemplateData) (*mailer.Message, error) {
	if err := requireFields(
		field{"title", data.Title},
		field{"number", data.Number},
		field{"oldStatus", data.OldStatus},
		field{"newStatus", data.NewStatus},
	); err != nil {
		return nil, err
	}

	var b htmlBuilder
	b.heading("Request status changed")
	b.row("Request", fmt.Sprintf("%s (%s)", data.Title, data.Number))
	b.row("Status", fmt.Sprintf("%s → %s", data.OldStatus, data.NewStatus))
	if data.Comment != "" {
		b.row("Comment", data.Comment)
	}

	return &mailer.Message{
		Subject: fmt.Sprintf("Request %s: %s", data.Number, data.NewStatus),
		HTML:    b.done(),
		Text: fmt.Sprintf("Request %s (%s) moved from %s to %s",
			data.Title, data.Number, data.OldStatus, data.NewStatus),
	}, nil
}

func renderNewOffer(data TemplateData) (*mailer.Message, error) {
	if err := requireFields(
		field{"title", data.Title},
		field{"number", data.Number},
		field{"supplier", data.Supplier},
	); err != nil {
		return nil, err
	}

	var b htmlBuilder
	b.heading("New offer received")
	b.row("Request", fmt.Sprintf("%s (%s)", data.Title, data.Number))
	b.row("Supplier", data.Supplier)
	if data.Amount != "" {
		value := data.Amount
		if data.Currency != "" {
			value = fmt.Sprintf("%s %s", data.Amount, data.Currency)
		}
		b.row("Amount", value)
	}

	return &mailer.Message{
		Subject: fmt.Sprintf("New offer for request %s", data.Number),
		HTML:    b.done(),
		Text: fmt.Sprintf("New offer for request %s (%s) from %s",
			data.Title, data.Number, data.Supplier),
	}, nil
}

// renderCustom wraps free-form content; the HTML variant converts newlines
// to line breaks.
func renderCustom(data TemplateData) (*mailer.Message, error) {
	if err := requireFields(
		field{"subject", data.Subject},
		field{"content", data.Content},
	); err != nil {
		return nil, err
	}

	escaped := html.EscapeString(data.Content)
	body := strings.ReplaceAll(escaped, "\n", "<br>\n")

	var b htmlBuilder
	b.heading(data.Subject)
	b.raw("<p>" + body + "</p>")

	return &mailer.Message{
		Subject: data.Subject,
		HTML:    b.done(),
		Text:    data.Content,
	}, nil
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &entity.ValidationError{Field: f.name, Message: "is required"}
		}
	}
	return nil
}

// htmlBuilder assembles the shared table-style email layout.
type htmlBuilder struct {
	b strings.Builder
}

func (h *htmlBuilder) heading(text string) {
	h.b.WriteString("<h2>")
	h.b.WriteString(html.EscapeString(text))
	h.b.WriteString("</h2>\n")
}

func (h *htmlBuilder) row(label, value string) {
	fmt.Fprintf(&h.b, "<p><strong>%s:</strong> %s</p>\n",
		html.EscapeString(label), html.EscapeString(value))
}

func (h *htmlBuilder) raw(markup string) {
	h.b.WriteString(markup)
	h.b.WriteString("\n")
}

func (h *htmlBuilder) done() string {
	return "<div>\n" + h.b.String() + "</div>"
}
