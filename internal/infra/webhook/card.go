package webhook

import (
	"fmt"
	"strconv"
	"strings"

	"procure-notify/internal/domain/entity"
)

// Card theme colors by event polarity.
const (
	themeColorNormal    = "0076D7"
	themeColorRejection = "D93025"
)

const timestampLayout = "02.01.2006 15:04"

// MessageCard is the fixed card schema posted to the chat endpoint.
type MessageCard struct {
	Type            string        `json:"@type"`
	Context         string        `json:"@context"`
	ThemeColor      string        `json:"themeColor"`
	Summary         string        `json:"summary"`
	Sections        []CardSection `json:"sections"`
	PotentialAction []CardAction  `json:"potentialAction,omitempty"`
}

// CardSection is one block of the card: either a facts table or text.
type CardSection struct {
	ActivityTitle string     `json:"activityTitle,omitempty"`
	Facts         []CardFact `json:"facts,omitempty"`
	Text          string     `json:"text,omitempty"`
	Markdown      bool       `json:"markdown"`
}

// CardFact is one name/value row of a facts section.
type CardFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CardAction is a card action button.
type CardAction struct {
	Type    string       `json:"@type"`
	Name    string       `json:"name"`
	Targets []CardTarget `json:"targets"`
}

// CardTarget is the URI target of a card action.
type CardTarget struct {
	OS  string `json:"os"`
	URI string `json:"uri"`
}

// buildCard renders a request event into the fixed card layout: a headline,
// a facts section, a numbered materials list and one link to the request's
// detail view.
func buildCard(ev *entity.RequestEvent, detailBaseURL string) MessageCard {
	themeColor := themeColorNormal
	statusLabel := "New"
	headline := fmt.Sprintf("New purchase request %s", ev.Number)
	if ev.IsRejection {
		themeColor = themeColorRejection
		statusLabel = "Rejected"
		headline = fmt.Sprintf("Purchase request %s rejected", ev.Number)
	}

	facts := []CardFact{
		{Name: "Site", Value: ev.Site},
		{Name: "Requested by", Value: ev.Requester},
		{Name: "Date", Value: ev.CreatedAt.Format(timestampLayout)},
		{Name: "Status", Value: statusLabel},
	}

	sections := []CardSection{{
		ActivityTitle: headline,
		Facts:         facts,
		Markdown:      true,
	}}

	if text := formatItems(ev); text != "" {
		sections = append(sections, CardSection{Text: text, Markdown: true})
	}

	var actions []CardAction
	if detailBaseURL != "" && ev.ID != "" {
		actions = append(actions, CardAction{
			Type: "OpenUri",
			Name: "View request",
			Targets: []CardTarget{{
				OS:  "default",
				URI: fmt.Sprintf("%s/requests/%s", strings.TrimRight(detailBaseURL, "/"), ev.ID),
			}},
		})
	}

	return MessageCard{
		Type:            "MessageCard",
		Context:         "http://schema.org/extensions",
		ThemeColor:      themeColor,
		Summary:         headline,
		Sections:        sections,
		PotentialAction: actions,
	}
}

// formatItems renders the materials as a numbered list, one line per item:
// "1. **name** - qty unit (brand)". The brand suffix is omitted when absent.
func formatItems(ev *entity.RequestEvent) string {
	var b strings.Builder
	if ev.Specifications != "" {
		b.WriteString(ev.Specifications)
		b.WriteString("\n\n")
	}
	for i, item := range ev.Items {
		qty := strconv.FormatFloat(item.Quantity, 'f', -1, 64)
		fmt.Fprintf(&b, "%d. **%s** - %s %s", i+1, item.Name, qty, item.Unit)
		if item.Brand != "" {
			fmt.Fprintf(&b, " (%s)", item.Brand)
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
