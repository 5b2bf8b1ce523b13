package entity

import (
	"encoding/json"
	"strings"
)

// Profile is a read-only view of a user row owned by the host procurement
// application. This engine never writes profiles; it only reads them to
// resolve notification targets.
type Profile struct {
	ID    string
	Email string
	Name  string
	Role  string

	// RawSiteID holds the site_id column as stored. The host application has
	// written both bare scalars ("12") and JSON arrays (`["12","15"]`) into
	// this column over time, so the stored shape cannot be trusted. Use
	// SiteIDs to read it.
	RawSiteID string

	// EmailNotifications is the per-user opt-in flag gating email delivery
	// when no explicit recipient list is supplied.
	EmailNotifications bool
}

// SiteIDs normalizes the heterogeneous site_id column into a list.
// A JSON array yields its string elements, anything else is treated as a
// single scalar site ID. An empty column yields an empty list.
func (p *Profile) SiteIDs() []string {
	raw := strings.TrimSpace(p.RawSiteID)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			out := make([]string, 0, len(list))
			for _, s := range list {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
			return out
		}
		// Malformed JSON falls through and is kept as a scalar.
	}
	return []string{raw}
}

// MemberOfSite reports whether the profile belongs to the given site.
func (p *Profile) MemberOfSite(siteID string) bool {
	for _, id := range p.SiteIDs() {
		if id == siteID {
			return true
		}
	}
	return false
}
