// Package resolve turns caller-supplied targeting specifications into
// concrete, deduplicated destination lists per delivery channel.
package resolve

import (
	"context"
	"fmt"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/repository"
)

// TargetingSpec is the caller-supplied filter description. Either Recipients
// carries literal addresses (bypassing every store-based filter, including
// the email opt-in flag), or the UserIDs/Roles/SiteID filters are combined
// conjunctively against the profile store.
type TargetingSpec struct {
	Recipients []string
	UserIDs    []string
	Roles      []string
	SiteID     string
}

// EmailDestination is one resolved email target.
type EmailDestination struct {
	// UserID is empty for literal recipients that bypassed the store.
	UserID string
	Email  string
}

// PushDestination is one resolved push target: a user together with every
// live subscription they own. A profile match with zero subscriptions never
// becomes a destination.
type PushDestination struct {
	UserID      string
	Subscribers []*entity.Subscriber
}

// Resolver matches targeting specifications against the profile and
// subscriber stores.
type Resolver struct {
	Profiles    repository.ProfileRepository
	Subscribers repository.SubscriberRepository
}

// ResolveEmail returns the email destinations for the spec, in stable order
// with duplicates removed. Literal recipients skip the store entirely;
// store-resolved candidates additionally require the opt-in flag.
func (r *Resolver) ResolveEmail(ctx context.Context, spec TargetingSpec) ([]EmailDestination, error) {
	if len(spec.Recipients) > 0 {
		dests := make([]EmailDestination, 0, len(spec.Recipients))
		seen := make(map[string]struct{}, len(spec.Recipients))
		for _, addr := range spec.Recipients {
			if addr == "" {
				continue
			}
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			dests = append(dests, EmailDestination{Email: addr})
		}
		return dests, nil
	}

	profiles, err := r.matchProfiles(ctx, spec)
	if err != nil {
		return nil, err
	}

	dests := make([]EmailDestination, 0, len(profiles))
	for _, p := range profiles {
		if !p.EmailNotifications || p.Email == "" {
			continue
		}
		dests = append(dests, EmailDestination{UserID: p.ID, Email: p.Email})
	}
	return dests, nil
}

// ResolvePush returns the push destinations for the spec: one destination
// per matched user holding at least one live subscription. The opt-in flag
// gates email only and is not consulted here.
func (r *Resolver) ResolvePush(ctx context.Context, spec TargetingSpec) ([]PushDestination, error) {
	profiles, err := r.matchProfiles(ctx, spec)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	userIDs := make([]string, 0, len(profiles))
	for _, p := range profiles {
		userIDs = append(userIDs, p.ID)
	}

	subs, err := r.Subscribers.ListByUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}

	byUser := make(map[string][]*entity.Subscriber, len(profiles))
	for _, sub := range subs {
		byUser[sub.UserID] = append(byUser[sub.UserID], sub)
	}

	dests := make([]PushDestination, 0, len(profiles))
	for _, p := range profiles {
		owned := byUser[p.ID]
		if len(owned) == 0 {
			continue
		}
		dests = append(dests, PushDestination{UserID: p.ID, Subscribers: owned})
	}
	return dests, nil
}

// matchProfiles applies the userId, role and site filters conjunctively.
// A filter that is not supplied matches everything. Site membership tests
// against the normalized site list, never the raw column.
func (r *Resolver) matchProfiles(ctx context.Context, spec TargetingSpec) ([]*entity.Profile, error) {
	profiles, err := r.Profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	wantUsers := toSet(spec.UserIDs)
	wantRoles := toSet(spec.Roles)

	matched := make([]*entity.Profile, 0, len(profiles))
	seen := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		if wantUsers != nil {
			if _, ok := wantUsers[p.ID]; !ok {
				continue
			}
		}
		if wantRoles != nil {
			if _, ok := wantRoles[p.Role]; !ok {
				continue
			}
		}
		if spec.SiteID != "" && !p.MemberOfSite(spec.SiteID) {
			continue
		}
		seen[p.ID] = struct{}{}
		matched = append(matched, p)
	}
	return matched, nil
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
