package domain

import (
	"strings"
	"time"
)

// Actor is the authenticated user performing a request.
type Actor struct {
	ID           int64  `json:"id"`
	CollectiveID int64  `json:"collectiveID"`
	Email        string `json:"email"`
}

// Settings is the per-collective feature flag mapping, stored as jsonb.
type Settings map[string]any

func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// DefaultSettings seeds the settings every new collective starts with.
func DefaultSettings() Settings {
	return Settings{
		"features": map[string]any{"conversations": true},
	}
}

// Collective is a persisted fundraising/expense-tracking group.
type Collective struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Description     string     `json:"description,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	Settings        Settings   `json:"settings"`
	IsActive        bool       `json:"isActive"`
	CreatedByUserID int64      `json:"createdByUserID"`
	HostID          *int64     `json:"hostID,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// CollectiveDraft is the validated shape of a collective before persistence.
// It is a value: decision steps return transformed copies instead of mutating
// shared state.
type CollectiveDraft struct {
	Name            string
	Slug            string
	Description     string
	Tags            []string
	Settings        Settings
	IsActive        bool
	CreatedByUserID int64
}

// WithTag returns a draft whose tag set contains tag exactly once.
func (d CollectiveDraft) WithTag(tag string) CollectiveDraft {
	for _, t := range d.Tags {
		if t == tag {
			return d
		}
	}
	tags := make([]string, len(d.Tags), len(d.Tags)+1)
	copy(tags, d.Tags)
	d.Tags = append(tags, tag)
	return d
}

// WithGithubSettings records the claimed handle as a repository setting when
// it names a repository, otherwise as an organization setting.
func (d CollectiveDraft) WithGithubSettings(handle string) CollectiveDraft {
	settings := d.Settings.Clone()
	if strings.Contains(handle, "/") {
		settings[SettingGithubRepo] = handle
	} else {
		settings[SettingGithubOrg] = handle
	}
	d.Settings = settings
	return d
}

// Host is a collective activated as fiscal host.
type Host struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	IsHostAccount bool   `json:"isHostAccount"`
}

// HostRef references a host by id or slug.
type HostRef struct {
	ID   int64  `json:"id,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// ConnectedAccount binds a collective to an external service credential.
type ConnectedAccount struct {
	CollectiveID int64  `json:"collectiveID"`
	Service      string `json:"service"`
	Token        string `json:"-"`
}

// Activity is an immutable audit entry. Data snapshots the involved records
// at emission time.
type Activity struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	UserID       int64        `json:"userID"`
	CollectiveID *int64       `json:"collectiveID,omitempty"`
	Data         ActivityData `json:"data"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type ActivityData struct {
	Collective *Collective       `json:"collective,omitempty"`
	Host       *Host             `json:"host,omitempty"`
	User       *ActivityUserData `json:"user,omitempty"`
}

type ActivityUserData struct {
	Email      string      `json:"email"`
	Collective *Collective `json:"collective,omitempty"`
}
