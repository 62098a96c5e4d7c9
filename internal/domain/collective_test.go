package domain

import "testing"

func TestDraftWithTagIdempotent(t *testing.T) {
	draft := CollectiveDraft{Tags: []string{"tools"}}

	draft = draft.WithTag(TagOpenSource)
	draft = draft.WithTag(TagOpenSource)

	count := 0
	for _, tag := range draft.Tags {
		if tag == TagOpenSource {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one open source tag, got %v", draft.Tags)
	}
}

func TestDraftWithTagDoesNotAliasInput(t *testing.T) {
	original := CollectiveDraft{Tags: []string{"a", "b"}}
	tagged := original.WithTag("c")

	if len(original.Tags) != 2 {
		t.Fatalf("original draft must stay unchanged, got %v", original.Tags)
	}
	if len(tagged.Tags) != 3 {
		t.Fatalf("expected appended tag, got %v", tagged.Tags)
	}
}

func TestDraftWithGithubSettings(t *testing.T) {
	draft := CollectiveDraft{Settings: DefaultSettings()}

	repo := draft.WithGithubSettings("acme/widget")
	if repo.Settings[SettingGithubRepo] != "acme/widget" {
		t.Fatalf("expected repository setting, got %+v", repo.Settings)
	}
	if _, ok := repo.Settings[SettingGithubOrg]; ok {
		t.Fatalf("organization setting must be absent for a repo handle")
	}

	org := draft.WithGithubSettings("acme")
	if org.Settings[SettingGithubOrg] != "acme" {
		t.Fatalf("expected organization setting, got %+v", org.Settings)
	}
	if _, ok := org.Settings[SettingGithubRepo]; ok {
		t.Fatalf("repository setting must be absent for an org handle")
	}

	if _, ok := draft.Settings[SettingGithubRepo]; ok {
		t.Fatalf("source draft settings must stay unchanged")
	}
}
