package domain

import "testing"

func TestAnimeType_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  AnimeType
		want bool
	}{
		{AnimeTypeTV, true},
		{AnimeTypeMovie, true},
		{AnimeTypeONA, true},
		{AnimeTypeOVA, true},
		{AnimeTypeSpecial, true},
		{AnimeType("Music"), false},
		{AnimeType("TV Special"), false},
		{AnimeType("tv"), false},
		{AnimeType(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			t.Parallel()
			if got := tt.typ.IsValid(); got != tt.want {
				t.Errorf("AnimeType(%q).IsValid() = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestAiringStatus_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status AiringStatus
		want   bool
	}{
		{AiringStatusAiring, true},
		{AiringStatusCompleted, true},
		{AiringStatusUpcoming, true},
		{AiringStatus("Finished Airing"), false},
		{AiringStatus(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("AiringStatus(%q).IsValid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestLookupKind_IsValid(t *testing.T) {
	t.Parallel()
	if !LookupStudios.IsValid() || !LookupTags.IsValid() {
		t.Fatal("studios and tags must be valid lookup kinds")
	}
	if LookupKind("genres").IsValid() {
		t.Fatal("genres must not be a valid lookup kind")
	}
	if got := LookupTags.String(); got != "tags" {
		t.Errorf("got %q, want tags", got)
	}
}
