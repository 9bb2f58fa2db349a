// Package normalize validates raw catalog records and turns them into
// reference-resolved rows.
package normalize

import (
	"math"
	"strings"

	"github.com/heartmarshall/anime-ingest/internal/domain"
)

// StudioResolver maps a studio name to its id.
type StudioResolver interface {
	ResolveStudio(name string) (int, bool)
}

// TagResolver maps tag names to ids.
type TagResolver interface {
	ResolveTags(names []string) []int
	NoTagsID() (int, bool)
}

var typeRemap = map[string]domain.AnimeType{
	"TV Special": domain.AnimeTypeSpecial,
	"PV":         domain.AnimeTypeSpecial,
	"CM":         domain.AnimeTypeSpecial,
}

var statusMap = map[string]domain.AiringStatus{
	"Currently Airing": domain.AiringStatusAiring,
	"Finished Airing":  domain.AiringStatusCompleted,
	"Not yet aired":    domain.AiringStatusUpcoming,
}

var bannedTags = map[string]struct{}{
	"Hentai":  {},
	"NSFW":    {},
	"Erotica": {},
}

const (
	defaultRating = 5
	minRating     = 1
	maxRating     = 10
)

// Normalizer applies the rejection rules and derives AnimeRow fields.
type Normalizer struct {
	studios StudioResolver
	tags    TagResolver
}

// New creates a Normalizer resolving against the given maps.
func New(studios StudioResolver, tags TagResolver) *Normalizer {
	return &Normalizer{studios: studios, tags: tags}
}

// Normalize checks raw against the rules in order and returns either the
// resolved row or the reason it was rejected. The title is claimed in st
// before any other rule runs, so a title rejected for another reason still
// makes later records with the same title duplicates.
func (n *Normalizer) Normalize(raw domain.RawAnime, st *State) (domain.AnimeRow, *domain.SkipReason) {
	title := strings.TrimSpace(raw.Title)
	skip := func(rule Rule, cause string) (domain.AnimeRow, *domain.SkipReason) {
		return domain.AnimeRow{}, st.reject(rule, domain.SkipReason{Title: title, Cause: cause})
	}

	if !st.claim(title) {
		return skip(RuleDuplicate, "Duplicate title")
	}

	rawType := strings.TrimSpace(raw.Type)
	if rawType == "Music" {
		return skip(RuleMusic, "Type: Music")
	}
	animeType := domain.AnimeType(rawType)
	if remapped, ok := typeRemap[rawType]; ok {
		animeType = remapped
	}
	if !animeType.IsValid() {
		return skip(RuleInvalidType, "Invalid type: "+rawType)
	}

	if len(raw.Studios) == 0 {
		return skip(RuleNoStudio, "No studio")
	}
	studioName := raw.Studios[0].Name
	studioID, ok := n.studios.ResolveStudio(studioName)
	if !ok {
		return skip(RuleUnknownStudio, "Unknown studio: "+studioName)
	}

	tagNames := raw.TagNames()
	for _, name := range tagNames {
		if _, banned := bannedTags[name]; banned {
			return skip(RuleBannedTag, "Skipped due to genre/theme: "+name)
		}
	}

	tagIDs := n.tags.ResolveTags(tagNames)
	if len(tagIDs) == 0 {
		id, ok := n.tags.NoTagsID()
		if !ok {
			return skip(RuleNoTags, "No tags")
		}
		tagIDs = []int{id}
	}

	st.accepted++

	return domain.AnimeRow{
		Title:       title,
		Type:        animeType,
		Episodes:    domain.EpisodesFromPtr(raw.Episodes),
		Status:      mapStatus(raw.Status),
		AiringStart: domain.DateFromTimestamp(raw.Aired.From),
		AiringEnd:   domain.DateFromTimestamp(raw.Aired.To),
		Rating:      rating(raw.Score),
		Synopsis:    deref(raw.Synopsis),
		ImageURL:    strings.TrimSpace(raw.Images.JPG.ImageURL),
		StudioID:    studioID,
		TagIDs:      tagIDs,
	}, nil
}

func mapStatus(s string) domain.AiringStatus {
	if status, ok := statusMap[s]; ok {
		return status
	}
	return domain.AiringStatusUpcoming
}

// rating rounds half to even and clamps to 1..10; a missing or zero score
// yields the default.
func rating(score *float64) int {
	if score == nil || *score == 0 || math.IsNaN(*score) {
		return defaultRating
	}
	r := math.RoundToEven(*score)
	return int(math.Min(math.Max(r, minRating), maxRating))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
