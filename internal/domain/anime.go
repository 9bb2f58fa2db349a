package domain

import "fmt"

// RawAnime is one catalog entry as received from the Jikan API.
// Nullable fields are pointers so that null and zero stay distinguishable.
type RawAnime struct {
	MalID    int          `json:"mal_id"`
	Title    string       `json:"title"`
	Type     string       `json:"type"`
	Episodes *int         `json:"episodes"`
	Status   string       `json:"status"`
	Aired    RawAired     `json:"aired"`
	Score    *float64     `json:"score"`
	Synopsis *string      `json:"synopsis"`
	Images   RawImages    `json:"images"`
	Studios  []NamedEntry `json:"studios"`
	Genres   []NamedEntry `json:"genres"`
	Themes   []NamedEntry `json:"themes"`
}

// RawAired is the air-date range of a RawAnime; bounds are ISO-8601 timestamps.
type RawAired struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// RawImages holds the image variants of a RawAnime.
type RawImages struct {
	JPG struct {
		ImageURL string `json:"image_url"`
	} `json:"jpg"`
}

// NamedEntry is a studio, genre or theme reference inside a RawAnime.
type NamedEntry struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
}

// TagNames returns genre names followed by theme names.
func (r RawAnime) TagNames() []string {
	names := make([]string, 0, len(r.Genres)+len(r.Themes))
	for _, g := range r.Genres {
		names = append(names, g.Name)
	}
	for _, t := range r.Themes {
		names = append(names, t.Name)
	}
	return names
}

// AnimeRow is a validated, reference-resolved row ready for the Anime table.
// Text fields hold unescaped values; escaping belongs to the output format.
type AnimeRow struct {
	Title       string
	Type        AnimeType
	Episodes    Episodes
	Status      AiringStatus
	AiringStart Date
	AiringEnd   Date
	Rating      int
	Synopsis    string
	ImageURL    string
	StudioID    int
	TagIDs      []int
}

// SkipReason records why a raw record was rejected.
type SkipReason struct {
	Title string
	Cause string
}

// String renders the reason as a skip-log line.
func (s SkipReason) String() string {
	return fmt.Sprintf("%s - %s", s.Title, s.Cause)
}
