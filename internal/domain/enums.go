package domain

// AnimeType is the closed set of catalog types accepted into the Anime table.
type AnimeType string

const (
	AnimeTypeTV      AnimeType = "TV"
	AnimeTypeMovie   AnimeType = "Movie"
	AnimeTypeONA     AnimeType = "ONA"
	AnimeTypeOVA     AnimeType = "OVA"
	AnimeTypeSpecial AnimeType = "Special"
)

func (t AnimeType) String() string { return string(t) }

func (t AnimeType) IsValid() bool {
	switch t {
	case AnimeTypeTV, AnimeTypeMovie, AnimeTypeONA, AnimeTypeOVA, AnimeTypeSpecial:
		return true
	}
	return false
}

// AiringStatus is the closed set of airing states stored for an anime.
type AiringStatus string

const (
	AiringStatusAiring    AiringStatus = "Airing"
	AiringStatusCompleted AiringStatus = "Completed"
	AiringStatusUpcoming  AiringStatus = "Upcoming"
)

func (s AiringStatus) String() string { return string(s) }

func (s AiringStatus) IsValid() bool {
	switch s {
	case AiringStatusAiring, AiringStatusCompleted, AiringStatusUpcoming:
		return true
	}
	return false
}

// LookupKind identifies one of the two reference tables resolved during ingest.
type LookupKind string

const (
	LookupStudios LookupKind = "studios"
	LookupTags    LookupKind = "tags"
)

func (k LookupKind) String() string { return string(k) }

func (k LookupKind) IsValid() bool {
	switch k {
	case LookupStudios, LookupTags:
		return true
	}
	return false
}
