package jikan

import "github.com/heartmarshall/anime-ingest/internal/domain"

// apiPage is one page of the /top/anime listing.
type apiPage struct {
	Data       []domain.RawAnime `json:"data"`
	Pagination apiPagination     `json:"pagination"`
}

// apiPagination describes the listing's page range.
type apiPagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
}
