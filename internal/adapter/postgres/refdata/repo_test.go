package refdata

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/anime-ingest/internal/domain"
	"github.com/heartmarshall/anime-ingest/internal/lookup"
)

func newRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func TestRepo_ListEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    domain.LookupKind
		setup   func(mock pgxmock.PgxPoolIface)
		want    []lookup.Entry
		wantErr error
	}{
		{
			name: "studios",
			kind: domain.LookupStudios,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT name, id FROM studios ORDER BY id`).
					WillReturnRows(pgxmock.NewRows([]string{"name", "id"}).
						AddRow("Sunrise", 1).
						AddRow("Brain's Base", 2))
			},
			want: []lookup.Entry{{Name: "Sunrise", ID: 1}, {Name: "Brain's Base", ID: 2}},
		},
		{
			name: "tags empty",
			kind: domain.LookupTags,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT name, id FROM tags ORDER BY id`).
					WillReturnRows(pgxmock.NewRows([]string{"name", "id"}))
			},
			want: nil,
		},
		{
			name:    "unknown kind",
			kind:    domain.LookupKind("genres"),
			setup:   func(mock pgxmock.PgxPoolIface) {},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newRepo(t)
			tt.setup(mock)

			got, err := repo.ListEntries(context.Background(), tt.kind)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepo_ListEntries_QueryError(t *testing.T) {
	t.Parallel()

	repo, mock := newRepo(t)
	boom := errors.New("relation \"studios\" does not exist")
	mock.ExpectQuery(`SELECT name, id FROM studios`).WillReturnError(boom)

	_, err := repo.ListEntries(context.Background(), domain.LookupStudios)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Upsert(t *testing.T) {
	t.Parallel()

	repo, mock := newRepo(t)
	mock.ExpectExec(`INSERT INTO tags \(name\) VALUES \(\$1\),\(\$2\) ON CONFLICT \(name\) DO NOTHING`).
		WithArgs("Action", "NO TAGS").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	n, err := repo.Upsert(context.Background(), domain.LookupTags, []string{"Action", "NO TAGS"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.Upsert(context.Background(), domain.LookupTags, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
