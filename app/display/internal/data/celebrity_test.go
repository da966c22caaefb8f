package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/storage"
)

func newTestRepo(t *testing.T) (*celebrityRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	d := &Data{store: storage.NewWithDB(db)}
	return NewCelebrityRepo(d, log.DefaultLogger).(*celebrityRepo), mock
}

func TestCelebrityRepo_LatestRankings(t *testing.T) {
	r, mock := newTestRepo(t)
	mock.ExpectQuery("WHERE rn = 1").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"name", "sentiment", "created_at", "cleaned_paragraph", "source"}).
			AddRow("A", 0.6, time.Now(), "summary", "https://a"))

	got, err := r.LatestRankings(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCelebrityRepo_StatisticsError(t *testing.T) {
	r, mock := newTestRepo(t)
	mock.ExpectQuery("COUNT").WillReturnError(errors.New("relation does not exist"))

	_, err := r.Statistics(context.Background())
	assert.Error(t, err)
}

func TestCelebrityRepo_Trend(t *testing.T) {
	r, mock := newTestRepo(t)
	mock.ExpectQuery("FROM celebrity_data").
		WithArgs("A", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "sentiment", "cleaned_paragraph"}))

	got, err := r.Trend(context.Background(), "A", 7)
	require.NoError(t, err)
	assert.Empty(t, got)
}
