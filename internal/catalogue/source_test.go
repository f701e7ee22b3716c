package catalogue

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLSource_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name", "pattern", "syllables_per_pada"}).
		AddRow("Anuṣṭubh", "L G L L G G L G", 8).
		AddRow("Split", "LG|GL", nil).
		AddRow("", "LG", 2).
		AddRow("NoPattern", nil, nil)
	mock.ExpectQuery("SELECT name, pattern, syllables_per_pada FROM chandas").WillReturnRows(rows)

	snap, err := SQLSource{DB: db}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sql", snap.Source())
	require.Equal(t, 3, snap.Len())

	entries := snap.Entries()
	assert.Equal(t, []string{"LGLLGGLG"}, entries[0].Pattern.Lines())
	assert.Equal(t, 8, entries[0].SyllablesPerLine)
	assert.Equal(t, []string{"LG", "GL"}, entries[1].Pattern.Lines())
	assert.Zero(t, entries[1].SyllablesPerLine)
	assert.True(t, entries[2].Pattern.IsEmpty())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSource_SkipsNullNames(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name", "pattern", "syllables_per_pada"}).
		AddRow("Anuṣṭubh", "LGLLGGLG", 8).
		AddRow(nil, "GGLG", nil).
		AddRow("   ", "LL", nil)
	mock.ExpectQuery("SELECT name, pattern, syllables_per_pada FROM chandas").WillReturnRows(rows)

	snap, err := SQLSource{DB: db}.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, snap.Len())
	assert.Equal(t, "Anuṣṭubh", snap.Entries()[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSource_CustomQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT title, lg, n FROM meters").
		WillReturnRows(sqlmock.NewRows([]string{"title", "lg", "n"}).AddRow("A", "LG", 2))

	snap, err := SQLSource{DB: db, Query: "SELECT title, lg, n FROM meters", Name: "postgres"}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "postgres", snap.Source())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSource_Errors(t *testing.T) {
	t.Run("query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		queryErr := errors.New("relation does not exist")
		mock.ExpectQuery("SELECT").WillReturnError(queryErr)

		_, err = SQLSource{DB: db}.Load(context.Background())
		assert.True(t, errors.Is(err, queryErr))
	})

	t.Run("no rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT").
			WillReturnRows(sqlmock.NewRows([]string{"name", "pattern", "syllables_per_pada"}))

		_, err = SQLSource{DB: db}.Load(context.Background())
		assert.True(t, errors.Is(err, ErrEmptyCatalogue))
	})

	t.Run("row error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rowErr := errors.New("connection reset")
		mock.ExpectQuery("SELECT").WillReturnRows(
			sqlmock.NewRows([]string{"name", "pattern", "syllables_per_pada"}).
				AddRow("A", "LG", 2).
				RowError(0, rowErr))

		_, err = SQLSource{DB: db}.Load(context.Background())
		assert.True(t, errors.Is(err, rowErr))
	})
}
