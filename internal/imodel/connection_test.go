package imodel

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/imodel-browser/internal/imodel/imodeltest"
)

func TestQueryStreamsRowsWithLowerCaseKeys(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT Id, CodeValue FROM bis_Element")).
		WillReturnRows(sqlmock.NewRows([]string{"Id", "CodeValue"}).
			AddRow(int64(1), []byte("B")).
			AddRow(int64(2), "a"))

	conn := NewConnection(db, "mock.bim")
	rows, err := FetchRows(context.Background(), conn, "SELECT Id, CodeValue FROM bis_Element")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ID("0x1"), rows[0].ID("id"))
	assert.Equal(t, "B", rows[0]["codevalue"])
	assert.Equal(t, "a", rows[1].String("codeValue"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryStopsWhenConsumerBreaks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)).AddRow(int64(3))).
		RowsWillBeClosed()

	conn := NewConnection(db, "")
	seen := 0
	for _, err := range conn.Query(context.Background(), "SELECT id FROM t") {
		require.NoError(t, err)
		seen++
		if seen == 1 {
			break
		}
	}
	assert.Equal(t, 1, seen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryErrorPropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	boom := errors.New("malformed")
	mock.ExpectQuery("SELECT").WillReturnError(boom)

	_, err = FetchRows(context.Background(), NewConnection(db, ""), "SELECT nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestNilConnectionYieldsNothing(t *testing.T) {
	var conn *Connection
	rows, err := FetchRows(context.Background(), conn, "SELECT 1")
	require.NoError(t, err)
	assert.Empty(t, rows)

	models, err := FetchModels(context.Background(), conn, ModelQueryParams{})
	require.NoError(t, err)
	assert.Empty(t, models)

	var q Querier
	rows, err = FetchRows(context.Background(), q, "SELECT 1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestQueryAfterCloseFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()
	conn := NewConnection(db, "")
	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())

	_, err = FetchRows(context.Background(), conn, "SELECT 1")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBuildModelsQueryFilters(t *testing.T) {
	query, args := buildModelsQuery(ModelQueryParams{From: "BisCore.PhysicalModel", IDs: []ID{"0x10", InvalidID, "0x11"}})
	assert.Contains(t, query, "m.IsPrivate = 0")
	assert.Contains(t, query, "(s.Name || ':' || c.Name) = ?")
	assert.Contains(t, query, "m.Id IN (?, ?)")
	assert.Equal(t, []any{"BisCore:PhysicalModel", int64(16), int64(17)}, args)

	query, args = buildModelsQuery(ModelQueryParams{WantPrivate: true})
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)

	query, _ = buildModelsQuery(ModelQueryParams{WantPrivate: true, IDs: []ID{InvalidID}})
	assert.Contains(t, query, "WHERE 0")
}

func TestFetchCategoryIDsRejectsBadTable(t *testing.T) {
	_, err := FetchCategoryIDs(context.Background(), nil, "x; DROP TABLE bis_Element")
	assert.Error(t, err)
}

func TestOpenSnapshotQueriesFixture(t *testing.T) {
	path := imodeltest.WriteTemp(t, "plant.bim", imodeltest.Fixture{
		Categories: []imodeltest.Category{{ID: 1, Name: "B"}, {ID: 2, Name: "a"}, {ID: 3, Name: "Sheet", Drawing: true}},
		Models: []imodeltest.Model{
			{ID: 16, Name: "Structure"},
			{ID: 17, Name: "Dictionary", Class: "DefinitionModel"},
			{ID: 18, Name: "Hidden", Private: true},
		},
		Geometry: []int64{1, 1},
	})

	ctx := context.Background()
	conn, err := OpenSnapshot(ctx, path)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	assert.NotEmpty(t, conn.Key())
	assert.Equal(t, path, conn.Path())

	ids, err := Fetch3dCategoryIDs(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []ID{"0x1"}, ids)

	categories, err := FetchCategories(ctx, conn)
	require.NoError(t, err)
	assert.Len(t, categories, 3)

	models, err := FetchModels(ctx, conn, ModelQueryParams{From: PhysicalModelClass})
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, ModelProps{ID: "0x10", Name: "Structure", ClassFullName: PhysicalModelClass}, models[0])

	all, err := FetchModels(ctx, conn, ModelQueryParams{WantPrivate: true, IDs: []ID{"0x11", "0x12"}})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[1].IsPrivate)
}

func TestOpenSnapshotRelativePath(t *testing.T) {
	dir := t.TempDir()
	imodeltest.Write(t, filepath.Join(dir, "rel.bim"), imodeltest.Fixture{
		Categories: []imodeltest.Category{{ID: 1, Name: "Piping"}},
		Geometry:   []int64{1},
	})
	t.Chdir(dir)

	conn, err := OpenSnapshot(context.Background(), "rel.bim")
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	assert.Equal(t, "rel.bim", conn.Path())

	ids, err := Fetch3dCategoryIDs(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, []ID{"0x1"}, ids)
}

func TestOpenSnapshotPathNeedingEscapes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my plants #2")
	require.NoError(t, os.Mkdir(dir, 0o755))
	path := filepath.Join(dir, "site 2.bim")
	imodeltest.Write(t, path, imodeltest.Fixture{})

	conn, err := OpenSnapshot(context.Background(), path)
	require.NoError(t, err)
	assert.NoError(t, conn.Close())
}

func TestSnapshotDSNIsAbsolute(t *testing.T) {
	dsn, err := snapshotDSN("docs/plant.bim")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^file:///.+/docs/plant\.bim\?mode=ro$`), dsn)
}

func TestOpenSnapshotRejectsPlainSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.bim")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE notes (id INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = OpenSnapshot(context.Background(), path)
	assert.ErrorIs(t, err, ErrNotIModel)
}

func TestOpenSnapshotMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.bim")
	_, err := OpenSnapshot(context.Background(), path)
	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "read-only open must not create the file")
}
