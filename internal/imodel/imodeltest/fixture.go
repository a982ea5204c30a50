// Package imodeltest writes small snapshot files for tests.
package imodeltest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Category is a category element. Drawing categories are 2D.
type Category struct {
	ID      int64
	Name    string
	Drawing bool
}

// Model is a model with its partition element. Class defaults to PhysicalModel.
type Model struct {
	ID      int64
	Name    string
	Class   string
	Private bool
}

// Fixture describes snapshot contents. Category and model ids share the
// element id space and must not collide.
type Fixture struct {
	Categories []Category
	Models     []Model
	// Geometry lists the category id of each 3D geometric element.
	Geometry []int64
}

const schema = `
CREATE TABLE ec_Schema (Id INTEGER PRIMARY KEY, Name TEXT NOT NULL);
CREATE TABLE ec_Class (Id INTEGER PRIMARY KEY, SchemaId INTEGER NOT NULL, Name TEXT NOT NULL);
CREATE TABLE bis_Element (Id INTEGER PRIMARY KEY, ECClassId INTEGER NOT NULL, ModelId INTEGER, CodeValue TEXT);
CREATE TABLE bis_Model (Id INTEGER PRIMARY KEY, ECClassId INTEGER NOT NULL, ModeledElementId INTEGER NOT NULL, IsPrivate BOOLEAN NOT NULL DEFAULT 0);
CREATE TABLE bis_GeometricElement3d (ElementId INTEGER PRIMARY KEY, CategoryId INTEGER NOT NULL);
INSERT INTO ec_Schema (Id, Name) VALUES (1, 'BisCore'), (2, 'Generic');
INSERT INTO ec_Class (Id, SchemaId, Name) VALUES
  (10, 1, 'SpatialCategory'),
  (11, 1, 'DrawingCategory'),
  (12, 1, 'PhysicalModel'),
  (13, 1, 'DefinitionModel'),
  (14, 1, 'DrawingModel'),
  (20, 1, 'PhysicalPartition'),
  (30, 2, 'PhysicalObject');
`

var modelClasses = map[string]int64{
	"":                12,
	"PhysicalModel":   12,
	"DefinitionModel": 13,
	"DrawingModel":    14,
}

// geometryBase offsets geometric element ids away from fixture ids.
const geometryBase = 1 << 20

// Write creates a snapshot at path.
func Write(t testing.TB, path string, f Fixture) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}
	for _, c := range f.Categories {
		class := int64(10)
		if c.Drawing {
			class = 11
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO bis_Element (Id, ECClassId, CodeValue) VALUES (?, ?, ?)`, c.ID, class, nullable(c.Name)); err != nil {
			t.Fatalf("insert category %d: %v", c.ID, err)
		}
	}
	for _, m := range f.Models {
		class, ok := modelClasses[m.Class]
		if !ok {
			t.Fatalf("unknown model class %q", m.Class)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO bis_Element (Id, ECClassId, CodeValue) VALUES (?, 20, ?)`, m.ID, nullable(m.Name)); err != nil {
			t.Fatalf("insert partition %d: %v", m.ID, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO bis_Model (Id, ECClassId, ModeledElementId, IsPrivate) VALUES (?, ?, ?, ?)`, m.ID, class, m.ID, m.Private); err != nil {
			t.Fatalf("insert model %d: %v", m.ID, err)
		}
	}
	for i, category := range f.Geometry {
		id := int64(geometryBase + i)
		if _, err := db.ExecContext(ctx, `INSERT INTO bis_Element (Id, ECClassId) VALUES (?, 30)`, id); err != nil {
			t.Fatalf("insert element %d: %v", id, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO bis_GeometricElement3d (ElementId, CategoryId) VALUES (?, ?)`, id, category); err != nil {
			t.Fatalf("insert geometry %d: %v", id, err)
		}
	}
}

// WriteTemp creates a snapshot named name inside a fresh temporary directory
// and returns its path.
func WriteTemp(t testing.TB, name string, f Fixture) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	Write(t, path, f)
	return path
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
