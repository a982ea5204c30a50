package imodel

import (
	"context"
	"fmt"
	"iter"
	"regexp"
	"strings"
)

// PhysicalModelClass is the class of models that hold physical (3D) elements.
const PhysicalModelClass = "BisCore:PhysicalModel"

const (
	categoriesQuery = `SELECT e.Id AS id, e.CodeValue AS codeValue
FROM bis_Element e
JOIN ec_Class c ON c.Id = e.ECClassId
WHERE c.Name IN ('SpatialCategory', 'DrawingCategory')`

	modelsQuery = `SELECT m.Id AS id, e.CodeValue AS name, m.IsPrivate AS isPrivate, s.Name || ':' || c.Name AS classFullName
FROM bis_Model m
JOIN bis_Element e ON e.Id = m.ModeledElementId
JOIN ec_Class c ON c.Id = m.ECClassId
JOIN ec_Schema s ON s.Id = c.SchemaId`
)

var tableName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Querier runs SQL against a snapshot. *Connection implements it.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) iter.Seq2[Row, error]
}

// ModelQuerier lists models. *Connection implements it.
type ModelQuerier interface {
	QueryModels(ctx context.Context, params ModelQueryParams) iter.Seq2[ModelProps, error]
}

// ModelQueryParams filters QueryModels.
type ModelQueryParams struct {
	// WantPrivate includes models flagged private (dictionary, repository...).
	WantPrivate bool
	// From restricts results to a class full name such as "BisCore:PhysicalModel".
	// "BisCore.PhysicalModel" is accepted as well.
	From string
	// IDs restricts results to the given models.
	IDs []ID
}

// ModelProps describes a model row.
type ModelProps struct {
	ID            ID
	Name          string
	ClassFullName string
	IsPrivate     bool
}

// CategoryProps describes a category element.
type CategoryProps struct {
	ID        ID
	CodeValue string
}

// QueryModels lists models matching params, ordered by id.
func (c *Connection) QueryModels(ctx context.Context, params ModelQueryParams) iter.Seq2[ModelProps, error] {
	query, args := buildModelsQuery(params)
	return func(yield func(ModelProps, error) bool) {
		for row, err := range c.Query(ctx, query, args...) {
			if err != nil {
				yield(ModelProps{}, err)
				return
			}
			props := ModelProps{
				ID:            row.ID("id"),
				Name:          row.String("name"),
				ClassFullName: row.String("classFullName"),
				IsPrivate:     row.Bool("isPrivate"),
			}
			if !yield(props, nil) {
				return
			}
		}
	}
}

func buildModelsQuery(params ModelQueryParams) (string, []any) {
	var (
		where []string
		args  []any
	)
	if !params.WantPrivate {
		where = append(where, "m.IsPrivate = 0")
	}
	if from := strings.TrimSpace(params.From); from != "" {
		where = append(where, "(s.Name || ':' || c.Name) = ?")
		args = append(args, strings.Replace(from, ".", ":", 1))
	}
	if len(params.IDs) > 0 {
		marks := make([]string, 0, len(params.IDs))
		for _, id := range params.IDs {
			if !id.Valid() {
				continue
			}
			marks = append(marks, "?")
			args = append(args, id.Int64())
		}
		if len(marks) == 0 {
			where = append(where, "0")
		} else {
			where = append(where, "m.Id IN ("+strings.Join(marks, ", ")+")")
		}
	}
	query := modelsQuery
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	return query + "\nORDER BY m.Id", args
}

// FetchRows collects every row of query. A nil querier yields no rows.
func FetchRows(ctx context.Context, q Querier, query string, args ...any) ([]Row, error) {
	rows := []Row{}
	if q == nil {
		return rows, nil
	}
	for row, err := range q.Query(ctx, query, args...) {
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FetchCategoryIDs returns the distinct category ids referenced by the
// elements of table (for example "GeometricElement3d").
func FetchCategoryIDs(ctx context.Context, q Querier, table string) ([]ID, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	rows, err := FetchRows(ctx, q, "SELECT DISTINCT CategoryId AS categoryId FROM bis_"+table)
	if err != nil {
		return nil, fmt.Errorf("fetch category ids from %s: %w", table, err)
	}
	ids := make([]ID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID("categoryId"))
	}
	return ids, nil
}

// Fetch3dCategoryIDs returns the category ids attached to 3D geometry.
func Fetch3dCategoryIDs(ctx context.Context, q Querier) ([]ID, error) {
	return FetchCategoryIDs(ctx, q, "GeometricElement3d")
}

// FetchCategories returns every spatial and drawing category.
func FetchCategories(ctx context.Context, q Querier) ([]CategoryProps, error) {
	rows, err := FetchRows(ctx, q, categoriesQuery)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	categories := make([]CategoryProps, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, CategoryProps{ID: row.ID("id"), CodeValue: row.String("codeValue")})
	}
	return categories, nil
}

// FetchModels collects every model matching params. A nil querier yields none.
func FetchModels(ctx context.Context, q ModelQuerier, params ModelQueryParams) ([]ModelProps, error) {
	models := []ModelProps{}
	if q == nil {
		return models, nil
	}
	for props, err := range q.QueryModels(ctx, params) {
		if err != nil {
			return nil, fmt.Errorf("fetch models: %w", err)
		}
		models = append(models, props)
	}
	return models, nil
}
