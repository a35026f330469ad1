// Copyright (C) 2026 the Resource Catalogue Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// SPDX-License-Identifier: MIT

package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/log"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const uniqueViolation = "23505"

var recordColumns = []interface{}{
	"resource_type", "id", "catalogue_id", "status", "published", "active", "suspended", "draft",
	"name", "facets", "search_text", "payload", "created_at", "modified_at",
}

// PostgresStore keeps records in the resources table.
type PostgresStore struct {
	db      *sql.DB
	dialect goqu.DialectWrapper
}

// NewPostgresStore wraps an open database.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, dialect: goqu.Dialect("postgres")}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Add(ctx context.Context, rec *Record) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.ModifiedAt = now
	row, err := toRow(rec)
	if err != nil {
		return err
	}
	row["created_at"] = rec.CreatedAt

	query, args, err := s.dialect.Insert(tableName).Prepared(true).Rows(row).ToSQL()
	if err != nil {
		return err
	}
	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return common.NewErrConflict(fmt.Sprintf("%s with id '%s' already exists", rec.ResourceType, rec.ID))
		}
		log.L(ctx).Errorf("Failed to insert %s '%s': %v", rec.ResourceType, rec.ID, err)
		return fmt.Errorf("insert %s: %w", rec.ResourceType, err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, rec *Record) error {
	rec.ModifiedAt = time.Now().UTC()
	row, err := toRow(rec)
	if err != nil {
		return err
	}
	query, args, err := s.dialect.Update(tableName).Prepared(true).Set(row).
		Where(goqu.C("resource_type").Eq(rec.ResourceType), goqu.C("id").Eq(rec.ID)).
		ToSQL()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.L(ctx).Errorf("Failed to update %s '%s': %v", rec.ResourceType, rec.ID, err)
		return fmt.Errorf("update %s: %w", rec.ResourceType, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NewErrNotFound(fmt.Sprintf("%s with id '%s' does not exist", rec.ResourceType, rec.ID))
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, resourceType, id string) (*Record, error) {
	query, args, err := s.dialect.From(tableName).Prepared(true).Select(recordColumns...).
		Where(goqu.C("resource_type").Eq(resourceType), goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, err
	}
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewErrNotFound(fmt.Sprintf("%s with id '%s' does not exist", resourceType, id))
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", resourceType, err)
	}
	return rec, nil
}

func (s *PostgresStore) Delete(ctx context.Context, resourceType, id string) error {
	query, args, err := s.dialect.Delete(tableName).Prepared(true).
		Where(goqu.C("resource_type").Eq(resourceType), goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", resourceType, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NewErrNotFound(fmt.Sprintf("%s with id '%s' does not exist", resourceType, id))
	}
	return nil
}

// Search runs the count, page and facet queries in one read-only transaction.
func (s *PostgresStore) Search(ctx context.Context, ff *facetfilter.FacetFilter) (*Page, error) {
	where, err := ff.Where()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	page := &Page{From: ff.From}
	countSQL, countArgs, err := s.dialect.From(tableName).Prepared(true).
		Select(goqu.COUNT(goqu.Star())).Where(where...).ToSQL()
	if err != nil {
		return nil, err
	}
	if err = tx.QueryRowContext(ctx, countSQL, countArgs...).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("count %s: %w", ff.ResourceType, err)
	}

	if ff.Quantity > 0 && ff.From < page.Total {
		if page.Records, err = s.selectPage(ctx, tx, ff, where); err != nil {
			return nil, err
		}
	}

	for _, field := range ff.BrowseBy {
		facet, err := s.countFacet(ctx, tx, field, where)
		if err != nil {
			return nil, err
		}
		page.Facets = append(page.Facets, facet)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *PostgresStore) selectPage(ctx context.Context, tx *sql.Tx, ff *facetfilter.FacetFilter, where []exp.Expression) ([]*Record, error) {
	query, args, err := s.dialect.From(tableName).Prepared(true).Select(recordColumns...).
		Where(where...).
		Order(ff.OrderExpressions()...).
		Offset(uint(ff.From)).
		Limit(uint(ff.Quantity)).
		ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", ff.ResourceType, err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// countFacet counts each value of field once per record.
func (s *PostgresStore) countFacet(ctx context.Context, tx *sql.Tx, field string, where []exp.Expression) (model.Facet, error) {
	var value interface{}
	if facetfilter.IsColumn(field) {
		value = goqu.Cast(goqu.C(field), "TEXT").As("v")
	} else {
		value = goqu.L("jsonb_array_elements_text(facets->?)", field).As("v")
	}
	inner := s.dialect.From(tableName).Select(goqu.C("resource_type"), goqu.C("id"), value).Distinct().Where(where...)
	query, args, err := s.dialect.From(inner.As("f")).Prepared(true).
		Select(goqu.C("v"), goqu.COUNT(goqu.Star()).As("count")).
		GroupBy(goqu.C("v")).
		Order(goqu.C("count").Desc(), goqu.C("v").Asc()).
		ToSQL()
	if err != nil {
		return model.Facet{}, err
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return model.Facet{}, fmt.Errorf("facet %s: %w", field, err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var v string
		var c int
		if err := rows.Scan(&v, &c); err != nil {
			return model.Facet{}, err
		}
		counts[v] = c
	}
	if err := rows.Err(); err != nil {
		return model.Facet{}, err
	}
	return facetfilter.BuildFacet(field, counts), nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var facets, payload []byte
	var name, searchText sql.NullString
	err := row.Scan(&rec.ResourceType, &rec.ID, &rec.CatalogueID, &rec.Status, &rec.Published, &rec.Active,
		&rec.Suspended, &rec.Draft, &name, &facets, &searchText, &payload, &rec.CreatedAt, &rec.ModifiedAt)
	if err != nil {
		return nil, err
	}
	rec.Name = name.String
	rec.SearchText = searchText.String
	rec.Payload = payload
	if len(facets) > 0 {
		if err := json.Unmarshal(facets, &rec.Facets); err != nil {
			return nil, fmt.Errorf("decode facets of %s '%s': %w", rec.ResourceType, rec.ID, err)
		}
	}
	return &rec, nil
}

func toRow(rec *Record) (goqu.Record, error) {
	facets := rec.Facets
	if facets == nil {
		facets = map[string][]string{}
	}
	f, err := json.MarshalToString(facets)
	if err != nil {
		return nil, err
	}
	return goqu.Record{
		"resource_type": rec.ResourceType,
		"id":            rec.ID,
		"catalogue_id":  rec.CatalogueID,
		"status":        rec.Status,
		"published":     rec.Published,
		"active":        rec.Active,
		"suspended":     rec.Suspended,
		"draft":         rec.Draft,
		"name":          rec.Name,
		"facets":        goqu.L("?::jsonb", f),
		"search_text":   rec.SearchText,
		"payload":       goqu.L("?::jsonb", string(rec.Payload)),
		"modified_at":   rec.ModifiedAt,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}
