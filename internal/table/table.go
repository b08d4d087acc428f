// Package table implements the interactive grid semantics: column
// derivation, per-column filtering, numeric-aware sorting, pagination, the
// focused-cell cursor, and inline edit commits. It holds no REST knowledge;
// persistence belongs to the caller.
package table

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"contract-admin-api/internal/mapper"
)

const DefaultPageSize = 10

// Query captures one view of the grid: active filters, sort key, page and
// the columns the user toggled off for this session.
type Query struct {
	Filters       map[string]string `json:"filters,omitempty"`
	SortBy        string            `json:"sort_by,omitempty"`
	SortDesc      bool              `json:"sort_desc,omitempty"`
	Page          int               `json:"page,omitempty"`
	PageSize      int               `json:"page_size,omitempty"`
	HiddenColumns []string          `json:"hidden_columns,omitempty"`
}

// Page is one rendered slice of the grid.
type Page struct {
	Rows       []mapper.Row `json:"rows"`
	Columns    []string     `json:"columns"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
}

// Apply runs filter, then sort, then pagination over the rows, in that
// order. columns carries the config's display order; the page's column set
// drops id-like and hidden columns. An empty input yields a defined empty
// page. The page index is taken as-is: the engine never resets it when
// filters change, that remains the caller's call.
func Apply(rows []mapper.Row, columns []string, q Query) Page {
	visible := DeriveColumns(columns, rows, q.HiddenColumns)

	filtered := filterRows(rows, q.Filters)
	if q.SortBy != "" {
		sortRows(filtered, q.SortBy, q.SortDesc)
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	total := len(filtered)
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	var slice []mapper.Row
	if start >= total {
		slice = []mapper.Row{}
	} else {
		end := start + pageSize
		if end > total {
			end = total
		}
		slice = filtered[start:end]
	}

	return Page{
		Rows:       slice,
		Columns:    visible,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}

// DeriveColumns intersects the configured column order with the first row's
// keys, dropping id-like keys and anything hidden or toggled off.
func DeriveColumns(columns []string, rows []mapper.Row, hidden []string) []string {
	hiddenSet := map[string]bool{}
	for _, h := range hidden {
		hiddenSet[h] = true
	}

	var first mapper.Row
	if len(rows) > 0 {
		first = rows[0]
	}

	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if isIDColumn(c) || hiddenSet[c] {
			continue
		}
		if first != nil {
			if _, ok := first[c]; !ok {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func isIDColumn(name string) bool {
	switch strings.ToLower(name) {
	case "id", "uuid", "_id":
		return true
	}
	return false
}

func filterRows(rows []mapper.Row, filters map[string]string) []mapper.Row {
	out := make([]mapper.Row, 0, len(rows))

	for _, row := range rows {
		if matchesAll(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

// matchesAll applies every column filter as a case-insensitive substring
// test, combined with AND.
func matchesAll(row mapper.Row, filters map[string]string) bool {
	for col, needle := range filters {
		needle = strings.TrimSpace(needle)
		if needle == "" {
			continue
		}
		hay := strings.ToLower(CellString(row[col]))
		if !strings.Contains(hay, strings.ToLower(needle)) {
			return false
		}
	}
	return true
}

// sortRows orders by one column: numerically when both sides look numeric,
// otherwise case-insensitive lexicographic. Stable so equal keys keep their
// fetch order.
func sortRows(rows []mapper.Row, column string, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		less := cellLess(rows[i][column], rows[j][column])
		if desc {
			return cellLess(rows[j][column], rows[i][column])
		}
		return less
	})
}

func cellLess(a, b interface{}) bool {
	as, bs := CellString(a), CellString(b)

	af, aerr := strconv.ParseFloat(strings.TrimSpace(as), 64)
	bf, berr := strconv.ParseFloat(strings.TrimSpace(bs), 64)
	if aerr == nil && berr == nil {
		return af < bf
	}

	return strings.ToLower(as) < strings.ToLower(bs)
}

// CellString renders any cell value the way the grid displays it.
func CellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprintf("%v", v)
}
