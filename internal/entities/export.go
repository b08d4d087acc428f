package entities

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/xuri/excelize/v2"

	"contract-admin-api/internal/mapper"
	"contract-admin-api/internal/table"
	"contract-admin-api/internal/util"
)

// Export renders the filtered, sorted listing as a download. Pagination is
// ignored: exports always carry every matching row.
func (s *EntityService) Export(ctx context.Context, userID uint, entity, format string, q table.Query) (*ExportResult, error) {
	cfg, err := s.ResolveConfig(entity)
	if err != nil {
		return nil, err
	}

	client, err := s.Remote.For(entity)
	if err != nil {
		return nil, err
	}

	params, err := s.scopeParams(userID, entity)
	if err != nil {
		return nil, err
	}

	records, err := client.GetAll(ctx, params)
	if err != nil {
		return nil, err
	}

	rows := mapper.BackendToTable(records, cfg)

	q.Page = 1
	q.PageSize = len(rows)
	if q.PageSize == 0 {
		q.PageSize = 1
	}
	page := table.Apply(rows, mapper.RowColumns(cfg), q)

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "xlsx"
	}

	stamp := time.Now().UTC().Format("20060102")
	name := fmt.Sprintf("%s_%s.%s", util.SanitizePart(entity), stamp, format)

	switch format {
	case "xlsx":
		data, err := renderXLSX(cfg.Name, page)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			Data:        data,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Filename:    name,
		}, nil
	case "csv":
		data, err := renderCSV(page)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Data: data, ContentType: "text/csv", Filename: name}, nil
	case "json":
		data, err := renderJSON(page)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Data: data, ContentType: "application/json", Filename: name}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func renderXLSX(sheetName string, page table.Page) ([]byte, error) {
	f := excelize.NewFile()

	sheet := strings.TrimSpace(sheetName)
	if sheet == "" {
		sheet = "Export"
	}
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})

	header := make([]interface{}, 0, len(page.Columns))
	for _, col := range page.Columns {
		header = append(header, excelize.Cell{Value: col, StyleID: headerStyle})
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range page.Rows {
		values := make([]interface{}, 0, len(page.Columns))
		for _, col := range page.Columns {
			values = append(values, table.CellString(row[col]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderCSV(page table.Page) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(page.Columns); err != nil {
		return nil, err
	}
	for _, row := range page.Rows {
		record := make([]string, 0, len(page.Columns))
		for _, col := range page.Columns {
			record = append(record, table.CellString(row[col]))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderJSON keeps the configured column order in each row; plain Go maps
// would serialize keys alphabetically.
func renderJSON(page table.Page) ([]byte, error) {
	out := make([]*orderedmap.OrderedMap, 0, len(page.Rows))
	for _, row := range page.Rows {
		ordered := orderedmap.New()
		if id, ok := row["id"]; ok {
			ordered.Set("id", id)
		}
		for _, col := range page.Columns {
			if val, exists := row[col]; exists {
				ordered.Set(col, val)
			} else {
				ordered.Set(col, "")
			}
		}
		out = append(out, ordered)
	}
	return json.Marshal(out)
}
