package entities

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"contract-admin-api/internal/configstore"
	"contract-admin-api/internal/entityconfig"
	"contract-admin-api/internal/form"
	"contract-admin-api/internal/mapper"
	"contract-admin-api/internal/table"
	"contract-admin-api/internal/util"
)

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrInvalidOption = errors.New("value is not one of the column options")
)

var uploadAttachmentHook = util.UploadBase64ToGCS

// EntityService is the gateway between the admin SPA and the per-entity
// microservices. It owns no entity data itself: records live upstream, the
// service shapes them through the column configs.
type EntityService struct {
	Remote    RemoteResolverPort
	Selection SelectionPort
	Overrides OverridesPort
	Bucket    string
}

// ResolveConfig returns the catalog config for an entity with any stored
// overrides applied.
func (s *EntityService) ResolveConfig(entity string) (entityconfig.EntityConfig, error) {
	cfg, ok := entityconfig.Lookup(entity)
	if !ok {
		return entityconfig.EntityConfig{}, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}

	if s.Overrides != nil {
		overrides, err := s.Overrides.OverridesFor(entity)
		if err != nil {
			return entityconfig.EntityConfig{}, err
		}
		cfg = configstore.ApplyOverrides(cfg, overrides)
	}

	return cfg, nil
}

// scopeParams narrows contract-family listings to the user's selection.
func (s *EntityService) scopeParams(userID uint, entity string) (url.Values, error) {
	params := url.Values{}
	if s.Selection == nil || userID == 0 {
		return params, nil
	}

	sel, err := s.Selection.Get(userID)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(entity)) {
	case "contracts":
		if sel.ClientID != "" {
			params.Set("client_id", sel.ClientID)
		}
	case "clauses", "deliverables", "invoices":
		if sel.ContractID != "" {
			params.Set("contract_id", sel.ContractID)
		}
	}
	return params, nil
}

func (s *EntityService) List(ctx context.Context, userID uint, entity string, q table.Query) (*table.Page, error) {
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
	page := table.Apply(rows, mapper.RowColumns(cfg), q)
	return &page, nil
}

func (s *EntityService) Detail(ctx context.Context, entity, id string) (map[string]interface{}, error) {
	if _, err := s.ResolveConfig(entity); err != nil {
		return nil, err
	}

	client, err := s.Remote.For(entity)
	if err != nil {
		return nil, err
	}
	return client.GetByID(ctx, id)
}

func (s *EntityService) Create(ctx context.Context, entity string, values map[string]interface{}) (map[string]interface{}, error) {
	cfg, err := s.ResolveConfig(entity)
	if err != nil {
		return nil, err
	}

	payload, err := s.buildPayload(entity, cfg, values)
	if err != nil {
		return nil, err
	}

	client, err := s.Remote.For(entity)
	if err != nil {
		return nil, err
	}
	return client.Create(ctx, payload)
}

func (s *EntityService) Update(ctx context.Context, entity, id string, values map[string]interface{}) (map[string]interface{}, error) {
	cfg, err := s.ResolveConfig(entity)
	if err != nil {
		return nil, err
	}

	payload, err := s.buildPayload(entity, cfg, values)
	if err != nil {
		return nil, err
	}

	client, err := s.Remote.For(entity)
	if err != nil {
		return nil, err
	}
	return client.Update(ctx, id, payload)
}

// buildPayload runs the submitted values through a form session (filtering
// plus validation), uploads inline attachments, and encodes everything with
// the column codecs.
func (s *EntityService) buildPayload(entity string, cfg entityconfig.EntityConfig, values map[string]interface{}) (map[string]interface{}, error) {
	fields := mapper.FormFields(cfg)
	sess := form.NewSession(fields, nil)

	attachments := map[string]AttachmentInput{}
	arrays := map[string][]string{}
	provided := map[string]bool{}

	for _, field := range fields {
		raw, ok := values[field.Name]
		if !ok {
			continue
		}
		provided[field.Name] = true

		switch v := raw.(type) {
		case string:
			if err := sess.SetValue(field.Name, v); err != nil {
				return nil, err
			}
		case []interface{}:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, fmt.Sprintf("%v", item))
			}
			arrays[field.Name] = items
			if err := sess.SetArrayValue(field.Name, items); err != nil {
				return nil, err
			}
		case map[string]interface{}:
			att := AttachmentInput{}
			if fn, ok := v["file_name"].(string); ok {
				att.FileName = fn
			}
			if mt, ok := v["mime_type"].(string); ok {
				att.MimeType = mt
			}
			if data, ok := v["data_base64"].(string); ok {
				att.DataBase64 = data
			}
			attachments[field.Name] = att
			// the file name stands in for the value during validation
			if err := sess.SetValue(field.Name, att.FileName); err != nil {
				return nil, err
			}
		case nil:
			if err := sess.SetValue(field.Name, ""); err != nil {
				return nil, err
			}
		default:
			if err := sess.SetValue(field.Name, fmt.Sprintf("%v", v)); err != nil {
				return nil, err
			}
		}
	}

	if !sess.Validate() {
		fieldErrs := map[string]string{}
		for _, field := range fields {
			if msg := sess.FieldError(field.Name); msg != "" {
				fieldErrs[field.Name] = msg
			}
		}
		return nil, &ValidationError{Fields: fieldErrs}
	}

	sessValues := sess.Values()
	payload := map[string]interface{}{}

	for _, field := range fields {
		if !provided[field.Name] {
			continue
		}

		col := cfg.ColumnByBackendKey(field.Name)
		if col == nil {
			continue
		}

		if att, ok := attachments[field.Name]; ok {
			if strings.TrimSpace(att.DataBase64) == "" {
				// already-uploaded URL passed through as the file name
				payload[field.Name] = strings.TrimSpace(att.FileName)
				continue
			}
			objectName := util.AttachmentObjectName(entity, field.Name, att.FileName, att.MimeType)
			fileURL, _, err := uploadAttachmentHook(att.DataBase64, s.Bucket, objectName, att.MimeType)
			if err != nil {
				return nil, fmt.Errorf("failed to upload %q: %w", strings.TrimSpace(att.FileName), err)
			}
			payload[field.Name] = fileURL
			continue
		}

		if items, ok := arrays[field.Name]; ok {
			payload[field.Name] = items
			continue
		}

		val := sessValues[field.Name]
		payload[field.Name] = mapper.EncodeValue(val, *col)
	}

	return payload, nil
}

func (s *EntityService) UpdateCell(ctx context.Context, entity, id, column, value string) (*CellUpdateResult, error) {
	cfg, err := s.ResolveConfig(entity)
	if err != nil {
		return nil, err
	}

	col := cfg.Column(column)
	canonical := value
	if col != nil && col.Type == entityconfig.TypeSelect && len(col.Options) > 0 && value != "" {
		found := false
		for _, opt := range col.Options {
			if opt.Value == value {
				found = true
				break
			}
			// the grid may hand back the display label
			if opt.Label == value {
				canonical = opt.Value
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrInvalidOption, value)
		}
	}

	client, err := s.Remote.For(entity)
	if err != nil {
		return nil, err
	}

	record, err := client.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows := mapper.BackendToTable([]map[string]interface{}{record}, cfg)
	if len(rows) == 0 {
		return nil, fmt.Errorf("record %s not found", id)
	}
	row := rows[0]
	oldValue := row[column]

	editor := table.Editor{
		ColumnMapping: cfg.ColumnMapping(),
		NonEditable:   cfg.NonEditableHeaders(),
		SelectColumns: cfg.SelectColumns(),
	}

	result := &CellUpdateResult{Column: column, OldValue: oldValue}
	err = editor.Commit(row, column, value, false, func(edit table.CellEdit) error {
		result.RealColumn = edit.RealColumn
		var payloadValue interface{} = canonical
		if col != nil {
			payloadValue = mapper.EncodeValue(canonical, *col)
		}
		result.NewValue = payloadValue
		_, patchErr := client.Patch(ctx, id, edit.RealColumn, payloadValue)
		return patchErr
	})
	if err != nil {
		return nil, err
	}

	result.Row = row
	return result, nil
}

func (s *EntityService) Delete(ctx context.Context, entity, id string) error {
	if _, err := s.ResolveConfig(entity); err != nil {
		return err
	}

	client, err := s.Remote.For(entity)
	if err != nil {
		return err
	}
	return client.Delete(ctx, id)
}

// FormFields returns the form descriptors for an entity with dependent
// dropdown options loaded. Option sources are fetched concurrently and the
// result is all-settled: a failed source yields an empty option list plus a
// warning on the field, never an error for the whole form.
func (s *EntityService) FormFields(ctx context.Context, entity string) ([]form.Field, error) {
	cfg, err := s.ResolveConfig(entity)
	if err != nil {
		return nil, err
	}

	fields := mapper.FormFields(cfg)

	type job struct {
		idx int
		src entityconfig.OptionsSource
	}
	type result struct {
		idx     int
		options []entityconfig.Option
		err     error
	}

	jobs := make([]job, 0)
	for i, field := range fields {
		col := cfg.ColumnByBackendKey(field.Name)
		if col == nil || col.OptionsFrom == nil {
			continue
		}
		jobs = append(jobs, job{idx: i, src: *col.OptionsFrom})
	}

	if len(jobs) == 0 {
		return fields, nil
	}

	sem := make(chan struct{}, 4) // 4 parallel option fetches
	outCh := make(chan result, len(jobs))
	var wg sync.WaitGroup

	for _, j := range jobs {
		wg.Add(1)

		go func(j job) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			client, err := s.Remote.For(j.src.Entity)
			if err != nil {
				outCh <- result{idx: j.idx, err: err}
				return
			}

			records, err := client.GetAll(ctx, nil)
			if err != nil {
				outCh <- result{idx: j.idx, err: err}
				return
			}

			options := make([]entityconfig.Option, 0, len(records))
			for _, rec := range records {
				rawValue, ok := rec[j.src.ValueKey]
				if !ok || rawValue == nil {
					continue
				}
				value := fmt.Sprintf("%v", rawValue)
				label := value
				if rawLabel, ok := rec[j.src.LabelKey]; ok && rawLabel != nil {
					label = fmt.Sprintf("%v", rawLabel)
				}
				options = append(options, entityconfig.Option{Value: value, Label: label})
			}

			outCh <- result{idx: j.idx, options: options}
		}(j)
	}

	wg.Wait()
	close(outCh)

	for r := range outCh {
		if r.err != nil {
			fields[r.idx].Options = []entityconfig.Option{}
			fields[r.idx].OptionsWarning = "No se pudieron cargar las opciones"
			continue
		}
		fields[r.idx].Options = r.options
	}

	return fields, nil
}
