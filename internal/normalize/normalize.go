// Package normalize is the single boundary where untyped microservice
// payloads enter the gateway. The entity services wrap list payloads
// inconsistently (bare array, {data:[...]}, {data:{data:[...]}},
// {data:{items:[...]}}); everything downstream sees one flat record slice.
package normalize

// List extracts a flat record slice from a decoded JSON payload. The wrapper
// shapes are tried in order; anything else yields an empty slice. It never
// panics and never returns nil.
func List(v interface{}) []map[string]interface{} {
	if records, ok := asRecords(v); ok {
		return records
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return []map[string]interface{}{}
	}

	data := obj["data"]
	if records, ok := asRecords(data); ok {
		return records
	}

	inner, ok := data.(map[string]interface{})
	if !ok {
		return []map[string]interface{}{}
	}
	if records, ok := asRecords(inner["data"]); ok {
		return records
	}
	if records, ok := asRecords(inner["items"]); ok {
		return records
	}

	return []map[string]interface{}{}
}

// Record extracts a single record from a payload that is either a bare
// object or wraps one under "data". Nil input yields nil.
func Record(v interface{}) map[string]interface{} {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}

	if inner, ok := obj["data"].(map[string]interface{}); ok {
		return inner
	}
	return obj
}

func asRecords(v interface{}) ([]map[string]interface{}, bool) {
	arr, ok := v.([]interface{})
	if !ok {
		return nil, false
	}

	out := make([]map[string]interface{}, 0, len(arr))
	for _, item := range arr {
		if rec, ok := item.(map[string]interface{}); ok {
			out = append(out, rec)
		}
	}
	return out, true
}
