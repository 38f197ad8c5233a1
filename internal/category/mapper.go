package category

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DecodeList extracts the category list from an upstream payload: a bare
// array, or an object wrapping it under "results" or "categories". Any other
// JSON value yields an empty list.
func DecodeList(payload []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return []Record{}, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("decode category list: invalid JSON")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return []Record{}, nil
		}
		items = firstArray(wrapper, "results", "categories")
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		if r, ok := decodeRecord(item); ok {
			records = append(records, r)
		}
	}
	return records, nil
}

// decodeRecord maps one loosely typed backend entry. Ids may be numbers,
// images may live under either "images" or "category_images", counts may be
// null. Only non-object entries are rejected.
func decodeRecord(item json.RawMessage) (Record, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return Record{}, false
	}

	r := Record{
		ID:                   rawText(fields["id"]),
		Name:                 rawText(fields["name"]),
		NameLocalized:        rawOptText(fields["name_amharic"]),
		Slug:                 rawText(fields["slug"]),
		Description:          rawOptText(fields["description"]),
		DescriptionLocalized: rawOptText(fields["description_amharic"]),
		Icon:                 rawOptText(fields["icon"]),
		ProductCount:         rawCount(fields["product_count"]),
		ParentID:             rawOptText(fields["parent_id"]),
	}

	if imgs, ok := rawStrings(fields["images"]); ok {
		r.Images = imgs
	} else if imgs, ok := rawStrings(fields["category_images"]); ok {
		r.Images = imgs
	} else {
		r.Images = []string{}
	}

	return r, true
}

func firstArray(wrapper map[string]json.RawMessage, keys ...string) []json.RawMessage {
	for _, key := range keys {
		var items []json.RawMessage
		if err := json.Unmarshal(wrapper[key], &items); err == nil && items != nil {
			return items
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// rawText renders strings as-is and numbers in their integer form when they
// have one.
func rawText(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return string(bytes.TrimSpace(raw))
}

func rawOptText(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}
	s := rawText(raw)
	return &s
}

func rawCount(raw json.RawMessage) int {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f < 0 {
		return 0
	}
	return int(f)
}

func rawStrings(raw json.RawMessage) ([]string, bool) {
	if isNull(raw) {
		return nil, false
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}
