// Package export renders stored records as flat CSV for spreadsheet users.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// MaxArrayItems is how many elements of a nested array get their own columns.
const MaxArrayItems = 5

// Rows converts records to generic JSON objects. Storefront fields kept under
// "extra" are lifted to the top level and an "orderData" JSON string is
// parsed into "order".
func Rows(records any) ([]map[string]any, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("records must encode as a list of objects: %w", err)
	}
	for _, row := range rows {
		liftExtra(row)
		parseOrder(row)
	}
	return rows, nil
}

func liftExtra(row map[string]any) {
	extra, ok := row["extra"].(map[string]any)
	if !ok {
		return
	}
	delete(row, "extra")
	for k, v := range extra {
		if _, taken := row[k]; !taken {
			row[k] = v
		}
	}
}

func parseOrder(row map[string]any) {
	switch od := row["orderData"].(type) {
	case string:
		var parsed any
		dec := json.NewDecoder(strings.NewReader(od))
		dec.UseNumber()
		if err := dec.Decode(&parsed); err != nil {
			row["order"] = od
			return
		}
		row["order"] = parsed
	case map[string]any:
		row["order"] = od
	}
}

// Flatten turns nested objects into dotted keys. Arrays contribute at most
// MaxArrayItems indexed entries plus a "<key>.more" marker.
func Flatten(row map[string]any) map[string]string {
	out := make(map[string]string)
	flatten(out, "", row)
	delete(out, "")
	return out
}

func flatten(out map[string]string, prefix string, v any) {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}

	switch val := v.(type) {
	case nil:
		out[prefix] = ""
	case map[string]any:
		for k, child := range val {
			flatten(out, join(k), child)
		}
	case []any:
		for i := 0; i < len(val) && i < MaxArrayItems; i++ {
			flatten(out, join(strconv.Itoa(i)), val[i])
		}
		if len(val) > MaxArrayItems {
			out[join("more")] = fmt.Sprintf("%d more", len(val)-MaxArrayItems)
		}
	case string:
		out[prefix] = val
	case json.Number:
		out[prefix] = val.String()
	case bool:
		out[prefix] = strconv.FormatBool(val)
	default:
		out[prefix] = fmt.Sprint(val)
	}
}

// Headers collects every key of rows. Keys listed in preferred come first in
// that order, the rest follow alphabetically. With no rows the preferred keys
// alone form the header.
func Headers(rows []map[string]string, preferred []string) []string {
	if len(rows) == 0 {
		return append([]string(nil), preferred...)
	}
	rank := make(map[string]int, len(preferred))
	for i, k := range preferred {
		rank[k] = i
	}

	seen := make(map[string]bool)
	var headers []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}

	sort.Slice(headers, func(i, j int) bool {
		ri, iok := rank[headers[i]]
		rj, jok := rank[headers[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		}
		return headers[i] < headers[j]
	})
	return headers
}

// WriteCSV flattens records and writes them with a header row.
func WriteCSV(w io.Writer, records any, preferred []string) error {
	rows, err := Rows(records)
	if err != nil {
		return err
	}
	flat := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		flat = append(flat, Flatten(r))
	}
	headers := Headers(flat, preferred)

	cw := csv.NewWriter(w)
	line := make([]string, len(headers))
	for i, h := range headers {
		line[i] = safeCell(h)
	}
	if err := cw.Write(line); err != nil {
		return err
	}
	for _, r := range flat {
		for i, h := range headers {
			line[i] = safeCell(r[h])
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// safeCell stops spreadsheet apps from evaluating storefront text as a
// formula. Plain numbers such as "-5" are left alone.
func safeCell(v string) string {
	if v == "" || !strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return v
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	return "'" + v
}
