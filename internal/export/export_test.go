package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	row := map[string]any{
		"name":    "Asha",
		"missing": nil,
		"address": map[string]any{"city": "Pune", "pin": 411001},
		"tags":    []any{"a", "b", "c", "d", "e", "f", "g"},
		"paid":    true,
		"empty":   []any{},
	}

	got := Flatten(row)

	assert.Equal(t, "Asha", got["name"])
	assert.Equal(t, "", got["missing"])
	assert.Equal(t, "Pune", got["address.city"])
	assert.Equal(t, "411001", got["address.pin"])
	assert.Equal(t, "true", got["paid"])
	assert.Equal(t, "a", got["tags.0"])
	assert.Equal(t, "e", got["tags.4"])
	assert.NotContains(t, got, "tags.5")
	assert.Equal(t, "2 more", got["tags.more"])
	assert.NotContains(t, got, "empty")
}

func TestRows_LiftsExtraAndParsesOrder(t *testing.T) {
	type visitor struct {
		ID    string         `json:"id"`
		Name  string         `json:"name"`
		Extra map[string]any `json:"extra,omitempty"`
	}
	records := []visitor{{
		ID:   "1",
		Name: "Ravi",
		Extra: map[string]any{
			"name":      "shadowed",
			"orderData": `{"orderId":"o-9","orderAmount":1299.5}`,
		},
	}}

	rows, err := Rows(records)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Ravi", rows[0]["name"])
	assert.NotContains(t, rows[0], "extra")

	flat := Flatten(rows[0])
	assert.Equal(t, "o-9", flat["order.orderId"])
	assert.Equal(t, "1299.5", flat["order.orderAmount"])
}

func TestRows_BadOrderDataKeptAsText(t *testing.T) {
	rows, err := Rows([]map[string]any{{"orderData": "{oops"}})
	require.NoError(t, err)
	assert.Equal(t, "{oops", rows[0]["order"])
}

func TestHeaders(t *testing.T) {
	rows := []map[string]string{
		{"zeta": "1", "orderId": "2", "alpha": "3"},
		{"userId": "4", "beta": "5"},
	}
	got := Headers(rows, []string{"userId", "userName", "orderId"})
	assert.Equal(t, []string{"userId", "orderId", "alpha", "beta", "zeta"}, got)
}

func TestWriteCSV(t *testing.T) {
	records := []map[string]any{
		{"id": "1", "email": "a@x.in", "note": `say "hi", please`},
		{"id": "2", "email": "b@x.in", "items": []any{map[string]any{"sku": "S1"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records, []string{"id", "email"}))

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"id", "email", "items.0.sku", "note"}, lines[0])
	assert.Equal(t, []string{"1", "a@x.in", "", `say "hi", please`}, lines[1])
	assert.Equal(t, []string{"2", "b@x.in", "S1", ""}, lines[2])
}

func TestWriteCSV_RejectsNonList(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteCSV(&buf, "nope", nil))
}

func TestWriteCSV_EmptyKeepsPreferredHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []map[string]any{}, []string{"id", "email"}))
	assert.Equal(t, "id,email\n", buf.String())
}

func TestWriteCSV_NeutralisesFormulas(t *testing.T) {
	records := []map[string]any{{
		"name":    "=HYPERLINK(\"http://evil.test\")",
		"phone":   "+91 98450 00000",
		"note":    "@SUM(A1:A2)",
		"tab":     "\t=1+1",
		"balance": "-42.5",
		"plain":   "Asha",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records, []string{"name", "phone", "note", "tab", "balance", "plain"}))
	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, []string{
		`'=HYPERLINK("http://evil.test")`,
		"'+91 98450 00000",
		"'@SUM(A1:A2)",
		"'\t=1+1",
		"-42.5",
		"Asha",
	}, lines[1])
}

func TestSafeCell(t *testing.T) {
	assert.Equal(t, "", safeCell(""))
	assert.Equal(t, "'-cmd", safeCell("-cmd"))
	assert.Equal(t, "-7", safeCell("-7"))
	assert.Equal(t, "a=b", safeCell("a=b"))
}
