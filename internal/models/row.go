package models

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/rebeliceyang/cotable/internal/rowpath"
)

// Row is one record of the dataset; values may nest further records
type Row map[string]any

// rowKeyNamespace scopes name-based row keys
var rowKeyNamespace = uuid.MustParse("6f1c1b52-6a0e-4c61-9a3f-2f8e4bd0c7a1")

// KeyedRow pairs a row with its stable key and its index in the unfiltered input
type KeyedRow struct {
	Key   string
	Index int
	Row   Row
}

// RowKey returns the identity of a row. The id field is used when present;
// otherwise a name-based UUID over the original index and the row content.
func RowKey(row Row, index int) string {
	if id, ok := row["id"]; ok && id != nil {
		if s := rowpath.Stringify(id); s != "" {
			return s
		}
	}

	content, err := json.Marshal(row)
	if err != nil {
		content = []byte(rowpath.Stringify(map[string]any(row)))
	}
	name := strconv.Itoa(index) + ":" + string(content)
	return uuid.NewSHA1(rowKeyNamespace, []byte(name)).String()
}
