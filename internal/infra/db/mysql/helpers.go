package mysql

import (
	"database/sql"
	"encoding/json"
	"strings"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// jsonOrNull marshals v for a nullable JSON column; nil in, NULL out.
func jsonOrNull(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// unmarshalNull decodes a nullable JSON column into dst; NULL is a
// no-op, leaving dst at its zero value.
func unmarshalNull(src sql.NullString, dst any) error {
	if !src.Valid || strings.TrimSpace(src.String) == "" {
		return nil
	}
	return json.Unmarshal([]byte(src.String), dst)
}
