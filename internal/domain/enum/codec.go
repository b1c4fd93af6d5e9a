package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status enums are stored as integers and travel over JSON by name. These
// helpers hold the shared encoding so each enum only declares its names.

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "UNKNOWN"
	}
	return names[i]
}

func parseName(kind string, names []string, s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid %s %q", kind, s)
}

func unmarshalName(kind string, names []string, data []byte) (int, error) {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return 0, err
		}
		if i < 0 || i >= len(names) {
			return 0, fmt.Errorf("invalid %s %d", kind, i)
		}
		return i, nil
	}
	return parseName(kind, names, str)
}

func scanInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case int:
		return v, nil
	case []byte:
		var i int
		_, err := fmt.Sscan(string(v), &i)
		return i, err
	default:
		return 0, fmt.Errorf("cannot scan %T into enum", value)
	}
}
