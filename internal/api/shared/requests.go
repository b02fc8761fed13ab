package shared

import (
	"fmt"
	"strconv"
)

// QueryInt parses an integer query parameter, returning def when the
// parameter is absent or empty.
func QueryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not a valid integer: %q", raw)
	}
	return n, nil
}
