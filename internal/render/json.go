package render

import (
	"encoding/json"
	"fmt"
)

// JSON renders any value as indented JSON with a trailing newline.
func JSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	return string(out) + "\n", nil
}
