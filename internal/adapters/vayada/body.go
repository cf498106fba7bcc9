package vayada

import (
	"fmt"
	"strings"
)

// Backends disagree on where the human-readable text lives; first match wins.
var messageAliases = []string{"detail", "message", "error", "error.message", "errors.0.msg"}

// lookupAny: safe nested lookup with dot paths on maps (numeric parts index slices).
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		switch obj := cur.(type) {
		case map[string]any:
			v, ok := obj[part]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			var i int
			if _, err := fmt.Sscanf(part, "%d", &i); err != nil || i < 0 || i >= len(obj) {
				return nil
			}
			cur = obj[i]
		default:
			return nil
		}
	}
	return cur
}

func messageFromBody(body map[string]any) string {
	if body == nil {
		return ""
	}
	for _, p := range messageAliases {
		switch v := lookupAny(body, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case []any:
			// 422 detail arrays: join the msgs
			var msgs []string
			for _, it := range v {
				if m, ok := it.(map[string]any); ok {
					if s, ok := m["msg"].(string); ok && s != "" {
						msgs = append(msgs, s)
					}
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return ""
}
