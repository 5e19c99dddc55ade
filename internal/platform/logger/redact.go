package logger

import (
	"fmt"
	"strings"
)

func sanitizeKVs(kv []interface{}) []interface{} {
	if len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := strings.ToLower(strings.TrimSpace(fmt.Sprint(kv[i])))
		out = append(out, kv[i], sanitizeValue(key, kv[i+1]))
	}
	return out
}

func sanitizeValue(key string, val interface{}) interface{} {
	switch {
	case strings.Contains(key, "password"),
		strings.Contains(key, "secret"),
		strings.Contains(key, "token"),
		strings.Contains(key, "authorization"):
		return "[REDACTED]"
	case strings.Contains(key, "email"), strings.Contains(key, "recipient"):
		return RedactEmail(fmt.Sprint(val))
	default:
		return val
	}
}

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"; local parts of two characters or
// fewer are fully masked.
func RedactEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return "***@***"
	}
	name, domain := email[:at], email[at+1:]
	if len(name) > 2 {
		return name[:2] + "***@" + domain
	}
	return "***@" + domain
}
