package routes

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/recruitkit/recruitkit/model"
)

var (
	millisMu   sync.Mutex
	lastMillis int64
)

// uniqueMillis returns a strictly increasing unix-millisecond stamp, so
// response ids and fallback filenames never collide within a process.
func uniqueMillis() int64 {
	millisMu.Lock()
	defer millisMu.Unlock()

	now := time.Now().UnixMilli()
	if now <= lastMillis {
		now = lastMillis + 1
	}
	lastMillis = now
	return now
}

func isoTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// collectAnswers flattens the submitted fields into the answers mapping,
// dropping the reserved keys. A key submitted once stays a string; repeats
// stay a list.
func collectAnswers(fields map[string][]string) map[string]any {
	answers := map[string]any{}
	for key, values := range fields {
		switch key {
		case "_schema", "opening", "src":
			continue
		}
		if len(values) == 1 {
			answers[key] = values[0]
		} else {
			answers[key] = append([]string{}, values...)
		}
	}
	return answers
}

// answerString renders one answer value for a spreadsheet cell. Lists join
// with ", "; nil becomes "".
func answerString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = answerString(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// rowSuffix builds the per-question columns in schema order. Lookup is by
// question id first, then by label; a label key feeds only the first
// question in schema order that claims it.
func rowSuffix(schema []model.Question, answers map[string]any) []string {
	suffix := make([]string, 0, len(schema))
	usedLabels := map[string]bool{}
	for _, q := range schema {
		if v, ok := answers[q.ID]; ok {
			suffix = append(suffix, answerString(v))
			continue
		}
		if v, ok := answers[q.Label]; ok && !usedLabels[q.Label] {
			usedLabels[q.Label] = true
			suffix = append(suffix, answerString(v))
			continue
		}
		suffix = append(suffix, "")
	}
	return suffix
}

// coreValue resolves a mirrored top-level field from the first answer key
// that is present.
func coreValue(answers map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := answers[key]; ok {
			return answerString(v)
		}
	}
	return ""
}
