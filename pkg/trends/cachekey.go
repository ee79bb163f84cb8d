package trends

import (
	"fmt"
	"strings"
)

// CacheKey derives the stable lookup key for one trend search. The query text
// is normalized (trimmed, lower-cased), and every filter that changes the
// result set is folded in, so two searches differing in platform filter,
// minViews or sort mode never share an entry.
func CacheKey(query, platformFilter string, minViews int, mode SortMode) string {
	q := strings.ToLower(strings.TrimSpace(query))
	return fmt.Sprintf("local:%s:pf=%s:minViews=%d:sort=%s", q, platformFilter, minViews, mode)
}
