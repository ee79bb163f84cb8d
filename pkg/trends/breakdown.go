package trends

import (
	"sort"

	"trendscope/internal/model"
)

// TaggedPost is one post's latest counters joined with its strategy tags for
// the per-dimension breakdown. Untagged dimensions stay nil.
type TaggedPost struct {
	PostID       string
	HookType     *string
	CTAType      *string
	FormatType   *string
	PacingBucket *string
	Views        float64
	Likes        float64
	Comments     float64
	Shares       float64
	Saves        float64
}

type AggRow struct {
	Key         string  `json:"key"`
	Count       int     `json:"count"`
	AvgViews    float64 `json:"avg_views"`
	AvgLikes    float64 `json:"avg_likes"`
	AvgComments float64 `json:"avg_comments"`
	AvgShares   float64 `json:"avg_shares"`
	AvgSaves    float64 `json:"avg_saves"`
	AvgScore    float64 `json:"avg_score"`
}

type Breakdown struct {
	Hook   []AggRow `json:"hook"`
	CTA    []AggRow `json:"cta"`
	Format []AggRow `json:"format"`
	Pacing []AggRow `json:"pacing"`
}

// BreakdownByStrategy groups posts by each strategy dimension and averages
// their counters. The per-post score here is the raw-count variant, without
// the engagement-rate term. Groups sort descending by average score.
func BreakdownByStrategy(posts []TaggedPost) Breakdown {
	return Breakdown{
		Hook:   groupBy(posts, func(p TaggedPost) *string { return p.HookType }),
		CTA:    groupBy(posts, func(p TaggedPost) *string { return p.CTAType }),
		Format: groupBy(posts, func(p TaggedPost) *string { return p.FormatType }),
		Pacing: groupBy(posts, func(p TaggedPost) *string { return p.PacingBucket }),
	}
}

func groupBy(posts []TaggedPost, dim func(TaggedPost) *string) []AggRow {
	groups := make(map[string][]TaggedPost)
	for _, p := range posts {
		k := model.UntaggedBucket
		if v := dim(p); v != nil && *v != "" {
			k = *v
		}
		groups[k] = append(groups[k], p)
	}

	out := make([]AggRow, 0, len(groups))
	for k, arr := range groups {
		row := AggRow{Key: k, Count: len(arr)}
		for _, p := range arr {
			row.AvgViews += p.Views
			row.AvgLikes += p.Likes
			row.AvgComments += p.Comments
			row.AvgShares += p.Shares
			row.AvgSaves += p.Saves
			row.AvgScore += p.Views + p.Likes + p.Shares*3 + p.Saves*2
		}
		n := float64(len(arr))
		row.AvgViews /= n
		row.AvgLikes /= n
		row.AvgComments /= n
		row.AvgShares /= n
		row.AvgSaves /= n
		row.AvgScore /= n
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgScore > out[j].AvgScore })

	return out
}
