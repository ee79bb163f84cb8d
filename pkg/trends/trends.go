package trends

import (
	"sort"

	"trendscope/internal/model"
)

type SortMode string

const (
	SortScore SortMode = "score"
	SortViews SortMode = "views"
	SortER    SortMode = "er"
)

// titleLimit is the character budget for a result title.
const titleLimit = 90

const noCaption = "(no caption)"

// Candidate is one post entering the ranking pipeline, carrying its latest
// daily metric snapshot. Latest is nil when the post has no metric rows yet;
// such posts still rank, with all counters treated as zero.
type Candidate struct {
	ID        string
	Platform  string
	Caption   *string
	Permalink *string
	Latest    *model.DailyMetric
}

// Score computes the composite engagement score and the engagement rate from
// raw counters. The rate is nil when views is zero (no division), and its
// term then contributes nothing.
//
// Shares and saves are weighted above likes as stronger distribution and
// retention signals; the rate term is scaled by 1000 so that fractional rates
// contribute comparably to raw counts, letting small high-quality posts
// surface.
func Score(views, likes, comments, shares, saves float64) (float64, *float64) {
	engagement := likes + comments + shares + saves

	var er *float64
	if views > 0 {
		rate := engagement / views
		er = &rate
	}

	score := views + likes + shares*3 + saves*2
	if er != nil {
		score += *er * 1000
	}

	return score, er
}

// Rank scores and sorts candidates under the given mode, excluding posts
// whose views fall below minViews (absent views counts as zero there). Ties
// keep input order.
func Rank(posts []Candidate, minViews int, mode SortMode) []model.TrendItem {
	items := make([]model.TrendItem, 0, len(posts))

	for _, p := range posts {
		var m model.DailyMetric
		if p.Latest != nil {
			m = *p.Latest
		}

		views := orZero(m.Views)
		if views < float64(minViews) {
			continue
		}

		score, er := Score(views, orZero(m.Likes), orZero(m.Comments), orZero(m.Shares), orZero(m.Saves))

		var date *string
		if p.Latest != nil {
			d := p.Latest.Date
			date = &d
		}

		items = append(items, model.TrendItem{
			Platform:       p.Platform,
			Title:          title(p.Caption),
			Permalink:      p.Permalink,
			Score:          score,
			Views:          m.Views,
			Likes:          m.Likes,
			Comments:       m.Comments,
			Shares:         m.Shares,
			Saves:          m.Saves,
			EngagementRate: er,
			Date:           date,
			PostID:         p.ID,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		switch mode {
		case SortViews:
			return orZero(items[i].Views) > orZero(items[j].Views)
		case SortER:
			return orZero(items[i].EngagementRate) > orZero(items[j].EngagementRate)
		default:
			return items[i].Score > items[j].Score
		}
	})

	return items
}

func title(caption *string) string {
	if caption == nil || *caption == "" {
		return noCaption
	}

	r := []rune(*caption)
	if len(r) > titleLimit {
		r = r[:titleLimit]
	}
	return string(r)
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
