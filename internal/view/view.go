// Package view derives everything the dashboard renders from the raw fetched
// data plus an explicit, immutable view state. State transitions go through a
// single reducer so the one real invariant (any filter or sort change resets
// pagination to page 1) lives in one place.
package view

import (
	"sort"
	"strings"

	"github.com/yourorg/stableyield-sentinel/internal/model"
	"github.com/yourorg/stableyield-sentinel/internal/score"
)

// PageSize is the fixed number of pools per page.
const PageSize = 30

// SocialPulseSize caps how many social posts the sidebar shows.
const SocialPulseSize = 4

// SortKey selects the pool comparator column.
type SortKey string

// Sortable columns.
const (
	SortAPY    SortKey = "apy"
	SortAPY30d SortKey = "apyMean30d"
	SortTVL    SortKey = "tvlUsd"
	SortSafety SortKey = "safety"
)

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort pairs a key with a direction.
type Sort struct {
	Key SortKey
	Dir Direction
}

// Tab is the active dashboard tab.
type Tab string

const (
	TabYields Tab = "yields"
	TabIntel  Tab = "intel"
)

// News filter modes.
const (
	NewsAll         = "all"
	NewsStablecoins = "stablecoins"
)

// State is the transient view state. It is a value type: reducers return a
// new copy, callers never mutate in place.
type State struct {
	Search     string
	Stable     string // selected stablecoin tag, empty means all
	Sort       Sort
	Page       int // 1-based
	NewsFilter string
	Tab        Tab
	ShowInfo   bool
}

// DefaultState returns the initial view: APY descending, first page, all news.
func DefaultState() State {
	return State{
		Sort:       Sort{Key: SortAPY, Dir: Desc},
		Page:       1,
		NewsFilter: NewsAll,
		Tab:        TabYields,
	}
}

// Event is a view-state transition.
type Event interface{ isEvent() }

// SearchChanged sets the search text.
type SearchChanged struct{ Search string }

// StableSelected sets or clears (empty string) the stablecoin tag filter.
type StableSelected struct{ Stable string }

// SortToggled selects a sort column; re-selecting the current column flips
// the direction, a new column starts descending.
type SortToggled struct{ Key SortKey }

// PageSet navigates to a page.
type PageSet struct{ Page int }

// NewsFilterSet switches the news feed between all and stablecoins mode.
type NewsFilterSet struct{ Filter string }

// TabSet switches the active tab.
type TabSet struct{ Tab Tab }

// InfoToggled opens or closes the informational panel. It touches nothing
// else: no filter, no fetch, no page reset.
type InfoToggled struct{}

func (SearchChanged) isEvent()  {}
func (StableSelected) isEvent() {}
func (SortToggled) isEvent()    {}
func (PageSet) isEvent()        {}
func (NewsFilterSet) isEvent()  {}
func (TabSet) isEvent()         {}
func (InfoToggled) isEvent()    {}

// Apply reduces an event onto the state. Search, tag and sort changes reset
// the page to 1; nothing else does.
func Apply(s State, e Event) State {
	switch ev := e.(type) {
	case SearchChanged:
		s.Search = ev.Search
		s.Page = 1
	case StableSelected:
		s.Stable = strings.ToUpper(strings.TrimSpace(ev.Stable))
		s.Page = 1
	case SortToggled:
		if s.Sort.Key == ev.Key && s.Sort.Dir == Desc {
			s.Sort.Dir = Asc
		} else {
			s.Sort = Sort{Key: ev.Key, Dir: Desc}
		}
		s.Page = 1
	case PageSet:
		if ev.Page < 1 {
			s.Page = 1
		} else {
			s.Page = ev.Page
		}
	case NewsFilterSet:
		s.NewsFilter = ev.Filter
	case TabSet:
		s.Tab = ev.Tab
	case InfoToggled:
		s.ShowInfo = !s.ShowInfo
	}
	return s
}

// FilterSort returns the pools matching the state's search text and tag
// filter, ordered by its sort. The input slice is never modified.
func FilterSort(pools []model.Pool, s State) []model.Pool {
	search := strings.ToLower(s.Search)

	filtered := make([]model.Pool, 0, len(pools))
	for _, p := range pools {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Project), search) &&
			!strings.Contains(strings.ToLower(p.Symbol), search) {
			continue
		}
		if s.Stable != "" && !strings.Contains(strings.ToUpper(p.Symbol), s.Stable) {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		vi := sortValue(filtered[i], s.Sort.Key)
		vj := sortValue(filtered[j], s.Sort.Key)
		if s.Sort.Dir == Desc {
			return vi > vj
		}
		return vi < vj
	})

	return filtered
}

// sortValue extracts the comparator value for a pool; unknown keys sort as 0.
func sortValue(p model.Pool, key SortKey) float64 {
	switch key {
	case SortAPY:
		return p.APY
	case SortAPY30d:
		return p.APYMean30d
	case SortTVL:
		return p.TVLUsd
	case SortSafety:
		return score.Safety(p)
	default:
		return 0
	}
}

// Paginate slices one 1-based page out of the list. Pages beyond the range
// yield an empty slice; the last page may be partial.
func Paginate(list []model.Pool, page int) []model.Pool {
	if page < 1 {
		return nil
	}
	start := (page - 1) * PageSize
	if start >= len(list) {
		return nil
	}
	end := start + PageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// TotalPages returns how many pages the list spans.
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Stats are the aggregate figures in the market status bar, computed over
// ALL loaded pools regardless of the active filter or sort.
type Stats struct {
	AvgAPY     float64
	TopAPY     float64
	TopProject string
}

// ComputeStats derives the aggregate stats from the full pool set.
func ComputeStats(pools []model.Pool) Stats {
	if len(pools) == 0 {
		return Stats{TopProject: "N/A"}
	}

	var sum float64
	top := pools[0]
	for _, p := range pools {
		sum += p.APY
		if p.APY > top.APY {
			top = p
		}
	}

	return Stats{
		AvgAPY:     sum / float64(len(pools)),
		TopAPY:     top.APY,
		TopProject: top.Project,
	}
}

// SplitNews partitions fetched items into news and social lists, preserving
// order. The renderer caps the social list at SocialPulseSize.
func SplitNews(items []model.NewsItem) (news, social []model.NewsItem) {
	for _, item := range items {
		if item.IsSocial() {
			social = append(social, item)
		} else {
			news = append(news, item)
		}
	}
	return news, social
}
