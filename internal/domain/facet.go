package domain

import "fmt"

// SortOrder is a reddit listing sort.
type SortOrder string

const (
	SortTop           SortOrder = "top"
	SortHot           SortOrder = "hot"
	SortNew           SortOrder = "new"
	SortControversial SortOrder = "controversial"
)

// TimeWindow is the `t` parameter of windowed listings.
type TimeWindow string

const (
	WindowNone  TimeWindow = ""
	WindowAll   TimeWindow = "all"
	WindowYear  TimeWindow = "year"
	WindowMonth TimeWindow = "month"
	WindowWeek  TimeWindow = "week"
	WindowDay   TimeWindow = "day"
)

var (
	SortOrders  = []SortOrder{SortTop, SortHot, SortNew, SortControversial}
	TimeWindows = []TimeWindow{WindowAll, WindowYear, WindowMonth, WindowWeek, WindowDay}
)

// Windowed reports whether the sort accepts a time window.
func (s SortOrder) Windowed() bool {
	return s == SortTop || s == SortControversial
}

// Facet is one (sort, window) query against a subreddit.
type Facet struct {
	Sort   SortOrder
	Window TimeWindow
}

func (f Facet) String() string {
	if f.Window == WindowNone {
		return string(f.Sort)
	}
	return fmt.Sprintf("%s/%s", f.Sort, f.Window)
}

// DefaultFacets expands the sort orders and windows in iteration order:
// outer sort, inner window. Unwindowed sorts yield one facet.
func DefaultFacets() []Facet {
	var facets []Facet
	for _, s := range SortOrders {
		if !s.Windowed() {
			facets = append(facets, Facet{Sort: s})
			continue
		}
		for _, w := range TimeWindows {
			facets = append(facets, Facet{Sort: s, Window: w})
		}
	}
	return facets
}
