package core

// ChartKind identifies one of the published chart feeds.
type ChartKind string

const (
	ChartHot100       ChartKind = "billboard-hot-100"
	ChartBillboard200 ChartKind = "billboard-200"
	ChartGlobal200    ChartKind = "billboard-global-200"
	ChartArtist100    ChartKind = "billboard-artist-100"
)

// ChartKinds lists every chart in display order.
var ChartKinds = []ChartKind{ChartHot100, ChartBillboard200, ChartGlobal200, ChartArtist100}

// Title returns a human-readable chart name.
func (k ChartKind) Title() string {
	switch k {
	case ChartHot100:
		return "Hot 100"
	case ChartBillboard200:
		return "Billboard 200"
	case ChartGlobal200:
		return "Global 200"
	case ChartArtist100:
		return "Artist 100"
	default:
		return string(k)
	}
}

// ParseChartKind accepts either the feed name or a short alias like "hot100".
func ParseChartKind(s string) (ChartKind, bool) {
	switch s {
	case string(ChartHot100), "hot100", "hot-100":
		return ChartHot100, true
	case string(ChartBillboard200), "200", "billboard200":
		return ChartBillboard200, true
	case string(ChartGlobal200), "global200", "global-200":
		return ChartGlobal200, true
	case string(ChartArtist100), "artist100", "artist-100":
		return ChartArtist100, true
	}
	return "", false
}

// ChartItem is one ranked entry of a chart.
type ChartItem struct {
	Name         string  `json:"name"`
	Artist       *string `json:"artist,omitempty"`
	Image        string  `json:"image"`
	Rank         int     `json:"rank"`
	LastWeekRank *int    `json:"last_week_rank,omitempty"`
	PeakRank     *int    `json:"peak_rank,omitempty"`
	WeeksOnChart *int    `json:"weeks_on_chart,omitempty"`
}

// ArtistName returns the artist or an empty string for artist charts.
func (c ChartItem) ArtistName() string {
	if c.Artist == nil {
		return ""
	}
	return *c.Artist
}

// Movement returns the rank change since last week; positive means climbing.
// ok is false for new entries.
func (c ChartItem) Movement() (delta int, ok bool) {
	if c.LastWeekRank == nil || *c.LastWeekRank == 0 {
		return 0, false
	}
	return *c.LastWeekRank - c.Rank, true
}

// Chart is a decoded chart feed.
type Chart struct {
	Kind  ChartKind   `json:"kind"`
	Date  string      `json:"date"`
	Items []ChartItem `json:"items"`
}
