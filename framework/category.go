package framework

import "fmt"

// Category is a test category marker. A test declaring a category only runs when that category was
// enabled on the command line.
type Category int

const (
	Slow Category = iota
	Performance
	Load
	Integration
)

// AllCategories lists every category in the order they are described to users.
var AllCategories = []Category{Slow, Performance, Load, Integration}

type categoryInfo struct {
	marker      string
	flag        string
	usage       string
	description string
}

var categoryInfos = map[Category]categoryInfo{
	Slow: {
		marker:      "slow",
		flag:        "runslow",
		usage:       "run known-slow tests",
		description: "mark tests as taking longer than your average unit test",
	},
	Performance: {
		marker:      "performance",
		flag:        "runperf",
		usage:       "run performance tests",
		description: "mark tests as performance tests",
	},
	Load: {
		marker:      "load",
		flag:        "runload",
		usage:       "run load tests",
		description: "mark tests as load tests",
	},
	Integration: {
		marker:      "integration",
		flag:        "run-integration",
		usage:       "run integration tests",
		description: "mark tests as integration tests",
	},
}

// Marker is the category's marker name, e.g. "slow".
func (c Category) Marker() string { return categoryInfos[c].marker }

// Flag is the name of the switch that enables the category, without dashes.
func (c Category) Flag() string { return categoryInfos[c].flag }

// Description explains what the marker means.
func (c Category) Description() string { return categoryInfos[c].description }

func (c Category) String() string {
	if info, ok := categoryInfos[c]; ok {
		return info.marker
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// MarkerLine describes one category marker.
type MarkerLine struct {
	Category    Category
	Marker      string
	Flag        string
	Description string
}

// Markers describes every category marker, for help output.
func Markers() []MarkerLine {
	ret := make([]MarkerLine, 0, len(AllCategories))
	for _, c := range AllCategories {
		ret = append(ret, MarkerLine{
			Category:    c,
			Marker:      c.Marker(),
			Flag:        c.Flag(),
			Description: c.Description(),
		})
	}
	return ret
}
