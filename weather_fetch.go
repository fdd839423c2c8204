package main

import "strings"

// cloudKeywordRule is one row of the keyword-priority table spec.md §4.6
// defines for deriving a cloud-cover percentage from a short forecast
// string. Order matters: rows are tested top to bottom and the first
// substring hit wins.
type cloudKeywordRule struct {
	keywords []string
	percent  int
}

var cloudKeywordTable = []cloudKeywordRule{
	{keywords: []string{"rain", "storm", "snow", "drizzle", "showers"}, percent: 95},
	{keywords: []string{"overcast"}, percent: 90},
	{keywords: []string{"mostly cloudy"}, percent: 75},
	{keywords: []string{"cloudy"}, percent: 90},
	{keywords: []string{"partly"}, percent: 50},
	{keywords: []string{"mostly sunny", "mostly clear"}, percent: 25},
	{keywords: []string{"sunny", "clear"}, percent: 10},
}

// CloudCoverFromForecast implements the keyword-priority matching table.
// "mostly cloudy" is checked before the bare "cloudy" rule, and "mostly
// sunny"/"mostly clear" before the bare "sunny"/"clear" rule, by virtue of
// table order alone.
func CloudCoverFromForecast(shortForecast string) int {
	lower := strings.ToLower(shortForecast)
	for _, rule := range cloudKeywordTable {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.percent
			}
		}
	}
	return 0
}
