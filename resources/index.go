package resources

import "strings"

// IndexName names a search index inside ns. Elasticsearch index names must be lowercase.
func IndexName(ns, suffix string) string {
	name := ns
	if suffix != "" {
		name += "_" + suffix
	}
	return strings.ToLower(name)
}
