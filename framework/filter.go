package framework

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// PrintSelectionDescription tells the user which tests will be skipped and where profiles will be
// written.
func PrintSelectionDescription(w io.Writer, c *Config) {
	var disabled []Category
	for _, cat := range AllCategories {
		if !c.Enabled(cat) {
			disabled = append(disabled, cat)
		}
	}
	if len(disabled) > 0 {
		fmt.Fprintln(w, "Some tests will be skipped based on their categories for this test run:")
		for _, cat := range disabled {
			fmt.Fprintf(w, "  skip any marked %s (enable with -%s)\n", yellow(cat.Marker()), cat.Flag())
		}
		fmt.Fprintln(w)
	}

	if c.ProfilePath != "" {
		mode := "appending"
		if c.ProfileTruncate {
			mode = "truncated at start"
		}
		fmt.Fprintf(w, "Profiling each test to %s (%s)\n", cyan(c.ProfilePath), mode)
		fmt.Fprintln(w)
	}
}
