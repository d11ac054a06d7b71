// Package render holds small terminal-output helpers shared by the
// interactive session.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table writes a tab-aligned table with a header row.
func Table(w io.Writer, headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// KV writes aligned key/value lines, in the given order.
func KV(w io.Writer, pairs [][2]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range pairs {
		fmt.Fprintf(tw, "%s:\t%s\n", p[0], p[1])
	}
	tw.Flush()
}

// Errorf writes a single inline error line.
func Errorf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}
