package core

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// DefaultPreviewRows is the preview size used when none is configured.
const DefaultPreviewRows = 10

// Preview writes a tabular summary of the dataset: the first and last
// rows when it holds more than limit rows, every row otherwise, followed
// by the dataset shape.
func Preview(w io.Writer, d *Dataset, limit int) error {
	if limit <= 0 {
		limit = DefaultPreviewRows
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\t%s\n", strings.Join(CanonicalColumns(), "\t"))

	n := d.Len()
	if n <= limit {
		for i := 0; i < n; i++ {
			writePreviewRow(tw, i, d.Rows[i])
		}
	} else {
		head := (limit + 1) / 2
		tail := limit / 2
		for i := 0; i < head; i++ {
			writePreviewRow(tw, i, d.Rows[i])
		}
		fmt.Fprintf(tw, "...%s\n", strings.Repeat("\t...", FieldCount))
		for i := n - tail; i < n; i++ {
			writePreviewRow(tw, i, d.Rows[i])
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n[%d rows x %d columns]\n", n, FieldCount)
	return err
}

func writePreviewRow(w io.Writer, i int, r Row) {
	fmt.Fprintf(w, "%d\t%s\n", i, strings.Join(r[:], "\t"))
}
