package cmd

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

/*
printTable writes records as a pipe-delimited table:

	|   file   | version | schemas |
	|----------|---------|---------|
	| a.usmap  | 3       | 1204    |
*/
func printTable(w io.Writer, headers []string, data [][]string) {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = utf8.RuneCountInString(header) + 4
	}
	for _, row := range data {
		for i, col := range row {
			if width := utf8.RuneCountInString(col) + 2; widths[i] < width {
				widths[i] = width
			}
		}
	}
	// center-space the headers
	for i, header := range headers {
		if (widths[i]-utf8.RuneCountInString(header))%2 == 1 {
			widths[i]++
		}
	}

	fmt.Fprint(w, "|")
	for i, header := range headers {
		padding := strings.Repeat(" ", (widths[i]-utf8.RuneCountInString(header))/2)
		fmt.Fprintf(w, "%s%s%s|", padding, header, padding)
	}
	fmt.Fprintln(w)

	fmt.Fprint(w, "|")
	for _, width := range widths {
		fmt.Fprintf(w, "%s|", strings.Repeat("-", width))
	}
	fmt.Fprintln(w)

	for _, row := range data {
		fmt.Fprint(w, "|")
		for i, col := range row {
			fmt.Fprintf(w, " %s%s|", col, strings.Repeat(" ", widths[i]-utf8.RuneCountInString(col)-1))
		}
		fmt.Fprintln(w)
	}
}
