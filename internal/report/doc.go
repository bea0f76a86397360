// Package report renders comparisons as Markdown, and Markdown for terminals.
package report
