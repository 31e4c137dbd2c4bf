package main

import (
	"embed"
	"html/template"
	"io"
	"sort"
)

//go:embed ui.page.gohtml
var pageFS embed.FS

// BookRow is the view model of one rendered list entry. Overdue is
// recomputed on every render, it is never cached on the record.
type BookRow struct {
	ID      int64
	Title   string
	Author  string
	DueDate string
	Overdue bool
}

// PageData feeds the library page template.
type PageData struct {
	Rows  []BookRow
	Stats LendingStats
	Flash string
}

// ViewRenderer produces the sorted, escaped list of lending records.
// Escaping of user supplied text is delegated to html/template
// contextual auto-escaping.
type ViewRenderer struct {
	clock Clocker
	tmpl  *template.Template
}

func NewViewRenderer(clock Clocker) (*ViewRenderer, error) {
	tmpl, err := template.ParseFS(pageFS, "ui.page.gohtml")
	if err != nil {
		return nil, err
	}
	return &ViewRenderer{clock: clock, tmpl: tmpl}, nil
}

// SortBooksByDueDate returns a copy of books ordered ascending by due
// date. The sort is stable: records sharing a due date keep their
// relative order. ISO calendar dates compare correctly as strings.
func SortBooksByDueDate(books []Book) []Book {
	sorted := make([]Book, len(books))
	copy(sorted, books)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueDate < sorted[j].DueDate
	})
	return sorted
}

// Rows converts the collection into its rendered order, flagging rows
// whose due date lies strictly before the current date.
func (vr *ViewRenderer) Rows(books []Book) []BookRow {
	now := vr.clock.Now()
	sorted := SortBooksByDueDate(books)
	rows := make([]BookRow, 0, len(sorted))
	for _, book := range sorted {
		rows = append(rows, BookRow{
			ID:      book.ID,
			Title:   book.Title,
			Author:  book.Author,
			DueDate: book.DueDate,
			Overdue: IsOverdueDate(book.DueDate, now),
		})
	}
	return rows
}

// RenderPage writes the full library page for the given collection.
func (vr *ViewRenderer) RenderPage(w io.Writer, books []Book, stats LendingStats, flash string) error {
	return vr.tmpl.Execute(w, PageData{
		Rows:  vr.Rows(books),
		Stats: stats,
		Flash: flash,
	})
}
