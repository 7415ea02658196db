// Package excel exports the flashcard deck to a spreadsheet.
package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nexuskb/nexus/internal/store"
)

// ExportResult holds the outcome of a deck export.
type ExportResult struct {
	Cards int
	Path  string
}

const sheetName = "Deck"

var header = []string{"ID", "Topic", "Type", "Question", "Answer", "Difficulty", "Stability (days)", "Last Review", "Next Review"}

// ExportDeck writes every card, with its scheduling state, to an .xlsx
// file at the given path.
func ExportDeck(db *store.DB, path string) (*ExportResult, error) {
	cards, err := db.AllCards()
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, h := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	// Topic titles resolved once per parent.
	titles := map[int64]string{}
	topicTitle := func(id int64) string {
		if t, ok := titles[id]; ok {
			return t
		}
		t := "(missing source)"
		if rec, err := db.GetRecord(id); err == nil && rec != nil {
			t = rec.Title
		}
		titles[id] = t
		return t
	}

	for i, c := range cards {
		row := []any{
			c.ID,
			topicTitle(c.ParentID),
			string(c.Type),
			c.Question,
			c.Answer,
			c.Difficulty,
			c.Stability,
			formatMillis(c.LastReview),
			formatMillis(c.NextReview),
		}
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save %s: %w", path, err)
	}
	return &ExportResult{Cards: len(cards), Path: path}, nil
}

func formatMillis(ms *int64) string {
	if ms == nil {
		return ""
	}
	return time.UnixMilli(*ms).UTC().Format("2006-01-02 15:04")
}
