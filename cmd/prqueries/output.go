package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shhac/prqueries/internal/domain"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printHistory(history []string) error {
	if c.jsonOut {
		return c.printJSON(history)
	}
	if len(history) == 0 {
		fmt.Fprintln(c.stdout, "No query history.")
		return nil
	}
	for i, q := range history {
		fmt.Fprintf(c.stdout, "%2d  %s\n", i+1, q)
	}
	return nil
}

func (c *cli) printSavedQueries(saved []domain.SavedQuery) error {
	if c.jsonOut {
		return c.printJSON(saved)
	}
	if len(saved) == 0 {
		fmt.Fprintln(c.stdout, "No saved queries.")
		return nil
	}

	rows := make([][]string, len(saved))
	for i, q := range saved {
		rows[i] = []string{strconv.Itoa(i + 1), q.ID, q.Name, q.Query}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ID", "NAME", "QUERY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	fmt.Fprintln(c.stdout, t.Render())
	return nil
}

func (c *cli) printSavedQuery(q domain.SavedQuery) error {
	if c.jsonOut {
		return c.printJSON(q)
	}
	fmt.Fprintf(c.stdout, "id:    %s\nname:  %s\nquery: %s\n", q.ID, q.Name, q.Query)
	return nil
}
