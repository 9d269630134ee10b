package main

import (
	"strings"

	apperrors "github.com/shhac/prqueries/internal/errors"
	"github.com/spf13/cobra"
)

func (c *cli) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and edit the recent query history",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recent queries, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.app.Store().GetHistory(cmd.Context(), c.repo)
			if err != nil {
				return err
			}
			return c.printHistory(h)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "push <query>",
		Short: "Record a query as the most recently used",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := normalizeQuery(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return c.app.Store().PushHistory(cmd.Context(), c.repo, query)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <query>",
		Short: "Remove a query from the history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			return c.app.Store().DeleteHistoryEntry(cmd.Context(), c.repo, query)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every query from the history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Store().ClearHistory(cmd.Context(), c.repo)
		},
	})

	return cmd
}

// normalizeQuery trims q; blank queries are refused here because the store
// records whatever it is given.
func normalizeQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", apperrors.ValidationError{Field: "query", Message: "query is required"}
	}
	return q, nil
}
