package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shhac/prqueries/internal/domain"
	"github.com/spf13/cobra"
)

func (c *cli) savedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "saved",
		Aliases: []string{"s"},
		Short:   "Manage named saved queries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved queries in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := c.app.Store().GetSavedQueries(cmd.Context(), c.repo)
			if err != nil {
				return err
			}
			return c.printSavedQueries(saved)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := c.app.Store().GetSavedQuery(cmd.Context(), c.repo, args[0])
			if err != nil {
				return err
			}
			return c.printSavedQuery(*q)
		},
	})

	cmd.AddCommand(c.savedAddCmd())
	cmd.AddCommand(c.savedUpdateCmd())

	cmd.AddCommand(&cobra.Command{
		Use:       "move <id> up|down",
		Short:     "Move a saved query one place up or down",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(domain.DirectionUp), string(domain.DirectionDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := domain.ParseDirection(args[1])
			if err != nil {
				return err
			}
			q, err := c.app.Store().GetSavedQuery(cmd.Context(), c.repo, args[0])
			if err != nil {
				return err
			}
			return c.app.Store().MoveSavedQuery(cmd.Context(), c.repo, *q, dir)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Store().DeleteSavedQuery(cmd.Context(), c.repo, args[0])
		},
	})

	return cmd
}

func (c *cli) savedAddCmd() *cobra.Command {
	var name, id string

	cmd := &cobra.Command{
		Use:   "add <query>",
		Short: "Save a query under a name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := normalizeQuery(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if id == "" {
				id = uuid.NewString()
			}
			q := domain.SavedQuery{ID: id, Name: name, Query: query}
			if err := c.app.Store().AddSavedQuery(cmd.Context(), c.repo, q); err != nil {
				return err
			}
			if c.jsonOut {
				return c.printJSON(q)
			}
			fmt.Fprintln(c.stdout, q.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVar(&id, "id", "", "Explicit id (default: random UUID)")
	return cmd
}

func (c *cli) savedUpdateCmd() *cobra.Command {
	var name, query string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the name or query of a saved query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := c.app.Store()
			q, err := store.GetSavedQuery(cmd.Context(), c.repo, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				q.Name = name
			}
			if flags.Changed("query") {
				if q.Query, err = normalizeQuery(query); err != nil {
					return err
				}
			}
			return store.UpdateSavedQuery(cmd.Context(), c.repo, *q)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New display name")
	cmd.Flags().StringVarP(&query, "query", "q", "", "New query")
	return cmd
}
