package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List saved games",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGamesList()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGamesDelete(args[0])
		},
	})
	return cmd
}

func runGamesList() error {
	cfg := initConfig()
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.List()
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Println("No saved games.")
		return nil
	}

	fmt.Printf("%-36s  %-6s  %-20s  %-6s  %s\n", "ID", "MODE", "PLAYERS", "MOVES", "STARTED")
	for _, g := range games {
		fmt.Printf("%-36s  %-6s  %-20s  %-6d  %s\n",
			g.ID,
			g.Mode,
			g.PlayerWhite+" vs "+g.PlayerBlack,
			len(g.History),
			g.DatePlayed.Format("2006-01-02 15:04"),
		)
	}
	return nil
}

func runGamesDelete(id string) error {
	cfg := initConfig()
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(id); err != nil {
		return err
	}
	fmt.Printf("Deleted game %s\n", id)
	return nil
}
