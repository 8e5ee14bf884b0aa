package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle a property's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE:  runFavorite,
	}
}

func runFavorite(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid property ID: %s", args[0])
	}

	c := newAPIClient()
	fav, err := c.ToggleFavorite(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]interface{}{"id": id, "favorite": fav})
	}

	if fav {
		fmt.Printf("Property #%d favorited.\n", id)
	} else {
		fmt.Printf("Property #%d removed from favorites.\n", id)
	}
	return nil
}

func newFavoritesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List favorited properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()
			props, err := c.ListFavorites()
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(props)
			}
			return printPropertyTable(props)
		},
	}
}
