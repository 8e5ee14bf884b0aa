package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()
			cities, err := c.ListCities()
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cities)
			}

			if len(cities) == 0 {
				fmt.Println("No cities found.")
				return nil
			}
			for _, city := range cities {
				line := city.Name
				if city.State != "" {
					line += ", " + city.State
				}
				fmt.Printf("#%d  %s\n", city.ID, line)
			}
			return nil
		},
	}
}

func newBeachesCmd() *cobra.Command {
	var cityID int64

	cmd := &cobra.Command{
		Use:   "beaches",
		Short: "List beaches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()
			beaches, err := c.ListBeaches(cityID)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(beaches)
			}

			if len(beaches) == 0 {
				fmt.Println("No beaches found.")
				return nil
			}
			for _, b := range beaches {
				fmt.Printf("#%d  %s\n", b.ID, b.Name)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&cityID, "city", 0, "scope to one city ID")

	return cmd
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List property categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()
			cats, err := c.ListCategories()
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cats)
			}

			if len(cats) == 0 {
				fmt.Println("No categories found.")
				return nil
			}
			for _, cat := range cats {
				fmt.Printf("#%d  %s\n", cat.ID, cat.Name)
			}
			return nil
		},
	}
}
