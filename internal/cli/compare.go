package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [id]",
		Short: "Toggle a property on the compare list, or show the list",
		Long:  "With an ID, toggles that property on the compare list (at most four). Without arguments, shows the current compare list.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCompare,
	}
}

func runCompare(cmd *cobra.Command, args []string) error {
	c := newAPIClient()

	if len(args) == 0 {
		props, err := c.ListCompare()
		if err != nil {
			return err
		}

		if isJSON() {
			return printJSON(props)
		}
		return printPropertyTable(props)
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid property ID: %s", args[0])
	}

	res, err := c.ToggleCompare(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(res)
	}

	switch {
	case res.Warning != "":
		fmt.Println(res.Warning)
	case res.Compared:
		fmt.Printf("Property #%d added to compare list.\n", id)
	default:
		fmt.Printf("Property #%d removed from compare list.\n", id)
	}
	return nil
}
