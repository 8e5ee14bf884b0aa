package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/litoralapp/litoral/internal/client"
	"github.com/litoralapp/litoral/internal/listing"
)

func newListCmd() *cobra.Command {
	var f listing.FilterState
	var watch time.Duration

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties",
		Long:  "List published properties, filtered and sorted server-side. With --watch the list repolls on an interval; a poll that outlives the next one is discarded rather than shown out of order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch > 0 {
				return runListWatch(f, watch)
			}
			return runList(f)
		},
	}

	cmd.Flags().StringVar(&f.Tab, "tab", "", "tab scope (all|sale|rent|temporary|favorites)")
	cmd.Flags().StringVarP(&f.Query, "query", "q", "", "free-text search over title, description and address")
	cmd.Flags().Int64Var(&f.CityID, "city", 0, "filter by city ID")
	cmd.Flags().Int64Var(&f.CategoryID, "category", 0, "filter by category ID")
	cmd.Flags().StringVar(&f.Type, "type", "", "property type (sale|rent|temporary)")
	cmd.Flags().Int64Var(&f.MinPrice, "min-price", 0, "minimum price")
	cmd.Flags().Int64Var(&f.MaxPrice, "max-price", 0, "maximum price")
	cmd.Flags().StringVar(&f.Bedrooms, "bedrooms", "", `bedroom count ("1", "2", "3" or "4+")`)
	cmd.Flags().StringVar(&f.Bathrooms, "bathrooms", "", `bathroom count ("1", "2" or "3+")`)
	cmd.Flags().StringVar(&f.Sort, "sort", "", "sort key (newest|oldest|price_asc|price_desc|area_desc|bedrooms_desc)")
	cmd.Flags().DurationVar(&watch, "watch", 0, "repoll interval (e.g. 5s); 0 lists once")

	return cmd
}

func runList(f listing.FilterState) error {
	if err := f.Validate(); err != nil {
		return err
	}

	c := newAPIClient()
	resp, err := c.ListProperties(f)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(resp)
	}

	if len(resp.Chips) > 0 {
		fmt.Printf("Filters: %s\n\n", chipLine(resp.Chips))
	}
	return printPropertyTable(resp.Items)
}

// runListWatch repolls the listing on an interval. Ticks never wait for
// a slow response; each poll runs in its own goroutine and the
// refresher drops any response that was superseded in flight, so the
// view only ever moves forward.
func runListWatch(f listing.FilterState, interval time.Duration) error {
	if err := f.Validate(); err != nil {
		return err
	}

	ref := client.NewRefresher(newAPIClient())
	results := make(chan *client.ListResponse, 1)

	poll := func() {
		resp, ok, err := ref.Refresh(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "refresh failed: %v\n", err)
			return
		}
		if ok {
			results <- resp
		}
	}

	go poll()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			go poll()
		case resp := <-results:
			fmt.Printf("--- %s ---\n", time.Now().Format("15:04:05"))
			if len(resp.Chips) > 0 {
				fmt.Printf("Filters: %s\n", chipLine(resp.Chips))
			}
			if err := printPropertyTable(resp.Items); err != nil {
				return err
			}
			fmt.Println()
		}
	}
}
