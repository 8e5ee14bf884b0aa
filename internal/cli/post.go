package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPostCmd() *cobra.Command {
	var imageURL string

	cmd := &cobra.Command{
		Use:   "post <text>",
		Short: "Publish a post to the community feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPost(args[0], imageURL)
		},
	}

	cmd.Flags().StringVar(&imageURL, "image", "", "URL of an uploaded image to attach")

	return cmd
}

func runPost(body, imageURL string) error {
	c := newAPIClient()

	p, err := c.CreatePost(body, imageURL)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(p)
	}

	fmt.Printf("Post #%d published.\n", p.ID)
	return nil
}

func newFeedCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the community feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of posts (0 = all)")

	return cmd
}

func runFeed(limit int) error {
	c := newAPIClient()

	posts, err := c.ListPosts(limit)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(posts)
	}

	printPosts(posts)
	return nil
}
