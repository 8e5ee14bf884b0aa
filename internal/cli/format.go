package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/litoralapp/litoral/internal/listing"
	"github.com/litoralapp/litoral/internal/post"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPropertySummary prints a single property in text format.
func printPropertySummary(p *listing.Property) {
	fmt.Printf("Property #%d\n", p.ID)
	fmt.Printf("  Title:    %s\n", p.Title)
	fmt.Printf("  Type:     %s\n", typeLabel(p.Type))
	fmt.Printf("  Price:    R$ %s\n", formatPrice(p.Price))
	if p.Address != "" {
		fmt.Printf("  Address:  %s\n", p.Address)
	}
	if p.Neighborhood != "" {
		fmt.Printf("  Area:     %s\n", p.Neighborhood)
	}
	if p.Bedrooms > 0 {
		fmt.Printf("  Beds:     %d\n", p.Bedrooms)
	}
	if p.Bathrooms > 0 {
		fmt.Printf("  Baths:    %d\n", p.Bathrooms)
	}
	if p.Area > 0 {
		fmt.Printf("  Size:     %g m²\n", p.Area)
	}
	if p.Description != "" {
		fmt.Printf("  About:    %s\n", truncate(p.Description, 120))
	}
}

// printPropertyTable prints a list of properties as a formatted table.
func printPropertyTable(props []*listing.Property) error {
	if len(props) == 0 {
		fmt.Println("No properties found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tTITLE\tTYPE\tPRICE\tBED\tBATH\tM2"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t-----\t----\t-----\t---\t----\t--"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range props {
		area := "-"
		if p.Area > 0 {
			area = fmt.Sprintf("%g", p.Area)
		}

		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			p.ID, truncate(p.Title, 40), p.Type, "R$ "+formatPrice(p.Price),
			p.Bedrooms, p.Bathrooms, area); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d properties\n", len(props))
	return nil
}

// printPosts prints the community feed in text format.
func printPosts(posts []*post.Post) {
	if len(posts) == 0 {
		fmt.Println("No posts yet.")
		return
	}

	for _, p := range posts {
		author := p.AuthorName
		if author == "" {
			author = p.AuthorRole
		}
		fmt.Printf("[%s] #%d (%s)\n  %s\n\n",
			p.CreatedAt.Format("2006-01-02 15:04"), p.ID, author, p.Body)
	}
}

// chipLine joins active-filter chips into one readable line.
func chipLine(chips []listing.Chip) string {
	labels := make([]string, len(chips))
	for i, c := range chips {
		labels[i] = c.Label
	}
	return strings.Join(labels, " · ")
}

// typeLabel returns the display label for a property type.
func typeLabel(t string) string {
	switch t {
	case listing.TypeSale:
		return "For sale"
	case listing.TypeRent:
		return "For rent"
	case listing.TypeTemporary:
		return "Seasonal rental"
	default:
		return t
	}
}

// formatPrice formats an amount as a string with commas.
func formatPrice(amount int64) string {
	s := fmt.Sprintf("%d", amount)

	// Add commas
	if len(s) <= 3 {
		return s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	return strings.Join(parts, ",")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
