package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	listingsdom "classifieds/internal/listings/dom"
)

type filterOptions struct {
	search    string
	category  string
	condition string
	location  string
	out       string
}

func newFilterCommand(log func() *slog.Logger) *cobra.Command {
	opts := &filterOptions{}
	cmd := &cobra.Command{
		Use:   "filter <page.html>",
		Short: "Run the listings filter over a saved listings page",
		Long: `Loads a saved listings page, sets the given control values and runs one
filter pass, the way the page does on input and change events.

Example:
  listingsctl filter annonces.html --search pompe --category pompes
  listingsctl filter annonces.html --location normandie --out filtered.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, args[0], opts, log())
		},
	}

	cmd.Flags().StringVar(&opts.search, "search", "", "search term matched against card titles")
	cmd.Flags().StringVar(&opts.category, "category", "", "exact category value")
	cmd.Flags().StringVar(&opts.condition, "condition", "", "exact condition value")
	cmd.Flags().StringVar(&opts.location, "location", "", "location term matched against card locations")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the filtered page to this file")
	return cmd
}

func runFilter(cmd *cobra.Command, path string, opts *filterOptions, log *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}

	page := listingsdom.NewPage(doc)
	if !page.Enabled() {
		return fmt.Errorf("%s has no #%s element, filtering is disabled", path, listingsdom.ContainerID)
	}

	for _, c := range []struct {
		control listingsdom.Control
		value   string
	}{
		{listingsdom.ControlSearch, opts.search},
		{listingsdom.ControlCategory, opts.category},
		{listingsdom.ControlCondition, opts.condition},
		{listingsdom.ControlLocation, opts.location},
	} {
		if !cmd.Flags().Changed(string(c.control)) {
			continue
		}
		if !page.SetValue(c.control, c.value) {
			log.Warn("control missing from page, value ignored", "control", string(c.control))
		}
	}

	res, _ := listingsdom.NewFilter(page, listingsdom.WithLogger(log)).Run(cmd.Context())

	w := cmd.OutOrStdout()
	cards := page.Cards()
	for i, card := range cards {
		mark := "-"
		if res.Visible[i] {
			mark = "+"
		}
		printf(w, "%s %s\t%s\n", mark, card.ID, card.Title)
	}
	printf(w, "%d of %d listings visible\n", res.Count, len(cards))

	if opts.out == "" {
		return nil
	}
	html, err := doc.Html()
	if err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	if err := os.WriteFile(opts.out, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}
