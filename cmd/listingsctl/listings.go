package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"classifieds/internal/i18n"
	"classifieds/internal/listings/catalog"
	"classifieds/internal/listings/filter"
	"classifieds/internal/listings/models"
)

func newListingsCommand() *cobra.Command {
	var (
		path     string
		lang     string
		asJSON   bool
		criteria models.Criteria
	)

	cmd := &cobra.Command{
		Use:   "listings",
		Short: "List catalog listings matching the filter criteria",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.Load(path)
			if err != nil {
				return err
			}
			locale, ok := i18n.Parse(lang)
			if !ok {
				return fmt.Errorf("unsupported locale %q", lang)
			}

			matched := filter.Listings(cat.All(), criteria)
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(matched)
			}
			for _, l := range matched {
				printf(w, "%d\t%s\t%s\t%s\t%s\n", l.ID, l.Title, l.Location, l.Condition, i18n.FormatPrice(l.PriceCents, locale))
			}
			printf(w, "%d of %d listings\n", len(matched), cat.Count())
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "catalog", envOr("LISTINGS_CATALOG", ""), "catalog YAML file (default is the embedded catalog)")
	cmd.Flags().StringVar(&lang, "lang", string(i18n.Default), "locale used to format prices (fr|en)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print matching listings as JSON")
	cmd.Flags().StringVar(&criteria.SearchTerm, "search", "", "search term matched against titles")
	cmd.Flags().StringVar(&criteria.Category, "category", "", "exact category value")
	cmd.Flags().StringVar(&criteria.Condition, "condition", "", "exact condition value")
	cmd.Flags().StringVar(&criteria.LocationTerm, "location", "", "location term")
	return cmd
}
