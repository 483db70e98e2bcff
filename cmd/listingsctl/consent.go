package main

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"classifieds/internal/consent/models"
)

var errInvalidRecord = errors.New("not a valid consent record")

func newConsentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consent",
		Short: "Decode and build consent cookie values",
	}
	cmd.AddCommand(newConsentDecodeCommand(), newConsentEncodeCommand())
	return cmd
}

func newConsentDecodeCommand() *cobra.Command {
	var (
		now       string
		retention int
	)

	cmd := &cobra.Command{
		Use:   "decode <cookie-value>",
		Short: "Decode a consent cookie value and report whether it is still valid",
		Long: `Decodes a consent cookie value as captured from a browser, escaped or not,
and reports the stored choices and the age of the record.

Example:
  listingsctl consent decode '%7B%22timestamp%22%3A...'
  listingsctl consent decode --now 2026-01-01T00:00:00Z "$VALUE"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now()
			if now != "" {
				t, err := time.Parse(time.RFC3339, now)
				if err != nil {
					return fmt.Errorf("invalid --now: %w", err)
				}
				at = t
			}

			raw := args[0]
			if unescaped, err := url.QueryUnescape(raw); err == nil {
				raw = unescaped
			}
			rec, ok := models.Decode(raw)
			if !ok {
				return errInvalidRecord
			}

			w := cmd.OutOrStdout()
			printf(w, "timestamp:  %s\n", rec.Timestamp.Format(time.RFC3339))
			printf(w, "essential:  %t\n", rec.Preferences.Essential)
			printf(w, "analytics:  %t\n", rec.Preferences.Analytics)
			printf(w, "stripe:     %t\n", rec.Preferences.Stripe)
			printf(w, "outcome:    %s\n", rec.Preferences.Outcome())
			printf(w, "age:        %.1f days\n", rec.ElapsedDays(at))
			if rec.Expired(at, retention) {
				printf(w, "status:     expired\n")
			} else {
				printf(w, "status:     valid\n")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&now, "now", "", "evaluate expiry at this RFC 3339 time instead of the current time")
	cmd.Flags().IntVar(&retention, "retention-days", models.RetentionDays, "days a consent record stays valid")
	return cmd
}

func newConsentEncodeCommand() *cobra.Command {
	var (
		analytics bool
		stripe    bool
		at        string
		escape    bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build a consent cookie value, for seeding a browser or a test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ts := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				ts = t
			}
			value, err := models.NewRecord(models.Preferences{Analytics: analytics, Stripe: stripe}, ts).Encode()
			if err != nil {
				return err
			}
			if escape {
				value = url.QueryEscape(value)
			}
			printf(cmd.OutOrStdout(), "%s\n", value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&analytics, "analytics", false, "grant analytics cookies")
	cmd.Flags().BoolVar(&stripe, "stripe", true, "grant payment cookies")
	cmd.Flags().StringVar(&at, "at", "", "record timestamp in RFC 3339 (default is now)")
	cmd.Flags().BoolVar(&escape, "escape", true, "escape the value the way the site stores it")
	return cmd
}
