// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

// homeroom-recipients resolves one recipient-search query against a
// roster snapshot and prints the resulting page as JSON.
//
// The roster snapshot file stands in for the institution's directory:
// it carries each user's membership view and messageable population.
// The catalog is built once for the acting user, then the query runs
// exactly as a hosting service would run it.
//
//	homeroom-recipients --as 1 --search "biology"
//	homeroom-recipients --as 1 --context course_5
//	homeroom-recipients --as 1 --user-id 101 --from-conversation 77
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/homeroom-project/homeroom/lib/config"
	"github.com/homeroom-project/homeroom/lib/recipient"
	"github.com/homeroom-project/homeroom/lib/roster"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath       string
		rosterPath       string
		actor            string
		search           string
		scopeID          string
		exclude          []string
		types            []string
		userID           string
		fromConversation string
		perPage          int
		page             int
	)

	flagSet := pflag.NewFlagSet("homeroom-recipients", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to homeroom.yaml (default: $HOMEROOM_CONFIG)")
	flagSet.StringVar(&rosterPath, "roster", "", "roster snapshot file (.yaml or .jsonc; overrides config)")
	flagSet.StringVar(&actor, "as", "", "acting user id (required)")
	flagSet.StringVar(&search, "search", "", "free-text search terms (AND semantics)")
	flagSet.StringVar(&scopeID, "context", "", "scoping context: tag, drill-down, or role-group id")
	flagSet.StringSliceVar(&exclude, "exclude", nil, "recipient ids to exclude")
	flagSet.StringSliceVar(&types, "type", nil, `restrict recipient types: "user" and/or "context"`)
	flagSet.StringVar(&userID, "user-id", "", "single-recipient lookup by user id")
	flagSet.StringVar(&fromConversation, "from-conversation", "", "scope --user-id lookup to a shared conversation")
	flagSet.IntVar(&perPage, "per-page", 0, "page size (0 = config default, hard max 50)")
	flagSet.IntVar(&page, "page", 1, "1-based page number")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	if actor == "" {
		return fmt.Errorf("missing required flag --as")
	}

	if rosterPath == "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		rosterPath = cfg.Paths.Roster
		if perPage == 0 && userID == "" {
			perPage = cfg.Resolver.DefaultPerPage
		}
	}

	directory, err := roster.LoadFile(rosterPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	snapshot, err := directory.Membership(ctx, actor)
	if err != nil {
		return err
	}

	resolver := &recipient.Resolver{
		Catalog:   roster.BuildCatalog(snapshot),
		Directory: directory,
	}
	result, err := resolver.Resolve(ctx, recipient.Query{
		Actor:              actor,
		Search:             search,
		Context:            scopeID,
		Exclude:            exclude,
		Types:              recipient.ParseTypes(types),
		UserID:             userID,
		FromConversationID: fromConversation,
		PerPage:            perPage,
		Page:               page,
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// loadConfig loads from the explicit --config path when given, else
// from HOMEROOM_CONFIG.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
