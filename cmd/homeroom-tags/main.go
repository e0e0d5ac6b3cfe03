// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

// homeroom-tags normalizes the recipient and tag tokens of a
// conversation into its canonical tag set, resolves the recipients to
// concrete user ids, and optionally persists the tag set.
//
//	homeroom-tags --as 1 --recipients 102,group_9 --tags course_7
//	homeroom-tags --as 1 --recipients group_9 --conversation 77 --store /var/lib/homeroom/conversations
//
// Output is JSON: the conversation id (when given), the normalized
// tag set, and the resolved recipient user ids.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/homeroom-project/homeroom/lib/config"
	"github.com/homeroom-project/homeroom/lib/conversation"
	"github.com/homeroom-project/homeroom/lib/roster"
)

// output is the printed result.
type output struct {
	Conversation string   `json:"conversation,omitempty"`
	Tags         []string `json:"tags"`
	Recipients   []string `json:"recipients"`
	Stored       bool     `json:"stored,omitempty"`
}

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
		recipients       []string
		tags             []string
		storeDir         string
		conversationID   string
		fromConversation string
	)

	flagSet := pflag.NewFlagSet("homeroom-tags", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to homeroom.yaml (default: $HOMEROOM_CONFIG)")
	flagSet.StringVar(&rosterPath, "roster", "", "roster snapshot file (.yaml or .jsonc; overrides config)")
	flagSet.StringVar(&actor, "as", "", "acting user id (required)")
	flagSet.StringSliceVar(&recipients, "recipients", nil, "raw recipient tokens (user ids and context tags)")
	flagSet.StringSliceVar(&tags, "tags", nil, "explicit tag tokens")
	flagSet.StringVar(&storeDir, "store", "", "tag store directory (default: <state>/conversations from config)")
	flagSet.StringVar(&conversationID, "conversation", "", "conversation id to persist the tag set under")
	flagSet.StringVar(&fromConversation, "from-conversation", "", "restrict numeric recipients to participants of this conversation")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	if actor == "" {
		return fmt.Errorf("missing required flag --as")
	}
	if len(recipients) == 0 && len(tags) == 0 {
		return fmt.Errorf("nothing to normalize: pass --recipients and/or --tags")
	}

	if rosterPath == "" || (conversationID != "" && storeDir == "") {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if rosterPath == "" {
			rosterPath = cfg.Paths.Roster
		}
		if storeDir == "" {
			storeDir = filepath.Join(cfg.Paths.State, "conversations")
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
	catalog := roster.BuildCatalog(snapshot)

	tagSet := conversation.InferTags(recipients, tags, catalog)
	resolved, err := conversation.NormalizeRecipients(ctx, directory, actor, fromConversation, recipients)
	if err != nil {
		return err
	}

	result := output{
		Conversation: conversationID,
		Recipients:   resolved,
	}
	for _, t := range tagSet {
		result.Tags = append(result.Tags, t.String())
	}

	if conversationID != "" {
		store, err := conversation.NewFileStore(storeDir)
		if err != nil {
			return err
		}
		if err := store.SaveTags(conversationID, tagSet); err != nil {
			return err
		}
		result.Stored = true
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
