package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/vrr/tags"
)

var flagTagDB string

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage image tags",
}

var tagStarCmd = &cobra.Command{
	Use:   "star <image>",
	Short: "Toggle the starred mark on an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := tags.Open(flagTagDB)
		if err != nil {
			return err
		}
		defer store.Close()

		on, err := store.Toggle(cmd.Context(), args[0], tags.Starred)
		if err != nil {
			return err
		}
		if on {
			fmt.Println("starred", args[0])
		} else {
			fmt.Println("unstarred", args[0])
		}
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list <image>",
	Short: "List the tags of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := tags.Open(flagTagDB)
		if err != nil {
			return err
		}
		defer store.Close()

		ts, err := store.List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, t := range ts {
			fmt.Println(t)
		}
		return nil
	},
}

var tagAddCmd = &cobra.Command{
	Use:   "add <image> <tag>",
	Short: "Attach a tag to an image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := tags.Open(flagTagDB)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Add(cmd.Context(), args[0], args[1])
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove <image> <tag>",
	Short: "Detach a tag from an image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := tags.Open(flagTagDB)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Remove(cmd.Context(), args[0], args[1])
	},
}

func init() {
	tagCmd.PersistentFlags().StringVar(&flagTagDB, "db", "vrr-tags.db", "tag database file")
	tagCmd.AddCommand(tagStarCmd, tagListCmd, tagAddCmd, tagRemoveCmd)
	rootCmd.AddCommand(tagCmd)
}
