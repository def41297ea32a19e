package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"fraudguard/internal/repositories/cache"

	"github.com/spf13/cobra"
)

type storeOpener func(ctx context.Context) (cache.Store, error)

func newRootCmd(open storeOpener, out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Manage the originator and destination blacklists",
		Long: `Manage the blacklist sets read by the fraud gateway.

Categories:
  originator   accounts that may not send money (rule blackUser)
  destination  accounts that may not receive money (rule blackDevice)`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(addCmd(open))
	rootCmd.AddCommand(removeCmd(open))
	rootCmd.AddCommand(listCmd(open))
	rootCmd.AddCommand(seedCmd(open))
	return rootCmd
}

func setKey(category string) (string, error) {
	key, ok := cache.BlacklistCategories[category]
	if !ok {
		return "", fmt.Errorf("unknown category %q (want originator or destination)", category)
	}
	return key, nil
}

// withStore resolves the category, opens the store and closes it afterwards.
func withStore(cmd *cobra.Command, open storeOpener, category string, fn func(ctx context.Context, s cache.Store, key string) error) error {
	key, err := setKey(category)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := open(ctx)
	if err != nil {
		return fmt.Errorf("connect to state store: %w", err)
	}
	defer s.Close()
	return fn(ctx, s, key)
}

func addCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "add [category] [id...]",
		Short: "Add identifiers to a blacklist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, open, args[0], func(ctx context.Context, s cache.Store, key string) error {
				n, err := s.AddMembers(ctx, key, args[1:]...)
				if err != nil {
					return err
				}
				cmd.Printf("added %d to %s\n", n, args[0])
				return nil
			})
		},
	}
}

func removeCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [category] [id...]",
		Short: "Remove identifiers from a blacklist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, open, args[0], func(ctx context.Context, s cache.Store, key string) error {
				n, err := s.RemoveMembers(ctx, key, args[1:]...)
				if err != nil {
					return err
				}
				cmd.Printf("removed %d from %s\n", n, args[0])
				return nil
			})
		},
	}
}

func listCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "list [category]",
		Short: "Print every identifier in a blacklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, open, args[0], func(ctx context.Context, s cache.Store, key string) error {
				members, err := s.Members(ctx, key)
				if err != nil {
					return err
				}
				sort.Strings(members)
				for _, m := range members {
					cmd.Println(m)
				}
				return nil
			})
		},
	}
}

func seedCmd(open storeOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [category] [file]",
		Short: "Load identifiers from a file, one per line",
		Long:  "Load identifiers from a file, one per line. Blank lines and lines starting with # are skipped.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := readIDs(args[1])
			if err != nil {
				return err
			}
			replace, _ := cmd.Flags().GetBool("replace")
			return withStore(cmd, open, args[0], func(ctx context.Context, s cache.Store, key string) error {
				if replace {
					if err := s.ReplaceMembers(ctx, key, ids...); err != nil {
						return err
					}
					cmd.Printf("replaced %s with %d ids\n", args[0], countDistinct(ids))
					return nil
				}
				n, err := s.AddMembers(ctx, key, ids...)
				if err != nil {
					return err
				}
				cmd.Printf("seeded %d of %d to %s\n", n, len(ids), args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolP("replace", "r", false, "Swap the blacklist for the file contents in one step")
	return cmd
}

func readIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, sc.Err()
}

func countDistinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
