package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	treectx "github.com/treectx/treectx-go"
	"github.com/treectx/treectx-go/extensions"
	"github.com/treectx/treectx-go/questlog"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the scripted quest-log scenario",
	RunE:  runDemo,
}

func init() {
	demoCmd.Flags().Bool("show-tree", false, "Print the node tree after setup")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	showTree, _ := cmd.Flags().GetBool("show-tree")

	opts := []treectx.TreeOption{}
	if verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, treectx.WithExtension(extensions.NewLoggingExtension(handler)))
	}
	t := treectx.NewTree(opts...)

	store := questlog.NewStore(t, []questlog.Quest{
		{ID: 0, Text: "Find the Master Sword"},
	})

	themeKey := treectx.NewKey[string]("theme")
	provider, err := treectx.Compose(
		treectx.Bind(questlog.Key, store),
		treectx.Bind(themeKey, "dark"),
	)
	if err != nil {
		return err
	}
	providerNode, err := provider.Attach(t, t.Root())
	if err != nil {
		return err
	}

	// Two consumers at different depths; only the watcher re-evaluates.
	middle, err := t.NewNode(providerNode)
	if err != nil {
		return err
	}
	consumer, err := t.NewNode(middle)
	if err != nil {
		return err
	}

	if showTree {
		fmt.Println(extensions.Render(t))
	}

	handle, err := treectx.ResolveStore(t, consumer, questlog.Key)
	if err != nil {
		return err
	}
	sub, err := handle.Watch(func(quests []questlog.Quest) {
		fmt.Println("quest log changed:")
		for _, q := range quests {
			mark := " "
			if q.Done {
				mark = "x"
			}
			fmt.Printf("  [%s] #%d %s\n", mark, q.ID, q.Text)
		}
	})
	if err != nil {
		return err
	}
	defer sub.Cancel()

	actions := []questlog.Action{
		questlog.Added{ID: 1, Text: "Complete a Dungeon"},
		questlog.Changed{Quest: questlog.Quest{ID: 1, Text: "Complete a Dungeon", Done: true}},
		questlog.Deleted{ID: 0},
	}
	for _, a := range actions {
		if err := handle.Dispatch(a); err != nil {
			return err
		}
	}

	fmt.Printf("dispatches applied: %d\n", handle.Version())
	for _, rec := range t.Journal().Records() {
		fmt.Printf("journal: %s %s v%d\n", rec.Store, rec.Kind, rec.Version)
	}
	return t.Dispose()
}
