package main

import (
	"github.com/spf13/cobra"

	syncpkg "github.com/joshsymonds/dealflow/internal/sync"
	"github.com/joshsymonds/dealflow/internal/tui"
)

func boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive pipeline board",
		Long: `Open a live kanban board for the signed-in account. Columns follow the
pipeline statuses; cards update in place as records change. Use the arrow
keys to switch projects and q to quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accountID, err := requireAccount(ctx, store)
			if err != nil {
				return err
			}

			// publish is bound by tui.Run before SetAccount opens the streams,
			// so the initial snapshots reach the program too.
			var publish func(syncpkg.View)
			synchronizer := syncpkg.NewSynchronizer(store, func(v syncpkg.View) {
				if publish != nil {
					publish(v)
				}
			})
			defer synchronizer.Close()

			return tui.Run(synchronizer, func(pub func(syncpkg.View)) {
				publish = pub
				synchronizer.SetAccount(accountID)
			})
		},
	}
}
