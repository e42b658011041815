package kv

import (
	"github.com/cedarkv/cedar/cmd/util"
	"github.com/cedarkv/cedar/lib/store"
	"github.com/cedarkv/cedar/lib/store/lstore"
	"github.com/spf13/cobra"
)

var (
	localStore store.IStore

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value store operations",
		PersistentPreRunE: setupLocalStore,
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if localStore != nil {
				_ = localStore.Close()
			}
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common store flags to the KV command
	util.SetupStoreFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(demoCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupLocalStore creates the local store backing all kv subcommands
func setupLocalStore(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	if err := util.ConfigureLogging(); err != nil {
		return err
	}

	localStore = lstore.NewLocalStore(util.GetStoreFactory())
	return nil
}
