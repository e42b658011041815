package kv

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Run a short TTL and prefix-scan walkthrough on a local store",
		Long: `Runs a scripted walkthrough against an in-process store: a few puts
(one with a short TTL), an ordered prefix scan, and a second scan after the
TTL elapsed to show lazy and background expiry in action.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// seed entries, one with a short ttl
			if err := localStore.Put("apple", []byte("red"), 500*time.Millisecond); err != nil {
				return err
			}
			for key, value := range map[string]string{
				"app":     "prefix",
				"banana":  "yellow",
				"apricot": "orange",
			} {
				if err := localStore.Put(key, []byte(value), 0); err != nil {
					return err
				}
			}

			if err := printPrefix("ap"); err != nil {
				return err
			}

			// wait for apple to expire
			time.Sleep(700 * time.Millisecond)

			_, found, err := localStore.Get("apple")
			if err != nil {
				return err
			}
			if found {
				fmt.Println("get apple after ttl: present")
			} else {
				fmt.Println("get apple after ttl: expired")
			}

			if err := printPrefix("ap"); err != nil {
				return err
			}

			// show store metadata and metrics
			info, err := localStore.GetDBInfo()
			if err != nil {
				return err
			}
			fmt.Printf("\nstore info: type=%s, size~%dB\n\n", info.DbType, info.SizeBytes)

			return localStore.WriteMetrics(os.Stdout)
		},
	}
)

// printPrefix prints all live entries under prefix in key order
func printPrefix(prefix string) error {
	pairs, err := localStore.PrefixGet(prefix, 0)
	if err != nil {
		return err
	}
	fmt.Printf("prefix %q:\n", prefix)
	for _, pair := range pairs {
		fmt.Printf("  %s -> %s\n", pair.Key, pair.Value)
	}
	return nil
}
