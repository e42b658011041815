package kv

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cedarkv/cedar/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the local store engine",
		Long:    "",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfTTL              = time.Minute
	perfSkip             = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How large the value for the put-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "ttl"
	perfTestCmd.Flags().Duration(key, time.Minute, util.WrapString("TTL to use for the put-ttl test"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = viper.GetInt("keys")
	perfNumThreads = viper.GetInt("threads")
	perfTTL = viper.GetDuration("ttl")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for the local store engine")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Sweep interval: %s\n", util.GetStoreOptions().SweepInterval)
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Keys: %d\n", perfKeySpread)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	putResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("put") {
			return
		}

		// prepare keys
		getKey, iter := getKeys("put")

		// cleanup
		b.Cleanup(func() {
			iter(func(k string) {
				if _, err := localStore.Erase(k); err != nil {
					log.Printf("(put) - error erasing key: %v\n", err)
				}
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				if err := localStore.Put(getKey(counter), []byte("test"), 0); err != nil {
					log.Printf("(put) - error putting key: %v\n", err)
				}
				counter++
			}
		})
	})

	results["put"] = putResult
	printResult("put", putResult)

	putLargeValueResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("put-large") {
			return
		}

		// prepare large value
		largeValue := make([]byte, perfLargeValueSizeKB*1024)

		// prepare keys
		getKey, iter := getKeys("put-large")

		// cleanup
		b.Cleanup(func() {
			iter(func(k string) {
				if _, err := localStore.Erase(k); err != nil {
					log.Printf("(put-large) - error erasing key: %v\n", err)
				}
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				if err := localStore.Put(getKey(counter), largeValue, 0); err != nil {
					log.Printf("(put-large) - error putting key: %v\n", err)
				}
				counter++
			}
		})
	})

	results["put-large"] = putLargeValueResult
	printResult("put-large", putLargeValueResult)

	putTTLResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("put-ttl") {
			return
		}

		// prepare keys
		getKey, iter := getKeys("put-ttl")

		// cleanup
		b.Cleanup(func() {
			iter(func(k string) {
				if _, err := localStore.Erase(k); err != nil {
					log.Printf("(put-ttl) - error erasing key: %v\n", err)
				}
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				if err := localStore.Put(getKey(counter), []byte("test"), perfTTL); err != nil {
					log.Printf("(put-ttl) - error putting key: %v\n", err)
				}
				counter++
			}
		})
	})

	results["put-ttl"] = putTTLResult
	printResult("put-ttl", putTTLResult)

	getResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("get") {
			return
		}

		// prepare keys
		getKey, iter := getKeys("get")

		// set keys
		iter(func(k string) {
			if err := localStore.Put(k, []byte("test"), 0); err != nil {
				log.Printf("(get) - error putting key: %v\n", err)
			}
		})

		// cleanup
		b.Cleanup(func() {
			iter(func(k string) {
				if _, err := localStore.Erase(k); err != nil {
					log.Printf("(get) - error erasing key: %v\n", err)
				}
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				if _, _, err := localStore.Get(getKey(counter)); err != nil {
					log.Printf("(get) - error getting key: %v\n", err)
				}
				counter++
			}
		})
	})

	results["get"] = getResult
	printResult("get", getResult)

	eraseResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("erase") {
			return
		}

		// prepare keys
		getKey, _ := getKeys("erase")

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				key := getKey(counter)
				if err := localStore.Put(key, []byte("test"), 0); err != nil {
					log.Printf("(erase) - error putting key: %v\n", err)
				}
				if _, err := localStore.Erase(key); err != nil {
					log.Printf("(erase) - error erasing key: %v\n", err)
				}
				counter++
			}
		})
	})

	results["erase"] = eraseResult
	printResult("erase", eraseResult)

	scanResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("scan") {
			return
		}

		// prepare keys
		_, iter := getKeys("scan")

		// set keys
		iter(func(k string) {
			if err := localStore.Put(k, []byte("test"), 0); err != nil {
				log.Printf("(scan) - error putting key: %v\n", err)
			}
		})

		// cleanup
		b.Cleanup(func() {
			iter(func(k string) {
				if _, err := localStore.Erase(k); err != nil {
					log.Printf("(scan) - error erasing key: %v\n", err)
				}
			})
		})

		prefix := fmt.Sprintf("%s-scan-", perfKeyPrefix)

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				if _, err := localStore.PrefixGet(prefix, 0); err != nil {
					log.Printf("(scan) - error scanning prefix: %v\n", err)
				}
			}
		})
	})

	results["scan"] = scanResult
	printResult("scan", scanResult)

	mixedUsageResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("mixed") {
			return
		}

		// prepare keys
		getKey, iter := getKeys("mixed")

		// set keys
		iter(func(k string) {
			if err := localStore.Put(k, []byte("test"), 0); err != nil {
				log.Printf("(mixed) - error putting key: %v\n", err)
			}
		})

		// cleanup
		b.Cleanup(func() {
			iter(func(k string) {
				if _, err := localStore.Erase(k); err != nil {
					log.Printf("(mixed) - error erasing key: %v\n", err)
				}
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				key := getKey(counter)
				var err error
				switch counter % 4 {
				case 0: // put
					err = localStore.Put(key, []byte("test"), 0)
				case 1: // get
					_, _, err = localStore.Get(key)
				case 2: // put with ttl
					err = localStore.Put(key, []byte("test"), perfTTL)
				case 3: // get again
					_, _, err = localStore.Get(key)
				}

				if err != nil {
					log.Printf("(mixed) - error performing operation (%d): %v\n", counter%4, err)
				}
				counter++
			}
		})
	})

	results["mixed"] = mixedUsageResult
	printResult("mixed", mixedUsageResult)

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"SweepInterval", "BTreeDegree",
		"Threads", "LargeValueSizeKB", "Keys Count", "TTL",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	opts := util.GetStoreOptions()

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
			nsPerOp = 0
			opsPerSec = 0
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			opts.SweepInterval.String(),
			strconv.Itoa(opts.BTreeDegree),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
			perfTTL.String(),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
