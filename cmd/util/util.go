package util

import (
	"strings"
	"time"

	"github.com/cedarkv/cedar/lib/db"
	"github.com/cedarkv/cedar/lib/db/engines/cedar"
	"github.com/cedarkv/cedar/lib/logging"
	"github.com/cedarkv/cedar/lib/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds common store configuration flags to a command
func SetupStoreFlags(cmd *cobra.Command) {
	key := "sweep-interval"
	cmd.PersistentFlags().Duration(key, 200*time.Millisecond, WrapString("Wake-up interval of the background expiry sweeper when no deadline is pending"))

	key = "btree-degree"
	cmd.PersistentFlags().Int(key, 32, WrapString("Branching factor of the ordered key table"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "info", WrapString("Log level (debug, info, warn, error)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("cedar")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetStoreOptions reads engine configuration from viper
func GetStoreOptions() *cedar.DBOptions {
	return &cedar.DBOptions{
		SweepInterval: viper.GetDuration("sweep-interval"),
		BTreeDegree:   viper.GetInt("btree-degree"),
	}
}

// GetStoreFactory creates a database factory based on configuration
func GetStoreFactory() store.DBFactory {
	opts := GetStoreOptions()
	return func() db.KVDB {
		return cedar.NewCedarDB(opts)
	}
}

// ConfigureLogging applies the configured log level
func ConfigureLogging() error {
	return logging.Configure(viper.GetString("log-level"))
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
