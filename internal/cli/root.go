package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/newsradar-io/newsradar/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "newsradar",
	Short: "NewsRadar - AI news digest pipeline",
	Long: `NewsRadar turns collected news snapshots into a daily email digest.

It reads the JSON snapshots a collector left in the data directory,
pulls every story out of them regardless of feed shape, ranks stories
into importance tiers, renders an HTML + plain-text digest, and
delivers it over SMTP with transport fallback.

NewsRadar never fetches feeds itself; collection is someone else's job.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	// A local .env is the common way to carry SMTP credentials;
	// absence is not an error.
	_ = godotenv.Load()

	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for NewsRadar.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newsradar v0.2.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.newsradar/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.newsradar")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match NEWSRADAR_*
	viper.SetEnvPrefix("NEWSRADAR")
	viper.AutomaticEnv()

	// The collector scripts predate this tool and export unprefixed
	// names; keep honoring them.
	_ = viper.BindEnv("data.dir", "NEWSRADAR_DATA_DIR", "DATA_DIR")
	_ = viper.BindEnv("smtp.host", "NEWSRADAR_SMTP_HOST", "SMTP_SERVER")
	_ = viper.BindEnv("smtp.port", "NEWSRADAR_SMTP_PORT", "SMTP_PORT")
	_ = viper.BindEnv("smtp.sender", "NEWSRADAR_SMTP_SENDER", "SENDER_EMAIL")
	_ = viper.BindEnv("smtp.password", "NEWSRADAR_SMTP_PASSWORD", "SMTP_PASSWORD")
	_ = viper.BindEnv("smtp.recipient", "NEWSRADAR_SMTP_RECIPIENT", "RECEIVER_EMAIL")

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the effective configuration: defaults first,
// then whatever viper resolved from the config file and environment.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("data.dir"); v != "" {
		cfg.Data.Dir = v
	}
	if v := viper.GetString("smtp.host"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := viper.GetInt("smtp.port"); v != 0 {
		cfg.SMTP.Port = v
	}
	if v := viper.GetString("smtp.sender"); v != "" {
		cfg.SMTP.Sender = v
	}
	if v := viper.GetString("smtp.password"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := viper.GetString("smtp.recipient"); v != "" {
		cfg.SMTP.Recipient = v
	}
	if viper.IsSet("smtp.strategies") {
		cfg.SMTP.Strategies = viper.GetStringSlice("smtp.strategies")
	}
	if viper.IsSet("llm.enabled") {
		cfg.LLM.Enabled = viper.GetBool("llm.enabled")
	}
	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := viper.GetString("output.archive_dir"); v != "" {
		cfg.Output.ArchiveDir = v
	}

	cfg.Output.Verbose = verbose

	return cfg
}

// resolveAPIKey fills in the provider API key from the conventional
// environment variables. Returns an error when the provider needs a
// key and none is set.
func resolveAPIKey(cfg *model.Config) error {
	if cfg.LLM.APIKey != "" {
		return nil
	}

	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return nil
}
