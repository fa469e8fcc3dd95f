package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hzegota/rtbhouse-go-sdk/config"
	"github.com/hzegota/rtbhouse-go-sdk/rtbhouse"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *rtbhouse.Client

	// Command flags
	advertiserHash string
	dayFromStr     string
	dayToStr       string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rtbhouse",
	Short: "Query RTB House campaign reports from the command line",
	Long: `rtbhouse is a CLI for the RTB House reporting API. It authenticates with
your panel credentials and fetches advertiser info, billing, statistics
breakdowns and conversions.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&advertiserHash, "advertiser", "a", "", "advertiser hash")
	rootCmd.PersistentFlags().StringVar(&dayFromStr, "from", "", "start day (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&dayToStr, "to", "", "end day (YYYY-MM-DD)")

	// Add subcommands
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(advertisersCmd)
	rootCmd.AddCommand(billingCmd)
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Commands that never talk to the API run without configuration.
	if cmd.Name() == "version" || cmd.Name() == "upgrade" {
		return nil
	}

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create API client; the session is established on the first call
	client, err = rtbhouse.NewClient(
		cfg.RTBHouse.Username,
		cfg.RTBHouse.Password,
		logger,
		rtbhouse.WithHost(cfg.RTBHouse.Host),
		rtbhouse.WithRequestTimeout(time.Duration(cfg.RTBHouse.RequestTimeout)*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to create RTB House client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when stderr is a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Test the connection and show the authenticated account",
	RunE:  runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	info, err := client.UserInfo(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get user info: %w", err)
	}

	fmt.Println("✓ Connection successful!")
	fmt.Printf("- Login: %s\n", info.Login)
	fmt.Printf("- Email: %s\n", info.Email)
	fmt.Printf("- Hash:  %s\n", info.HashID)
	return nil
}

// advertisersCmd represents the advertisers command
var advertisersCmd = &cobra.Command{
	Use:   "advertisers",
	Short: "List advertisers visible to your account",
	RunE:  runAdvertisers,
}

func runAdvertisers(cmd *cobra.Command, args []string) error {
	advertisers, err := client.Advertisers(context.Background())
	if err != nil {
		return err
	}

	if len(advertisers) == 0 {
		fmt.Println("No advertisers found.")
		return nil
	}

	fmt.Printf("\nFound %d advertisers:\n", len(advertisers))
	fmt.Println(strings.Repeat("-", 80))
	for _, adv := range advertisers {
		fmt.Printf("• %s (%s)", adv.Name, adv.Hash)
		if adv.Status != "" {
			fmt.Printf(" [%s]", adv.Status)
		}
		fmt.Println()
		if cfg.Output.ShowDetails {
			if adv.Currency != "" {
				fmt.Printf("  Currency: %s\n", adv.Currency)
			}
			if adv.URL != "" {
				fmt.Printf("  URL: %s\n", adv.URL)
			}
		}
	}
	return nil
}

// billingCmd represents the billing command
var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Show the billing statement for a day range",
	RunE:  runBilling,
}

func runBilling(cmd *cobra.Command, args []string) error {
	if advertiserHash == "" {
		return fmt.Errorf("--advertiser is required")
	}
	dayFrom, dayTo, err := dayRange()
	if err != nil {
		return err
	}

	billing, err := client.Billing(context.Background(), advertiserHash, dayFrom, dayTo)
	if err != nil {
		return err
	}

	fmt.Printf("\nInitial balance: %.2f\n", billing.InitialBalance)
	fmt.Println(strings.Repeat("-", 60))
	for _, bill := range billing.Bills {
		fmt.Printf("%-12s credit %10.2f  debit %10.2f  balance %10.2f\n",
			bill.Day, bill.Credit, bill.Debit, bill.Balance)
	}
	return nil
}

// dayRange parses the --from/--to flags
func dayRange() (time.Time, time.Time, error) {
	if dayFromStr == "" || dayToStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--from and --to are required")
	}
	dayFrom, err := time.Parse("2006-01-02", dayFromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from day: %w", err)
	}
	dayTo, err := time.Parse("2006-01-02", dayToStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to day: %w", err)
	}
	return dayFrom, dayTo, nil
}

// printRecords renders dynamic result rows with stable column order
func printRecords(rows []rtbhouse.Record) {
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for key := range row {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", key, row[key]))
		}
		fmt.Printf("• %s\n", strings.Join(parts, "  "))
	}
}
