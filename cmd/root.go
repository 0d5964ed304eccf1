package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/trace-sim/trace-sim/sim"
	"github.com/trace-sim/trace-sim/sim/branch"
	"github.com/trace-sim/trace-sim/sim/policy"
	"github.com/trace-sim/trace-sim/sim/trace"
)

// syntheticPages is the page set drawn from by --synthetic-length.
const syntheticPages = "ABCDEFGH"

var (
	// Shared flags
	logLevel   string // Log verbosity level
	configPath string // Optional YAML or TOML run configuration

	// pages flags
	pagePolicy      string // Replacement policy name
	frames          int    // Number of page frames
	pagePreset      string // Named page trace from defaults.yaml
	allPolicies     bool   // Run every policy over the trace
	syntheticLength int    // Length of a seeded synthetic trace; 0 uses the preset
	seed            int64  // Seed for synthetic traces

	// branch flags
	predictorName string // Branch predictor name
	historyBits   int    // m: global history width
	counterBits   int    // n: saturating counter width
	chooserBits   int    // k: hybrid chooser index width
	branchPreset  string // Named branch trace from defaults.yaml
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "trace-sim",
	Short: "Page-replacement and branch-prediction trace simulators",
}

// pagesCmd simulates a replacement policy over a page trace
var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Simulate page replacement over a page trace",
	Run: func(cmd *cobra.Command, args []string) {
		defaults, cfg := setup(cmd)
		s, err := resolvePageTrace(defaults)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		names := []string{cfg.Pages.Policy}
		if allPolicies {
			names = policy.Names()
		}
		if err := runPages(cmd.OutOrStdout(), names, cfg.FramesOr(policy.DefaultCapacity), s, allPolicies); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// branchCmd simulates the two-level predictor over a branch trace
var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Simulate a branch predictor over a branch trace",
	Run: func(cmd *cobra.Command, args []string) {
		defaults, cfg := setup(cmd)
		s, err := defaults.LookupPreset(branchPreset, trace.BranchAlphabet)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := runBranch(cmd.OutOrStdout(), cfg.Branch.Predictor, cfg.Widths(), s); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// presetsCmd lists the embedded reference traces
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in reference traces",
	Run: func(cmd *cobra.Command, args []string) {
		defaults, err := builtinDefaults()
		if err != nil {
			logrus.Fatalf("Failed to load built-in defaults: %v", err)
		}
		writePresets(cmd.OutOrStdout(), defaults)
	},
}

// setup loads the embedded defaults, layers the run configuration and sets
// the log level. Any failure is fatal.
func setup(cmd *cobra.Command) (*Config, sim.SimConfig) {
	defaults, err := builtinDefaults()
	if err != nil {
		logrus.Fatalf("Failed to load built-in defaults: %v", err)
	}
	cfg, err := resolveConfig(cmd, defaults.Defaults, configPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", cfg.LogLevel)
	}
	logrus.SetLevel(level)
	return defaults, cfg
}

// resolveConfig layers the run configuration: built-in defaults, then the
// file at path (if any), then each flag the user set explicitly. A flag left
// at its default never overrides the file.
func resolveConfig(cmd *cobra.Command, base sim.SimConfig, path string) (sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig()
	cfg.Merge(base)
	if path != "" {
		fileCfg, err := sim.LoadSimConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg.Merge(*fileCfg)
	}

	var flagCfg sim.SimConfig
	flags := cmd.Flags()
	if flags.Changed("log") {
		flagCfg.LogLevel = logLevel
	}
	if flags.Changed("policy") {
		flagCfg.Pages.Policy = pagePolicy
	}
	if flags.Changed("frames") {
		flagCfg.Pages.Frames = &frames
	}
	if flags.Changed("predictor") {
		flagCfg.Branch.Predictor = predictorName
	}
	if flags.Changed("history-bits") {
		flagCfg.Branch.HistoryBits = &historyBits
	}
	if flags.Changed("counter-bits") {
		flagCfg.Branch.CounterBits = &counterBits
	}
	if flags.Changed("chooser-bits") {
		flagCfg.Branch.ChooserBits = &chooserBits
	}
	cfg.Merge(flagCfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolvePageTrace returns the synthetic trace when --synthetic-length is set,
// otherwise the named preset.
func resolvePageTrace(defaults *Config) (string, error) {
	if syntheticLength > 0 {
		logrus.Infof("Synthesizing %d page references (seed %d)", syntheticLength, seed)
		return trace.Synthesize(seed, syntheticPages, syntheticLength)
	}
	return defaults.LookupPreset(pagePreset, trace.PageAlphabet)
}

// runPages simulates each named policy over s. Every policy is built before
// any output is written. With labeled set, every line is prefixed by the
// policy name.
func runPages(w io.Writer, names []string, capacity int, s string, labeled bool) error {
	policies := make([]policy.Policy, len(names))
	for i, name := range names {
		p, err := policy.New(name, capacity)
		if err != nil {
			return err
		}
		policies[i] = p
	}
	for _, p := range policies {
		if labeled {
			fmt.Fprintf(w, "%-12s ", p.Name())
		}
		if err := WritePageOutcomes(w, policy.Run(p, s)); err != nil {
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return nil
}

// runBranch simulates the named predictor over s.
func runBranch(w io.Writer, name string, widths branch.Widths, s string) error {
	p, err := branch.New(name, widths)
	if err != nil {
		return err
	}
	return WritePredictions(w, branch.Run(p, s))
}

func writePresets(w io.Writer, defaults *Config) {
	for _, name := range defaults.PresetNames("") {
		p := defaults.Traces[name]
		fmt.Fprintf(w, "%-18s %-7s %-26q %s\n", name, p.Alphabet, p.Trace, p.Description)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or TOML run configuration")

	pagesCmd.Flags().StringVar(&pagePolicy, "policy", policy.NameLRU, "Replacement policy ("+fmt.Sprint(policy.Names())+")")
	pagesCmd.Flags().IntVar(&frames, "frames", policy.DefaultCapacity, "Number of page frames")
	pagesCmd.Flags().StringVar(&pagePreset, "preset", "classroom-pages", "Named page trace (see 'presets')")
	pagesCmd.Flags().BoolVar(&allPolicies, "all", false, "Run every replacement policy over the trace")
	pagesCmd.Flags().IntVar(&syntheticLength, "synthetic-length", 0, "Simulate a seeded synthetic trace of this many references instead of a preset")
	pagesCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for synthetic traces")

	branchCmd.Flags().StringVar(&predictorName, "predictor", branch.NameTwoLevel, "Branch predictor ("+fmt.Sprint(branch.Names())+")")
	branchCmd.Flags().IntVarP(&historyBits, "history-bits", "m", branch.DefaultHistoryBits, "Global history width m (bimodal: table index width)")
	branchCmd.Flags().IntVarP(&counterBits, "counter-bits", "n", branch.DefaultCounterBits, "Saturating counter width n")
	branchCmd.Flags().IntVarP(&chooserBits, "chooser-bits", "k", branch.DefaultChooserBits, "Hybrid chooser index width k")
	branchCmd.Flags().StringVar(&branchPreset, "preset", "classroom-branch", "Named branch trace (see 'presets')")

	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(presetsCmd)
}
