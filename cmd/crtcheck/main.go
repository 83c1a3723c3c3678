package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	glog "github.com/skiff-os/crt/internal/log"
	"github.com/skiff-os/crt/internal/machine"
	"github.com/skiff-os/crt/internal/rt"
	_ "github.com/skiff-os/crt/internal/rt/all"
	"github.com/skiff-os/crt/internal/trace"
	"github.com/skiff-os/crt/internal/ui/colorize"
)

var (
	verbose    bool
	configPath string
	cfg        config
)

// config is the optional YAML harness configuration.
type config struct {
	HeapSize uint64 `yaml:"heap_size"`
	Debug    bool   `yaml:"debug"`
}

func loadConfig(path string) (config, error) {
	var c config
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "crtcheck",
		Short: "Inspect and exercise the bare-metal C runtime layer",
		Long: `Crtcheck hosts the freestanding C runtime layer on a workstation.

The runtime normally runs underneath an embedded SQL engine and a scripting
VM inside a kernel with no operating system. Crtcheck builds the same guest
machine in a process, installs the full symbol registry, and lets you list
the surface, run the behavioral self-test, or drive calls from a script.

Examples:
  crtcheck symbols                 # List every registered symbol by category
  crtcheck selftest                # Exercise the runtime against a live machine
  crtcheck script probe.js         # Drive runtime calls from JavaScript
  crtcheck selftest -c harness.yml # Run with a custom heap size`,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(configPath)
			if err != nil {
				return err
			}
			glog.Init(verbose || cfg.Debug)
			rt.Debug = verbose || cfg.Debug
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose debug output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "symbols",
		Short: "List registered runtime symbols by category",
		Args:  cobra.NoArgs,
		RunE:  runSymbols,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "selftest",
		Short: "Exercise the runtime layer against a live machine",
		Args:  cobra.NoArgs,
		RunE:  runSelftest,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "script <file.js>",
		Short: "Drive runtime calls from a JavaScript file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newMachine builds the guest machine from the loaded config, with the
// console wired to stdout.
func newMachine() (*machine.Machine, error) {
	return machine.New(machine.Config{
		HeapSize: cfg.HeapSize,
		Console:  machine.ConsoleWriter{W: os.Stdout},
	})
}

func runSymbols(cmd *cobra.Command, args []string) error {
	byCategory := make(map[string][]string)
	for _, name := range rt.DefaultRegistry.List() {
		def, ok := rt.DefaultRegistry.Lookup(name)
		if !ok {
			continue
		}
		byCategory[def.Category] = append(byCategory[def.Category], name)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	total := 0
	for _, cat := range categories {
		names := byCategory[cat]
		fmt.Printf("%s %s %s\n",
			colorize.Header("▶"),
			colorize.Header(cat),
			colorize.Detail(fmt.Sprintf("(%d)", len(names))))
		for _, name := range names {
			line := "  " + colorize.FuncName(name)
			if def, _ := rt.DefaultRegistry.Lookup(name); def != nil && def.Invoke == nil {
				line += "  " + colorize.Comment("; host-boundary only")
			}
			fmt.Println(line)
			total++
		}
		fmt.Println()
	}
	fmt.Printf("%s %s symbols\n",
		colorize.Border(strings.Repeat("─", 40)),
		colorize.FuncName(fmt.Sprintf("%d", total)))
	return nil
}

// attachCollector hooks a trace collector into the registry and returns it
// with a detach function.
func attachCollector() (*trace.Collector, func()) {
	collector := trace.NewCollector()
	rt.DefaultRegistry.OnCall = collector.Record
	return collector, func() { rt.DefaultRegistry.OnCall = nil }
}
