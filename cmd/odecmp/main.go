package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/san-kum/odecmp/internal/config"
	"github.com/san-kum/odecmp/internal/dynamo"
	"github.com/san-kum/odecmp/internal/logging"
	"github.com/san-kum/odecmp/internal/optim"
	"github.com/san-kum/odecmp/internal/tui"
	"github.com/san-kum/odecmp/internal/viz"
)

const envPrefix = "ODECMP"

// app carries the state shared by every command: flag and environment
// bindings, the logger, and the streams commands read from and print to.
type app struct {
	v   *viper.Viper
	log *logrus.Logger
	in  io.Reader
	out io.Writer
	err io.Writer
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &app{v: v, log: logrus.StandardLogger(), in: in, out: out, err: errOut}
}

// main wires the odecmp commands. With no subcommand it opens the equation
// menu. Any error is logged and the process exits with status 1.
func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := a.rootCmd().Execute(); err != nil {
		a.log.WithError(err).Error("odecmp failed")
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "odecmp",
		Short:         "compare Adams-Bashforth 4 against RK4 on classic ODEs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd, false)
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.err)

	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", logging.FormatText, "log format (text or json)")
	a.bind(root.PersistentFlags())

	runCmd := &cobra.Command{
		Use:   "run [family]",
		Short: "integrate one equation family with both methods and compare",
		Long: "run integrates a first_order (1), second_order (2) or system (3) equation\n" +
			"with RK4 and Adams-Bashforth 4 and reports the mean squared error between them.",
		Args: cobra.MaximumNArgs(1),
		RunE: a.runSimulation,
	}
	problemFlags(runCmd.Flags())
	outputFlags(runCmd.Flags())

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "choose the equation family interactively, then run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plain, _ := cmd.Flags().GetBool("plain")
			return a.runMenu(cmd, plain)
		},
	}
	menuCmd.Flags().Bool("plain", false, "use a numbered prompt instead of the full-screen menu")

	sweepCmd := &cobra.Command{
		Use:   "sweep [family]",
		Short: "repeat the comparison over several step sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runSweep,
	}
	problemFlags(sweepCmd.Flags())
	sweepCmd.Flags().Float64Slice("steps", optim.DefaultSteps, "step sizes to try")
	sweepCmd.Flags().Float64("tol", 1e-6, "report the coarsest step within this max deviation")
	sweepCmd.Flags().Bool("metrics", false, "dump Prometheus metrics after the sweep")

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.initConfig,
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	root.AddCommand(runCmd, sweepCmd, menuCmd, presetsCmd, configCmd)
	return root
}

// problemFlags declares the grid and equation flags. Only flags the user
// sets (or their ODECMP_ environment variables) override the config file.
func problemFlags(fs *pflag.FlagSet) {
	def := config.DefaultConfig()

	fs.Float64("t0", def.T0, "start time")
	fs.Float64("tf", def.Tf, "end time")
	fs.Float64("h", def.H, "step size")

	fs.Float64("mass", def.Drag.Mass, "body mass (first_order)")
	fs.Float64("gravity", def.Drag.Gravity, "gravitational acceleration (first_order)")
	fs.Float64("drag", def.Drag.K, "quadratic drag coefficient (first_order)")
	fs.Float64("spring", def.Oscillator.K, "spring constant (second_order)")
	fs.Float64("osc-mass", def.Oscillator.M, "oscillator mass (second_order)")
	fs.Float64("x0", 0, "initial position (second_order) or x (system)")
	fs.Float64("y0", def.System.Y0, "initial y (system)")
	fs.Float64("v0", 0, "initial velocity (first_order, second_order)")
	fs.Float64("a", def.System.A, "coefficient a in x' = a x + b y (system)")
	fs.Float64("b", def.System.B, "coefficient b in x' = a x + b y (system)")
	fs.Float64("c", def.System.C, "coefficient c in y' = c x + d y (system)")
	fs.Float64("d", def.System.D, "coefficient d in y' = c x + d y (system)")

	fs.String("config", "", "config file (yaml, or ini by extension)")
	fs.String("preset", "", "start from a named preset")
}

func outputFlags(fs *pflag.FlagSet) {
	def := config.DefaultConfig()

	fs.String("png", "", "also save the plot to this file")
	fs.Int("width", def.Plot.Width, "terminal plot width")
	fs.Int("height", def.Plot.Height, "terminal plot height")
	fs.Bool("no-plot", false, "skip the terminal plot")
	fs.Bool("phase", false, "print a phase portrait for two-component families")
	fs.String("theme", viz.DefaultTheme.Name, "terminal theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	fs.Bool("metrics", false, "dump Prometheus metrics after the run")
}

// bind is called from the executing command only, so keys shared by run and
// sweep resolve to that command's flags.
func (a *app) bind(fs *pflag.FlagSet) {
	if err := a.v.BindPFlags(fs); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}
}

func (a *app) setupLogging() error {
	log, err := logging.New(a.v.GetString("log-level"), a.v.GetString("log-format"), a.err)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) runMenu(cmd *cobra.Command, plain bool) error {
	cfg := config.DefaultConfig()

	var (
		family dynamo.Family
		err    error
	)
	if plain {
		family, err = tui.Prompt(a.in, a.out)
	} else {
		family, err = tui.Choose(cfg)
	}
	if err != nil {
		return err
	}

	cfg.Family = string(family)
	return a.execute(cfg, runOptions{theme: viz.DefaultTheme.Name})
}

func (a *app) listPresets(cmd *cobra.Command, args []string) error {
	families := dynamo.Families
	if len(args) == 1 {
		f, err := dynamo.ParseFamily(args[0])
		if err != nil {
			return err
		}
		families = []dynamo.Family{f}
	}

	for _, f := range families {
		fmt.Fprintf(a.out, "%s (%s):\n", f, f.Title())
		for _, name := range config.ListPresets(string(f)) {
			fmt.Fprintf(a.out, "  %s\n", name)
		}
	}
	return nil
}

func (a *app) initConfig(cmd *cobra.Command, args []string) error {
	path := "odecmp.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(a.out, "wrote %s\n", path)
	return nil
}
