package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/gravfield/internal/config"
	"github.com/san-kum/gravfield/internal/gravity"
	"github.com/san-kum/gravfield/internal/render"
	"github.com/san-kum/gravfield/internal/survey"
	"github.com/san-kum/gravfield/internal/viz"
	"github.com/san-kum/gravfield/internal/web"
)

var (
	configFile string
	preset     string
	verbose    bool
	logger     *zap.Logger

	mass    float64
	srcX    float64
	srcY    float64
	srcZ    float64
	workers int
	outDir  string
	format  string
	dpi     int

	obsX float64
	obsY float64
	obsZ float64

	gridSpacing float64
	level       float64
	rowY        float64
	quantity    string
	width       int
	height      int

	addr  string
	watch bool
	theme string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravfield",
		Short: "point mass gravity potential and vertical effect over survey grids",
		Long: `gravfield evaluates the gravity potential U and vertical effect gz of a
single point mass over regular horizontal grids at several elevations and
renders contour figures for each grid spacing.

Run without arguments to evaluate the configured grids and save the figures.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			cfg.Encoding = "console"
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			} else {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runSurvey,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	addSurveyFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "evaluate every grid and save the figures",
		RunE:  runSurvey,
	}
	addSurveyFlags(runCmd)

	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "evaluate U and gz at a single observation point",
		RunE:  evalPoint,
	}
	addSourceFlags(evalCmd)
	evalCmd.Flags().Float64Var(&obsX, "x", 0, "observation x [m]")
	evalCmd.Flags().Float64Var(&obsY, "y", 0, "observation y [m]")
	evalCmd.Flags().Float64Var(&obsZ, "z", 0, "observation z [m]")

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "plot a grid row along x in the terminal",
		RunE:  plotProfile,
	}
	addSourceFlags(profileCmd)
	profileCmd.Flags().Float64Var(&gridSpacing, "grid", config.DefaultSpacings[0], "grid spacing [m]")
	profileCmd.Flags().Float64Var(&level, "z", 0, "elevation level [m]")
	profileCmd.Flags().Float64Var(&rowY, "y", 0, "row y [m] (nearest mesh row)")
	profileCmd.Flags().StringVar(&quantity, "field", "gz", "quantity: u or gz")
	profileCmd.Flags().IntVar(&width, "width", 70, "chart width")
	profileCmd.Flags().IntVar(&height, "height", 12, "chart height")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "browse the evaluated grids interactively",
		RunE:  runExplore,
	}
	addSourceFlags(exploreCmd)
	exploreCmd.Flags().StringVar(&theme, "theme", "viridis", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve interactive charts over http",
		RunE:  serve,
	}
	addSourceFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	serveCmd.Flags().BoolVar(&watch, "watch", false, "re-evaluate when the config file changes (requires --config)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "config file helpers",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, evalCmd, profileCmd, exploreCmd, serveCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "source mass [kg]")
	cmd.Flags().Float64Var(&srcX, "src-x", 0, "source x [m]")
	cmd.Flags().Float64Var(&srcY, "src-y", 0, "source y [m]")
	cmd.Flags().Float64Var(&srcZ, "src-z", config.DefaultSourceZ, "source z [m]")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "evaluation workers (negative: one per cpu)")
}

func addSurveyFlags(cmd *cobra.Command) {
	addSourceFlags(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", config.DefaultOutputDir, "output directory")
	cmd.Flags().StringVar(&format, "format", config.DefaultFormat, "image format ("+strings.Join(config.SupportedFormats, ", ")+")")
	cmd.Flags().IntVar(&dpi, "dpi", config.DefaultDPI, "raster resolution")
}

// resolveConfig layers defaults, preset, config file and explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	// config file overrides preset
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override config
	flags := cmd.Flags()
	if flags.Changed("mass") {
		cfg.Mass = mass
	}
	if flags.Changed("src-x") {
		cfg.Source.X = srcX
	}
	if flags.Changed("src-y") {
		cfg.Source.Y = srcY
	}
	if flags.Changed("src-z") {
		cfg.Source.Z = srcZ
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("out") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("dpi") {
		cfg.Output.DPI = dpi
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSurvey(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := survey.New(cfg, logger, os.Stdout).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.Summary(res.ID, cfg.PointMass(), cfg.Spacings, res.PotentialRange, res.EffectRange))
	fmt.Printf("\n%d figures in %s\n", len(res.Artifacts), res.Elapsed.Round(time.Millisecond))
	return nil
}

func evalPoint(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	obs := gravity.Point3D{X: obsX, Y: obsY, Z: obsZ}
	s, err := cfg.PointMass().Sample(obs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "observation\t%s\n", obs)
	fmt.Fprintf(w, "source\t%s\t%.4g kg\n", cfg.Source, cfg.Mass)
	fmt.Fprintf(w, "distance\t%.6g m\n", gravity.Distance(obs, cfg.Source))
	fmt.Fprintf(w, "U\t%.6e J/kg\t%.6g µJ/kg\n", s.Potential, gravity.ToMicroJoulePerKg(s.Potential))
	fmt.Fprintf(w, "gz\t%.6e m/s²\t%.6g mGal\n", s.Effect, gravity.ToMilliGal(s.Effect))
	return w.Flush()
}

func plotProfile(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var q viz.Quantity
	switch strings.ToLower(quantity) {
	case "u":
		q = viz.Potential
	case "gz":
		q = viz.Effect
	default:
		return fmt.Errorf("unknown field %q (u or gz)", quantity)
	}

	cfg.Spacings = []float64{gridSpacing}
	cfg.ZLevels = []float64{level}
	if err := cfg.Validate(); err != nil {
		return err
	}

	res, err := survey.New(cfg, logger, nil).Evaluate(cmd.Context())
	if err != nil {
		return err
	}
	g := res.Grids[0]

	iy := 0
	for i, y := range g.Mesh.Y {
		if abs(y-rowY) < abs(g.Mesh.Y[iy]-rowY) {
			iy = i
		}
	}

	p, err := viz.ProfileAt(g.Survey, q, 0, iy)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(viz.RenderProfile(p, width, height))
	fmt.Println()
	return nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)

	res, err := survey.New(cfg, logger, nil).Evaluate(cmd.Context())
	if err != nil {
		return err
	}
	return viz.RunExplore(res)
}

func serve(cmd *cobra.Command, args []string) error {
	if watch && configFile == "" {
		return errors.New("--watch requires --config")
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := survey.New(cfg, logger, nil).Evaluate(ctx)
	if err != nil {
		return err
	}

	srv := web.NewServer(res, logger)
	if watch {
		resolve := func() (*config.Config, error) { return resolveConfig(cmd) }
		w := web.NewWatcher(configFile, resolve, srv, logger)
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("config watcher stopped", zap.Error(err))
			}
		}()
	}

	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()

	fmt.Printf("serving %s on http://%s\n", render.FigureTitle(cfg.Spacings[0]), addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMASS [kg]\tSOURCE\tLEVELS [m]\tSPACINGS [m]")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.4g\t%s\t%s\t%s\n", name, p.Mass, p.Source, joinMetres(p.ZLevels), joinMetres(p.Spacings))
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func joinMetres(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = render.FormatMetres(v)
	}
	return strings.Join(parts, ", ")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
