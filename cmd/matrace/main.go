// SPDX-License-Identifier: MIT

// matrace races matrix operations across execution strategies and reports
// which one won. Matrices travel as matio text files; results go to stdout
// or to --out.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/matrace/matio"
	"github.com/katalvlaran/matrace/matrix"
	"github.com/katalvlaran/matrace/race"
	"github.com/katalvlaran/matrace/strategy"
)

var (
	// Global flags
	verbose    bool
	configPath string
	strategyID string
	outPath    string
	timeout    time.Duration

	// Logger, built in PersistentPreRunE
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "matrace",
	Short: "Race matrix operations across execution strategies",
	Long: `matrace runs one linear-algebra operation under three execution models
(sequential, shared-memory pool, isolated workers), times each attempt and
keeps the fastest successful result.

Matrices are read from matio text files: the name on the first line, the
shape as "rows cols" on the second, then one line per row.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if !verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = config.Build()
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
}

var addCmd = &cobra.Command{
	Use:   "add [a.mat] [b.mat]",
	Short: "Element-wise sum of two same-shape matrices",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdd,
}

var subCmd = &cobra.Command{
	Use:   "sub [a.mat] [b.mat]",
	Short: "Element-wise difference of two same-shape matrices",
	Args:  cobra.ExactArgs(2),
	RunE:  runSub,
}

var mulCmd = &cobra.Command{
	Use:   "mul [a.mat] [b.mat]",
	Short: "Matrix product; a's columns must match b's rows",
	Args:  cobra.ExactArgs(2),
	RunE:  runMul,
}

var detCmd = &cobra.Command{
	Use:   "det [m.mat]",
	Short: "Determinant via pivoted Gaussian elimination",
	Long: `Computes the determinant of a square matrix. A matrix whose best pivot
falls below the singularity threshold reports determinant 0 and the
singular flag; that is a result, not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runDet,
}

var eigenCmd = &cobra.Command{
	Use:   "eigen [m.mat]",
	Short: "Eigenvalues and eigenvectors via QR iteration",
	Long: `Runs QR iteration on a square matrix. Matrices with complex eigenvalue
pairs do not converge under this method; the result is then reported as
best-effort with a non-converged marker. --out writes the eigenvector
matrix.`,
	Args: cobra.ExactArgs(1),
	RunE: runEigen,
}

var (
	showTranspose bool

	showCmd = &cobra.Command{
		Use:   "show [m.mat]",
		Short: "Parse a matrix file and print it",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (see race.Config)")
	rootCmd.PersistentFlags().StringVarP(&strategyID, "strategy", "s", "auto",
		"Execution strategy: auto (race all), seq, shm or proc")
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "Write the result matrix to this file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-attempt timeout (0 = none)")

	showCmd.Flags().BoolVarP(&showTranspose, "transpose", "t", false, "Print the transpose instead")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(subCmd)
	rootCmd.AddCommand(mulCmd)
	rootCmd.AddCommand(detCmd)
	rootCmd.AddCommand(eigenCmd)
	rootCmd.AddCommand(showCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: file overrides when
// --config is given, defaults otherwise, with command-line flags on top.
func loadConfig() (race.Config, error) {
	cfg := race.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = race.LoadConfig(configPath); err != nil {
			return race.Config{}, err
		}
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}

	return cfg, nil
}

// buildRunner materializes the runner for the selected strategy set.
func buildRunner(cfg race.Config) (*race.Runner, error) {
	all := cfg.Strategies()
	var picked []strategy.Strategy
	switch strategyID {
	case "auto":
		picked = all
	case "seq":
		picked = all[:1]
	case "shm":
		picked = all[1:2]
	case "proc":
		picked = all[2:3]
	default:
		return nil, fmt.Errorf("unknown strategy %q (want auto, seq, shm or proc)", strategyID)
	}

	return cfg.Runner(race.WithStrategies(picked...), race.WithLogger(logger)), nil
}

// emitRecord prints the per-attempt timings and the winner.
func emitRecord(rec *race.Record) {
	for _, a := range rec.Attempts {
		status := "ok"
		if !a.Ok() {
			status = a.Err.Error()
		}
		fmt.Printf("  %-18s %12s  %s\n", a.Strategy, a.Elapsed, status)
	}
	if rec.Winner != "" {
		fmt.Printf("winner: %s (%s)\n", rec.Winner, rec.Elapsed)
	}
}

// emitMatrix writes m to --out under the given name, or prints it.
func emitMatrix(name string, m *matrix.Dense) error {
	if outPath != "" {
		logger.Info("Writing result", zap.String("path", outPath), zap.String("name", name))

		return matio.SaveFile(outPath, name, m)
	}
	fmt.Println(m)

	return nil
}

// binaryOp loads both operands and races f over them.
func binaryOp(name string, aPath, bPath string,
	f func(context.Context, *race.Runner, *matrix.Dense, *matrix.Dense) (*matrix.Dense, *race.Record, error),
) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, err := buildRunner(cfg)
	if err != nil {
		return err
	}
	_, a, err := matio.LoadFile(aPath)
	if err != nil {
		return err
	}
	_, b, err := matio.LoadFile(bPath)
	if err != nil {
		return err
	}

	res, rec, err := f(context.Background(), r, a, b)
	if err != nil {
		return err
	}
	emitRecord(rec)

	return emitMatrix(name, res)
}

func runAdd(cmd *cobra.Command, args []string) error {
	return binaryOp("sum", args[0], args[1],
		func(ctx context.Context, r *race.Runner, a, b *matrix.Dense) (*matrix.Dense, *race.Record, error) {
			return r.Add(ctx, a, b)
		})
}

func runSub(cmd *cobra.Command, args []string) error {
	return binaryOp("difference", args[0], args[1],
		func(ctx context.Context, r *race.Runner, a, b *matrix.Dense) (*matrix.Dense, *race.Record, error) {
			return r.Sub(ctx, a, b)
		})
}

func runMul(cmd *cobra.Command, args []string) error {
	return binaryOp("product", args[0], args[1],
		func(ctx context.Context, r *race.Runner, a, b *matrix.Dense) (*matrix.Dense, *race.Record, error) {
			return r.Mul(ctx, a, b)
		})
}

func runDet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, err := buildRunner(cfg)
	if err != nil {
		return err
	}
	name, m, err := matio.LoadFile(args[0])
	if err != nil {
		return err
	}

	det, singular, rec, err := r.Determinant(context.Background(), m)
	if err != nil {
		return err
	}
	emitRecord(rec)
	if singular {
		fmt.Printf("det(%s) = 0 (singular)\n", name)
	} else {
		fmt.Printf("det(%s) = %g\n", name, det)
	}

	return nil
}

func runEigen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, err := buildRunner(cfg)
	if err != nil {
		return err
	}
	name, m, err := matio.LoadFile(args[0])
	if err != nil {
		return err
	}

	res, rec, err := r.Eigen(context.Background(), m, cfg.EigenParams())
	if err != nil {
		return err
	}
	emitRecord(rec)

	fmt.Printf("eigenvalues(%s), %d rounds", name, res.Rounds)
	if !res.Converged {
		fmt.Print(" (did not converge, best effort)")
	}
	fmt.Println(":")
	for _, v := range res.Values {
		fmt.Printf("  %g\n", v)
	}
	if outPath != "" {
		return emitMatrix(name+"_vectors", res.Vectors)
	}

	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	name, m, err := matio.LoadFile(args[0])
	if err != nil {
		return err
	}
	if showTranspose {
		if m, err = matrix.Transpose(m); err != nil {
			return err
		}
	}
	fmt.Printf("%s (%dx%d):\n%s\n", name, m.Rows(), m.Cols(), m)

	return nil
}
