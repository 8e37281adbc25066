package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"arbiter/internal/config"
	"arbiter/internal/judge/engine"
	"arbiter/internal/judge/limiter"
	"arbiter/internal/judge/result"
	"arbiter/internal/judge/spec"
	"arbiter/internal/judge/testcase"
	"arbiter/pkg/logger"
)

const usage = `usage: arbiter [flags] <problem-dir> <source-file>

Judges a submitted source file against the test cases of a problem
directory and prints per-test verdicts plus a summary.
`

func main() {
	toolchainPath := flag.String("toolchain", "", "path to toolchain.yaml (defaults to the stock g++ template)")
	workRoot := flag.String("workroot", "", "directory for per-submission workspaces (defaults to the system temp dir)")
	workers := flag.Int("workers", 0, "concurrent test slots within a category (0 = CPU cores)")
	runAll := flag.Bool("run-all", false, "run system tests even when pretests fail")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	problemDir := flag.Arg(0)
	sourcePath := flag.Arg(1)

	if err := logger.Init(logger.Config{Level: *logLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, problemDir, sourcePath, *toolchainPath, *workRoot, *workers, *runAll))
}

func run(ctx context.Context, problemDir, sourcePath, toolchainPath, workRoot string, workers int, runAll bool) int {
	toolchain, err := config.LoadToolchain(toolchainPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load toolchain failed: %v\n", err)
		return 1
	}
	problem, err := config.LoadProblem(problemDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load problem config failed: %v\n", err)
		return 1
	}
	sourceText, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read source failed: %v\n", err)
		return 1
	}

	scratch, err := os.MkdirTemp("", "arbiter-tests-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create scratch dir failed: %v\n", err)
		return 1
	}
	defer os.RemoveAll(scratch)

	tests, err := testcase.Load(problemDir, scratch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load test cases failed: %v\n", err)
		return 1
	}

	fmt.Printf("Judging %s\n", problem.Title)
	fmt.Printf("Time limit: %dms, memory limit: %dMB, checker: %s\n",
		problem.Limits.TimeLimitMs, problem.Limits.MemoryLimitMB, problem.Checker.Type)
	fmt.Println(strings.Repeat("-", 50))

	eng := engine.New(toolchain, limiter.New(), engine.Config{
		WorkRoot:             workRoot,
		Workers:              workers,
		StopOnPretestFailure: !runAll,
	}, &consoleObserver{})

	res, err := eng.Judge(ctx, sourceText, problem, tests)
	if err != nil {
		fmt.Fprintf(os.Stderr, "judge error: %v\n", err)
		return 1
	}

	printSummary(res)
	if res.OverallVerdict == result.VerdictAC {
		return 0
	}
	return 2
}

func printSummary(res result.SubmissionResult) {
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("SUMMARY:")
	if res.Compile != nil && !res.Compile.OK {
		fmt.Println("CE (Compilation Error)")
		if res.Compile.Output != "" {
			fmt.Println(res.Compile.Output)
		}
	}
	for _, category := range spec.Categories {
		catRes, ok := res.Categories[category]
		if !ok {
			continue
		}
		for _, t := range catRes.Tests {
			fmt.Printf("[%s] %03d: %s (%.0fms)\n", category, t.Ordinal, t.Verdict, t.TimeMs)
		}
	}
	fmt.Printf("\nOverall: %s (%.0fms total, %d/%d passed)\n",
		res.OverallVerdict, res.Statistics.TotalTimeMs,
		res.Statistics.TestsPassed, res.Statistics.TestsRun)
}
