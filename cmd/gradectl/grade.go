package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"gitlab.com/fcv-2025.net/grader/internal/adapter/judge0"
	"gitlab.com/fcv-2025.net/grader/internal/adapter/metrics"
	"gitlab.com/fcv-2025.net/grader/internal/config"
	"gitlab.com/fcv-2025.net/grader/internal/core/services/grading"
	"gitlab.com/fcv-2025.net/grader/internal/core/services/language"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

func gradeCommand() *cli.Command {
	return &cli.Command{
		Name:      "grade",
		Usage:     "grade a source file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "cases", Aliases: []string{"c"}, Usage: "TOML `FILE` with test cases; without it the file runs once"},
			&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "language name, guessed from the file extension when empty"},
			&cli.StringFlag{Name: "default-language", Usage: "grade as `NAME` when the language is unknown; unknown languages fail without it"},
			&cli.StringFlag{Name: "stdin", Usage: "stdin for a single run"},
			&cli.StringFlag{Name: "expected", Usage: "expected output for a single run"},
			&cli.FloatFlag{Name: "cpu", Usage: "cpu time limit in seconds"},
			&cli.IntFlag{Name: "memory", Usage: "memory limit in KB"},
			&cli.BoolFlag{Name: "json", Usage: "print the verdict as JSON"},
		},
		Action: runGrade,
	}
}

func runGrade(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return cli.Exit("a source file is required", 2)
	}
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	cfg := config.NewSystemConfig()
	logger := newLogger(cmd)
	languages := language.NewRegistry(cfg.JudgeConfig.LanguageOverrides)

	req := &domain.GradeRequest{
		Code:         string(code),
		CPUTimeLimit: cmd.Float("cpu"),
		MemoryLimit:  int(cmd.Int("memory")),
	}

	name := cmd.String("language")
	if casesPath := cmd.String("cases"); casesPath != "" {
		file, err := loadCases(casesPath)
		if err != nil {
			return err
		}
		req.TestCases = file.Cases
		if name == "" {
			name = file.Language
		}
		if req.CPUTimeLimit == 0 {
			req.CPUTimeLimit = file.CPUTimeLimit
		}
		if req.MemoryLimit == 0 {
			req.MemoryLimit = file.MemoryLimit
		}
	}
	if cmd.IsSet("stdin") {
		stdin := cmd.String("stdin")
		req.Stdin = &stdin
	}
	if cmd.IsSet("expected") {
		expected := cmd.String("expected")
		req.ExpectedOutput = &expected
	}
	if name == "" {
		name = language.ForFilename(path)
	}
	resolved, err := resolveLanguage(os.Stderr, languages, name, cmd.String("default-language"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	req.Language = resolved.Name

	svc := grading.NewGradingService(
		judge0.NewClient(cfg.JudgeConfig, logger),
		languages,
		metrics.NewRecorder(prometheus.NewRegistry()),
		logger,
		cfg.GradingConfig,
	)
	if !cmd.Bool("json") {
		fmt.Fprintf(os.Stderr, "grading %s as %s, waiting at most %s\n",
			path, resolved.Name, svc.WorstCaseLatency(len(req.TestCases)))
	}

	verdict, err := svc.Grade(ctx, req)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(verdict); err != nil {
			return err
		}
	} else {
		printVerdict(os.Stdout, verdict)
	}

	if verdict.OverallStatus != domain.StatusAccepted {
		return cli.Exit("", 1)
	}
	return nil
}

// resolveLanguage warns on w when the explicit fallback is used
func resolveLanguage(w io.Writer, languages *language.Registry, name, fallback string) (domain.Language, error) {
	resolved, err := languages.ResolveOrDefault(name, fallback)
	if err != nil {
		return domain.Language{}, err
	}
	if _, err := languages.Resolve(name); err != nil {
		fmt.Fprintln(w, color.YellowString("unknown language %q, using %s", name, resolved.Name))
	}
	return resolved, nil
}

func printVerdict(w io.Writer, verdict *domain.GradingVerdict) {
	pass := color.New(color.FgGreen, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, result := range verdict.Results {
		mark := pass("PASS")
		if !result.Passed {
			mark = fail("FAIL")
		}
		fmt.Fprintf(w, "%s #%d  %s\n", mark, result.Index+1, dim(fmt.Sprintf("%.3fs %dKB", result.Time, result.Memory)))
		if result.Passed {
			continue
		}
		if result.Error != "" {
			kind := string(result.ErrorKind)
			fmt.Fprintf(w, "    %s %s\n", dim(kind+":"), indent(result.Error))
			continue
		}
		fmt.Fprintf(w, "    expected: %s\n", indent(strings.TrimSpace(result.ExpectedOutput)))
		fmt.Fprintf(w, "    actual:   %s\n", indent(strings.TrimSpace(result.ActualOutput)))
	}

	status := pass(string(verdict.OverallStatus))
	if verdict.OverallStatus != domain.StatusAccepted {
		status = fail(string(verdict.OverallStatus))
	}
	fmt.Fprintf(w, "\n%s  %d/%d passed, score %d\n", status, verdict.PassedTestCases, verdict.TotalTestCases, verdict.Score)
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n              ")
}
