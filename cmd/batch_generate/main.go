package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wiki-quiz/internal/bootstrap"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/service"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "batch_generate [url...]",
	Short:         "Generate and store quizzes for a list of Wikipedia articles",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringP("file", "f", "", "File with one article URL per line")
}

func run(cmd *cobra.Command, args []string) error {
	urls := append([]string(nil), args...)
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		fromFile, err := readURLs(path)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no article URLs given")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	l := logger.Get()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Build(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer components.Close()

	results, runErr := service.NewBatchService(components.QuizService, cfg, l).GenerateQuizzes(ctx, urls)

	failed := 0
	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Succeeded() {
			fmt.Fprintf(out, "ok\t%d\t%s\n", r.QuizID, r.URL)
			continue
		}
		failed++
		fmt.Fprintf(out, "fail\t-\t%s\t%v\n", r.URL, r.Err)
	}
	if runErr != nil {
		return runErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d quizzes failed", failed, len(results))
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "batch_generate: %v\n", err)
		os.Exit(1)
	}
}
