package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vthunder/companion/internal/actions"
	"github.com/vthunder/companion/internal/arbiter"
	"github.com/vthunder/companion/internal/config"
	"github.com/vthunder/companion/internal/executive"
	"github.com/vthunder/companion/internal/journal"
	"github.com/vthunder/companion/internal/llm"
	"github.com/vthunder/companion/internal/monitor"
	"github.com/vthunder/companion/internal/moodlog"
	"github.com/vthunder/companion/internal/profiling"
)

var (
	envFile   string
	agentPath string
)

func main() {
	root := &cobra.Command{
		Use:   "companion",
		Short: "Emotion-aware assistant that can play music, open a puzzle and play mindfulness audio",
		Long: "companion reads lines from stdin and writes replies to stdout.\n" +
			"Nothing is shown until the user types /ok, except emotion alerts.\n" +
			"Diagnostics go to stderr.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "optional .env file")
	root.PersistentFlags().StringVar(&agentPath, "agent", "", "agent config file (default $AGENT_CONFIG or agent.json)")
	root.AddCommand(historyCmd())

	if err := root.Execute(); err != nil {
		log.Fatalf("[main] %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log.SetOutput(os.Stderr)
	log.Println("companion - emotion-aware assistant")

	cfg, err := config.Load(config.Options{EnvFile: envFile, AgentPath: agentPath})
	if err != nil {
		return err
	}
	log.Printf("[config] model=%s base=%s servers=%d poll=%s", cfg.Model, cfg.BaseURL, len(cfg.Servers), cfg.PollInterval)

	if err := os.MkdirAll(cfg.StatePath, 0755); err != nil {
		return err
	}
	j := journal.New(cfg.StatePath)

	level, err := profiling.ParseLevel(cfg.Profile)
	if err != nil {
		return err
	}
	if err := profiling.Init(level, filepath.Join(cfg.StatePath, "system", "timing.jsonl")); err != nil {
		log.Printf("[main] profiling disabled: %v", err)
	}
	defer profiling.Get().Close()

	// Mood history is optional; the assistant works without it
	var store *moodlog.Store
	if s, err := moodlog.Open(cfg.StatePath); err != nil {
		log.Printf("[main] mood history disabled: %v", err)
	} else {
		store = s
		defer store.Close()
	}

	factory := llm.NewFactory(cfg)
	handlers := actions.New(executive.NewInvoker(factory, cfg.ToolDebug), j)

	opts := arbiter.Options{
		In:      os.Stdin,
		Out:     os.Stdout,
		Actions: handlers,
		Journal: j,
		Open: func(ctx context.Context) (arbiter.Conversation, error) {
			c, err := executive.OpenConversation(ctx, factory, cfg.ToolDebug)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
	probe := executive.NewInvokerWithPrompt(factory, monitor.Prompt, cfg.ToolDebug)
	if store != nil {
		opts.Monitor = monitor.New(probe, cfg, store)
		opts.Moods = store
	} else {
		opts.Monitor = monitor.New(probe, cfg, nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = arbiter.New(opts).Run(ctx)
	log.Println("[main] bye")
	return err
}
