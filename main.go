package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"typechat/internal/app"
	"typechat/internal/client"
	"typechat/internal/components/message"
	"typechat/internal/config"
	"typechat/internal/conversation"
	"typechat/internal/logging"
	"typechat/internal/storage"
)

func main() {
	cliApp := &cli.App{
		Name:  "typechat",
		Usage: "A minimal chat client with a typewriter reveal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a TOML config file",
				Value:   config.DefaultPath(),
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "generation provider (cohere or anthropic)",
			},
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "generate endpoint URL",
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "model name",
			},
			&cli.IntFlag{
				Name:  "max-tokens",
				Usage: "maximum tokens per response",
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "API key sent with each request",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "path to the conversation database",
			},
			&cli.DurationFlag{
				Name:  "reveal-interval",
				Usage: "delay between revealed characters",
			},
		},
		Action: runChat,
		Commands: []*cli.Command{
			historyCommand(),
			mockCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig resolves file, environment and flag settings in that order.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if c.IsSet("provider") {
		cfg.Provider = c.String("provider")
	}
	if c.IsSet("endpoint") {
		cfg.Endpoint = c.String("endpoint")
	}
	if c.IsSet("model") {
		cfg.Model = c.String("model")
	}
	if c.IsSet("max-tokens") {
		cfg.MaxTokens = c.Int("max-tokens")
	}
	if c.IsSet("api-key") {
		cfg.APIKey = c.String("api-key")
	}
	if c.IsSet("store") {
		cfg.StorePath = c.String("store")
	}
	if c.IsSet("reveal-interval") {
		cfg.RevealInterval = c.Duration("reveal-interval")
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runChat(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.FromEnv()
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(cfg.StorePath, logger)
	defer store.Close()

	gen, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}

	conv := conversation.New(store, gen, conversation.WithLogger(logger))
	model := app.New(conv, message.Options{
		RevealInterval: cfg.RevealInterval,
		DotsInterval:   cfg.DotsInterval,
	}, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	conv.Stop()
	return err
}

// openStore opens the durable store, falling back to memory so the chat
// stays usable when the database is locked or unwritable.
func openStore(path string, logger *logging.Logger) storage.Store {
	db, err := storage.OpenBolt(path)
	if err != nil {
		logger.Warn("falling back to in-memory store", "path", path, "error", err)
		fmt.Fprintf(os.Stderr, "warning: %v; history will not be saved\n", err)
		return storage.NewMemory()
	}
	return db
}

func newGenerator(cfg *config.Config, logger *logging.Logger) (client.Generator, error) {
	opts := []client.Option{
		client.WithModel(cfg.Model),
		client.WithMaxTokens(cfg.MaxTokens),
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger),
	}

	switch cfg.Provider {
	case config.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY or TYPECHAT_API_KEY is required for the anthropic provider")
		}
		return client.NewAnthropic(cfg.APIKey, cfg.Endpoint, opts...), nil
	default:
		return client.NewCohere(cfg.Endpoint, cfg.APIKey, opts...), nil
	}
}
