package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"typechat/internal/components/message"
	"typechat/internal/conversation"
	"typechat/internal/logging"
	"typechat/internal/mock"
	"typechat/internal/storage"
	"typechat/internal/styles"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Print the stored conversation",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			store, err := storage.OpenBolt(cfg.StorePath)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := loadEntries(store)
			if err != nil {
				return err
			}
			printHistory(os.Stdout, entries)
			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "Erase the stored conversation",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					store, err := storage.OpenBolt(cfg.StorePath)
					if err != nil {
						return err
					}
					defer store.Close()

					if err := store.Clear(); err != nil {
						return err
					}
					fmt.Println("History cleared.")
					return nil
				},
			},
		},
	}
}

func mockCommand() *cli.Command {
	return &cli.Command{
		Name:  "mock",
		Usage: "Run a local stand-in for the generate endpoint",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   8080,
				Usage:   "port to listen on",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Value: time.Second,
				Usage: "simulated generation time",
			},
		},
		Action: func(c *cli.Context) error {
			logger, closeLog, err := logging.FromEnv()
			if err != nil {
				return err
			}
			defer closeLog()

			return mock.NewServer(c.Int("port"), c.Duration("delay"), logger).Start()
		},
	}
}

func loadEntries(store storage.Store) ([]conversation.Entry, error) {
	data, ok, err := store.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return conversation.Decode(data)
}

func printHistory(w io.Writer, entries []conversation.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Chat is empty")
		return
	}
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		stamp := ""
		if !e.CreatedAt.IsZero() {
			stamp = " " + styles.StatusBar.Render(e.CreatedAt.Local().Format(time.DateTime))
		}
		fmt.Fprintf(w, "%s%s\n%s\n", styles.UserLabel.Render("You"), stamp, e.Prompt)

		response := e.Response
		if e.IsGenerating && response == "" {
			response = conversation.StoppedText
		}
		fmt.Fprintf(w, "%s\n%s\n", styles.BotLabel.Render("Bot"),
			message.RenderMarkup(message.Format(response), styles.Emphasis))
	}
}
