// Package main runs the sticky notes plugin as an MCP server over stdio.
// Stdout carries the protocol, so nothing else may be printed there.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/stickynotes/pkg/config"
	"github.com/entrhq/stickynotes/pkg/logging"
	"github.com/entrhq/stickynotes/pkg/mail"
	"github.com/entrhq/stickynotes/pkg/notes"
	"github.com/entrhq/stickynotes/pkg/server"
	"github.com/entrhq/stickynotes/pkg/tools"
	"github.com/entrhq/stickynotes/pkg/tools/mailer"
	"github.com/entrhq/stickynotes/pkg/tools/notebook"
)

const version = "0.1.0"

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx); err != nil {
		cancel()
		log.Printf("stickynotes: %v", err)
		os.Exit(1)
	}
	cancel()
}

func run(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	if err := config.Initialize(config.PathFromEnv()); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	logger, err := logging.NewLogger("stickynotes", config.GetLogging().Options())
	if err != nil {
		// The fallback logger already reported the problem on stderr.
		log.Printf("stickynotes: file logging disabled: %v", err)
	}
	defer logger.Close()

	storePath := config.GetNotes().FilePath()
	if storePath == "" {
		storePath = notes.DefaultPath()
	}
	store := notes.NewStore(storePath)

	mailCfg := config.GetMail().SenderConfig()
	sender, err := mail.NewSMTPSender(mailCfg)
	if err != nil {
		return fmt.Errorf("failed to configure mail sender: %w", err)
	}

	registry, err := newRegistry(store, sender)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Registry: registry,
		Store:    store,
		Logger:   logger,
		Version:  version,
	})
	if err != nil {
		return err
	}

	logger.Infof("notes file %s, relay %s:%d", store.Path(), sender.Host(), sender.Port())
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// newRegistry collects every tool the plugin exposes.
func newRegistry(store *notes.Store, sender mail.Sender) (*tools.Registry, error) {
	registry := tools.NewRegistry()
	for _, tool := range []tools.Tool{
		notebook.NewClearNoteTool(store),
		notebook.NewAddNoteTool(store),
		notebook.NewReadNotesTool(store),
		mailer.NewSendMailTool(sender),
	} {
		if err := registry.Register(tool); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", tool.Name(), err)
		}
	}
	return registry, nil
}
