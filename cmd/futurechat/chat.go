package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"futurechat/internal/engine"
)

const (
	chatGreeting = "🤖 Привет! Я %s v%s. Напиши \"помощь\" для списка команд, \"выход\" для завершения."
	chatGoodbye  = "👋 До свидания! Было приятно пообщаться!"
	chatPrompt   = "👤 Ты: "
	botPrefix    = "🤖 %s: "
)

// runChat reads one utterance per line until EOF, an exit command or ctx
// cancellation.
func runChat(ctx context.Context, e *engine.Engine, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stats := e.Stats()
	fmt.Fprintf(out, chatGreeting+"\n\n", stats.Name, stats.Version)

	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- sc.Err()
	}()

	for {
		fmt.Fprint(out, chatPrompt)
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\n"+chatGoodbye)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(out, "\n"+chatGoodbye)
			select {
			case err := <-errCh:
				return err
			default:
				return nil
			}
		}
		if engine.IsExit(line) {
			fmt.Fprintln(out, chatGoodbye)
			return nil
		}
		reply := e.Respond(ctx, line)
		fmt.Fprintf(out, botPrefix+"%s\n\n", stats.Name, strings.TrimSpace(reply.Text))
	}
}
