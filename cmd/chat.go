package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopez/supportbot/internal/app"
	"github.com/shopez/supportbot/internal/session"
)

// runChat drives the interactive conversation loop: read a customer message,
// generate a reply, print it, and record both sides in the bounded history.
func runChat(ctx context.Context, a *app.App, in io.Reader, out io.Writer) error {
	history := session.NewHistory(a.Config.MaxHistoryTurns)

	fmt.Fprintln(out, "Welcome to ShopEZ customer support!")
	fmt.Fprintln(out, "Ask about your orders, returns, or our policies. Type /help for commands.")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")

		if !scanner.Scan() {
			// EOF (Ctrl+D)
			fmt.Fprintln(out, "\nGoodbye!")
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if handleCommand(out, input, history) {
				break
			}
			continue
		}

		// The reply is generated against the history as it stood before
		// this message; the new turns are recorded afterwards.
		reply := a.Service.GenerateResponse(ctx, input, history.Turns())

		fmt.Fprintf(out, "Assistant: %s\n\n", reply)

		history.Append(session.RoleUser, input)
		history.Append(session.RoleAssistant, reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// handleCommand handles slash commands, returning true when the loop should exit.
func handleCommand(out io.Writer, cmd string, history *session.History) bool {
	switch strings.Fields(cmd)[0] {
	case "/help":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  /help            Show this help")
		fmt.Fprintln(out, "  /clear           Clear conversation history")
		fmt.Fprintln(out, "  /exit, /quit     Exit")
		fmt.Fprintln(out)

	case "/clear":
		history.Clear()
		fmt.Fprintln(out, "Conversation history cleared.")
		fmt.Fprintln(out)

	case "/exit", "/quit":
		fmt.Fprintln(out, "Goodbye!")
		return true

	default:
		fmt.Fprintf(out, "Unknown command: %s\n", cmd)
		fmt.Fprintln(out, "Type /help to see available commands")
		fmt.Fprintln(out)
	}

	return false
}
