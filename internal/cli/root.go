package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/gistly-app/gistly/internal/models"
	"github.com/gistly-app/gistly/internal/queue"
)

func (a *App) status() string {
	if a.userID == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.userID)
}

// Run starts the command loop. It first adopts entries the share extension
// queued while this process was not running, then reads commands until EOF
// or "exit".
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Gistly (type 'help' for commands)")

	a.drain(ctx)

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprintf(a.out, "gistly %s> ", a.status())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: user, use, token, drain, pending, store, remove, links, gists, categories, exit")

		case "user":
			a.createUser(ctx, args)
		case "use":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: use <userId>")
				continue
			}
			a.userID = args[0]
		case "token":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: token <bearer>")
				continue
			}
			a.svc.SetToken(args[0])

		case "drain":
			a.drain(ctx)
		case "pending":
			a.pending()
		case "store":
			a.storeLink(ctx, args)
		case "remove":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: remove <id>")
				continue
			}
			a.consumer.Remove(args[0])

		case "links":
			a.links(ctx)
		case "gists":
			a.gists(ctx)
		case "categories":
			a.categories(ctx)

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) drain(ctx context.Context) {
	batch, err := a.consumer.DrainPending(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	if len(batch) > 0 {
		fmt.Fprintf(a.out, "captured %d shared item(s)\n", len(batch))
	}
}

func (a *App) pending() {
	items := a.consumer.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No pending items")
		return
	}
	for _, item := range items {
		switch item.Entry.Kind {
		case queue.KindPDF:
			fmt.Fprintf(a.out, "%s  %s  %s (%d bytes)\n", item.ID, item.Entry.Kind, item.Entry.Filename, item.Entry.Size)
		default:
			fmt.Fprintf(a.out, "%s  %s  %s\n", item.ID, item.Entry.Kind, item.Entry.Content)
		}
	}
}

func (a *App) requireUser() bool {
	if a.userID == "" {
		fmt.Fprintln(a.out, "Create or select a user first ('user <name>' or 'use <userId>')")
		return false
	}
	return true
}

func (a *App) createUser(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: user <name> [email]")
		return
	}
	email := ""
	if len(args) > 1 {
		email = args[1]
	}
	created, err := a.svc.CreateUser(ctx, models.NewUser(args[0], email))
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	a.userID = created.ID
	fmt.Fprintf(a.out, "Created user %s\n", created.ID)
}

// storeLink sends a pending url entry to the backend with gist auto-creation
// and removes it from the pending list on success.
func (a *App) storeLink(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: store <id>")
		return
	}
	if !a.requireUser() {
		return
	}

	var found *queue.PendingItem
	for _, item := range a.consumer.Items() {
		if item.ID == args[0] {
			found = &item
			break
		}
	}
	if found == nil {
		fmt.Fprintln(a.out, "No pending item with id", args[0])
		return
	}
	if found.Entry.Kind != queue.KindURL {
		fmt.Fprintf(a.out, "Cannot store a %s entry as a link\n", found.Entry.Kind)
		return
	}

	stored, err := a.svc.StoreLink(ctx, a.userID, models.NewArticle("", found.Entry.Content, ""), true)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	a.consumer.Remove(found.ID)
	fmt.Fprintf(a.out, "Stored link %s (%s)\n", stored.ID, stored.Title)
}

func (a *App) links(ctx context.Context) {
	if !a.requireUser() {
		return
	}
	articles, err := a.svc.FetchLinks(ctx, a.userID)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	if len(articles) == 0 {
		fmt.Fprintln(a.out, "No links")
		return
	}
	for _, art := range articles {
		fmt.Fprintf(a.out, "%s  %s  %s\n", art.ID, art.Title, art.URL)
	}
}

func (a *App) gists(ctx context.Context) {
	if !a.requireUser() {
		return
	}
	gists, err := a.svc.FetchGists(ctx, a.userID)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	if len(gists) == 0 {
		fmt.Fprintln(a.out, "No gists")
		return
	}
	for _, g := range gists {
		status := g.Status.Status
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(a.out, "%s  %s  %s\n", g.GistID, g.Title, status)
	}
}

func (a *App) categories(ctx context.Context) {
	cats, err := a.svc.FetchCategories(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	if len(cats) == 0 {
		fmt.Fprintln(a.out, "No categories")
		return
	}
	for _, c := range cats {
		fmt.Fprintf(a.out, "%s  %s\n", c.Slug, c.Name)
	}
}
