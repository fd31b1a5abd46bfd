// Package cli implements the interactive TaskForge REPL client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/taskforge/internal/client/api"
	"github.com/dmitrijs2005/taskforge/internal/client/config"
)

// App wires the API client to the interactive command loop.
type App struct {
	config   *config.Config
	api      *api.Client
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.NewClient(c.APIBaseURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.api.IsAuthenticated()
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Run starts the REPL on stdin and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	log.Println("Welcome to TaskForge CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
