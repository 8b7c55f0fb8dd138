package cli

import (
	recommendApp "github.com/nextup-dev/nextup/internal/recommend/application"
	"github.com/nextup-dev/nextup/internal/tasks/application/commands"
	"github.com/nextup-dev/nextup/internal/tasks/application/queries"
	"github.com/nextup-dev/nextup/pkg/config"
	"github.com/nextup-dev/nextup/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	Config *config.Config
	Health *observability.HealthRegistry

	// Task command handlers
	CreateTaskHandler   *commands.CreateTaskHandler
	StartTaskHandler    *commands.StartTaskHandler
	CompleteTaskHandler *commands.CompleteTaskHandler
	ArchiveTaskHandler  *commands.ArchiveTaskHandler

	// Task query handlers
	ListTasksHandler *queries.ListTasksHandler
	GetTaskHandler   *queries.GetTaskHandler

	// Recommendation service
	Recommender *recommendApp.Service
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
