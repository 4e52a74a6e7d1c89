package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/alexanderramin/docflow/internal/cli"
	"github.com/alexanderramin/docflow/internal/config"
	"github.com/alexanderramin/docflow/internal/db"
	"github.com/alexanderramin/docflow/internal/repository"
	"github.com/alexanderramin/docflow/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	app := &cli.App{Viper: config.New()}

	// Detect interactive terminal so forms only show up for humans.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Bootstrap = func(cfg *config.Config) error {
		var err error
		database, err = db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		// Wire repositories
		projectRepo := repository.NewSQLiteProjectRepo(database)
		documentRepo := repository.NewSQLiteDocumentRepo(database)

		// Wire unit of work for transactional operations
		uow := db.NewSQLiteUnitOfWork(database)

		var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
		if cfg.LogUseCases {
			observer = service.NewSlogUseCaseObserver(app.Logger)
		}

		app.Projects = service.NewProjectService(projectRepo)
		app.Documents = service.NewDocumentService(documentRepo, uow, cfg.Actor, observer)
		app.Progress = service.NewProgressService(projectRepo, uow, cfg.MaxHorizonDays, observer)
		app.Import = service.NewImportService(uow, cfg.Actor, observer)
		return nil
	}

	return cli.NewRootCmd(app).Execute()
}
