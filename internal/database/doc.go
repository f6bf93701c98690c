// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, driver selection, migrations
//	├── errors.go        # Store-level sentinel errors
//	├── users/           # Account lookups and writes
//	└── tasks/           # Task CRUD, ownership-scoped listing, purge
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase(cfg.Database)
//
//	// Create domain-specific repositories
//	usersRepo := users.NewRepository(db.DB)
//	tasksRepo := tasks.NewRepository(db.DB)
//
//	// Use repositories
//	user, err := usersRepo.FindCredentialByIdentifier("a@example.com")
//	list, err := tasksRepo.ListTasksByOwner(user.ID)
//
// # Errors
//
// Repositories translate driver errors into ErrNotFound and ErrDuplicate so
// callers never depend on gorm or a specific SQL driver.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the entity in NewDatabase's AutoMigrate call
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
