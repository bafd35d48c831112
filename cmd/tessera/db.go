package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"tessera/internal/canvas"
	"tessera/internal/config"
	"tessera/internal/elementtypes"
	"tessera/internal/repository/postgres"
	postgresCanvas "tessera/internal/repository/postgres/canvas"
	"tessera/internal/seed"
	serviceCanvas "tessera/internal/service/canvas"
)

var errProdBlocked = errors.New("destructive operations are blocked in prod")

func openDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, *postgres.TableNames, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, errors.New("DATABASE_URL is not set")
	}
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, err
	}
	return pool, postgres.NewTableNames(cfg.TablePrefix), nil
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the workspace tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			logger := config.NewLogger(os.Stdout, cfg.Debug)

			pool, tables, err := openDB(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.ExecStatements(cmd.Context(), pool, postgres.SchemaStatements(tables)); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
			logger.Info("schema ready", "prefix", cfg.TablePrefix)
			return nil
		},
	}
}

func newDropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Drop the workspace tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.Environment == "prod" {
				return errProdBlocked
			}
			logger := config.NewLogger(os.Stdout, cfg.Debug)

			pool, tables, err := openDB(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.ExecStatements(cmd.Context(), pool, postgres.DropStatements(tables)); err != nil {
				return fmt.Errorf("drop tables: %w", err)
			}
			logger.Info("tables dropped", "prefix", cfg.TablePrefix)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var (
		ownerID string
		fresh   bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if fresh && cfg.Environment == "prod" {
				return errProdBlocked
			}
			if ownerID == "" {
				ownerID = cfg.DevUserID
			}
			logger := config.NewLogger(os.Stdout, cfg.Debug)
			ctx := cmd.Context()

			pool, tables, err := openDB(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			if fresh {
				if err := postgres.ExecStatements(ctx, pool, postgres.DropStatements(tables)); err != nil {
					return fmt.Errorf("drop tables: %w", err)
				}
			}
			if err := postgres.ExecStatements(ctx, pool, postgres.SchemaStatements(tables)); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}

			registry, err := elementtypes.NewRegistry()
			if err != nil {
				return err
			}
			repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
			workspaceRepo := postgresCanvas.NewWorkspaceRepository(repoConfig)
			elementRepo := postgresCanvas.NewElementRepository(repoConfig)
			txManager := postgres.NewTransactionManager(pool, logger)

			seeder := seed.NewCanvasSeeder(
				serviceCanvas.NewWorkspaceService(workspaceRepo, logger),
				serviceCanvas.NewElementService(elementRepo, workspaceRepo, txManager, registry, canvas.DefaultSettings(), nil, logger),
				logger,
			)
			ws, err := seeder.SeedDemo(ctx, ownerID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded workspace %s (%s)\n", ws.ID, ws.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&ownerID, "owner", "", "owner user ID (defaults to DEV_USER_ID)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "drop tables before seeding")
	return cmd
}
