// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/strataleads/internal/app/resources"
	userstore "github.com/dalemusser/strataleads/internal/app/store/users"
	"github.com/dalemusser/strataleads/internal/app/system/seeding"
	"github.com/dalemusser/strataleads/internal/app/system/tasks"
	"github.com/dalemusser/strataleads/internal/app/system/timeouts"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// taskRunner runs the background jobs and the post-creation watches.
// Shutdown stops it.
var taskRunner *tasks.Runner

// Startup runs after the schema is ensured and before the handler is
// built: shared templates, timeouts, view data, seeding and the task
// runner.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Short:  appCfg.StoreShortTimeout,
		Medium: appCfg.StoreMediumTimeout,
	})

	prefs := deps.Preferences
	viewdata.Init(func(ctx context.Context, userID string) models.SidebarState {
		return prefs.Sidebar(ctx, userID)
	}, int(appCfg.ListRefreshInterval.Seconds()))

	if err := seeding.SeedAdmin(ctx, userstore.New(deps.MongoDatabase), seeding.Admin{
		Email:    appCfg.SeedAdminEmail,
		Name:     appCfg.SeedAdminName,
		Password: appCfg.SeedAdminPassword,
	}, logger); err != nil {
		logger.Error("failed to seed admin user", zap.Error(err))
		return err
	}

	if appCfg.SeedDemoData {
		if err := seeding.SeedDemoData(ctx, deps.Accessor, logger); err != nil {
			logger.Error("failed to seed demo data", zap.Error(err))
			return err
		}
	}

	taskRunner = tasks.New(logger)
	taskRunner.Register(tasks.CommentTablesJob(deps.Accessor, appCfg.CommentTablesInterval, logger))
	taskRunner.Start()

	return nil
}
