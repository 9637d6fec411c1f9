package bootstrap

import (
	"github.com/eleven-am/cortexview/internal/history"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// ProvideHistoryStore returns nil when no database is configured.
func ProvideHistoryStore(db *gorm.DB) *history.Store {
	if db == nil {
		return nil
	}
	return history.NewStore(db)
}

func RunMigrations(historyStore *history.Store) error {
	if historyStore == nil {
		return nil
	}
	return historyStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(ProvideHistoryStore),
	fx.Invoke(RunMigrations),
)
