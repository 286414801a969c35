package repo

import (
	"github.com/itired/itired/internal/pg"
	friendrepo "github.com/itired/itired/internal/repo/friend-repo"
	historyrepo "github.com/itired/itired/internal/repo/history-repo"
	inventoryrepo "github.com/itired/itired/internal/repo/inventory-repo"
	linkcoderepo "github.com/itired/itired/internal/repo/linkcode-repo"
	settingsrepo "github.com/itired/itired/internal/repo/settings-repo"
	shoprepo "github.com/itired/itired/internal/repo/shop-repo"
	statsrepo "github.com/itired/itired/internal/repo/stats-repo"
	userrepo "github.com/itired/itired/internal/repo/user-repo"
	walletrepo "github.com/itired/itired/internal/repo/wallet-repo"
)

// Repositories holds the concrete repositories; the services narrow them
// to the interfaces they declare.
type Repositories struct {
	UserRepo      *userrepo.Repository
	WalletRepo    *walletrepo.Repository
	ShopRepo      *shoprepo.Repository
	InventoryRepo *inventoryrepo.Repository
	StatsRepo     *statsrepo.Repository
	SettingsRepo  *settingsrepo.Repository
	FriendRepo    *friendrepo.Repository
	HistoryRepo   *historyrepo.Repository
	LinkCodeRepo  *linkcoderepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:      userrepo.New(conn),
		WalletRepo:    walletrepo.New(conn, txManager),
		ShopRepo:      shoprepo.New(conn, txManager),
		InventoryRepo: inventoryrepo.New(conn),
		StatsRepo:     statsrepo.New(conn),
		SettingsRepo:  settingsrepo.New(conn),
		FriendRepo:    friendrepo.New(conn),
		HistoryRepo:   historyrepo.New(conn),
		LinkCodeRepo:  linkcoderepo.New(conn),
	}
}
