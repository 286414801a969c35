package service

import (
	"github.com/itired/itired/internal/cache"
	"github.com/itired/itired/internal/music"
	"github.com/itired/itired/internal/pg"
	"github.com/itired/itired/internal/repo"
	"github.com/itired/itired/internal/service/authservice"
	"github.com/itired/itired/internal/service/friendservice"
	"github.com/itired/itired/internal/service/inventoryservice"
	"github.com/itired/itired/internal/service/musicservice"
	"github.com/itired/itired/internal/service/profileservice"
	"github.com/itired/itired/internal/service/recommendservice"
	"github.com/itired/itired/internal/service/rewardservice"
	"github.com/itired/itired/internal/service/shopservice"
	"github.com/itired/itired/internal/service/telegramservice"
	"github.com/itired/itired/internal/service/walletservice"
	pkgauth "github.com/itired/itired/pkg/auth"
)

type Services struct {
	AuthService      *authservice.Service
	WalletService    *walletservice.Service
	RewardService    *rewardservice.Service
	ShopService      *shopservice.Service
	InventoryService *inventoryservice.Service
	ProfileService   *profileservice.Service
	MusicService     *musicservice.Service
	RecommendService *recommendservice.Service
	FriendService    *friendservice.Service
	TelegramService  *telegramservice.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, registry *music.Registry, store cache.Store) *Services {
	walletService := walletservice.New(repo.WalletRepo, repo.StatsRepo, txManager)
	rewardService := rewardservice.New(walletService, repo.StatsRepo, txManager)
	shopService := shopservice.New(repo.ShopRepo, repo.InventoryRepo, repo.StatsRepo, walletService, txManager)
	inventoryService := inventoryservice.New(repo.InventoryRepo, repo.ShopRepo, txManager)
	authService := authservice.New(repo.UserRepo, walletService, repo.SettingsRepo, repo.StatsRepo, txManager, &pkgauth.HashService{}, &pkgauth.JWTService{})
	profileService := profileservice.New(repo.UserRepo, repo.SettingsRepo, repo.StatsRepo)
	musicService := musicservice.New(registry, repo.UserRepo, repo.SettingsRepo, repo.HistoryRepo, repo.StatsRepo, walletService, txManager)
	recommendService := recommendservice.New(registry, repo.UserRepo, repo.HistoryRepo, store)
	friendService := friendservice.New(repo.FriendRepo, repo.UserRepo)
	telegramService := telegramservice.New(repo.LinkCodeRepo, repo.UserRepo, repo.SettingsRepo, txManager)

	return &Services{
		AuthService:      authService,
		WalletService:    walletService,
		RewardService:    rewardService,
		ShopService:      shopService,
		InventoryService: inventoryService,
		ProfileService:   profileService,
		MusicService:     musicService,
		RecommendService: recommendService,
		FriendService:    friendService,
		TelegramService:  telegramService,
	}
}
