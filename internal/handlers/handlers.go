package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authhandlers "github.com/itired/itired/internal/handlers/auth"
	friendshandlers "github.com/itired/itired/internal/handlers/friends"
	inventoryhandlers "github.com/itired/itired/internal/handlers/inventory"
	musichandlers "github.com/itired/itired/internal/handlers/musichandler"
	profilehandlers "github.com/itired/itired/internal/handlers/profile"
	shophandlers "github.com/itired/itired/internal/handlers/shop"
	telegramhandlers "github.com/itired/itired/internal/handlers/telegram"
	wallethandlers "github.com/itired/itired/internal/handlers/wallet"
	"github.com/itired/itired/internal/metrics"
	"github.com/itired/itired/internal/service"
	"github.com/itired/itired/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type WalletHandler interface {
	GetWallet(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
	ClaimDaily(w http.ResponseWriter, r *http.Request)
}

type ShopHandler interface {
	GetCategories(w http.ResponseWriter, r *http.Request)
	GetItems(w http.ResponseWriter, r *http.Request)
	Purchase(w http.ResponseWriter, r *http.Request)
}

type InventoryHandler interface {
	GetInventory(w http.ResponseWriter, r *http.Request)
	Equip(w http.ResponseWriter, r *http.Request)
	Unequip(w http.ResponseWriter, r *http.Request)
}

type ProfileHandler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	GetStatistics(w http.ResponseWriter, r *http.Request)
	ConnectService(w http.ResponseWriter, r *http.Request)
}

type MusicHandler interface {
	GetPlaylists(w http.ResponseWriter, r *http.Request)
	GetPlaylistTracks(w http.ResponseWriter, r *http.Request)
	GetLiked(w http.ResponseWriter, r *http.Request)
	Play(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	GetRecommendations(w http.ResponseWriter, r *http.Request)
}

type FriendsHandler interface {
	GetFriends(w http.ResponseWriter, r *http.Request)
	AddFriend(w http.ResponseWriter, r *http.Request)
}

type TelegramHandler interface {
	IssueLinkCode(w http.ResponseWriter, r *http.Request)
	GetStatus(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler      AuthHandler
	WalletHandler    WalletHandler
	ShopHandler      ShopHandler
	InventoryHandler InventoryHandler
	ProfileHandler   ProfileHandler
	MusicHandler     MusicHandler
	FriendsHandler   FriendsHandler
	TelegramHandler  TelegramHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:      authhandlers.New(s.AuthService),
		WalletHandler:    wallethandlers.New(s.WalletService, s.RewardService, s.TelegramService),
		ShopHandler:      shophandlers.New(s.ShopService, s.TelegramService),
		InventoryHandler: inventoryhandlers.New(s.InventoryService),
		ProfileHandler:   profilehandlers.New(s.ProfileService, s.MusicService),
		MusicHandler:     musichandlers.New(s.MusicService, s.RecommendService),
		FriendsHandler:   friendshandlers.New(s.FriendService),
		TelegramHandler:  telegramhandlers.New(s.TelegramService, s.ProfileService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		metrics.Middleware,
	)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)

			r.Route("/wallet", func(r chi.Router) {
				r.Get("/", h.WalletHandler.GetWallet)
				r.Get("/transactions", h.WalletHandler.GetTransactions)
				r.Post("/daily", h.WalletHandler.ClaimDaily)
			})
			r.Route("/shop", func(r chi.Router) {
				r.Get("/categories", h.ShopHandler.GetCategories)
				r.Get("/items", h.ShopHandler.GetItems)
				r.Post("/purchase", h.ShopHandler.Purchase)
			})
			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", h.InventoryHandler.GetInventory)
				r.Post("/equip", h.InventoryHandler.Equip)
				r.Post("/unequip", h.InventoryHandler.Unequip)
			})
			r.Route("/profile", func(r chi.Router) {
				r.Get("/", h.ProfileHandler.GetProfile)
				r.Patch("/", h.ProfileHandler.UpdateProfile)
				r.Get("/settings", h.ProfileHandler.GetSettings)
				r.Patch("/settings", h.ProfileHandler.UpdateSettings)
				r.Get("/statistics", h.ProfileHandler.GetStatistics)
				r.Post("/music-service", h.ProfileHandler.ConnectService)
			})
			r.Route("/music", func(r chi.Router) {
				r.Get("/playlists", h.MusicHandler.GetPlaylists)
				r.Get("/playlists/{service}/{playlistID}", h.MusicHandler.GetPlaylistTracks)
				r.Get("/liked", h.MusicHandler.GetLiked)
				r.Get("/play/{service}/{trackID}", h.MusicHandler.Play)
				r.Get("/history", h.MusicHandler.GetHistory)
				r.Get("/recommendations", h.MusicHandler.GetRecommendations)
			})
			r.Route("/friends", func(r chi.Router) {
				r.Get("/", h.FriendsHandler.GetFriends)
				r.Post("/", h.FriendsHandler.AddFriend)
			})
			r.Route("/telegram", func(r chi.Router) {
				r.Post("/link-code", h.TelegramHandler.IssueLinkCode)
				r.Get("/status", h.TelegramHandler.GetStatus)
			})
		})
	})

	return r
}
