package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/service/rewardservice"
	"github.com/itired/itired/internal/service/telegramservice"
	"go.uber.org/zap"
)

//go:generate mockgen -source=bot.go -destination=bot_mock.go -package=bot

const pollTimeout = 10 * time.Second

type TelegramService interface {
	ConsumeLinkCode(ctx context.Context, code string, telegramID int64, telegramUsername string) (*domain.User, error)
	UserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
}

type WalletService interface {
	GetWallet(ctx context.Context, userID int) (*domain.Wallet, error)
}

type RewardService interface {
	Claim(ctx context.Context, userID int) (*rewardservice.ClaimResult, error)
}

// Bot handles account linking and the quick economy commands over
// telegram. It also delivers notifications on behalf of the telegram
// service.
type Bot struct {
	telebot  *telebot.Bot
	telegram TelegramService
	wallet   WalletService
	reward   RewardService
}

func New(token string, telegram TelegramService, wallet WalletService, reward RewardService) (*Bot, error) {
	tb, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: pollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	b := &Bot{
		telebot:  tb,
		telegram: telegram,
		wallet:   wallet,
		reward:   reward,
	}
	b.registerHandlers()
	return b, nil
}

func (b *Bot) registerHandlers() {
	b.telebot.Handle("/start", b.handleStart)
	b.telebot.Handle("/balance", b.handleBalance)
	b.telebot.Handle("/daily", b.handleDaily)
	b.telebot.Handle("/help", b.handleHelp)
}

func (b *Bot) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		b.telebot.Stop()
	}()
	zap.L().Info("Telegram bot started")
	go b.telebot.Start()
}

// Send implements telegramservice.Notifier.
func (b *Bot) Send(telegramID int64, message string) error {
	_, err := b.telebot.Send(&telebot.User{ID: telegramID}, message)
	return err
}

// handleStart links the account when a code is passed, otherwise greets.
func (b *Bot) handleStart(c telebot.Context) error {
	ctx := context.Background()
	code := strings.TrimSpace(c.Message().Payload)
	if code == "" {
		return c.Send("Hi! Get a link code on the site and send /start <code> to connect your account.\n\nCommands:\n/balance — your coin balance\n/daily — claim the daily reward")
	}

	sender := c.Sender()
	user, err := b.telegram.ConsumeLinkCode(ctx, code, sender.ID, sender.Username)
	if err != nil {
		switch {
		case errors.Is(err, telegramservice.ErrInvalidCode):
			return c.Send("That code is invalid or has expired. Request a new one on the site.")
		case errors.Is(err, telegramservice.ErrAlreadyLinked):
			return c.Send("This telegram account is already linked.")
		default:
			zap.L().Error("link code consumption failed", zap.Error(err))
			return c.Send("Something went wrong, try again later.")
		}
	}
	return c.Send(fmt.Sprintf("✅ Account %s linked. You will now receive purchase and reward notifications here.", user.Username))
}

func (b *Bot) handleBalance(c telebot.Context) error {
	ctx := context.Background()
	user, err := b.linkedUser(ctx, c)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	wallet, err := b.wallet.GetWallet(ctx, user.ID)
	if err != nil {
		zap.L().Error("can't get wallet for bot", zap.Error(err))
		return c.Send("Something went wrong, try again later.")
	}
	return c.Send(fmt.Sprintf("💰 Balance: %d coins\nEarned: %d · Spent: %d", wallet.Balance, wallet.TotalEarned, wallet.TotalSpent))
}

func (b *Bot) handleDaily(c telebot.Context) error {
	ctx := context.Background()
	user, err := b.linkedUser(ctx, c)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	result, err := b.reward.Claim(ctx, user.ID)
	if err != nil {
		if errors.Is(err, rewardservice.ErrAlreadyClaimed) {
			return c.Send("You already claimed today's reward. Come back tomorrow!")
		}
		zap.L().Error("daily claim failed in bot", zap.Error(err))
		return c.Send("Something went wrong, try again later.")
	}
	return c.Send(fmt.Sprintf("🎁 +%d coins! Streak: day %d\nBalance: %d coins", result.Reward, result.Streak, result.Balance))
}

func (b *Bot) handleHelp(c telebot.Context) error {
	return c.Send("Commands:\n/start <code> — link your account\n/balance — coin balance\n/daily — claim the daily reward")
}

// linkedUser resolves the sender and replies itself when not linked.
func (b *Bot) linkedUser(ctx context.Context, c telebot.Context) (*domain.User, error) {
	user, err := b.telegram.UserByTelegramID(ctx, c.Sender().ID)
	if err != nil {
		if errors.Is(err, telegramservice.ErrUserNotLinked) {
			return nil, c.Send("Your telegram account is not linked yet. Use /start <code> with a code from the site.")
		}
		zap.L().Error("can't resolve telegram user", zap.Error(err))
		return nil, c.Send("Something went wrong, try again later.")
	}
	return user, nil
}
