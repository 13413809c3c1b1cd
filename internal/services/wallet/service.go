// Package wallet exposes provider earnings balances. Credits are written by
// the escrow release transaction; this service only reads.
package wallet

import (
	"context"
	"log"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories/cache"
)

type Service interface {
	GetBalance(ctx context.Context, userID uint) (*models.Wallet, error)
}

type service struct {
	wallets repositories.WalletRepository
	cache   *cache.CacheService
}

// NewService creates the wallet service. The cache may be nil in tests.
func NewService(wallets repositories.WalletRepository, cacheSvc *cache.CacheService) Service {
	if wallets == nil {
		panic("wallet repository is required")
	}
	return &service{wallets: wallets, cache: cacheSvc}
}

func (s *service) GetBalance(ctx context.Context, userID uint) (*models.Wallet, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetWallet(ctx, userID); ok {
			return cached, nil
		}
	}

	wallet, err := s.wallets.GetOrCreate(ctx, userID, "TRY")
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheWallet(ctx, wallet); err != nil {
			log.Printf("failed to cache wallet for user %d: %v", userID, err)
		}
	}
	return wallet, nil
}
