package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

var ErrWalletNotFound = errors.New("wallet not found")

// WalletRepository reads provider earnings wallets. Credits happen inside
// the escrow release transaction (see TransactionRepository.Release).
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	GetOrCreate(ctx context.Context, userID uint, currency string) (*models.Wallet, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) GetOrCreate(ctx context.Context, userID uint, currency string) (*models.Wallet, error) {
	wallet, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		return nil, err
	}

	created := &models.Wallet{UserID: userID, Currency: currency}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}
