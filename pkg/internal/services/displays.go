package services

import (
	"context"
	"fmt"
	"time"

	localCache "git.solsynth.dev/hypernet/circle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func GetAccountDisplayCacheKey(id uint) string {
	return fmt.Sprintf("account-display#%d", id)
}

// LoadAccountDisplays resolves the display fields of the given accounts.
// Accounts that no longer exist are absent from the result.
func LoadAccountDisplays(tx *gorm.DB, ids []uint) (map[uint]models.AccountDisplay, error) {
	ids = lo.Uniq(ids)
	out := make(map[uint]models.AccountDisplay, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var marshal *marshaler.Marshaler
	if localCache.S != nil {
		marshal = marshaler.New(cache.New[any](localCache.S))
	}
	ctx := context.Background()

	missing := ids
	if marshal != nil {
		missing = make([]uint, 0, len(ids))
		for _, id := range ids {
			val, err := marshal.Get(ctx, GetAccountDisplayCacheKey(id), new(models.AccountDisplay))
			if err != nil {
				missing = append(missing, id)
				continue
			}
			out[id] = *val.(*models.AccountDisplay)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	var accounts []models.Account
	if err := tx.Where("id IN ?", missing).Find(&accounts).Error; err != nil {
		return out, fmt.Errorf("unable to load accounts: %v", err)
	}
	for _, account := range accounts {
		display := account.Display()
		out[account.ID] = display
		if marshal != nil {
			if err := marshal.Set(
				ctx,
				GetAccountDisplayCacheKey(account.ID),
				display,
				store.WithExpiration(30*time.Minute),
				store.WithTags([]string{"account-display"}),
			); err != nil {
				log.Trace().Err(err).Uint("account", account.ID).Msg("Account display was not cached...")
			}
		}
	}

	return out, nil
}

func LoadAccountDisplay(tx *gorm.DB, id uint) *models.AccountDisplay {
	displays, err := LoadAccountDisplays(tx, []uint{id})
	if err != nil {
		return nil
	}
	if display, ok := displays[id]; ok {
		return &display
	}
	return nil
}

func InvalidateAccountDisplay(id uint) {
	if localCache.S == nil {
		return
	}
	_ = cache.New[any](localCache.S).Delete(context.Background(), GetAccountDisplayCacheKey(id))
}
