package services

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

const MaxMediaDestroyAttempts = 5

func DoAutoDatabaseCleanup() {
	log.Debug().Msg("Now retrying pending media deletions...")

	var tombstones []models.MediaTombstone
	if err := database.C.Where("attempts < ?", MaxMediaDestroyAttempts).Find(&tombstones).Error; err != nil {
		log.Error().Err(err).Msg("An error occurred when loading media tombstones...")
		return
	}

	var done, failed int
	for _, tombstone := range tombstones {
		if err := destroyRemoteImage(tombstone.RemoteID); err != nil {
			failed++
			if err := database.C.Model(&tombstone).Updates(map[string]any{
				"attempts":   tombstone.Attempts + 1,
				"last_error": err.Error(),
			}).Error; err != nil {
				log.Warn().Err(err).Uint("tombstone", tombstone.ID).Msg("Unable to record media deletion attempt...")
			}
			continue
		}
		if err := database.C.Delete(&tombstone).Error; err != nil {
			log.Warn().Err(err).Uint("tombstone", tombstone.ID).Msg("Unable to remove media tombstone, the image was already deleted...")
			continue
		}
		done++
	}

	log.Debug().Int("done", done).Int("failed", failed).Msg("Media deletion retry finished.")
}
