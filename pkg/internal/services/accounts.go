package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

const (
	MinPasswordLength  = 6
	SuggestedUserCount = 4
)

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func RegisterAccount(fullname, username, email, password, confirmation string) (models.Account, error) {
	fullname = strings.TrimSpace(fullname)
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	var account models.Account
	if len(fullname) == 0 || len(username) == 0 || len(email) == 0 || len(password) == 0 || len(confirmation) == 0 {
		return account, ValidationError("all fields are required")
	}
	if !ValidateEmail(email) {
		return account, ValidationError("invalid email format")
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if taken, err := isAccountFieldTaken(tx, "username", username, 0); err != nil {
			return err
		} else if taken {
			return ConflictError("username is already taken")
		}
		if taken, err := isAccountFieldTaken(tx, "email", email, 0); err != nil {
			return err
		} else if taken {
			return ConflictError("email is already taken")
		}
		if len(password) < MinPasswordLength {
			return ValidationError(fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
		}
		if password != confirmation {
			return ValidationError("passwords do not match")
		}

		hash, err := HashPassword(password)
		if err != nil {
			return err
		}

		account = models.Account{
			Username: username,
			Fullname: fullname,
			Email:    email,
			Password: hash,
		}
		if err := tx.Create(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ConflictError("username or email is already taken")
			}
			return fmt.Errorf("unable to create account: %v", err)
		}
		return nil
	})
	if err != nil {
		return account, err
	}

	log.Info().Uint("account", account.ID).Str("username", account.Username).Msg("New account registered.")
	return account, nil
}

func isAccountFieldTaken(tx *gorm.DB, field, value string, except uint) (bool, error) {
	var count int64
	query := tx.Model(&models.Account{}).Where(fmt.Sprintf("%s = ?", field), value)
	if except > 0 {
		query = query.Where("id <> ?", except)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("unable to check %s: %v", field, err)
	}
	return count > 0, nil
}

// AuthenticateAccount never tells a missing user apart from a wrong
// password.
func AuthenticateAccount(username, password string) (models.Account, error) {
	var account models.Account
	err := database.C.Where("username = ?", strings.TrimSpace(username)).First(&account).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return account, fmt.Errorf("unable to find account: %v", err)
	}

	if !CheckPassword(account.Password, password) {
		return models.Account{}, AuthenticationError("invalid username or password")
	}
	return account, nil
}

func GetAccount(tx *gorm.DB, id uint) (models.Account, error) {
	var account models.Account
	if err := tx.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, NotFoundError("user not found")
		}
		return account, fmt.Errorf("unable to get account: %v", err)
	}
	return account, nil
}

func GetAccountByName(tx *gorm.DB, username string) (models.Account, error) {
	var account models.Account
	if err := tx.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, NotFoundError("user not found")
		}
		return account, fmt.Errorf("unable to get account: %v", err)
	}
	return account, nil
}

// CompleteAccountRelations fills the follower, following and liked post
// lists, oldest first.
func CompleteAccountRelations(tx *gorm.DB, account *models.Account) error {
	account.Followers = make([]uint, 0)
	account.Following = make([]uint, 0)
	account.LikedPosts = make([]uint, 0)

	if err := tx.Model(&models.Relationship{}).
		Where("following_id = ?", account.ID).
		Order("created_at ASC").
		Pluck("follower_id", &account.Followers).Error; err != nil {
		return fmt.Errorf("unable to load followers: %v", err)
	}
	if err := tx.Model(&models.Relationship{}).
		Where("follower_id = ?", account.ID).
		Order("created_at ASC").
		Pluck("following_id", &account.Following).Error; err != nil {
		return fmt.Errorf("unable to load following: %v", err)
	}
	if err := tx.Model(&models.PostLike{}).
		Where("account_id = ?", account.ID).
		Order("created_at ASC").
		Pluck("post_id", &account.LikedPosts).Error; err != nil {
		return fmt.Errorf("unable to load liked posts: %v", err)
	}
	return nil
}

// PublicAccount hides the fields only the owner may see.
func PublicAccount(account models.Account) models.Account {
	account.Email = ""
	return account
}

type AccountUpdate struct {
	Fullname        string
	Username        string
	Email           string
	Bio             string
	Link            string
	CurrentPassword string
	NewPassword     string
	ProfileImg      string
	CoverImg        string
}

// UpdateAccount applies the non-empty fields of the update. New images are
// uploaded before anything is written and the replaced ones are destroyed
// after the update is committed.
func UpdateAccount(account models.Account, update AccountUpdate) (models.Account, error) {
	hasCurrent, hasNew := len(update.CurrentPassword) > 0, len(update.NewPassword) > 0
	if hasCurrent != hasNew {
		return account, ValidationError("please provide both the current password and the new password")
	}
	if hasNew {
		if !CheckPassword(account.Password, update.CurrentPassword) {
			return account, ValidationError("current password is incorrect")
		}
		if len(update.NewPassword) < MinPasswordLength {
			return account, ValidationError(fmt.Sprintf("new password must be at least %d characters long", MinPasswordLength))
		}
	}

	update.Email = strings.TrimSpace(update.Email)
	update.Username = strings.TrimSpace(update.Username)
	if len(update.Email) > 0 && !ValidateEmail(update.Email) {
		return account, ValidationError("invalid email format")
	}

	var uploaded []UploadedImage
	rollbackUploads := func() {
		for _, image := range uploaded {
			DestroyImage(image.RemoteID, map[string]any{"reason": "account update aborted", "account": account.ID})
		}
	}

	var profileImg, coverImg *UploadedImage
	if len(update.ProfileImg) > 0 {
		image, err := UploadImage(update.ProfileImg)
		if err != nil {
			return account, err
		}
		uploaded = append(uploaded, image)
		profileImg = &image
	}
	if len(update.CoverImg) > 0 {
		image, err := UploadImage(update.CoverImg)
		if err != nil {
			rollbackUploads()
			return account, err
		}
		uploaded = append(uploaded, image)
		coverImg = &image
	}

	var replaced []string
	err := database.C.Transaction(func(tx *gorm.DB) error {
		// Counters are moved by the relations service, only the edited columns are written here
		columns := map[string]any{}
		if len(update.Username) > 0 && update.Username != account.Username {
			if taken, err := isAccountFieldTaken(tx, "username", update.Username, account.ID); err != nil {
				return err
			} else if taken {
				return ConflictError("username is already taken")
			}
			columns["username"] = update.Username
		}
		if len(update.Email) > 0 && update.Email != account.Email {
			if taken, err := isAccountFieldTaken(tx, "email", update.Email, account.ID); err != nil {
				return err
			} else if taken {
				return ConflictError("email is already taken")
			}
			columns["email"] = update.Email
		}
		if hasNew {
			hash, err := HashPassword(update.NewPassword)
			if err != nil {
				return err
			}
			columns["password"] = hash
		}

		if len(update.Fullname) > 0 {
			columns["fullname"] = update.Fullname
		}
		if len(update.Bio) > 0 {
			columns["bio"] = update.Bio
		}
		if len(update.Link) > 0 {
			columns["link"] = update.Link
		}

		if profileImg != nil {
			if old := remoteIDOf(account.ProfileImgID, account.ProfileImg); len(old) > 0 {
				replaced = append(replaced, old)
			}
			columns["profile_img"], columns["profile_img_id"] = profileImg.URL, profileImg.RemoteID
		}
		if coverImg != nil {
			if old := remoteIDOf(account.CoverImgID, account.CoverImg); len(old) > 0 {
				replaced = append(replaced, old)
			}
			columns["cover_img"], columns["cover_img_id"] = coverImg.URL, coverImg.RemoteID
		}

		if len(columns) > 0 {
			if err := tx.Model(&models.Account{}).Where("id = ?", account.ID).Updates(columns).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ConflictError("username or email is already taken")
				}
				return fmt.Errorf("unable to update account: %v", err)
			}
		}

		fresh, err := GetAccount(tx, account.ID)
		if err != nil {
			return err
		}
		account = fresh
		return nil
	})
	if err != nil {
		rollbackUploads()
		return account, err
	}

	InvalidateAccountDisplay(account.ID)
	for _, remoteID := range replaced {
		DestroyImage(remoteID, map[string]any{"reason": "account image replaced", "account": account.ID})
	}

	return account, nil
}

// ListSuggestedAccounts picks random accounts the user does not follow yet.
func ListSuggestedAccounts(tx *gorm.DB, accountID uint) ([]models.Account, error) {
	following := tx.Model(&models.Relationship{}).
		Select("following_id").
		Where("follower_id = ?", accountID)

	var accounts []models.Account
	if err := tx.
		Where("id <> ? AND id NOT IN (?)", accountID, following).
		Order("RANDOM()").
		Limit(SuggestedUserCount).
		Find(&accounts).Error; err != nil {
		return accounts, fmt.Errorf("unable to list suggested accounts: %v", err)
	}

	return lo.Map(accounts, func(item models.Account, index int) models.Account {
		return PublicAccount(item)
	}), nil
}
