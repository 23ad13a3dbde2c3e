package services

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "finances/internal/errors"
	"finances/internal/models"
	"finances/internal/repository"
)

var usernamePattern = regexp.MustCompile(`^\w{3,32}$`)

// userService handles users and their reporting configuration.
type userService struct {
	store        *repository.Store
	baseCurrency string
}

// NewUserService creates a new UserServicer. New users get baseCurrency as
// their base currency when a system currency with that code exists.
func NewUserService(store *repository.Store, baseCurrency string) UserServicer {
	return &userService{store: store, baseCurrency: strings.ToUpper(baseCurrency)}
}

// validatePassword requires 8 to 32 characters with an upper-case letter,
// a lower-case letter, a digit and a symbol.
func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 32 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be 8 to 32 characters long")
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune("#?!@$%^&*-", r):
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			"password must contain upper and lower case letters, a digit and one of #?!@$%^&*-")
	}
	return nil
}

// Signup registers a new user.
func (s *userService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username must be 3 to 32 letters, digits or underscores")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
		Type:     models.UserTypeUser,
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}

		cfg := &models.UserConfig{UserID: user.ID}
		base, err := tx.Currencies.GetSystemByCode(ctx, s.baseCurrency)
		switch {
		case err == nil:
			cfg.BaseCurrencyID = &base.ID
		case !apperrors.Is(err, apperrors.ErrCurrencyNotFound):
			return err
		}
		return tx.Users.SaveConfig(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username and password pair.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// GetUser retrieves a user with their configuration.
func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Config, err = s.store.Users.GetConfig(ctx, userID); err != nil {
		return nil, err
	}
	return user, nil
}

// SetPassword replaces the user's password.
func (s *userService) SetPassword(ctx context.Context, userID, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.store.Users.UpdatePassword(ctx, userID, string(hashedPassword))
}

// GetConfig retrieves the user's reporting configuration.
func (s *userService) GetConfig(ctx context.Context, userID string) (*models.UserConfig, error) {
	return s.store.Users.GetConfig(ctx, userID)
}

// SetBaseCurrency makes a system currency the user's base currency. Custom
// currencies are valued against the base and cannot be it.
func (s *userService) SetBaseCurrency(ctx context.Context, userID, currencyID string) (*models.UserConfig, error) {
	var result *models.UserConfig
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		currency, err := tx.Currencies.Get(ctx, userID, currencyID)
		if err != nil {
			return err
		}
		if currency.IsCustom {
			return apperrors.ErrCurrencyCantBeBase
		}

		cfg, err := tx.Users.GetConfig(ctx, userID)
		if err != nil {
			return err
		}
		cfg.BaseCurrencyID = &currency.ID
		if err := tx.Users.SaveConfig(ctx, cfg); err != nil {
			return err
		}
		result, err = tx.Users.GetConfig(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetBaseCryptoPortfolio chooses the user's base crypto portfolio.
func (s *userService) SetBaseCryptoPortfolio(ctx context.Context, userID, portfolioID string) (*models.UserConfig, error) {
	var result *models.UserConfig
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		portfolio, err := tx.CryptoPortfolios.Get(ctx, userID, portfolioID)
		if err != nil {
			return err
		}

		cfg, err := tx.Users.GetConfig(ctx, userID)
		if err != nil {
			return err
		}
		cfg.BaseCryptoPortfolioID = &portfolio.ID
		if err := tx.Users.SaveConfig(ctx, cfg); err != nil {
			return err
		}
		result, err = tx.Users.GetConfig(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
