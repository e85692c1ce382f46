package auth

import (
	"context"
	"errors"
	"strings"

	"market-analyzer/src/helpers"
	"market-analyzer/src/interfaces"
	"market-analyzer/src/logger"
	"market-analyzer/src/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxPasswordBytes      = 72
	passwordLengthMessage = "Password must be between 6 and 72 characters"
)

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Username        string `json:"username" form:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

// Service is the user directory: sign-up, password checks and lookups.
type Service struct {
	Store    interfaces.IUserStore
	Cost     int
	Logger   *logger.Logger
	validate *validator.Validate
}

// -----------------------------------------------------------------------------

func NewService(store interfaces.IUserStore, bcryptCost int, log *logger.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		Store:    store,
		Cost:     bcryptCost,
		Logger:   log,
		validate: validator.New(),
	}
}

// -----------------------------------------------------------------------------

// Register validates the form, hashes the password and stores the user.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.MUser, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validate.Struct(req); err != nil {
		return nil, helpers.NewError(helpers.ErrValidation, validationMessage(err), err)
	}
	// bcrypt only reads the first 72 bytes.
	if len(req.Password) > maxPasswordBytes {
		return nil, helpers.NewError(helpers.ErrValidation, passwordLengthMessage, nil)
	}
	if req.Password != req.ConfirmPassword {
		return nil, helpers.NewError(helpers.ErrValidation, "Passwords do not match", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.Cost)
	if err != nil {
		return nil, err
	}

	user := &models.MUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.Store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.Logger.Info("Registered user %s", user.Username)
	return user, nil
}

// -----------------------------------------------------------------------------

// Authenticate returns the user when username and password match. Unknown
// users and wrong passwords yield the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.MUser, error) {
	user, err := s.Store.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil || !s.Verify(user, password) {
		s.Logger.Info("Failed login for %q", username)
		return nil, helpers.NewError(helpers.ErrInvalidCredentials, "Invalid username or password", nil)
	}
	return user, nil
}

// -----------------------------------------------------------------------------

// Verify checks password against the user's stored hash.
func (s *Service) Verify(user *models.MUser, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// -----------------------------------------------------------------------------

func (s *Service) FindByID(ctx context.Context, id int64) (*models.MUser, error) {
	return s.Store.FindByID(ctx, id)
}

// -----------------------------------------------------------------------------

func (s *Service) FindByUsername(ctx context.Context, username string) (*models.MUser, error) {
	return s.Store.FindByUsername(ctx, username)
}

// -----------------------------------------------------------------------------

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid input"
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Username":
		return "Username must be between 3 and 50 characters"
	case "Email":
		return "Please enter a valid email address"
	case "Password":
		return passwordLengthMessage
	default:
		return "Please fill in all fields"
	}
}
