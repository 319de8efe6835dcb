package service

import (
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kvizarena/api/config"
	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/dto"
	"github.com/kvizarena/api/internal/model"
	"github.com/kvizarena/api/internal/repository"
	"github.com/rs/zerolog/log"
)

// GoogleClaims is the subset of the verified ID-token claims the backend
// cares about.
type GoogleClaims struct {
	Sub     string
	Email   string
	Name    string
	Picture string
}

// GoogleTokenVerifier validates a Google ID token and extracts its claims.
type GoogleTokenVerifier interface {
	Verify(idToken string) (*GoogleClaims, error)
}

type googleTokenVerifier struct {
	clientID string
}

func NewGoogleTokenVerifier(cfg *config.Config) GoogleTokenVerifier {
	return &googleTokenVerifier{clientID: cfg.Auth.GoogleClientID}
}

func (v *googleTokenVerifier) Verify(idToken string) (*GoogleClaims, error) {
	verifier := googleAuthIDTokenVerifier.Verifier{}
	if err := verifier.VerifyIDToken(idToken, []string{v.clientID}); err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthenticated, "Invalid Google ID token", err)
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, apperr.Internal("failed to decode Google ID token", err)
	}
	return &GoogleClaims{
		Sub:     claimSet.Sub,
		Email:   claimSet.Email,
		Name:    claimSet.Name,
		Picture: claimSet.Picture,
	}, nil
}

// AuthService turns external identities into local users and issues the
// access tokens the rest of the API authenticates with.
type AuthService interface {
	LoginWithGoogle(idToken string) (*dto.TokenResponse, error)
	DevLogin(name string) (*dto.TokenResponse, error)
	AnonymousLogin(name string) (*dto.TokenResponse, error)
	CurrentUser(userID uint) (*dto.UserDTO, error)
}

type authService struct {
	userRepo repository.UserRepository
	verifier GoogleTokenVerifier
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, verifier GoogleTokenVerifier, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, verifier: verifier, cfg: cfg}
}

func (s *authService) LoginWithGoogle(idToken string) (*dto.TokenResponse, error) {
	claims, err := s.verifier.Verify(idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByExternalID(claims.Sub)
	switch {
	case err == nil:
		// Keep the profile fields in sync with the provider.
		user.Email = claims.Email
		user.Name = claims.Name
		user.AvatarURL = claims.Picture
		if updErr := s.userRepo.Update(user); updErr != nil {
			log.Warn().Err(updErr).Uint("userID", user.ID).Msg("LoginWithGoogle: failed to refresh profile fields")
		}
	case apperr.KindOf(err) == apperr.KindNotFound:
		externalID := claims.Sub
		user = &model.User{
			Provider:   model.ProviderGoogle,
			ExternalID: &externalID,
			Email:      claims.Email,
			Name:       claims.Name,
			AvatarURL:  claims.Picture,
		}
		if createErr := s.userRepo.Create(user); createErr != nil {
			log.Error().Err(createErr).Str("sub", claims.Sub).Msg("LoginWithGoogle: failed to create user")
			return nil, apperr.Internal("failed to create user", createErr)
		}
		log.Info().Uint("userID", user.ID).Msg("New Google user provisioned")
	default:
		return nil, apperr.Internal("failed to look up user", err)
	}

	return s.tokenResponse(user)
}

func (s *authService) DevLogin(name string) (*dto.TokenResponse, error) {
	if !s.cfg.Auth.AllowDevLogin {
		return nil, apperr.Forbidden("Dev login is disabled")
	}

	user, err := s.userRepo.FindDevByName(name)
	if apperr.KindOf(err) == apperr.KindNotFound {
		// Dev users get the admin flag: the endpoint only exists in
		// development setups.
		user = &model.User{Provider: model.ProviderDev, Name: name, IsAdmin: true}
		if createErr := s.userRepo.Create(user); createErr != nil {
			return nil, apperr.Internal("failed to create dev user", createErr)
		}
		log.Info().Uint("userID", user.ID).Str("name", name).Msg("Dev user provisioned")
	} else if err != nil {
		return nil, apperr.Internal("failed to look up dev user", err)
	}

	return s.tokenResponse(user)
}

// AnonymousLogin mints a fresh nickname-only user on every call. Guests
// carry no external credential, so losing the token loses the identity.
func (s *authService) AnonymousLogin(name string) (*dto.TokenResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("A nickname is required")
	}

	user := &model.User{Provider: model.ProviderAnonymous, Name: name}
	if err := s.userRepo.Create(user); err != nil {
		return nil, apperr.Internal("failed to create anonymous user", err)
	}
	log.Info().Uint("userID", user.ID).Str("name", name).Msg("Anonymous user provisioned")

	return s.tokenResponse(user)
}

func (s *authService) CurrentUser(userID uint) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	return &dto.UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		IsAdmin:   user.IsAdmin,
	}, nil
}

func (s *authService) tokenResponse(user *model.User) (*dto.TokenResponse, error) {
	if s.cfg.Auth.JWTSecret == "" {
		return nil, apperr.Internal("JWT secret is not configured", nil)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"is_admin": user.IsAdmin,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.Auth.TokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return nil, apperr.Internal("failed to sign access token", err)
	}

	return &dto.TokenResponse{
		Token: token,
		User: dto.UserDTO{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			AvatarURL: user.AvatarURL,
			IsAdmin:   user.IsAdmin,
		},
	}, nil
}
