package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"teleradiology-case-routing/internal/converter"
	"teleradiology-case-routing/internal/delivery/dto"
	"teleradiology-case-routing/internal/domain/entity"
	"teleradiology-case-routing/internal/domain/repository"
	"teleradiology-case-routing/internal/service"
	"teleradiology-case-routing/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrLicenseAlreadyExists = errors.New("license number already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrUserNotFound         = errors.New("user not found")
)

type AuthUsecase interface {
	RegisterCenter(ctx context.Context, req *dto.RegisterCenterRequest) (*dto.UserResponse, error)
	RegisterRadiologist(ctx context.Context, req *dto.RegisterRadiologistRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	VerifyToken(ctx context.Context, token string) (*dto.UserResponse, error)
	Logout(ctx context.Context, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db                     *gorm.DB
	log                    *logrus.Logger
	userRepo               repository.UserRepository
	radiologistProfileRepo repository.RadiologistProfileRepository
	centerProfileRepo      repository.CenterProfileRepository
	auditService           service.AuditService
	jwtService             *jwt.JWTService
	redisClient            *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	radiologistProfileRepo repository.RadiologistProfileRepository,
	centerProfileRepo repository.CenterProfileRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:                     db,
		log:                    log,
		userRepo:               userRepo,
		radiologistProfileRepo: radiologistProfileRepo,
		centerProfileRepo:      centerProfileRepo,
		auditService:           auditService,
		jwtService:             jwtService,
		redisClient:            redisClient,
	}
}

func (u *authUsecase) RegisterCenter(ctx context.Context, req *dto.RegisterCenterRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.createUser(ctx, tx, req.Email, req.Password, entity.RoleCenter)
	if err != nil {
		return nil, err
	}

	profile := &entity.CenterProfile{
		UserID:  user.ID,
		Name:    strings.TrimSpace(req.Name),
		Address: req.Address,
		Phone:   req.Phone,
		License: strings.TrimSpace(req.License),
	}

	if err := u.centerProfileRepo.Create(ctx, tx, profile); err != nil {
		if isDuplicateKeyError(err, "license") {
			return nil, ErrLicenseAlreadyExists
		}
		u.log.Warnf("Failed to create center profile: %+v", err)
		return nil, err
	}
	user.CenterProfile = profile

	if err := u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, entity.AuditEntityUser, user.ID.String(),
		map[string]interface{}{"email": user.Email, "role": user.Role},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

// RegisterRadiologist creates the account unavailable; the radiologist opts in to
// notifications through the availability toggle.
func (u *authUsecase) RegisterRadiologist(ctx context.Context, req *dto.RegisterRadiologistRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.createUser(ctx, tx, req.Email, req.Password, entity.RoleRadiologist)
	if err != nil {
		return nil, err
	}

	profile := &entity.RadiologistProfile{
		UserID:         user.ID,
		Name:           strings.TrimSpace(req.Name),
		Qualification:  req.Qualification,
		Specialization: req.Specialization,
		LicenseNumber:  strings.TrimSpace(req.LicenseNumber),
		Experience:     req.Experience,
		Phone:          req.Phone,
		IsAvailable:    false,
		Specialties:    entity.NewSpecialties(req.Specialties),
	}

	if err := u.radiologistProfileRepo.Create(ctx, tx, profile); err != nil {
		if isDuplicateKeyError(err, "license") {
			return nil, ErrLicenseAlreadyExists
		}
		u.log.Warnf("Failed to create radiologist profile: %+v", err)
		return nil, err
	}
	user.RadiologistProfile = profile

	if err := u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, entity.AuditEntityUser, user.ID.String(),
		map[string]interface{}{"email": user.Email, "role": user.Role, "specialties": profile.Specialties},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) createUser(ctx context.Context, tx *gorm.DB, email, password string, role entity.Role) (*entity.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// Read-only, no transaction needed
	user, err := u.userRepo.FindByEmail(ctx, u.db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	tokens.User = converter.UserToResponse(user)

	return tokens, nil
}

// VerifyToken resolves an access token to its user, rejecting revoked tokens.
func (u *authUsecase) VerifyToken(ctx context.Context, token string) (*dto.UserResponse, error) {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil || claims.TokenType != jwt.AccessToken {
		return nil, ErrInvalidToken
	}

	valid, err := u.isTokenValid(ctx, claims.UserID, claims.TokenID, jwt.AccessToken)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrTokenRevoked
	}

	return u.GetCurrentUser(ctx, claims.UserID)
}

func (u *authUsecase) Logout(ctx context.Context, accessTokenID, refreshTokenID string) error {
	if err := u.deleteByPattern(ctx, fmt.Sprintf("access_token:*:%s", accessTokenID)); err != nil {
		return err
	}
	if refreshTokenID == "" {
		return nil
	}
	return u.deleteByPattern(ctx, fmt.Sprintf("refresh_token:*:%s", refreshTokenID))
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := tokenKey(jwt.RefreshToken, claims.UserID, claims.TokenID)
	deleted, err := u.redisClient.Del(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}
	// Del doubles as the existence check so a refresh token can be spent once.
	if deleted == 0 {
		return nil, ErrTokenRevoked
	}

	return u.issueTokens(ctx, claims.UserID, claims.Email, claims.Role)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email, role string) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.redisClient.Set(ctx, tokenKey(jwt.AccessToken, userID, accessTokenID), "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.redisClient.Set(ctx, tokenKey(jwt.RefreshToken, userID, refreshTokenID), "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) isTokenValid(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error) {
	exists, err := u.redisClient.Exists(ctx, tokenKey(tokenType, userID, tokenID)).Result()
	if err != nil {
		u.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}

	return exists > 0, nil
}

func (u *authUsecase) deleteByPattern(ctx context.Context, pattern string) error {
	keys, err := u.redisClient.Keys(ctx, pattern).Result()
	if err != nil {
		u.log.Warnf("Failed to get token keys: %+v", err)
		return err
	}
	if len(keys) > 0 {
		if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
			u.log.Warnf("Failed to delete tokens: %+v", err)
			return err
		}
	}
	return nil
}

// tokenKey is the redis allow-list key of one issued token.
func tokenKey(tokenType jwt.TokenType, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID.String(), tokenID)
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
