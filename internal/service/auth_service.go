package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusdeals/campus-deals-api/internal/domain"
	"github.com/campusdeals/campus-deals-api/internal/dto"
	"github.com/campusdeals/campus-deals-api/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserInactive       = errors.New("user is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrAdminExists        = errors.New("admin already exists")
	ErrUnavailable        = errors.New("store unavailable")
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	JWTSecret          string
	Issuer             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	BcryptCost         int
	// StoreTimeout bounds every persistence call; a deadline hit is
	// surfaced as ErrUnavailable rather than hanging the request.
	StoreTimeout time.Duration
}

// AuthService owns the conditional-bootstrap and dual-token session flows.
//
// Refresh tokens are self-contained JWTs and are never persisted: validity
// is signature plus expiry, nothing else. The trade-off is deliberate.
// Logout cannot revoke an already-issued refresh token, and a replayed old
// refresh token keeps working until its own expiry. A jti-keyed denylist
// would close that gap but is intentionally not part of this design.
type AuthService interface {
	// Signup registers a new user and issues a token pair
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	// Login authenticates a user by canonical credentials
	Login(ctx context.Context, creds dto.Credentials) (*dto.AuthResponse, error)
	// AdminLogin authenticates against the admin collection
	AdminLogin(ctx context.Context, creds dto.Credentials) (*dto.AdminAuthResponse, error)
	// Refresh rotates a valid refresh token into a brand-new pair
	Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	// Logout identifies the caller from an access token; purely advisory,
	// no server-side state changes
	Logout(ctx context.Context, accessToken string) (*domain.Claims, error)
	// BootstrapAdmin creates the first admin while the collection is empty
	BootstrapAdmin(ctx context.Context, req *dto.BootstrapAdminRequest) (*dto.AdminResponse, error)
	// ListAdmins returns all admins
	ListAdmins(ctx context.Context) ([]*dto.AdminResponse, error)
	// AdminGateActive reports whether the admin list is authentication-gated,
	// i.e. at least one admin exists. Recomputed from the store every call.
	AdminGateActive(ctx context.Context) (bool, error)
	// ValidateAccessToken verifies an access token and returns its claims
	ValidateAccessToken(ctx context.Context, token string) (*domain.Claims, error)
	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile updates the caller's profile fields
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	adminRepo repository.AdminRepository
	config    *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	config *AuthServiceConfig,
) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.AccessTokenExpiry == 0 {
		config.AccessTokenExpiry = 15 * time.Minute
	}
	if config.RefreshTokenExpiry == 0 {
		config.RefreshTokenExpiry = 7 * 24 * time.Hour
	}
	if config.StoreTimeout == 0 {
		config.StoreTimeout = 5 * time.Second
	}
	return &authService{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		config:    config,
	}
}

// Signup registers a new user and issues a token pair
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	creds := req.Credentials()

	exists, err := s.userExistsByEmail(ctx, creds.Identifier)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(creds.Secret), s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        creds.Identifier,
		PasswordHash: string(hashedPassword),
		Name:         req.DisplayName(),
		Phone:        req.Phone,
		Department:   req.Department,
		YearOfStudy:  req.YearOfStudy,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The existence check above is advisory; the unique constraint is
	// authoritative when two signups race on the same email.
	if err := s.createUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// Tokens are only minted once the store has confirmed the row.
	tokenPair, err := s.generateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
		User:         toUserResponse(user),
	}, nil
}

// Login authenticates a user by canonical credentials
func (s *authService) Login(ctx context.Context, creds dto.Credentials) (*dto.AuthResponse, error) {
	user, err := s.getUserByEmail(ctx, creds.Identifier)
	if err != nil {
		return nil, err
	}
	// Absent account and wrong password are indistinguishable to the caller.
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Secret)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokenPair, err := s.generateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
		User:         toUserResponse(user),
	}, nil
}

// AdminLogin authenticates against the admin collection
func (s *authService) AdminLogin(ctx context.Context, creds dto.Credentials) (*dto.AdminAuthResponse, error) {
	admin, err := s.getAdminByEmail(ctx, creds.Identifier)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(creds.Secret)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokenPair, err := s.generateTokenPair(admin.ID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &dto.AdminAuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
		Admin:        toAdminResponse(admin),
	}, nil
}

// Refresh rotates a valid refresh token into a brand-new pair. The new pair
// is minted from the token's own claims; no store read is involved, and the
// old refresh token stays valid until its expiry because none are tracked.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := s.parseToken(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	tokenPair, err := s.generateTokenPair(claims.SubjectID, claims.Role)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// Logout identifies the caller; nothing is mutated server-side, which makes
// the operation idempotent by construction.
func (s *authService) Logout(ctx context.Context, accessToken string) (*domain.Claims, error) {
	return s.parseToken(accessToken, domain.TokenTypeAccess)
}

// BootstrapAdmin creates the first admin while the collection is empty
func (s *authService) BootstrapAdmin(ctx context.Context, req *dto.BootstrapAdminRequest) (*dto.AdminResponse, error) {
	count, err := s.adminCount(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAdminExists
	}

	creds := req.Credentials()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(creds.Secret), s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	admin := &domain.Admin{
		ID:           uuid.New().String(),
		Email:        creds.Identifier,
		PasswordHash: string(hashedPassword),
		Name:         req.AdminName,
		Phone:        req.AdminPhone,
		Department:   req.AdminDepartment,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The emptiness check above is check-then-act; the store's partial
	// unique index arbitrates the race and rejects the losing insert.
	if err := s.createBootstrapAdmin(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrBootstrapTaken) {
			return nil, ErrAdminExists
		}
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	resp := toAdminResponse(admin)
	return &resp, nil
}

// ListAdmins returns all admins
func (s *authService) ListAdmins(ctx context.Context) ([]*dto.AdminResponse, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, s.storeErr(err)
	}

	responses := make([]*dto.AdminResponse, 0, len(admins))
	for _, admin := range admins {
		resp := toAdminResponse(admin)
		responses = append(responses, &resp)
	}
	return responses, nil
}

// AdminGateActive reports whether the admin list is authentication-gated
func (s *authService) AdminGateActive(ctx context.Context) (bool, error) {
	count, err := s.adminCount(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ValidateAccessToken verifies an access token and returns its claims
func (s *authService) ValidateAccessToken(ctx context.Context, token string) (*domain.Claims, error) {
	return s.parseToken(token, domain.TokenTypeAccess)
}

// GetUser retrieves a user by ID
func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return user, nil
}

// UpdateProfile updates the caller's profile fields
func (s *authService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Name = req.Name
	user.Phone = req.Phone
	user.Department = req.Department
	user.YearOfStudy = req.YearOfStudy
	user.UpdatedAt = time.Now()

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, s.storeErr(err)
	}
	return user, nil
}

// --- token helpers ---

// generateTokenPair mints an access and a refresh token for the subject.
// The jti claim makes every pair distinct even within the same second.
func (s *authService) generateTokenPair(subjectID string, role domain.Role) (*domain.TokenPair, error) {
	now := time.Now()

	accessToken, err := s.signToken(subjectID, role, domain.TokenTypeAccess, now, s.config.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.signToken(subjectID, role, domain.TokenTypeRefresh, now, s.config.RefreshTokenExpiry)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
	}, nil
}

func (s *authService) signToken(subjectID string, role domain.Role, tokenType domain.TokenType, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subjectID,
		"role": string(role),
		"typ":  string(tokenType),
		"iss":  s.config.Issuer,
		"jti":  uuid.New().String(),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(s.config.JWTSecret))
}

// parseToken verifies signature and expiry and checks the typ claim.
// Every failure collapses to ErrInvalidToken: callers cannot tell an
// expired token from a tampered one.
func (s *authService) parseToken(tokenString string, want domain.TokenType) (*domain.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	typ, _ := claims["typ"].(string)
	if sub == "" || domain.TokenType(typ) != want {
		return nil, ErrInvalidToken
	}

	return &domain.Claims{
		SubjectID: sub,
		Role:      domain.Role(role),
		TokenType: domain.TokenType(typ),
	}, nil
}

// --- store helpers ---

func (s *authService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.config.StoreTimeout)
}

// storeErr maps a timed-out store call onto ErrUnavailable
func (s *authService) storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}
	return err
}

func (s *authService) userExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, s.storeErr(err)
	}
	return exists, nil
}

func (s *authService) getUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return user, nil
}

func (s *authService) getAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return admin, nil
}

func (s *authService) createUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.userRepo.Create(ctx, user); err != nil {
		return s.storeErr(err)
	}
	return nil
}

func (s *authService) createBootstrapAdmin(ctx context.Context, admin *domain.Admin) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.adminRepo.CreateBootstrap(ctx, admin); err != nil {
		return s.storeErr(err)
	}
	return nil
}

func (s *authService) adminCount(ctx context.Context) (int64, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return 0, s.storeErr(err)
	}
	return count, nil
}

// --- response mapping ---

func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Phone:       user.Phone,
		Department:  user.Department,
		YearOfStudy: user.YearOfStudy,
		Role:        string(user.Role),
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
}

func toAdminResponse(admin *domain.Admin) dto.AdminResponse {
	return dto.AdminResponse{
		ID:         admin.ID,
		Email:      admin.Email,
		Name:       admin.Name,
		Phone:      admin.Phone,
		Department: admin.Department,
		CreatedAt:  admin.CreatedAt.Format(time.RFC3339),
	}
}
