package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/handlers"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/platform/config"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	args := m.Called(ctx, userID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserService) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	args := m.Called(ctx, userID, requestingUserID)
	return args.Error(0)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error) {
	args := m.Called(ctx, userID, refreshTokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

// --- Test Suite ---
type AuthHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockUserService  *MockUserService
	mockTokenService *MockTokenService
	cfg              *config.Config
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.cfg = testConfig()

	suite.mockUserService = new(MockUserService)
	suite.mockTokenService = new(MockTokenService)

	services := &portssvc.ServiceContainer{
		User:         suite.mockUserService,
		TokenService: suite.mockTokenService,
	}
	handlers.RegisterRoutes(suite.router, suite.cfg, services)
}

// localUser builds a password-based user for session tests.
func localUser(userID string) *domain.User {
	return &domain.User{
		UserID:            userID,
		Username:          "alice",
		Email:             "alice@example.com",
		Name:              "Alice",
		AuthProvider:      domain.ProviderLocal,
		PreferredCurrency: "USD",
	}
}

// expectSessionIssued wires the token mocks for one successful session and
// returns the access token and refresh token it will produce.
func (suite *AuthHandlerTestSuite) expectSessionIssued(user *domain.User) (accessToken, refreshToken string) {
	accessToken = "access-" + uuid.NewString()
	refreshToken = "refresh-" + uuid.NewString()
	accessExpiry := time.Now().Add(suite.cfg.JWTExpiryDuration)
	refreshExpiry := time.Now().Add(suite.cfg.RefreshTokenExpiryDuration)

	suite.mockTokenService.On("GenerateAccessToken", mock.Anything, user).
		Return(accessToken, accessExpiry, nil).Once()
	suite.mockTokenService.On("GenerateRefreshToken", mock.Anything, user).
		Return(refreshToken, refreshExpiry, nil).Once()
	suite.mockUserService.On("UpdateRefreshToken", mock.Anything, user.UserID, utils.HashRefreshToken(refreshToken), refreshExpiry).
		Return(nil).Once()
	return accessToken, refreshToken
}

// refreshCookie finds the refresh cookie in the response, failing the test if
// it is absent.
func (suite *AuthHandlerTestSuite) refreshCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == suite.cfg.RefreshTokenCookieName {
			return cookie
		}
	}
	suite.Require().FailNow("Refresh cookie not set")
	return nil
}

func (suite *AuthHandlerTestSuite) postJSON(url, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(http.MethodPost, url, nil)
	} else {
		req, _ = http.NewRequest(http.MethodPost, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AuthHandlerTestSuite) TestRegister_Success() {
	userID := uuid.NewString()
	created := localUser(userID)
	suite.mockUserService.On("CreateUser", mock.Anything, mock.MatchedBy(func(req dto.CreateUserRequest) bool {
		return req.Username == "alice" && req.Email == "alice@example.com"
	})).Return(created, nil).Once()

	w := suite.postJSON("/api/v1/auth/register",
		`{"username":"alice","password":"password123","email":"alice@example.com","name":"Alice"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(userID, resp.UserID)
	suite.Equal("alice", resp.Username)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestRegister_DuplicateUsername() {
	suite.mockUserService.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.postJSON("/api/v1/auth/register",
		`{"username":"alice","password":"password123","email":"alice@example.com","name":"Alice"}`)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AuthHandlerTestSuite) TestRegister_RejectsShortPassword() {
	w := suite.postJSON("/api/v1/auth/register",
		`{"username":"alice","password":"short","email":"alice@example.com","name":"Alice"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "CreateUser")
}

func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	userID := uuid.NewString()
	user := localUser(userID)
	suite.mockUserService.On("AuthenticateUser", mock.Anything, "alice", "password123").
		Return(user, nil).Once()
	accessToken, refreshToken := suite.expectSessionIssued(user)

	w := suite.postJSON("/api/v1/auth/login", `{"username":"alice","password":"password123"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(accessToken, resp.Token)
	suite.Equal("alice", resp.User.Username)

	// The refresh token travels only in the HTTP-only cookie, prefixed with
	// the user ID so the refresh endpoint can locate the stored hash.
	cookie := suite.refreshCookie(w)
	suite.Equal(userID+"."+refreshToken, cookie.Value)
	suite.True(cookie.HttpOnly)
	suite.Equal(suite.cfg.RefreshTokenCookiePath, cookie.Path)

	suite.mockUserService.AssertExpectations(suite.T())
	suite.mockTokenService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogin_InvalidCredentials() {
	suite.mockUserService.On("AuthenticateUser", mock.Anything, "alice", "wrong-password").
		Return(nil, apperrors.ErrUnauthorized).Once()

	w := suite.postJSON("/api/v1/auth/login", `{"username":"alice","password":"wrong-password"}`)

	suite.Equal(http.StatusUnauthorized, w.Code)
	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Invalid username or password", resp.Error)
	suite.mockTokenService.AssertNotCalled(suite.T(), "GenerateAccessToken")
}

func (suite *AuthHandlerTestSuite) TestRefresh_RotatesToken() {
	userID := uuid.NewString()
	user := localUser(userID)
	suite.mockTokenService.On("ValidateAndParseRefreshToken", mock.Anything, userID, "old-refresh-token").
		Return(user, nil).Once()
	accessToken, newRefreshToken := suite.expectSessionIssued(user)

	w := suite.postJSON("/api/v1/auth/refresh", "", &http.Cookie{
		Name:  suite.cfg.RefreshTokenCookieName,
		Value: userID + "." + "old-refresh-token",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RefreshTokenResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(accessToken, resp.Token)

	// Rotation must replace the cookie with the new refresh token.
	cookie := suite.refreshCookie(w)
	suite.Equal(userID+"."+newRefreshToken, cookie.Value)

	suite.mockTokenService.AssertExpectations(suite.T())
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestRefresh_MissingCookie() {
	w := suite.postJSON("/api/v1/auth/refresh", "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTokenService.AssertNotCalled(suite.T(), "ValidateAndParseRefreshToken")
}

func (suite *AuthHandlerTestSuite) TestRefresh_MalformedCookie() {
	w := suite.postJSON("/api/v1/auth/refresh", "", &http.Cookie{
		Name:  suite.cfg.RefreshTokenCookieName,
		Value: "no-separator-in-here",
	})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTokenService.AssertNotCalled(suite.T(), "ValidateAndParseRefreshToken")
}

func (suite *AuthHandlerTestSuite) TestRefresh_ExpiredToken() {
	userID := uuid.NewString()
	suite.mockTokenService.On("ValidateAndParseRefreshToken", mock.Anything, userID, "stale-token").
		Return(nil, apperrors.ErrRefreshTokenExpired).Once()

	w := suite.postJSON("/api/v1/auth/refresh", "", &http.Cookie{
		Name:  suite.cfg.RefreshTokenCookieName,
		Value: userID + ".stale-token",
	})

	suite.Equal(http.StatusUnauthorized, w.Code)
	// An expired session drops the cookie so clients stop retrying.
	cookie := suite.refreshCookie(w)
	suite.Empty(cookie.Value)
	suite.mockUserService.AssertNotCalled(suite.T(), "UpdateRefreshToken")
}

func (suite *AuthHandlerTestSuite) TestLogout_ClearsSession() {
	userID := uuid.NewString()
	suite.mockUserService.On("ClearRefreshToken", mock.Anything, userID).Return(nil).Once()

	w := suite.postJSON("/api/v1/auth/logout", "", &http.Cookie{
		Name:  suite.cfg.RefreshTokenCookieName,
		Value: userID + ".some-refresh-token",
	})

	suite.Equal(http.StatusNoContent, w.Code)
	cookie := suite.refreshCookie(w)
	suite.Empty(cookie.Value)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogout_WithoutSessionIsNoOp() {
	w := suite.postJSON("/api/v1/auth/logout", "")

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "ClearRefreshToken")
}

// --- Run Test Suite ---
func TestAuthHandler(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
