package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/repository"
	"github.com/nmtun/raune/internal/validate"
)

// PasswordCost: bcrypt cost. 테스트에서는 낮춰서 사용
var PasswordCost = bcrypt.DefaultCost

// DefaultSessionTTL: 설정이 없을 때 세션 유효 시간
const DefaultSessionTTL = 24 * time.Hour

// HashPassword: bcrypt 해시
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type ProfileInput struct {
	Username     string `json:"username"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

type AccountService struct {
	AccountRepo    repository.AccountRepository
	SessionRepo    repository.SessionRepository
	PreferenceRepo repository.PreferenceRepository

	seeds      *SeedStore
	sessionTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func NewAccountService(repos *Repositories, seeds *SeedStore, sessionTTL time.Duration, logger *zap.Logger) *AccountService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AccountService{
		AccountRepo:    repos.Account,
		SessionRepo:    repos.Session,
		PreferenceRepo: repos.Preference,
		seeds:          seeds,
		sessionTTL:     sessionTTL,
		logger:         logger.Named("account"),
		now:            time.Now,
	}
}

// Register: 이메일은 대소문자 구분 없이 중복 불가. 새 계정은 customer
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*model.Account, error) {
	if err := validate.Registration(in.Username, in.Email, in.Password, in.ConfirmPassword).Err(); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(in.Email)
	existing, err := s.AccountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, newError(ErrConflict, "register.emailExists")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	account := model.Account{
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleCustomer,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.AccountRepo.Create(ctx, &account); err != nil {
		return nil, err
	}
	s.logger.Info("account registered", zap.Int64("account_id", account.ID))
	return &account, nil
}

// Login: 성공하면 새 세션 토큰 발급
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.Session, *model.Account, error) {
	account, err := s.AccountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if account == nil || !checkPassword(account.PasswordHash, password) {
		return nil, nil, newError(ErrUnauthorized, "login.invalidCredentials")
	}

	now := s.now().UTC().Truncate(time.Second)
	session := model.Session{
		Token:     uuid.NewString(),
		AccountID: account.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.SessionRepo.Create(ctx, &session); err != nil {
		return nil, nil, err
	}
	s.logger.Info("login", zap.Int64("account_id", account.ID), zap.String("role", account.Role))
	return &session, account, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.SessionRepo.Delete(ctx, token)
}

// Authenticate: 유효한 세션의 계정. 만료된 세션은 지우고 ErrUnauthorized
func (s *AccountService) Authenticate(ctx context.Context, token string) (*model.Account, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	session, err := s.SessionRepo.Find(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrUnauthorized
	}
	if session.Expired(s.now()) {
		if err := s.SessionRepo.Delete(ctx, token); err != nil {
			s.logger.Warn("failed to drop expired session", zap.Error(err))
		}
		return nil, ErrUnauthorized
	}
	account, err := s.AccountRepo.FindByID(ctx, session.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUnauthorized
	}
	return account, nil
}

// PurgeExpiredSessions: 만료된 세션 정리
func (s *AccountService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.SessionRepo.DeleteExpired(ctx, s.now())
}

// ChangePassword: 앞뒤 공백 제거 후 비교
func (s *AccountService) ChangePassword(ctx context.Context, actor *model.Account, oldPassword, newPassword, confirm string) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if err := validate.ChangePassword(oldPassword, newPassword, confirm).Err(); err != nil {
		return err
	}
	current, err := s.AccountRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	if !checkPassword(current.PasswordHash, strings.TrimSpace(oldPassword)) {
		return validate.Errors{"oldPassword": "profile.oldPasswordIncorrect"}
	}
	hash, err := HashPassword(strings.TrimSpace(newPassword))
	if err != nil {
		return err
	}
	return s.AccountRepo.UpdatePassword(ctx, actor.ID, hash)
}

// UpdateProfile: 다른 계정이 쓰는 이메일로는 변경 불가
func (s *AccountService) UpdateProfile(ctx context.Context, actor *model.Account, in ProfileInput) (*model.Account, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if err := validate.Profile(in.Username, in.Email).Err(); err != nil {
		return nil, err
	}
	current, err := s.AccountRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	email := strings.TrimSpace(in.Email)
	other, err := s.AccountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != current.ID {
		return nil, newError(ErrConflict, "register.emailExists")
	}

	current.Username = strings.TrimSpace(in.Username)
	current.Name = strings.TrimSpace(in.Name)
	current.Email = email
	if in.ProfileImage != "" {
		current.ProfileImage = in.ProfileImage
	}
	if err := s.AccountRepo.UpdateProfile(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Preferences: 없으면 nil
func (s *AccountService) Preferences(ctx context.Context, userID int64) (*model.Preferences, error) {
	return s.PreferenceRepo.Get(ctx, userID)
}

func (s *AccountService) SavePreferences(ctx context.Context, userID int64, tags []string) (*model.Preferences, error) {
	if err := validate.Preferences(tags, s.FoodTags()).Err(); err != nil {
		return nil, err
	}
	prefs := model.Preferences{
		UserID:          userID,
		FoodPreferences: append([]string(nil), tags...),
		Timestamp:       s.now().UTC().Truncate(time.Second),
	}
	if err := s.PreferenceRepo.Save(ctx, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (s *AccountService) ClearPreferences(ctx context.Context, userID int64) error {
	return s.PreferenceRepo.Clear(ctx, userID)
}

// FoodTags: 설문에서 고를 수 있는 태그
func (s *AccountService) FoodTags() []string {
	return s.seeds.Get().FoodTags()
}
