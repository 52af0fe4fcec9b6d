package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/husainasfak/QuickBite-auth-service/internal/apperror"
	"github.com/husainasfak/QuickBite-auth-service/internal/domain"
	"github.com/husainasfak/QuickBite-auth-service/internal/repository"
	"github.com/husainasfak/QuickBite-auth-service/internal/token"
)

type memoryUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[int64]domain.User)}
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (r *memoryUserRepo) GetByID(_ context.Context, userID int64) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *memoryUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryUserRepo) Update(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) List(_ context.Context, params repository.ListParams) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memoryUserRepo) Delete(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

type memoryTokenRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]domain.RefreshToken
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{records: make(map[int64]domain.RefreshToken)}
}

func (r *memoryTokenRepo) Create(_ context.Context, userID int64, expiresAt time.Time) (domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rec := domain.RefreshToken{ID: r.nextID, UserID: userID, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *memoryTokenRepo) Find(_ context.Context, tokenID, userID int64) (domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[tokenID]
	if !ok || rec.UserID != userID {
		return domain.RefreshToken{}, pgx.ErrNoRows
	}
	return rec, nil
}

func (r *memoryTokenRepo) Delete(_ context.Context, tokenID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, tokenID)
	return nil
}

func (r *memoryTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

type authFixture struct {
	svc      *AuthService
	users    *memoryUserRepo
	tokens   *memoryTokenRepo
	verifier *token.Verifier
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keys := token.NewKeyMaterial(key, []byte("test-refresh-secret"))
	issuer := token.NewIssuer(keys, time.Hour, 24*time.Hour)
	users := newMemoryUserRepo()
	tokens := newMemoryTokenRepo()

	return &authFixture{
		svc:      NewAuthService(users, tokens, issuer, zap.NewNop()),
		users:    users,
		tokens:   tokens,
		verifier: token.NewVerifier(keys),
	}
}

func (f *authFixture) register(t *testing.T, email string) AuthResult {
	t.Helper()
	result, err := f.svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "correct horse battery",
	})
	require.NoError(t, err)
	return result
}

func (f *authFixture) refreshClaims(t *testing.T, refreshToken string) *token.RefreshClaims {
	t.Helper()
	claims, err := f.verifier.VerifyRefresh(refreshToken)
	require.NoError(t, err)
	return claims
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	f := newAuthFixture(t)

	result := f.register(t, "ada@example.com")
	require.NotZero(t, result.UserID)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	access, err := f.verifier.VerifyAccess(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, domain.RoleCustomer, access.Role)

	// The refresh token's jti must point at a live store record.
	claims := f.refreshClaims(t, result.RefreshToken)
	recordID, err := claims.RecordID()
	require.NoError(t, err)
	_, err = f.tokens.Find(context.Background(), recordID, result.UserID)
	require.NoError(t, err)

	// The stored credential is a hash, never the password.
	user, err := f.users.GetByID(context.Background(), result.UserID)
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery", user.PasswordHash)
	require.True(t, strings.HasPrefix(user.PasswordHash, "$2a$"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com")

	_, err := f.svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "another password",
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindClientInput, apperror.KindOf(err))
}

func TestLoginGenericFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com")

	_, unknownErr := f.svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, wrongErr := f.svc.Login(context.Background(), "ada@example.com", "wrong password")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	require.Equal(t, apperror.KindAuthentication, apperror.KindOf(unknownErr))
	require.Equal(t, apperror.KindAuthentication, apperror.KindOf(wrongErr))

	// Unknown account and wrong password must be indistinguishable.
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	registered := f.register(t, "ada@example.com")

	result, err := f.svc.Login(context.Background(), "ada@example.com", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, registered.UserID, result.UserID)
	_, err = f.verifier.VerifyAccess(result.AccessToken)
	require.NoError(t, err)
}

func TestRefreshRotatesRecord(t *testing.T) {
	f := newAuthFixture(t)
	first := f.register(t, "ada@example.com")
	firstClaims := f.refreshClaims(t, first.RefreshToken)
	firstRecordID, err := firstClaims.RecordID()
	require.NoError(t, err)

	second, err := f.svc.Refresh(context.Background(), firstClaims)
	require.NoError(t, err)
	secondClaims := f.refreshClaims(t, second.RefreshToken)
	secondRecordID, err := secondClaims.RecordID()
	require.NoError(t, err)

	require.NotEqual(t, firstRecordID, secondRecordID)
	require.Equal(t, 1, f.tokens.count())

	// The rotated-out record is gone; the new one is live.
	_, err = f.tokens.Find(context.Background(), firstRecordID, first.UserID)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	_, err = f.tokens.Find(context.Background(), secondRecordID, first.UserID)
	require.NoError(t, err)

	// A second rotation from the new token keeps working.
	third, err := f.svc.Refresh(context.Background(), secondClaims)
	require.NoError(t, err)
	require.Equal(t, first.UserID, third.UserID)
	require.Equal(t, 1, f.tokens.count())
}

func TestLogoutRevokesAndIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)
	result := f.register(t, "ada@example.com")
	claims := f.refreshClaims(t, result.RefreshToken)

	require.NoError(t, f.svc.Logout(context.Background(), claims))
	require.Equal(t, 0, f.tokens.count())

	// Logging out again with the same token is not an error.
	require.NoError(t, f.svc.Logout(context.Background(), claims))
}

func TestSelfStripsCredential(t *testing.T) {
	f := newAuthFixture(t)
	result := f.register(t, "ada@example.com")

	view, err := f.svc.Self(context.Background(), result.UserID)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", view.Email)
	require.Equal(t, domain.RoleCustomer, view.Role)
}

func TestSelfUnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Self(context.Background(), 12345)
	require.Error(t, err)
	require.Equal(t, apperror.KindClientInput, apperror.KindOf(err))
}
