package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"docshare-sync/internal/models"
	"docshare-sync/internal/repo"
)

const testSecret = "test-secret"

// fakeUserRepo serves a fixed set of users.
type fakeUserRepo struct {
	users map[int64]models.User
	err   error
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repo.ErrUserNotFound
	}
	return u, nil
}

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func newValidator(users repo.UserRepo) *Validator {
	return NewValidator(testSecret, users, zap.NewNop())
}

func TestValidateAuthenticated(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]models.User{7: {ID: 7, Username: "alice"}}}
	v := newValidator(users)

	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	id := v.Validate(context.Background(), token)
	if !id.Authenticated {
		t.Fatal("expected an authenticated identity")
	}
	if id.Username != "alice" {
		t.Errorf("username: got %q, want %q", id.Username, "alice")
	}
	if id.UserID != 7 {
		t.Errorf("userId: got %d, want 7", id.UserID)
	}
}

// TestValidateDegradesToGuest covers the fail-open contract: every
// credential problem yields Anonymous, never an error to the client.
func TestValidateDegradesToGuest(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]models.User{7: {ID: 7, Username: "alice"}}}

	expired := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	wrongSecret := signToken(t, jwt.SigningMethodHS256, "other-secret", jwt.MapClaims{
		"user_id": 7,
	})
	wrongAlg := signToken(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{
		"user_id": 7,
	})
	noClaim := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "7",
	})
	unknownUser := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"user_id": 99,
	})

	cases := []struct {
		name  string
		v     *Validator
		token string
	}{
		{"empty token", newValidator(users), ""},
		{"malformed token", newValidator(users), "not-a-jwt"},
		{"expired token", newValidator(users), expired},
		{"wrong secret", newValidator(users), wrongSecret},
		{"wrong algorithm", newValidator(users), wrongAlg},
		{"missing user_id claim", newValidator(users), noClaim},
		{"unknown user", newValidator(users), unknownUser},
		{"store failure", newValidator(&fakeUserRepo{err: errors.New("db down")}), unknownUser},
		{"no user store", newValidator(nil), unknownUser},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := tc.v.Validate(context.Background(), tc.token)
			if id.Authenticated {
				t.Errorf("expected anonymous, got authenticated identity %+v", id)
			}
		})
	}
}

// TestDecodeReasons checks that the strict path reports a distinct reason
// per failure, keeping the guest fallback an explicit branch.
func TestDecodeReasons(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]models.User{}}
	v := newValidator(users)

	if _, err := v.decode(context.Background(), ""); !errors.Is(err, ErrNoToken) {
		t.Errorf("empty token: got %v, want ErrNoToken", err)
	}
	if _, err := v.decode(context.Background(), "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v, want ErrInvalidToken", err)
	}

	unknown := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"user_id": 1})
	if _, err := v.decode(context.Background(), unknown); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("unknown user: got %v, want ErrUnknownUser", err)
	}
}
