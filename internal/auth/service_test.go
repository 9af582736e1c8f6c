package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kalambet/cgs/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	v, err := NewVerifier(SchemeBcrypt, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	return NewService(store, v, time.Hour), store
}

func TestNewVerifier(t *testing.T) {
	if _, err := NewVerifier("md5", 0); err == nil {
		t.Error("expected error for unknown scheme")
	}
	if _, err := NewVerifier(SchemeBcrypt, 99); err == nil {
		t.Error("expected error for out-of-range cost")
	}
	v, err := NewVerifier("", 0)
	if err != nil || v.Scheme() != SchemeBcrypt {
		t.Errorf("default verifier = %v, %v", v, err)
	}
}

func TestBcryptVerifier(t *testing.T) {
	v := BcryptVerifier{Cost: bcrypt.MinCost}
	h, err := v.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h == "s3cret" {
		t.Fatal("hash equals password")
	}
	if err := v.Verify(h, "s3cret"); err != nil {
		t.Errorf("Verify correct password: %v", err)
	}
	if err := v.Verify(h, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Verify wrong password: err = %v", err)
	}
	if err := v.Verify("not-a-hash", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Verify garbage hash: err = %v", err)
	}
}

func TestBcryptVerifier_PasswordTooLong(t *testing.T) {
	v := BcryptVerifier{Cost: bcrypt.MinCost}
	if _, err := v.Hash(strings.Repeat("é", 37)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("Hash 74-byte password: err = %v, want ErrPasswordTooLong", err)
	}

	svc, _ := newTestService(t)
	_, err := svc.Register(Registration{Name: "Hal", Email: "hal@example.com", Password: strings.Repeat("x", 73)})
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("Register: err = %v, want ErrPasswordTooLong", err)
	}
	if err := svc.EnsureAdmin("root@example.com", strings.Repeat("x", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("EnsureAdmin: err = %v, want ErrPasswordTooLong", err)
	}
}

func TestPlaintextVerifier(t *testing.T) {
	v := PlaintextVerifier{}
	if err := v.Verify("abc", "abc"); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if err := v.Verify("abc", "abd"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, store := newTestService(t)

	u, err := svc.Register(Registration{Name: "Ann", Email: " Ann@Example.com ", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "ann@example.com" || u.Role != storage.RoleStudent {
		t.Errorf("user = %+v", u)
	}
	if _, err := store.GetProfileByEmail("ann@example.com"); err != nil {
		t.Errorf("profile not created: %v", err)
	}

	if _, err := svc.Register(Registration{Name: "Ann2", Email: "ann@example.com", Password: "x"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate Register: err = %v, want ErrEmailTaken", err)
	}

	sess, err := svc.Login("ANN@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token == "" || sess.Identity.Email != "ann@example.com" {
		t.Errorf("session = %+v", sess)
	}

	id, err := svc.Resolve(sess.Token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.UserID != u.ID || id.IsAdmin() {
		t.Errorf("identity = %+v", id)
	}

	if err := svc.Logout(sess.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Resolve(sess.Token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Resolve after logout: err = %v", err)
	}
	if err := svc.Logout(sess.Token); err != nil {
		t.Errorf("second Logout: %v", err)
	}
}

func TestLogin_Failures(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Register(Registration{Name: "Bob", Email: "bob@example.com", Password: "correct"})

	if _, err := svc.Login("bob@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	_, err := svc.Login("nobody@example.com", "x")
	if !errors.Is(err, ErrInvalidCredentials) || !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: err = %v", err)
	}
}

func TestResolve_Expired(t *testing.T) {
	svc, store := newTestService(t)
	svc.Register(Registration{Name: "Cy", Email: "cy@example.com", Password: "pw1234"})

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	sess, err := svc.Login("cy@example.com", "pw1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, err := svc.Resolve(sess.Token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("err = %v, want ErrInvalidSession", err)
	}
	if _, err := store.GetSession(sess.Token); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expired session not deleted: %v", err)
	}
	if _, err := svc.Resolve(""); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("empty token: err = %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, store := newTestService(t)

	if err := svc.EnsureAdmin("admin@example.com", "first"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	u, err := store.GetUserByEmail("admin@example.com")
	if err != nil || u.Role != storage.RoleAdmin {
		t.Fatalf("admin = %+v, %v", u, err)
	}

	// rotates the password on a second run
	if err := svc.EnsureAdmin("admin@example.com", "second"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if _, err := svc.Login("admin@example.com", "first"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password still accepted: %v", err)
	}
	sess, err := svc.Login("admin@example.com", "second")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !sess.Identity.IsAdmin() {
		t.Error("admin session lacks admin role")
	}

	if err := svc.EnsureAdmin("", "x"); err == nil || !strings.Contains(err.Error(), "required") {
		t.Errorf("err = %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Register(Registration{Name: "Di", Email: "di@example.com", Password: "pw1234"})

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.Login("di@example.com", "pw1234")
	svc.Login("di@example.com", "pw1234")

	svc.now = func() time.Time { return now.Add(90 * time.Minute) }
	n, err := svc.PurgeExpired()
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 2 {
		t.Errorf("purged %d, want 2", n)
	}
}

func TestIdentityContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("empty context reported an identity")
	}
	ctx := WithIdentity(context.Background(), Identity{Email: "e@example.com", Role: storage.RoleAdmin})
	id, ok := FromContext(ctx)
	if !ok || id.Email != "e@example.com" || !id.IsAdmin() {
		t.Errorf("identity = %+v, %v", id, ok)
	}
}
