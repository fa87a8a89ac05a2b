package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/percefons/auth-service/internal/domain"
)

// ---- fakes ----

type fakeUserRepo struct {
	getByUsername func(ctx context.Context, username string) (*domain.User, error)
	getByEmail    func(ctx context.Context, email string) (*domain.User, error)
	getByID       func(ctx context.Context, id int64) (*domain.User, error)
	create        func(ctx context.Context, user *domain.User) (*domain.User, error)

	createCalls int
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if r.getByUsername == nil {
		return nil, domain.ErrUserNotFound
	}
	return r.getByUsername(ctx, username)
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getByEmail(ctx, email)
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getByID(ctx, id)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.createCalls++
	if r.create == nil {
		u := *user
		u.ID = 1
		return &u, nil
	}
	return r.create(ctx, user)
}

type fakeHasher struct {
	verifyErr error
}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (h fakeHasher) Verify(plain, digest string) (bool, error) {
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return digest == "hashed:"+plain, nil
}

type fakeTokens struct {
	issued []string
}

func (f *fakeTokens) IssueAuth(subject string) (domain.TokenPair, error) {
	f.issued = append(f.issued, subject)
	return domain.TokenPair{AccessToken: "access-" + subject, RefreshToken: "refresh-" + subject}, nil
}

func (f *fakeTokens) RefreshAuth(refreshToken string) (string, error) {
	subject, ok := strings.CutPrefix(refreshToken, "refresh-")
	if !ok {
		return "", fmt.Errorf("%w: token is invalid", domain.ErrRefreshDenied)
	}
	return "access-" + subject, nil
}

type fakeGranter struct {
	grantAll func(ctx context.Context, user *domain.User) (*domain.User, error)
}

func (g *fakeGranter) GrantAll(ctx context.Context, user *domain.User) (*domain.User, error) {
	if g.grantAll == nil {
		return user, nil
	}
	return g.grantAll(ctx, user)
}

type sentEmail struct {
	to, subject, body string
}

type fakeEmailSender struct {
	err  error
	sent []sentEmail
}

func (s *fakeEmailSender) Send(_ context.Context, to, subject, body string) error {
	s.sent = append(s.sent, sentEmail{to, subject, body})
	return s.err
}

type fakePermissionRepo struct {
	byCode    map[string]*domain.Permission
	getErr    error
	createAll func(ctx context.Context, perms []*domain.Permission) ([]*domain.Permission, error)
}

func (r *fakePermissionRepo) GetByCodeName(_ context.Context, codeName string) (*domain.Permission, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if p, ok := r.byCode[codeName]; ok {
		return p, nil
	}
	return nil, domain.ErrPermissionNotFound
}

func (r *fakePermissionRepo) Create(_ context.Context, perm *domain.Permission) (*domain.Permission, error) {
	if _, ok := r.byCode[perm.CodeName]; ok {
		return nil, domain.ErrPermissionExists
	}
	p := *perm
	p.ID = int64(len(r.byCode) + 1)
	r.byCode[p.CodeName] = &p
	return &p, nil
}

func (r *fakePermissionRepo) CreateAll(ctx context.Context, perms []*domain.Permission) ([]*domain.Permission, error) {
	if r.createAll != nil {
		return r.createAll(ctx, perms)
	}
	var out []*domain.Permission
	for _, p := range perms {
		c, err := r.Create(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakePermissionRepo) All(_ context.Context) ([]*domain.Permission, error) {
	out := []*domain.Permission{}
	for _, p := range domain.DefaultPermissions() {
		if stored, ok := r.byCode[p.CodeName]; ok {
			out = append(out, stored)
		}
	}
	return out, nil
}

type fakeGrantRepo struct {
	grant  func(ctx context.Context, perm *domain.Permission, user *domain.User) (*domain.User, error)
	revoke func(ctx context.Context, perm *domain.Permission, user *domain.User) (*domain.User, error)
}

func (r *fakeGrantRepo) Grant(ctx context.Context, perm *domain.Permission, user *domain.User) (*domain.User, error) {
	if r.grant == nil {
		u := *user
		u.Permissions = append(append([]domain.Permission(nil), user.Permissions...), *perm)
		return &u, nil
	}
	return r.grant(ctx, perm, user)
}

func (r *fakeGrantRepo) Revoke(ctx context.Context, perm *domain.Permission, user *domain.User) (*domain.User, error) {
	return r.revoke(ctx, perm, user)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
