package impl

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"multimusic/internal/domain/entity"
	domainerrors "multimusic/internal/domain/errors"
	"multimusic/internal/domain/repository"
	"multimusic/internal/domain/service"

	"github.com/pkg/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- repository fakes ---

type fakeAccountRepo struct {
	accounts map[string]*entity.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*entity.Account)}
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id string) (*entity.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	clone := *account

	return &clone, nil
}

func (r *fakeAccountRepo) Create(_ context.Context, account *entity.Account) error {
	if _, ok := r.accounts[account.ID]; ok {
		return domainerrors.ErrConflict
	}

	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	clone := *account
	r.accounts[account.ID] = &clone

	return nil
}

func (r *fakeAccountRepo) Update(_ context.Context, account *entity.Account) error {
	stored, ok := r.accounts[account.ID]
	if !ok {
		return repository.ErrAccountNotFound
	}

	stored.Email = account.Email
	stored.DisplayName = account.DisplayName
	stored.AvatarURL = account.AvatarURL
	stored.UpdatedAt = time.Now()

	return nil
}

type fakeIdentityRepo struct {
	links []*entity.IdentityLink
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{}
}

func (r *fakeIdentityRepo) Create(_ context.Context, link *entity.IdentityLink) error {
	for _, existing := range r.links {
		if existing.Provider == link.Provider && existing.SubjectID == link.SubjectID {
			return domainerrors.ErrIdentityConflict
		}
		if existing.AccountID == link.AccountID && existing.Provider == link.Provider {
			return domainerrors.ErrIdentityConflict
		}
	}

	link.LinkedAt = time.Now()
	clone := *link
	r.links = append(r.links, &clone)

	return nil
}

func (r *fakeIdentityRepo) FindBySubject(_ context.Context, provider entity.Provider, subjectID string) (*entity.IdentityLink, error) {
	for _, link := range r.links {
		if link.Provider == provider && link.SubjectID == subjectID {
			clone := *link

			return &clone, nil
		}
	}

	return nil, repository.ErrIdentityNotFound
}

func (r *fakeIdentityRepo) FindByAccountAndProvider(_ context.Context, accountID string, provider entity.Provider) (*entity.IdentityLink, error) {
	for _, link := range r.links {
		if link.AccountID == accountID && link.Provider == provider {
			clone := *link

			return &clone, nil
		}
	}

	return nil, repository.ErrIdentityNotFound
}

func (r *fakeIdentityRepo) ListByAccount(_ context.Context, accountID string) ([]*entity.IdentityLink, error) {
	var out []*entity.IdentityLink
	for _, link := range r.links {
		if link.AccountID == accountID {
			clone := *link
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *fakeIdentityRepo) Delete(_ context.Context, accountID string, provider entity.Provider) error {
	for i, link := range r.links {
		if link.AccountID == accountID && link.Provider == provider {
			r.links = append(r.links[:i], r.links[i+1:]...)

			return nil
		}
	}

	return repository.ErrIdentityNotFound
}

type fakeConnectionRepo struct {
	conns map[string]*entity.PlatformConnection
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{conns: make(map[string]*entity.PlatformConnection)}
}

func connKey(accountID string, platform entity.Platform) string {
	return accountID + "|" + string(platform)
}

func (r *fakeConnectionRepo) Upsert(_ context.Context, conn *entity.PlatformConnection) error {
	key := connKey(conn.AccountID, conn.Platform)
	if existing, ok := r.conns[key]; ok {
		conn.ConnectedAt = existing.ConnectedAt
	} else {
		conn.ConnectedAt = time.Now()
	}
	conn.UpdatedAt = time.Now()
	clone := *conn
	r.conns[key] = &clone

	return nil
}

func (r *fakeConnectionRepo) Find(_ context.Context, accountID string, platform entity.Platform) (*entity.PlatformConnection, error) {
	conn, ok := r.conns[connKey(accountID, platform)]
	if !ok {
		return nil, repository.ErrConnectionNotFound
	}

	clone := *conn

	return &clone, nil
}

func (r *fakeConnectionRepo) UpdateAccessToken(_ context.Context, accountID string, platform entity.Platform, encryptedAccessToken string, expiresIn int64, expiresAt time.Time) error {
	conn, ok := r.conns[connKey(accountID, platform)]
	if !ok {
		return repository.ErrConnectionNotFound
	}

	conn.AccessToken = encryptedAccessToken
	conn.ExpiresIn = expiresIn
	conn.ExpiresAt = expiresAt
	conn.UpdatedAt = time.Now()

	return nil
}

func (r *fakeConnectionRepo) ListByAccount(_ context.Context, accountID string) ([]*entity.PlatformConnection, error) {
	var out []*entity.PlatformConnection
	for _, conn := range r.conns {
		if conn.AccountID == accountID {
			clone := *conn
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *fakeConnectionRepo) Delete(_ context.Context, accountID string, platform entity.Platform) error {
	delete(r.conns, connKey(accountID, platform))

	return nil
}

// --- transaction fakes ---

type fakeRepoFactory struct {
	accountRepo    *fakeAccountRepo
	identityRepo   *fakeIdentityRepo
	connectionRepo *fakeConnectionRepo
}

func (f *fakeRepoFactory) AccountRepo() repository.AccountRepository       { return f.accountRepo }
func (f *fakeRepoFactory) IdentityRepo() repository.IdentityRepository     { return f.identityRepo }
func (f *fakeRepoFactory) ConnectionRepo() repository.ConnectionRepository { return f.connectionRepo }

type fakeTxManager struct {
	factory *fakeRepoFactory
}

func (tm *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(tm.factory)
}

// --- service fakes ---

type fakeStateStore struct {
	seq     int
	pending map[string]string
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{pending: make(map[string]string)}
}

func (s *fakeStateStore) Issue(payload string) string {
	s.seq++
	token := "state-" + strconv.Itoa(s.seq)
	s.pending[token] = payload

	return token
}

func (s *fakeStateStore) Consume(state string) (string, bool) {
	payload, ok := s.pending[state]
	if !ok {
		return "", false
	}
	delete(s.pending, state)

	return payload, true
}

type fakeSSOProvider struct {
	name       entity.Provider
	identities map[string]*service.SSOIdentity
	exchangeErr error
}

func (p *fakeSSOProvider) Provider() entity.Provider { return p.name }

func (p *fakeSSOProvider) AuthCodeURL(state string) string {
	return "https://sso.example/authorize?state=" + state
}

func (p *fakeSSOProvider) Exchange(_ context.Context, code string) (*service.SSOIdentity, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}

	identity, ok := p.identities[code]
	if !ok {
		return nil, errors.New("invalid authorization code")
	}

	return identity, nil
}

type fakePlatformClient struct {
	name         entity.Platform
	verifier     string
	tokens       map[string]*service.PlatformTokens
	refreshed    *service.PlatformTokens
	refreshErr   error
	lastVerifier string
}

func (c *fakePlatformClient) Platform() entity.Platform { return c.name }

func (c *fakePlatformClient) NewVerifier() string { return c.verifier }

func (c *fakePlatformClient) AuthCodeURL(state, _ string) string {
	return "https://platform.example/authorize?state=" + state
}

func (c *fakePlatformClient) Exchange(_ context.Context, code, verifier string) (*service.PlatformTokens, error) {
	c.lastVerifier = verifier

	tokens, ok := c.tokens[code]
	if !ok {
		return nil, errors.New("invalid authorization code")
	}

	return tokens, nil
}

func (c *fakePlatformClient) Refresh(_ context.Context, _ string) (*service.PlatformTokens, error) {
	if c.refreshErr != nil {
		return nil, c.refreshErr
	}

	return c.refreshed, nil
}

// fakeCipher is a reversible stand-in for the AES codec.
type fakeCipher struct {
	failDecrypt bool
}

func (c *fakeCipher) Encrypt(plaintext string) (string, error) {
	return "enc(" + plaintext + ")", nil
}

func (c *fakeCipher) Decrypt(ciphertext string) (string, error) {
	if c.failDecrypt {
		return "", errors.New("authentication failed")
	}

	inner, ok := strings.CutPrefix(ciphertext, "enc(")
	if !ok || !strings.HasSuffix(inner, ")") {
		return "", errors.New("malformed ciphertext")
	}

	return strings.TrimSuffix(inner, ")"), nil
}

type fakeSessionService struct{}

func (s *fakeSessionService) Issue(accountID string) (string, error) {
	return "session-for-" + accountID, nil
}

func (s *fakeSessionService) Verify(token string) (string, error) {
	accountID, ok := strings.CutPrefix(token, "session-for-")
	if !ok {
		return "", errors.New("invalid session token")
	}

	return accountID, nil
}
