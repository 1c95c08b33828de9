package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service wraps repository operations with the session/flash protocol.
// Each mutation is persisted immediately so the state survives the
// request/redirect cycle regardless of the backing repository.
type Service struct {
	repo Repository
	ttl  time.Duration
}

func NewService(r Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{repo: r, ttl: ttl}
}

// Begin creates and persists a fresh anonymous session.
func (s *Service) Begin(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Load returns the session for id, or nil when it is unknown or expired.
func (s *Service) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	return s.repo.Get(ctx, id)
}

// SignIn sets the authenticated-username marker.
func (s *Service) SignIn(ctx context.Context, sess *Session, username string) error {
	sess.Username = username
	return s.repo.Save(ctx, sess)
}

// SignOut clears the authenticated-username marker.
func (s *Service) SignOut(ctx context.Context, sess *Session) error {
	sess.Username = ""
	return s.repo.Save(ctx, sess)
}

// SetFlash stores message, overwriting any prior unread flash.
func (s *Service) SetFlash(ctx context.Context, sess *Session, message string) error {
	sess.Flash = message
	return s.repo.Save(ctx, sess)
}

// TakeFlash returns the pending flash message and clears it, so a flash is
// shown at most once.
func (s *Service) TakeFlash(ctx context.Context, sess *Session) (string, error) {
	if sess.Flash == "" {
		return "", nil
	}
	msg := sess.Flash
	sess.Flash = ""
	if err := s.repo.Save(ctx, sess); err != nil {
		return "", err
	}
	return msg, nil
}

// Destroy removes the session entirely.
func (s *Service) Destroy(ctx context.Context, sess *Session) error {
	return s.repo.Delete(ctx, sess.ID)
}
