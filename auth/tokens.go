package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/xy-planning-network/compass/storage"
)

// Keys the Tokens persist values under.
const (
	AccessTokenKey            = "supabase_token"
	RefreshTokenKey           = "supabase_refresh_token"
	QuestionnaireCompletedKey = "questionnaire_completed"
	QuestionnaireDataKey      = "questionnaire_data"
)

// Tokens is the owner of a visitor's credentials and onboarding progress.
type Tokens struct {
	mu    sync.Mutex
	store storage.Storage
}

// NewTokens constructs a *Tokens persisting to s.
func NewTokens(s storage.Storage) *Tokens { return &Tokens{store: s} }

// StoreTokens persists access and refresh, skipping either when empty.
func (t *Tokens) StoreTokens(ctx context.Context, access, refresh string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if access != "" {
		if err := t.store.Set(ctx, AccessTokenKey, access); err != nil {
			return err
		}
	}

	if refresh != "" {
		if err := t.store.Set(ctx, RefreshTokenKey, refresh); err != nil {
			return err
		}
	}

	return nil
}

// AccessToken retrieves the stored access token, or "" when there is none.
func (t *Tokens) AccessToken(ctx context.Context) (string, error) {
	return t.get(ctx, AccessTokenKey)
}

// RefreshToken retrieves the stored refresh token, or "" when there is none.
func (t *Tokens) RefreshToken(ctx context.Context) (string, error) {
	return t.get(ctx, RefreshTokenKey)
}

// ClearTokens removes both tokens.
// Onboarding progress is left as is; see ClearProgress.
func (t *Tokens) ClearTokens(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.Delete(ctx, AccessTokenKey, RefreshTokenKey)
}

// ClearProgress removes the questionnaire completion flag and the cached answers.
func (t *Tokens) ClearProgress(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.Delete(ctx, QuestionnaireCompletedKey, QuestionnaireDataKey)
}

// CompleteQuestionnaire caches the answers in data, when not empty, and marks the questionnaire completed.
func (t *Tokens) CompleteQuestionnaire(ctx context.Context, data string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if data != "" {
		if err := t.store.Set(ctx, QuestionnaireDataKey, data); err != nil {
			return err
		}
	}

	return t.store.Set(ctx, QuestionnaireCompletedKey, "true")
}

// QuestionnaireCompleted asserts whether the completion flag is the literal "true".
func (t *Tokens) QuestionnaireCompleted(ctx context.Context) (bool, error) {
	v, err := t.get(ctx, QuestionnaireCompletedKey)
	if err != nil {
		return false, err
	}

	return v == "true", nil
}

// QuestionnaireData retrieves the cached questionnaire answers, or "" when there are none.
func (t *Tokens) QuestionnaireData(ctx context.Context) (string, error) {
	return t.get(ctx, QuestionnaireDataKey)
}

func (t *Tokens) get(ctx context.Context, key string) (string, error) {
	v, err := t.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotExist) {
		return "", nil
	}

	return v, err
}
