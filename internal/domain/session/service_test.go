package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantid-bot-go/internal/domain/session/model"
	"plantid-bot-go/internal/domain/session/store"
	"plantid-bot-go/internal/platform/errors"
	"plantid-bot-go/internal/platform/logging"
)

type failingStore struct {
	store.Store
}

func (failingStore) Get(context.Context, string) (model.Session, bool, error) {
	return model.Session{}, false, fmt.Errorf("disk on fire")
}

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Options{Store: store.NewMemory(), Logger: logging.Nop{}})
	require.NoError(t, err)
	return svc
}

func TestGet_DefaultsForUnknownUser(t *testing.T) {
	svc := newService(t)
	sess, err := svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "1", sess.UserID)
	assert.Equal(t, DefaultLanguage, sess.Language)
	assert.Empty(t, sess.IdentificationToken)
	assert.Nil(t, sess.Geoposition)
}

func TestSetters_AccumulateState(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	require.NoError(t, svc.SetLanguage(ctx, "1", "en"))
	require.NoError(t, svc.SetLastImage(ctx, "1", "aW1n"))
	require.NoError(t, svc.SetIdentification(ctx, "1", "tok", "Ficus"))
	require.NoError(t, svc.SetGeoposition(ctx, "1", Geoposition{Longitude: 30.3, Latitude: 59.9}))

	sess, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "en", sess.Language)
	assert.Equal(t, "aW1n", sess.LastImage)
	assert.Equal(t, "tok", sess.IdentificationToken)
	assert.Equal(t, "Ficus", sess.LastPlant)
	require.NotNil(t, sess.Geoposition)
	assert.Equal(t, 59.9, sess.Geoposition.Latitude)

	lang, err := svc.Language(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "en", lang)
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(Options{Logger: logging.Nop{}})
	assert.True(t, errors.IsKind(err, errors.KindConfig))

	svc, err := NewService(Options{Store: store.NewMemory(), Logger: logging.Nop{}, DefaultLanguage: "en"})
	require.NoError(t, err)
	lang, _ := svc.Language(context.Background(), "x")
	assert.Equal(t, "en", lang)
}

func TestStoreFailure_IsStorageKind(t *testing.T) {
	svc, err := NewService(Options{Store: failingStore{Store: store.NewMemory()}, Logger: logging.Nop{}})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "1")
	assert.True(t, errors.IsKind(err, errors.KindStorage))

	err = svc.SetLanguage(context.Background(), "1", "en")
	assert.True(t, errors.IsKind(err, errors.KindStorage))
}

func TestUpdate_RejectsEmptyUser(t *testing.T) {
	svc := newService(t)
	err := svc.SetLanguage(context.Background(), "", "en")
	assert.True(t, errors.IsKind(err, errors.KindDomain))
}
