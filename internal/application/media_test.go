package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Widedbounou/SK-B/internal/application/apptest"
	repo "github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/apperror"
)

var exeBody = []byte("MZ\x90\x00\x03\x00\x00\x00\x04\x00\x00\x00\xff\xff\x00\x00")

func TestCheckImages(t *testing.T) {
	assert.NoError(t, checkImages("picture", apptest.Image("a.png")))
	assert.NoError(t, checkImages("picture", apptest.File("a.png", "", []byte(apptest.PNGHeader))))
	assert.NoError(t, checkImages("picture", apptest.File("a.png", "application/octet-stream", []byte(apptest.PNGHeader))))

	cases := map[string]repo.Upload{
		"declared executable": apptest.File("evil.exe", "application/x-msdownload", exeBody),
		"declared image":      apptest.File("evil.png", "image/png", exeBody),
		"text":                apptest.File("notes.png", "", []byte("just some text")),
		"no body":             {Filename: "x.png", ContentType: "image/png"},
	}
	for name, up := range cases {
		err := checkImages("picture", up)
		assert.True(t, apperror.Is(err, apperror.KindValidation), name)
	}
}

func TestPublish_RejectsNonImages(t *testing.T) {
	f := newFixture(t)
	owner := f.signup(t, "juma@soukoni.tz", "juma")
	ctx := context.Background()

	files := []repo.Upload{apptest.Image("ok.png"), apptest.File("evil.exe", "application/x-msdownload", exeBody)}
	_, err := f.offerSvc.Publish(ctx, owner.ID, bikeInput(), files)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Empty(t, f.media.Objects)

	list, err := f.offers.FindByCreator(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSignup_RejectsNonImageAvatar(t *testing.T) {
	f := newFixture(t)
	avatar := apptest.File("me.png", "image/png", exeBody)

	_, _, err := f.userSvc.Signup(context.Background(), signupInput(), &avatar)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, 0, f.users.Len())
	assert.Empty(t, f.media.Objects)
}

type pushFailingUsers struct {
	*apptest.UserRepo
}

func (pushFailingUsers) PushCreatedOffer(context.Context, string, string) error {
	return errors.New("mongo write failed")
}

func TestPublish_OwnerLinkFailureKeepsOffer(t *testing.T) {
	f := newFixture(t)
	owner := f.signup(t, "juma@soukoni.tz", "juma")
	ctx := context.Background()
	f.offerSvc.Users = pushFailingUsers{f.users}

	view, err := f.offerSvc.Publish(ctx, owner.ID, bikeInput(), images(1))
	require.NoError(t, err)
	stored, err := f.offers.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, stored.CreatorID)
}
