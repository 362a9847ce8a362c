package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Widedbounou/SK-B/internal/application/apptest"
	"github.com/Widedbounou/SK-B/internal/domain/entity"
	"github.com/Widedbounou/SK-B/pkg/apperror"
	"github.com/Widedbounou/SK-B/pkg/helpers"
	"github.com/Widedbounou/SK-B/pkg/mailer"
	tpl "github.com/Widedbounou/SK-B/pkg/mailer/templates"
)

func signupInput() SignupInput {
	return SignupInput{Email: "juma@soukoni.tz", Password: "secret", Username: "juma", Phone: "+255 712 345 678"}
}

func TestSignup_CreatesUserWithoutSecretsInView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	avatar := apptest.Image("me.jpg")

	view, sess, err := f.userSvc.Signup(ctx, signupInput(), &avatar)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, entity.RoleBuyer, view.Role)
	assert.Equal(t, entity.UserTypeIndividual, view.UserType)
	require.NotNil(t, view.Account.Avatar)
	assert.Equal(t, "soukoni/users/"+view.ID, view.Account.Avatar.Namespace)
	assert.Equal(t, "avatar", view.Account.Avatar.PublicID)

	stored, err := f.users.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Salt, helpers.SaltLength)
	assert.Len(t, stored.Token, helpers.TokenLength)
	ok, err := helpers.VerifyPassword("secret", stored.Salt, stored.Hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, stored.Token, f.sessions.Tokens[view.ID])

	require.Equal(t, 1, f.queue.Len())
	job := f.queue.Messages[0].(mailer.EmailJob)
	assert.Equal(t, tpl.VerifyEmail, job.Template)
	assert.Contains(t, job.Data["VerifyURL"], "token="+stored.VerificationToken)
}

func TestSignup_NewsletterQueuesWelcome(t *testing.T) {
	f := newFixture(t)
	in := signupInput()
	in.Newsletter = true
	_, _, err := f.userSvc.Signup(context.Background(), in, nil)
	require.NoError(t, err)
	require.Equal(t, 2, f.queue.Len())
	assert.Equal(t, tpl.Welcome, f.queue.Messages[1].(mailer.EmailJob).Template)
}

func TestSignup_QueueFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.queue.Err = apptest.ErrMediaDown
	_, _, err := f.userSvc.Signup(context.Background(), signupInput(), nil)
	assert.NoError(t, err)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.userSvc.Signup(ctx, signupInput(), nil)
	require.NoError(t, err)

	in := signupInput()
	in.Username = "other"
	_, _, err = f.userSvc.Signup(ctx, in, nil)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, 1, f.users.Len())
}

func TestSignup_Validation(t *testing.T) {
	f := newFixture(t)
	cases := map[string]func(*SignupInput){
		"no email":    func(in *SignupInput) { in.Email = "" },
		"no password": func(in *SignupInput) { in.Password = "" },
		"no username": func(in *SignupInput) { in.Username = "  " },
		"bad email":   func(in *SignupInput) { in.Email = "juma.soukoni.tz" },
		"bad phone":   func(in *SignupInput) { in.Phone = "0712345678" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := signupInput()
			mutate(&in)
			_, _, err := f.userSvc.Signup(context.Background(), in, nil)
			assert.True(t, apperror.Is(err, apperror.KindValidation), "got %v", err)
		})
	}
	assert.Zero(t, f.users.Len())
}

func TestSignup_AvatarFailure(t *testing.T) {
	f := newFixture(t)
	f.media.FailUploadAt = 1
	avatar := apptest.Image("me.jpg")
	_, _, err := f.userSvc.Signup(context.Background(), signupInput(), &avatar)
	assert.True(t, apperror.Is(err, apperror.KindMedia))
	assert.Zero(t, f.users.Len())
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "juma@soukoni.tz", "juma")

	res, sess, err := f.userSvc.Login(ctx, "juma@soukoni.tz", "secret")
	require.NoError(t, err)
	assert.Equal(t, "juma", res.Username)
	assert.Equal(t, "Welcome back juma !", res.Message)

	claims, err := f.userSvc.JWT.ParseSessionToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Token, claims.SessionID)

	_, _, err = f.userSvc.Login(ctx, "juma@soukoni.tz", "wrong")
	assert.True(t, apperror.Is(err, apperror.KindAuth))

	_, _, err = f.userSvc.Login(ctx, "nobody@soukoni.tz", "secret")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "juma@soukoni.tz", "juma")

	got, err := f.userSvc.Authenticate(ctx, u.ID, u.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.userSvc.Authenticate(ctx, u.ID, "stale")
	assert.True(t, apperror.Is(err, apperror.KindAuth))

	_, err = f.userSvc.Authenticate(ctx, "ffffffffffffffffffffffff", u.Token)
	assert.True(t, apperror.Is(err, apperror.KindAuth))

	// without a cached entry the stored token still decides
	delete(f.sessions.Tokens, u.ID)
	_, err = f.userSvc.Authenticate(ctx, u.ID, "stale")
	assert.True(t, apperror.Is(err, apperror.KindAuth))
}

func TestLogout_RevokesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "juma@soukoni.tz", "juma")

	require.NoError(t, f.userSvc.Logout(ctx, u.ID))
	_, err := f.userSvc.Authenticate(ctx, u.ID, u.Token)
	assert.True(t, apperror.Is(err, apperror.KindAuth))
}

func TestGetPublic(t *testing.T) {
	f := newFixture(t)
	u := f.signup(t, "juma@soukoni.tz", "juma")

	p, err := f.userSvc.GetPublic(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "juma", p.Username)
	assert.Equal(t, []string{}, p.CreatedOffers)

	_, err = f.userSvc.GetPublic(context.Background(), "ffffffffffffffffffffffff")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdate_EmptyPayloadBumpsRevisionOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "juma@soukoni.tz", "juma")

	res, err := f.userSvc.Update(ctx, u, u.ID, UpdateUserInput{})
	require.NoError(t, err)
	after, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, u.Revision+1, after.Revision)
	assert.True(t, after.UpdatedAt.After(u.UpdatedAt))
	assert.Equal(t, u.Email, after.Email)
	assert.Equal(t, u.Account, after.Account)
	assert.Equal(t, u.Salt, after.Salt)
	assert.Equal(t, u.Hash, after.Hash)
	assert.Equal(t, u.Token, after.Token)
	assert.Nil(t, res.Session)
}

func TestUpdate_MergesAccountFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "juma@soukoni.tz", "juma")

	res, err := f.userSvc.Update(ctx, u, u.ID, UpdateUserInput{
		UserType: strPtr(string(entity.UserTypeProfessional)),
		Account: &AccountUpdate{
			FirstName:  strPtr("Juma"),
			Location:   strPtr("Arusha"),
			Newsletter: boolPtr(true),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Juma", res.User.Account.FirstName)
	assert.Equal(t, "Arusha", res.User.Account.Location)
	assert.True(t, res.User.Account.Newsletter)
	assert.Equal(t, "juma", res.User.Account.Username)
	assert.Equal(t, entity.UserTypeProfessional, res.User.UserType)
}

func TestUpdate_PasswordRotatesCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "juma@soukoni.tz", "juma")

	res, err := f.userSvc.Update(ctx, u, u.ID, UpdateUserInput{Password: strPtr("n3w")})
	require.NoError(t, err)
	require.NotNil(t, res.Session)

	after, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, u.Salt, after.Salt)
	assert.NotEqual(t, u.Hash, after.Hash)
	assert.NotEqual(t, u.Token, after.Token)

	_, err = f.userSvc.Authenticate(ctx, u.ID, u.Token)
	assert.True(t, apperror.Is(err, apperror.KindAuth))
	_, _, err = f.userSvc.Login(ctx, "juma@soukoni.tz", "n3w")
	assert.NoError(t, err)
}

func TestUpdate_EmailConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "juma@soukoni.tz", "juma")
	f.signup(t, "asha@soukoni.tz", "asha")

	_, err := f.userSvc.Update(ctx, u, u.ID, UpdateUserInput{Email: strPtr("asha@soukoni.tz")})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = f.userSvc.Update(ctx, u, u.ID, UpdateUserInput{Email: strPtr("juma@soukoni.tz")})
	assert.NoError(t, err)
}

func TestUpdateUser_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "juma@soukoni.tz", "juma")
	other := f.signup(t, "asha@soukoni.tz", "asha")
	admin := f.admin(t)

	_, err := f.userSvc.Update(ctx, other, u.ID, UpdateUserInput{})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = f.userSvc.Update(ctx, u, u.ID, UpdateUserInput{Role: strPtr("admin")})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	res, err := f.userSvc.Update(ctx, admin, u.ID, UpdateUserInput{Role: strPtr("seller"), IsVerified: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSeller, res.User.Role)
	assert.True(t, res.User.IsVerified)
	assert.Nil(t, res.Session)

	_, err = f.userSvc.Update(ctx, admin, u.ID, UpdateUserInput{Role: strPtr("king")})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.userSvc.Update(ctx, admin, "ffffffffffffffffffffffff", UpdateUserInput{})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestRemove_User(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	avatar := apptest.Image("me.jpg")
	view, _, err := f.userSvc.Signup(ctx, signupInput(), &avatar)
	require.NoError(t, err)
	u, err := f.users.GetByID(ctx, view.ID)
	require.NoError(t, err)
	other := f.signup(t, "asha@soukoni.tz", "asha")

	assert.True(t, apperror.Is(f.userSvc.Remove(ctx, other, u.ID), apperror.KindForbidden))

	f.media.FailDelete = true
	require.NoError(t, f.userSvc.Remove(ctx, u, u.ID))
	_, err = f.users.GetByID(ctx, u.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.NotContains(t, f.sessions.Tokens, u.ID)

	assert.True(t, apperror.Is(f.userSvc.Remove(ctx, u, u.ID), apperror.KindNotFound))
}

func TestCreateAdmin(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsVerified)

	_, err := f.userSvc.CreateAdmin(context.Background(), SignupInput{Email: "x@soukoni.tz", Password: "p", Username: "x"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.userSvc.CreateAdmin(context.Background(), SignupInput{Email: "admin@soukoni.tz", Password: "p", Username: "x", Phone: "+255 700 000 001"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestVerifyEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "juma@soukoni.tz", "juma")
	require.NotEmpty(t, u.VerificationToken)

	view, err := f.userSvc.VerifyEmail(ctx, u.VerificationToken)
	require.NoError(t, err)
	assert.True(t, view.IsVerified)

	_, err = f.userSvc.VerifyEmail(ctx, u.VerificationToken)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	already, err := f.userSvc.ResendVerification(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, already)
}

func TestResendVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "juma@soukoni.tz", "juma")

	already, err := f.userSvc.ResendVerification(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, already)

	after, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, u.VerificationToken, after.VerificationToken)
	assert.Equal(t, 2, f.queue.Len())
}

func TestVerifyLink(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "https://soukoni.tz/verify?token=a%2Bb", f.userSvc.VerifyLink("a+b"))
	f.userSvc.Cfg.VerifyEmailURL = "https://soukoni.tz/verify?lang=fr"
	assert.Equal(t, "https://soukoni.tz/verify?lang=fr&token=abc", f.userSvc.VerifyLink("abc"))
}
