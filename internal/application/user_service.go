package application

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Widedbounou/SK-B/config"
	"github.com/Widedbounou/SK-B/internal/domain/entity"
	repo "github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/apperror"
	"github.com/Widedbounou/SK-B/pkg/helpers"
	"github.com/Widedbounou/SK-B/pkg/mailer"
	tpl "github.com/Widedbounou/SK-B/pkg/mailer/templates"
)

// EmailQueue publishes email jobs for the email worker.
type EmailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

type UserService struct {
	Users    repo.UserRepository
	Media    repo.MediaStore
	Sessions repo.SessionCache // optional
	Emails   EmailQueue        // optional
	JWT      *helpers.JWTManager
	Cfg      *config.Config
	Logger   *logrus.Logger
	now      func() time.Time
}

func NewUserService(users repo.UserRepository, media repo.MediaStore, jwt *helpers.JWTManager, cfg *config.Config, logger *logrus.Logger) *UserService {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &UserService{
		Users:  users,
		Media:  media,
		JWT:    jwt,
		Cfg:    cfg,
		Logger: logger,
		now:    time.Now,
	}
}

// Session is the signed cookie value handed to the client.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

type SignupInput struct {
	Email      string
	Password   string
	Username   string
	Phone      string
	Newsletter bool
}

// UserView is the user as returned to its owner: no salt, hash or token.
type UserView struct {
	ID         string          `json:"_id"`
	Email      string          `json:"email"`
	IsVerified bool            `json:"isVerified"`
	Account    entity.Account  `json:"account"`
	Role       entity.Role     `json:"role"`
	UserType   entity.UserType `json:"userType"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	// Revision counts successful updates.
	Revision       int64    `json:"revision"`
	CreatedOffers  []string `json:"createdOffers"`
	PurchasedItems []string `json:"purchasedItems"`
}

func NewUserView(u *entity.User) UserView {
	return UserView{
		ID:             u.ID,
		Email:          u.Email,
		IsVerified:     u.IsVerified,
		Account:        u.Account,
		Role:           u.Role,
		UserType:       u.UserType,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
		Revision:       u.Revision,
		CreatedOffers:  nonNilIDs(u.CreatedOffers),
		PurchasedItems: nonNilIDs(u.PurchasedItems),
	}
}

// PublicProfile is what anyone can see about a user.
type PublicProfile struct {
	Username      string          `json:"username"`
	UserType      entity.UserType `json:"userType"`
	Location      string          `json:"location,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedOffers []string        `json:"createdOffers"`
}

type LoginResult struct {
	UserID   string `json:"-"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type AccountUpdate struct {
	Username   *string `json:"username"`
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Location   *string `json:"location"`
	Phone      *string `json:"phone"`
	Newsletter *bool   `json:"newsletter"`
}

// UpdateUserInput is a partial update; nil fields are left untouched.
// Role, IsVerified, CreatedOffers and PurchasedItems are admin-only.
type UpdateUserInput struct {
	Email          *string        `json:"email"`
	Password       *string        `json:"password"`
	IsVerified     *bool          `json:"isVerified"`
	Role           *string        `json:"role"`
	UserType       *string        `json:"userType"`
	Account        *AccountUpdate `json:"account"`
	CreatedOffers  []string       `json:"createdOffers"`
	PurchasedItems []string       `json:"purchasedItems"`
}

type UpdateUserResult struct {
	User UserView
	// Session is set when the actor changed their own password.
	Session *Session
}

func (s *UserService) namespace(userID string) string {
	root := s.Cfg.MediaRoot
	if root == "" {
		root = "soukoni"
	}
	return root + "/users/" + userID
}

// Signup registers a buyer account and signs it in.
func (s *UserService) Signup(ctx context.Context, in SignupInput, avatar *repo.Upload) (*UserView, *Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if in.Email == "" || in.Password == "" || in.Username == "" {
		return nil, nil, apperror.Validation("missing parameters")
	}
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, nil, apperror.Conflict("this email already has an account")
	} else if !apperror.Is(err, apperror.KindNotFound) {
		return nil, nil, err
	}

	u, err := s.newUser(in, entity.RoleBuyer)
	if err != nil {
		return nil, nil, err
	}
	if u.VerificationToken, err = helpers.RandomToken(helpers.TokenLength); err != nil {
		return nil, nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, nil, err
	}

	if avatar != nil {
		if err := checkImages("avatar", *avatar); err != nil {
			return nil, nil, err
		}
		ns := s.namespace(u.ID)
		ref, err := s.Media.Upload(ctx, *avatar, ns, "avatar")
		if err != nil {
			return nil, nil, apperror.Media("avatar upload failed", err)
		}
		u.Account.Avatar = &ref
	}

	if err := s.Users.Create(ctx, u); err != nil {
		if u.Account.Avatar != nil {
			s.dropMedia(ctx, s.namespace(u.ID))
		}
		return nil, nil, err
	}

	s.enqueueVerification(ctx, u)
	if u.Account.Newsletter {
		s.enqueue(ctx, mailer.EmailJob{
			To:       u.Email,
			Template: tpl.Welcome,
			Data:     tpl.NewWelcomeData(s.Cfg, u.Account.Username, u.Email),
		})
	}

	sess, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	view := NewUserView(u)
	return &view, sess, nil
}

// CreateAdmin registers a verified admin account. Phone is mandatory.
func (s *UserService) CreateAdmin(ctx context.Context, in SignupInput) (*UserView, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if in.Email == "" || in.Password == "" || in.Username == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, apperror.Validation("missing parameters")
	}
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperror.Conflict("this email is already in use")
	} else if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}
	u, err := s.newUser(in, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	u.IsVerified = true
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	view := NewUserView(u)
	return &view, nil
}

func (s *UserService) newUser(in SignupInput, role entity.Role) (*entity.User, error) {
	creds, err := helpers.IssueCredentials(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &entity.User{
		ID:    s.Users.NewID(),
		Email: in.Email,
		Token: creds.Token,
		Salt:  creds.Salt,
		Hash:  creds.Hash,
		Account: entity.Account{
			Username:   in.Username,
			Phone:      strings.TrimSpace(in.Phone),
			Newsletter: in.Newsletter,
		},
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedOffers:  []string{},
		PurchasedItems: []string{},
	}
	u.Normalize()
	return u, nil
}

// Login checks the password. The body carries no token; the session travels
// in the cookie built from the returned Session.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, *Session, error) {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, nil, err
	}
	ok, err := helpers.VerifyPassword(password, u.Salt, u.Hash)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, apperror.Auth("unauthorized")
	}
	sess, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return &LoginResult{
		UserID:   u.ID,
		Username: u.Account.Username,
		Message:  "Welcome back " + u.Account.Username + " !",
	}, sess, nil
}

// Logout rotates the session token, which signs out every device.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	tok, err := helpers.RandomToken(helpers.TokenLength)
	if err != nil {
		return err
	}
	u.Token = tok
	u.UpdatedAt = s.now().UTC()
	if err := s.Users.Update(ctx, u); err != nil {
		return err
	}
	s.dropSession(ctx, u.ID)
	return nil
}

// Authenticate resolves a session (user id + opaque token) to its user.
func (s *UserService) Authenticate(ctx context.Context, userID, sessionToken string) (*entity.User, error) {
	if userID == "" || sessionToken == "" {
		return nil, apperror.Auth("missing session")
	}
	if s.Sessions != nil {
		cached, ok, err := s.Sessions.Get(ctx, userID)
		if err != nil {
			helpers.LogWarn(s.Logger, "session cache get failed", err, logrus.Fields{"user_id": userID})
		}
		if ok && !helpers.TokensEqual(cached, sessionToken) {
			return nil, apperror.Auth("session expired")
		}
	}
	u, err := s.Users.GetByID(ctx, userID)
	if apperror.Is(err, apperror.KindNotFound) {
		return nil, apperror.Auth("session not found")
	}
	if err != nil {
		return nil, err
	}
	if !helpers.TokensEqual(u.Token, sessionToken) {
		return nil, apperror.Auth("session expired")
	}
	s.cacheSession(ctx, u)
	return u, nil
}

func (s *UserService) GetPublic(ctx context.Context, userID string) (*PublicProfile, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PublicProfile{
		Username:      u.Account.Username,
		UserType:      u.UserType,
		Location:      u.Account.Location,
		CreatedAt:     u.CreatedAt,
		CreatedOffers: nonNilIDs(u.CreatedOffers),
	}, nil
}

// Update merges the supplied fields. A password change rotates salt, hash
// and token. UpdatedAt and Revision move on every successful update.
func (s *UserService) Update(ctx context.Context, actor *entity.User, userID string, in UpdateUserInput) (*UpdateUserResult, error) {
	if !canModify(actor, userID) {
		return nil, apperror.Forbidden("you can only update your own account")
	}
	if !actor.IsAdmin() && (in.Role != nil || in.IsVerified != nil || in.CreatedOffers != nil || in.PurchasedItems != nil) {
		return nil, apperror.Forbidden("only an admin can change role, verification or offer lists")
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != u.Email {
			if _, err := s.Users.GetByEmail(ctx, email); err == nil {
				return nil, apperror.Conflict("this email is already in use")
			} else if !apperror.Is(err, apperror.KindNotFound) {
				return nil, err
			}
			u.Email = email
		}
	}
	if in.IsVerified != nil {
		u.IsVerified = *in.IsVerified
	}
	if in.Role != nil {
		u.Role = entity.Role(*in.Role)
	}
	if in.UserType != nil {
		u.UserType = entity.UserType(*in.UserType)
	}
	if a := in.Account; a != nil {
		setString(&u.Account.Username, a.Username)
		setString(&u.Account.FirstName, a.FirstName)
		setString(&u.Account.LastName, a.LastName)
		setString(&u.Account.Location, a.Location)
		setString(&u.Account.Phone, a.Phone)
		if a.Newsletter != nil {
			u.Account.Newsletter = *a.Newsletter
		}
	}
	if in.CreatedOffers != nil {
		u.CreatedOffers = in.CreatedOffers
	}
	if in.PurchasedItems != nil {
		u.PurchasedItems = in.PurchasedItems
	}
	rotated := false
	if in.Password != nil {
		creds, err := helpers.RotateCredentials(*in.Password)
		if err != nil {
			return nil, err
		}
		u.Salt, u.Hash, u.Token = creds.Salt, creds.Hash, creds.Token
		rotated = true
	}

	u.Normalize()
	if err := u.Validate(); err != nil {
		return nil, err
	}
	u.UpdatedAt = s.now().UTC()
	u.Revision++
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}

	res := &UpdateUserResult{User: NewUserView(u)}
	if rotated {
		s.dropSession(ctx, u.ID)
		if actor.ID == u.ID {
			if res.Session, err = s.issueSession(ctx, u); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

// Remove deletes the user, then best-effort deletes their media namespace.
func (s *UserService) Remove(ctx context.Context, actor *entity.User, userID string) error {
	if !canModify(actor, userID) {
		return apperror.Forbidden("you can only delete your own account")
	}
	if err := s.Users.Delete(ctx, userID); err != nil {
		return err
	}
	s.dropMedia(ctx, s.namespace(userID))
	s.dropSession(ctx, userID)
	return nil
}

// VerifyEmail consumes a verification token.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*UserView, error) {
	u, err := s.Users.SetVerified(ctx, strings.TrimSpace(token))
	if apperror.Is(err, apperror.KindNotFound) {
		return nil, apperror.Validation("invalid or expired token")
	}
	if err != nil {
		return nil, err
	}
	view := NewUserView(u)
	return &view, nil
}

// ResendVerification issues a fresh verification token and emails it.
// It reports true when the account is already verified.
func (s *UserService) ResendVerification(ctx context.Context, userID string) (bool, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if u.IsVerified {
		return true, nil
	}
	if u.VerificationToken, err = helpers.RandomToken(helpers.TokenLength); err != nil {
		return false, err
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return false, err
	}
	s.enqueueVerification(ctx, u)
	return false, nil
}

// VerifyLink is the front-end URL that confirms the given token.
func (s *UserService) VerifyLink(token string) string {
	base := s.Cfg.VerifyEmailURL
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}

func (s *UserService) enqueueVerification(ctx context.Context, u *entity.User) {
	s.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.VerifyEmail,
		Data:     tpl.NewVerifyEmailData(s.Cfg, u.Account.Username, u.Email, s.VerifyLink(u.VerificationToken), tpl.WithTime(s.now())),
	})
}

func (s *UserService) enqueue(ctx context.Context, job mailer.EmailJob) {
	if s.Emails == nil || !s.Cfg.MailSendEnabled {
		return
	}
	if err := s.Emails.PublishJSON(ctx, job); err != nil {
		helpers.LogWarn(s.Logger, "enqueue email failed", err, logrus.Fields{"template": job.Template})
	}
}

func (s *UserService) issueSession(ctx context.Context, u *entity.User) (*Session, error) {
	if s.JWT == nil {
		return nil, errors.New("session signer not configured")
	}
	tok, exp, err := s.JWT.GenerateSessionToken(u.ID, u.Token)
	if err != nil {
		return nil, err
	}
	s.cacheSession(ctx, u)
	return &Session{Token: tok, ExpiresAt: exp}, nil
}

func (s *UserService) cacheSession(ctx context.Context, u *entity.User) {
	if s.Sessions == nil {
		return
	}
	ttl := time.Hour
	if s.JWT != nil && s.JWT.TTL > 0 {
		ttl = s.JWT.TTL
	}
	if err := s.Sessions.Set(ctx, u.ID, u.Token, ttl); err != nil {
		helpers.LogWarn(s.Logger, "session cache set failed", err, logrus.Fields{"user_id": u.ID})
	}
}

func (s *UserService) dropSession(ctx context.Context, userID string) {
	if s.Sessions == nil {
		return
	}
	if err := s.Sessions.Delete(ctx, userID); err != nil {
		helpers.LogWarn(s.Logger, "session cache delete failed", err, logrus.Fields{"user_id": userID})
	}
}

func (s *UserService) dropMedia(ctx context.Context, namespace string) {
	if s.Media == nil {
		return
	}
	if err := s.Media.DeletePrefix(ctx, namespace); err != nil {
		helpers.LogWarn(s.Logger, "media cleanup failed", err, logrus.Fields{"namespace": namespace})
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func nonNilIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
