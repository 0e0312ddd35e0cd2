package shop

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/shopfront/app/shop/store"
	"github.com/dmitrymomot/shopfront/app/shop/views"
	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/logger"
	"github.com/dmitrymomot/shopfront/core/response"
)

const (
	minPasswordLength = 5
	resetTokenTTL     = time.Hour
)

type credentialsForm struct {
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
}

type resetLink struct {
	Token string `path:"token"`
}

type newPasswordForm struct {
	UserID   string `form:"userId"`
	Token    string `form:"passwordToken"`
	Password string `form:"password"`
}

func (a *App) getLogin(ctx *Context) handler.Response {
	return a.views.Render(views.AuthLogin, page(ctx, "Login", "/login", Credentials{}))
}

func (a *App) postLogin(ctx *Context) handler.Response {
	var form credentialsForm
	if err := ctx.Bind(&form); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	email := normalizeEmail(form.Email)

	invalid := func() handler.Response {
		data := page(ctx, "Login", "/login", Credentials{Email: email})
		data.ErrorMessage = "Invalid email or password."
		return a.views.RenderWithStatus(views.AuthLogin, data, http.StatusUnprocessableEntity)
	}

	user, err := a.repos.Users.ByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return invalid()
	}
	if err != nil {
		return response.Error(err)
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(form.Password)) != nil {
		return invalid()
	}

	if err := ctx.Session().Authenticate(user.ID); err != nil {
		return response.Error(err)
	}
	a.logger.InfoContext(ctx, "user signed in",
		logger.Component("auth"),
		logger.UserID(user.ID.String()),
	)
	return response.Redirect("/")
}

func (a *App) getSignup(ctx *Context) handler.Response {
	return a.views.Render(views.AuthSignup, page(ctx, "Signup", "/signup", Credentials{}))
}

func (a *App) postSignup(ctx *Context) handler.Response {
	var form credentialsForm
	if err := ctx.Bind(&form); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	email := normalizeEmail(form.Email)

	invalid := func(msg string) handler.Response {
		data := page(ctx, "Signup", "/signup", Credentials{Email: email})
		data.ErrorMessage = msg
		return a.views.RenderWithStatus(views.AuthSignup, data, http.StatusUnprocessableEntity)
	}

	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return invalid("Please enter a valid email.")
	}
	if msg := validatePassword(form.Password); msg != "" {
		return invalid(msg)
	}
	if form.Password != form.ConfirmPassword {
		return invalid("Passwords have to match!")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), a.bcryptCost)
	if err != nil {
		return response.Error(err)
	}
	user := store.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    a.now().UTC(),
	}
	err = a.repos.Users.Create(ctx, user)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return invalid("E-Mail exists already, please pick a different one.")
	}
	if err != nil {
		return response.Error(err)
	}

	a.sendMail(ctx, a.welcomeEmail(user.Email))
	return response.Redirect("/login")
}

func (a *App) postLogout(ctx *Context) handler.Response {
	ctx.Session().Logout()
	return response.Redirect("/")
}

func (a *App) getReset(ctx *Context) handler.Response {
	return a.views.Render(views.AuthReset, page(ctx, "Reset Password", "/reset", nil))
}

func (a *App) postReset(ctx *Context) handler.Response {
	var form credentialsForm
	if err := ctx.Bind(&form); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	user, err := a.repos.Users.ByEmail(ctx, normalizeEmail(form.Email))
	if errors.Is(err, store.ErrNotFound) {
		ctx.Flash().Add(FlashError, "No account with that email found.")
		return response.Redirect("/reset")
	}
	if err != nil {
		return response.Error(err)
	}

	token, err := resetToken()
	if err != nil {
		return response.Error(err)
	}
	user.ResetToken = token
	user.ResetExpiresAt = a.now().Add(resetTokenTTL).UTC()
	if err := a.repos.Users.Update(ctx, user); err != nil {
		return response.Error(err)
	}

	a.sendMail(ctx, a.resetEmail(user.Email, token))
	ctx.Flash().Add(FlashInfo, "Check your inbox for the reset link.")
	return response.Redirect("/")
}

func (a *App) getNewPassword(ctx *Context) handler.Response {
	var link resetLink
	if err := ctx.BindPath(&link); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	token := link.Token
	user, err := a.repos.Users.ByResetToken(ctx, token)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return response.Error(err)
	}
	if err != nil || !user.HasValidResetToken(token, a.now()) {
		ctx.Flash().Add(FlashError, "Reset link is invalid or has expired.")
		return response.Redirect("/reset")
	}

	return a.views.Render(views.AuthNewPassword, page(ctx, "New Password", "/new-password", NewPassword{
		UserID: user.ID.String(),
		Token:  token,
	}))
}

func (a *App) postNewPassword(ctx *Context) handler.Response {
	var form newPasswordForm
	if err := ctx.Bind(&form); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	user, err := a.repos.Users.ByResetToken(ctx, form.Token)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return response.Error(err)
	}
	if err != nil || user.ID.String() != form.UserID || !user.HasValidResetToken(form.Token, a.now()) {
		ctx.Flash().Add(FlashError, "Reset link is invalid or has expired.")
		return response.Redirect("/reset")
	}

	if msg := validatePassword(form.Password); msg != "" {
		data := page(ctx, "New Password", "/new-password", NewPassword{UserID: form.UserID, Token: form.Token})
		data.ErrorMessage = msg
		return a.views.RenderWithStatus(views.AuthNewPassword, data, http.StatusUnprocessableEntity)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), a.bcryptCost)
	if err != nil {
		return response.Error(err)
	}
	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetExpiresAt = time.Time{}
	if err := a.repos.Users.Update(ctx, user); err != nil {
		return response.Error(err)
	}

	ctx.Flash().Add(FlashInfo, "Your password has been updated.")
	return response.Redirect("/login")
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validatePassword(pw string) string {
	if utf8.RuneCountInString(pw) < minPasswordLength {
		return "Please enter a password with at least 5 characters."
	}
	return ""
}

func resetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
