package api

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"wastewatch/internal/models"
	"wastewatch/internal/storage"
)

// Credentials are the login inputs.
type Credentials struct {
	Email    string
	Password string
}

// SignUpRequest carries the inputs of account creation.
type SignUpRequest struct {
	Email    string
	Username string
	Password string
	PhotoURL string
}

// Login authenticates by email and password and makes the matched user
// the session's current user. A wrong email and a wrong password are
// indistinguishable to the caller.
func (a *API) Login(ctx context.Context, creds Credentials) (*models.User, error) {
	return invoke(ctx, a, endpoint{name: "login", altersData: true},
		func(context.Context) (*models.User, error) {
			var matched *models.User
			err := a.store.View(func(s *storage.Snapshot) error {
				for _, u := range s.Users.Values() {
					if u.Email != creds.Email {
						continue
					}
					if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(creds.Password)) == nil {
						matched = u
					}
					break
				}
				if matched == nil {
					return models.NewInvalidDataError("invalid email or password")
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			if err := a.store.SetCurrentUser(matched); err != nil {
				return nil, err
			}
			return matched, nil
		}, nil)
}

// SignUp registers a new account. It does not log the new user in.
func (a *API) SignUp(ctx context.Context, req SignUpRequest) (*models.User, error) {
	return invoke(ctx, a, endpoint{name: "signUp", altersData: true},
		func(context.Context) (*models.User, error) {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			var created *models.User
			err = a.store.Update(func(s *storage.Snapshot) error {
				for _, u := range s.Users.Values() {
					if u.Email == req.Email {
						return models.NewAlreadyRegisteredError(req.Email)
					}
					if u.Username == req.Username {
						return models.NewInvalidDataError("username already taken")
					}
				}
				created = &models.User{
					ID:       s.Users.NextID(),
					Email:    req.Email,
					Username: req.Username,
					Password: string(hash),
					PhotoURL: req.PhotoURL,
				}
				s.Users.Put(created.ID, created)
				return nil
			})
			return created, err
		}, nil)
}

// Logout clears the current user.
func (a *API) Logout(ctx context.Context) (struct{}, error) {
	return invoke(ctx, a, endpoint{name: "logout", checkLogin: true, altersData: true},
		func(context.Context) (struct{}, error) {
			return struct{}{}, a.store.SetCurrentUser(nil)
		}, nil)
}

// ResetPassword is not available in the simulated backend.
func (a *API) ResetPassword(ctx context.Context, email string) (struct{}, error) {
	panic(models.ErrNotImplemented)
}

// ChangePassword is not available in the simulated backend.
func (a *API) ChangePassword(ctx context.Context, oldPassword, newPassword string) (struct{}, error) {
	panic(models.ErrNotImplemented)
}
