package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/songkeeper/internal/client/api"
	"github.com/dmitrijs2005/songkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the profile fields and a password and creates the
// account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	userID, err := getSimpleText(a.reader, "Choose a user id", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	_, err = a.api.Register(ctx, api.NewUser{UserID: userID, Name: name, Email: email, Password: string(password)})
	if errors.Is(err, common.ErrAlreadyExists) {
		return fmt.Errorf("user id %q is taken", userID)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success! You can login now.")
	return nil
}

// Login prompts for credentials and keeps the issued token on the client.
func (a *App) Login(ctx context.Context) error {
	userID, err := getSimpleText(a.reader, "Enter user id", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, userID, string(password)); err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		if errors.Is(err, common.ErrorUnauthorized) {
			return errors.New("login unsuccessful: wrong user id or password")
		}
		return err
	}

	a.userID = userID
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.SetToken("")
	a.userID = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
