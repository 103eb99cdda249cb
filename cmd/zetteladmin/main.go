package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"zettel/internal/auth"
	"zettel/internal/config"
	"zettel/internal/store"
)

type cli struct {
	Data string `help:"Data directory holding the database." env:"ZETTEL_DATA_PATH"`

	User struct {
		Add    userAddCmd    `cmd:"" help:"Create a user."`
		Passwd userPasswdCmd `cmd:"" help:"Change a user's password."`
		List   userListCmd   `cmd:"" help:"List users."`
	} `cmd:"" help:"Manage users."`

	Profile struct {
		Publish   profileSetCmd   `cmd:"" help:"Make a user's profile public."`
		Unpublish profileUnsetCmd `cmd:"" help:"Make a user's profile private."`
	} `cmd:"" help:"Manage public profiles."`
}

type cmdContext struct {
	store *store.Store
	ctx   context.Context
}

func main() {
	var app cli
	parsed := kong.Parse(&app,
		kong.Name("zetteladmin"),
		kong.Description("Administration commands for the zettel server."),
		kong.UsageOnError(),
	)

	dataPath := app.Data
	if dataPath == "" {
		dataPath = config.Load().DataPath
	}
	if dataPath == "" {
		fmt.Fprintln(os.Stderr, "data path is required (--data or ZETTEL_DATA_PATH)")
		os.Exit(2)
	}

	st, err := store.Open(filepath.Join(dataPath, "zettel.sqlite"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer st.Close()
	ctx := context.Background()
	if err := st.Init(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	parsed.FatalIfErrorf(parsed.Run(&cmdContext{store: st, ctx: ctx}))
}

type userAddCmd struct {
	Name string `arg:"" help:"User name."`
}

func (c *userAddCmd) Run(cc *cmdContext) error {
	name := strings.TrimSpace(c.Name)
	if _, err := cc.store.UserByName(cc.ctx, name); err == nil {
		return fmt.Errorf("user %q already exists", name)
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := promptPasswordHash()
	if err != nil {
		return err
	}
	u, err := cc.store.CreateUser(cc.ctx, name, hash)
	if err != nil {
		return err
	}
	fmt.Printf("created user %s\n", u.Name)
	return nil
}

type userPasswdCmd struct {
	Name string `arg:"" help:"User name."`
}

func (c *userPasswdCmd) Run(cc *cmdContext) error {
	u, err := cc.store.UserByName(cc.ctx, c.Name)
	if err != nil {
		return err
	}
	hash, err := promptPasswordHash()
	if err != nil {
		return err
	}
	if err := cc.store.UpdatePassword(cc.ctx, u.ID, hash); err != nil {
		return err
	}
	fmt.Printf("updated password for %s\n", u.Name)
	return nil
}

type userListCmd struct{}

func (c *userListCmd) Run(cc *cmdContext) error {
	users, err := cc.store.ListUsers(cc.ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		visibility := "private"
		if u.ProfilePublic {
			visibility = "public"
		}
		fmt.Printf("%s\t%s\t%s\n", u.Name, visibility, u.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

type profileSetCmd struct {
	Name string `arg:"" help:"User name."`
}

func (c *profileSetCmd) Run(cc *cmdContext) error {
	return setProfile(cc, c.Name, true)
}

type profileUnsetCmd struct {
	Name string `arg:"" help:"User name."`
}

func (c *profileUnsetCmd) Run(cc *cmdContext) error {
	return setProfile(cc, c.Name, false)
}

func setProfile(cc *cmdContext, name string, public bool) error {
	u, err := cc.store.UserByName(cc.ctx, name)
	if err != nil {
		return err
	}
	if err := cc.store.SetProfilePublic(cc.ctx, u.ID, public); err != nil {
		return err
	}
	state := "private"
	if public {
		state = "public"
	}
	fmt.Printf("profile for %s is now %s\n", u.Name, state)
	return nil
}

func promptPasswordHash() (string, error) {
	password, err := promptPassword("Password: ")
	if err != nil {
		return "", err
	}
	confirm, err := promptPassword("Confirm: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return auth.HashPassword(password)
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
