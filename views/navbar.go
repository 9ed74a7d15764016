package views

import (
	"net/url"

	"github.com/andrewpaige1/nodebook-web/models"
)

// AuthPrompt is the sign-in dialog a page was asked to open.
type AuthPrompt string

const (
	PromptNone   AuthPrompt = ""
	PromptLogin  AuthPrompt = "login"
	PromptSignup AuthPrompt = "signup"
)

func ParsePrompt(s string) AuthPrompt {
	switch p := AuthPrompt(s); p {
	case PromptLogin, PromptSignup:
		return p
	}
	return PromptNone
}

type NavUser struct {
	Name        string
	Email       string
	Image       string
	Initial     string
	ProfileHref string
}

// Navbar is the top bar. Dropdowns render closed on every page load, so they
// close whenever the route changes.
type Navbar struct {
	User *NavUser

	HomeHref           string
	CreateStudySetHref string
	CreateFolderHref   string
	LoginHref          string
	SignupHref         string
	SettingsHref       string
	LogoutHref         string

	Prompt       AuthPrompt
	FolderDialog bool
}

func withQuery(path, key, value string) string {
	return path + "?" + url.Values{key: {value}}.Encode()
}

// ProfileHref is the profile page of the user.
func ProfileHref(user *models.User) string {
	return "/users/" + url.PathEscape(user.Nickname)
}

// NewNavbar builds the navbar for the page at path. Creating anything while
// signed out opens the login prompt instead.
func NewNavbar(user *models.User, path string, query url.Values) Navbar {
	nav := Navbar{
		HomeHref:     "/",
		LoginHref:    withQuery(path, "auth", string(PromptLogin)),
		SignupHref:   withQuery(path, "auth", string(PromptSignup)),
		SettingsHref: "/settings",
		LogoutHref:   "/logout",
		Prompt:       ParsePrompt(query.Get("auth")),
	}

	if user == nil {
		nav.CreateStudySetHref = nav.LoginHref
		nav.CreateFolderHref = nav.LoginHref
		return nav
	}

	nav.User = &NavUser{
		Name:        user.DisplayName(),
		Email:       user.Email,
		Image:       user.Image,
		Initial:     user.Initial(),
		ProfileHref: ProfileHref(user),
	}
	nav.CreateStudySetHref = "/create-set"
	nav.CreateFolderHref = withQuery(path, "dialog", "folder")
	nav.Prompt = PromptNone
	nav.FolderDialog = query.Get("dialog") == "folder"
	return nav
}
