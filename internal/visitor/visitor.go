// Package visitor keeps the server-side state of each browser looking at the
// landing page: its auth modal flow, carousel, FAQ accordion, API session
// token and the cookies the remote API set for it.
package visitor

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/nfrund/learnova/internal/apiclient"
	"github.com/nfrund/learnova/internal/authflow"
	"github.com/nfrund/learnova/internal/landing"
	"golang.org/x/net/publicsuffix"
)

// Visitor is one browser session.
type Visitor struct {
	ID string

	Flow     *authflow.Flow
	Carousel *landing.Carousel
	FAQ      *landing.Accordion

	jar http.CookieJar

	mu        sync.Mutex
	token     string
	user      *apiclient.User
	modalOpen bool
	lastSeen  time.Time
}

func newVisitor(id string, now time.Time) *Visitor {
	return &Visitor{
		ID:       id,
		Carousel: landing.NewCarousel(0),
		FAQ:      &landing.Accordion{},
		jar:      newJar(),
		lastSeen: now,
	}
}

// Token returns the API bearer token, empty when signed out.
func (v *Visitor) Token() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.token
}

// SetToken stores the API bearer token.
func (v *Visitor) SetToken(token string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.token = token
}

// Jar returns the visitor itself: it holds the cookies the remote API set,
// including the refresh cookie, and SignOut empties them in place.
func (v *Visitor) Jar() http.CookieJar { return v }

// SetCookies implements http.CookieJar.
func (v *Visitor) SetCookies(u *url.URL, cookies []*http.Cookie) {
	v.mu.Lock()
	jar := v.jar
	v.mu.Unlock()
	jar.SetCookies(u, cookies)
}

// Cookies implements http.CookieJar.
func (v *Visitor) Cookies(u *url.URL) []*http.Cookie {
	v.mu.Lock()
	jar := v.jar
	v.mu.Unlock()
	return jar.Cookies(u)
}

// SetUser records the signed-in user.
func (v *Visitor) SetUser(u *apiclient.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.user = u
}

// User returns the signed-in user, if the API reported one.
func (v *Visitor) User() *apiclient.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.user
}

// SignedIn reports whether the visitor holds a token or the API reported a
// user. Cookie-based sessions only produce the latter.
func (v *Visitor) SignedIn() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.token != "" || v.user != nil
}

// SignOut drops the token, the user and the API cookies.
func (v *Visitor) SignOut() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.token = ""
	v.user = nil
	v.jar = newJar()
}

// OpenModal resets the flow to the login form and restarts the carousel.
func (v *Visitor) OpenModal(slides int) {
	v.Flow.Open()
	v.Carousel.Resize(slides)
	v.Carousel.Start()
	v.mu.Lock()
	v.modalOpen = true
	v.mu.Unlock()
}

// CloseModal clears the flow and stops the carousel.
func (v *Visitor) CloseModal() {
	v.Flow.Close()
	v.Carousel.Stop()
	v.mu.Lock()
	v.modalOpen = false
	v.mu.Unlock()
}

// ModalOpen reports whether the auth modal is showing.
func (v *Visitor) ModalOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.modalOpen
}

func (v *Visitor) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *Visitor) idleSince(now time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return now.Sub(v.lastSeen)
}

func newJar() http.CookieJar {
	// cookiejar.New never returns an error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}
