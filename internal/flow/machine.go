// Package flow is the screen controller for the studio front-end: a single
// state value, transitions fired only by user actions or call results, and
// the in-progress draft carried between screens.
package flow

import (
	"context"
	"errors"
	"fmt"

	"adstudio/internal/domain"
)

// ErrInvalidTransition is returned when an event fires in a state that does
// not accept it.
var ErrInvalidTransition = errors.New("flow: invalid transition")

// Session is the logged-in identity the machine owns.
type Session struct {
	Token string
	User  string
	Email string
}

// Video is a generated ad as the front-end sees it.
type Video struct {
	ID     string
	Src    string
	Prompt string
}

// Service is the backend surface the machine drives. Implementations must
// report rejected or expired sessions with errors satisfying
// errors.Is(err, domain.ErrUnauthorized).
type Service interface {
	Register(ctx context.Context, email, password string) (Session, error)
	Login(ctx context.Context, email, password string) (Session, error)
	LoginWithGoogle(ctx context.Context, credential string) (Session, error)
	EditImage(ctx context.Context, image []byte, mimeType, prompt string) ([]byte, string, error)
	GenerateVideo(ctx context.Context, image []byte, mimeType, prompt, aspectRatio string) (Video, error)
	Videos(ctx context.Context) ([]Video, error)
}

// Options configures a Machine.
type Options struct {
	// Session restores a persisted login; the machine then starts at
	// AwaitingUpload instead of the login screen.
	Session *Session
	// SaveSession and ClearSession persist session changes. Either may be
	// nil.
	SaveSession  func(Session) error
	ClearSession func() error
}

// Machine owns the current state, session and draft. It is not safe for
// concurrent use; the front-end drives it from one goroutine.
type Machine struct {
	svc     Service
	state   State
	session *Session
	draft   *domain.Draft
	save    func(Session) error
	clear   func() error
}

func NewMachine(svc Service, opts Options) *Machine {
	m := &Machine{
		svc:   svc,
		state: LoggedOut{Screen: ScreenLogin},
		save:  opts.SaveSession,
		clear: opts.ClearSession,
	}
	if opts.Session != nil && opts.Session.Token != "" {
		s := *opts.Session
		m.session = &s
		m.state = AwaitingUpload{}
	}
	return m
}

func (m *Machine) State() State         { return m.state }
func (m *Machine) Session() *Session    { return m.session }
func (m *Machine) Draft() *domain.Draft { return m.draft }

// SwitchAuthScreen toggles between the login and signup forms.
func (m *Machine) SwitchAuthScreen() error {
	out, ok := m.state.(LoggedOut)
	if !ok {
		return ErrInvalidTransition
	}
	if out.Screen == ScreenLogin {
		m.state = LoggedOut{Screen: ScreenSignup}
	} else {
		m.state = LoggedOut{Screen: ScreenLogin}
	}
	return nil
}

// SignUp registers a new account and enters the upload screen.
func (m *Machine) SignUp(ctx context.Context, email, password string) error {
	return m.authenticate(func() (Session, error) { return m.svc.Register(ctx, email, password) })
}

// SignIn logs into an existing account and enters the upload screen.
func (m *Machine) SignIn(ctx context.Context, email, password string) error {
	return m.authenticate(func() (Session, error) { return m.svc.Login(ctx, email, password) })
}

// SignInWithGoogle exchanges a federated credential and enters the upload
// screen.
func (m *Machine) SignInWithGoogle(ctx context.Context, credential string) error {
	return m.authenticate(func() (Session, error) { return m.svc.LoginWithGoogle(ctx, credential) })
}

func (m *Machine) authenticate(call func() (Session, error)) error {
	if _, ok := m.state.(LoggedOut); !ok {
		return ErrInvalidTransition
	}
	session, err := call()
	if err != nil {
		return err
	}
	m.session = &session
	if m.save != nil {
		if err := m.save(session); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
	}
	m.state = AwaitingUpload{}
	return nil
}

// SignOut drops the session, in memory and persisted, and returns to login.
func (m *Machine) SignOut() error {
	if m.session == nil {
		return ErrInvalidTransition
	}
	m.dropSession()
	return nil
}

func (m *Machine) dropSession() {
	m.session = nil
	m.draft = nil
	if m.clear != nil {
		_ = m.clear()
	}
	m.state = LoggedOut{Screen: ScreenLogin}
}

// Upload attaches the product image and moves to the action choice.
func (m *Machine) Upload(image []byte, mimeType string) error {
	if _, ok := m.state.(AwaitingUpload); !ok {
		return ErrInvalidTransition
	}
	if len(image) == 0 {
		return fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
	}
	m.draft = &domain.Draft{ImageBytes: image, MIMEType: mimeType}
	m.state = ChoosingAction{}
	return nil
}

// ChooseEdit enters the edit screen. Requires a draft image.
func (m *Machine) ChooseEdit() error {
	if _, ok := m.state.(ChoosingAction); !ok || !m.draft.HasImage() {
		return ErrInvalidTransition
	}
	m.state = EditingImage{}
	return nil
}

// ChooseAnimate enters animation selection, from the action choice or after
// editing. Requires a draft image.
func (m *Machine) ChooseAnimate() error {
	switch m.state.(type) {
	case ChoosingAction, EditingImage:
		if !m.draft.HasImage() {
			return ErrInvalidTransition
		}
		m.state = SelectingAnimation{}
		return nil
	default:
		return ErrInvalidTransition
	}
}

// ApplyEdit runs one edit instruction against the backend and swaps the
// edited image into the draft, keeping the original for one revert.
func (m *Machine) ApplyEdit(ctx context.Context, instruction string) error {
	if _, ok := m.state.(EditingImage); !ok || !m.draft.HasImage() {
		return ErrInvalidTransition
	}
	edited, mimeType, err := m.svc.EditImage(ctx, m.draft.ImageBytes, m.draft.MIMEType, instruction)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			m.dropSession()
		}
		return err
	}
	if mimeType == "" {
		mimeType = m.draft.MIMEType
	}
	m.draft.ApplyEdit(edited, mimeType)
	return nil
}

// RevertEdit restores the original upload.
func (m *Machine) RevertEdit() error {
	if _, ok := m.state.(EditingImage); !ok {
		return ErrInvalidTransition
	}
	m.draft.RevertEdit()
	return nil
}

// SelectAnimation records the animation, optional add-on and aspect ratio on
// the draft. addOnID may be empty.
func (m *Machine) SelectAnimation(animationID, addOnID string, aspect domain.AspectRatio) error {
	if _, ok := m.state.(SelectingAnimation); !ok || !m.draft.HasImage() {
		return ErrInvalidTransition
	}
	animation, ok := domain.AnimationByID(animationID)
	if !ok {
		return fmt.Errorf("%w: unknown animation %q", domain.ErrInvalidInput, animationID)
	}
	m.draft.Animation = &animation
	m.draft.AddOn = nil
	if addOnID != "" {
		addOn, ok := domain.AnimationByID(addOnID)
		if !ok {
			return fmt.Errorf("%w: unknown add-on %q", domain.ErrInvalidInput, addOnID)
		}
		m.draft.AddOn = &addOn
	}
	m.draft.AspectRatio = aspect
	return nil
}

// Generate composes the final prompt and submits the job. The machine enters
// Generating before the call, so a second submission cannot start while one
// is in flight. On success it shows the result; on failure it falls back to
// animation selection, or to the login screen when the session was rejected.
func (m *Machine) Generate(ctx context.Context) (*Video, error) {
	if _, ok := m.state.(SelectingAnimation); !ok {
		return nil, ErrInvalidTransition
	}
	if !m.draft.HasImage() || m.draft.Animation == nil {
		return nil, ErrInvalidTransition
	}
	if m.draft.AspectRatio == "" {
		m.draft.AspectRatio = domain.AspectLandscape
	}
	prompt := domain.ComposePrompt(*m.draft.Animation, m.draft.AddOn)
	m.state = Generating{}

	video, err := m.svc.GenerateVideo(ctx, m.draft.ImageBytes, m.draft.MIMEType, prompt, string(m.draft.AspectRatio))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			m.dropSession()
		} else {
			m.state = SelectingAnimation{}
		}
		return nil, err
	}
	m.state = ViewingResult{Video: video}
	return &video, nil
}

// Videos lists the user's library, dropping the session if the backend
// rejects the token.
func (m *Machine) Videos(ctx context.Context) ([]Video, error) {
	if m.session == nil {
		return nil, ErrInvalidTransition
	}
	videos, err := m.svc.Videos(ctx)
	if err != nil && errors.Is(err, domain.ErrUnauthorized) {
		m.dropSession()
	}
	return videos, err
}

// Reset discards the draft and returns to the upload screen from the result
// view or any mid-flow screen.
func (m *Machine) Reset() error {
	switch m.state.(type) {
	case ChoosingAction, EditingImage, SelectingAnimation, ViewingResult:
		m.draft = nil
		m.state = AwaitingUpload{}
		return nil
	case AwaitingUpload:
		m.draft = nil
		return nil
	default:
		return ErrInvalidTransition
	}
}
