package flow

// AuthScreen selects which authentication form is showing while logged out.
type AuthScreen string

const (
	ScreenLogin  AuthScreen = "login"
	ScreenSignup AuthScreen = "signup"
)

// State is the tagged variant describing which screen the app is on. Exactly
// one struct per screen; rendering and transition logic switch exhaustively
// over these.
type State interface{ isState() }

// LoggedOut shows the login or signup form.
type LoggedOut struct{ Screen AuthScreen }

// AwaitingUpload waits for a product image.
type AwaitingUpload struct{}

// ChoosingAction asks whether to edit the image or animate it as-is.
type ChoosingAction struct{}

// EditingImage collects an edit instruction against the current draft image.
type EditingImage struct{}

// SelectingAnimation collects the animation, optional add-on and aspect ratio.
type SelectingAnimation struct{}

// Generating means one job is in flight; no further submissions are possible
// until it terminates.
type Generating struct{}

// ViewingResult shows the finished video.
type ViewingResult struct{ Video Video }

func (LoggedOut) isState()          {}
func (AwaitingUpload) isState()     {}
func (ChoosingAction) isState()     {}
func (EditingImage) isState()       {}
func (SelectingAnimation) isState() {}
func (Generating) isState()         {}
func (ViewingResult) isState()      {}

// LoadingMessages rotate on the generating screen; the cycling is cosmetic
// and never drives a transition.
var LoadingMessages = []string{
	"Warming up the digital studio...",
	"Analyzing pixels and possibilities...",
	"Choreographing the animation...",
	"Rendering your high-quality ad...",
	"Adding the final sparkling touches...",
	"This can take a few minutes, hang tight!",
}
