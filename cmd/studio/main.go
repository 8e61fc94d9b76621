// Command studio is the terminal front-end for the ad generator: it walks the
// upload / edit / animate flow against a running API server.
package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"adstudio/internal/client"
	"adstudio/internal/domain"
	"adstudio/internal/flow"
)

// apiService adapts the HTTP client to the screen controller's backend
// surface.
type apiService struct {
	api *client.Client
}

func (s *apiService) Register(ctx context.Context, email, password string) (flow.Session, error) {
	return s.auth(s.api.Register(ctx, email, password))
}

func (s *apiService) Login(ctx context.Context, email, password string) (flow.Session, error) {
	return s.auth(s.api.Login(ctx, email, password))
}

func (s *apiService) LoginWithGoogle(ctx context.Context, credential string) (flow.Session, error) {
	return s.auth(s.api.LoginWithGoogle(ctx, credential))
}

func (s *apiService) auth(result *client.AuthResult, err error) (flow.Session, error) {
	if err != nil {
		return flow.Session{}, err
	}
	return flow.Session{Token: result.Token, User: result.User.ID, Email: result.User.Email}, nil
}

func (s *apiService) EditImage(ctx context.Context, image []byte, mimeType, prompt string) ([]byte, string, error) {
	return s.api.EditImage(ctx, image, mimeType, prompt)
}

func (s *apiService) GenerateVideo(ctx context.Context, image []byte, mimeType, prompt, aspectRatio string) (flow.Video, error) {
	video, err := s.api.GenerateVideo(ctx, image, mimeType, prompt, aspectRatio)
	if err != nil {
		return flow.Video{}, err
	}
	return flow.Video{ID: video.ID, Src: video.Src, Prompt: video.Prompt}, nil
}

func (s *apiService) Videos(ctx context.Context) ([]flow.Video, error) {
	videos, err := s.api.Videos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]flow.Video, 0, len(videos))
	for _, v := range videos {
		out = append(out, flow.Video{ID: v.ID, Src: v.Src, Prompt: v.Prompt})
	}
	return out, nil
}

func main() {
	_ = godotenv.Load()

	serverURL := flag.String("server", envOr("ADSTUDIO_SERVER", "http://localhost:8080"), "API server base URL")
	outputDir := flag.String("output", envOr("OUTPUT_DIR", "output"), "Directory for saved videos")
	flag.Parse()

	sessionPath, err := client.DefaultSessionPath()
	if err != nil {
		log.Fatalf("Failed to resolve session path: %v", err)
	}

	api := client.New(*serverURL, nil)
	svc := &apiService{api: api}

	var restored *flow.Session
	if saved, err := client.LoadSession(sessionPath); err != nil {
		log.Printf("Warning: ignoring unreadable session file: %v", err)
	} else if saved != nil {
		api.SetToken(saved.Token)
		restored = &flow.Session{Token: saved.Token, User: saved.User.ID, Email: saved.User.Email}
	}

	machine := flow.NewMachine(svc, flow.Options{
		Session: restored,
		SaveSession: func(s flow.Session) error {
			return client.SaveSession(sessionPath, &client.Session{
				Token: s.Token,
				User:  client.User{ID: s.User, Email: s.Email},
			})
		},
		ClearSession: func() error {
			api.ClearToken()
			return client.ClearSession(sessionPath)
		},
	})

	ui := &studioUI{
		machine:   machine,
		scanner:   bufio.NewScanner(os.Stdin),
		outputDir: *outputDir,
	}
	fmt.Printf("=== Ad Studio (server: %s) ===\n", *serverURL)
	ui.run(context.Background())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type studioUI struct {
	machine   *flow.Machine
	scanner   *bufio.Scanner
	outputDir string
}

func (ui *studioUI) run(ctx context.Context) {
	for {
		var done bool
		switch state := ui.machine.State().(type) {
		case flow.LoggedOut:
			done = ui.loggedOutMenu(ctx, state)
		case flow.AwaitingUpload:
			done = ui.uploadMenu(ctx)
		case flow.ChoosingAction:
			done = ui.actionMenu()
		case flow.EditingImage:
			done = ui.editMenu(ctx)
		case flow.SelectingAnimation:
			done = ui.animationMenu(ctx)
		case flow.ViewingResult:
			done = ui.resultMenu(ctx, state.Video)
		default:
			log.Fatalf("Unhandled state %T", state)
		}
		if done {
			return
		}
	}
}

// prompt reads one trimmed line; the second return is false on EOF.
func (ui *studioUI) prompt(label string) (string, bool) {
	fmt.Print(label)
	if !ui.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(ui.scanner.Text()), true
}

func (ui *studioUI) loggedOutMenu(ctx context.Context, state flow.LoggedOut) bool {
	if state.Screen == flow.ScreenLogin {
		fmt.Println("\n--- Log in ---")
		fmt.Println("1. Log in with email")
		fmt.Println("2. Log in with Google credential")
		fmt.Println("3. Switch to sign up")
	} else {
		fmt.Println("\n--- Sign up ---")
		fmt.Println("1. Create account")
		fmt.Println("3. Switch to log in")
	}
	fmt.Println("4. Exit")

	choice, ok := ui.prompt("Select option: ")
	if !ok {
		return true
	}
	switch choice {
	case "1":
		email, ok := ui.prompt("Email: ")
		if !ok {
			return true
		}
		password, ok := ui.prompt("Password: ")
		if !ok {
			return true
		}
		var err error
		if state.Screen == flow.ScreenLogin {
			err = ui.machine.SignIn(ctx, email, password)
		} else {
			err = ui.machine.SignUp(ctx, email, password)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	case "2":
		if state.Screen != flow.ScreenLogin {
			fmt.Println("Invalid choice")
			return false
		}
		credential, ok := ui.prompt("Google ID token: ")
		if !ok {
			return true
		}
		if err := ui.machine.SignInWithGoogle(ctx, credential); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	case "3":
		_ = ui.machine.SwitchAuthScreen()
	case "4":
		fmt.Println("Exiting...")
		return true
	default:
		fmt.Println("Invalid choice")
	}
	return false
}

func (ui *studioUI) uploadMenu(ctx context.Context) bool {
	fmt.Printf("\n--- Upload product image (%s) ---\n", ui.machine.Session().Email)
	fmt.Println("1. Upload image from file")
	fmt.Println("2. Show my videos")
	fmt.Println("3. Sign out")
	fmt.Println("4. Exit")

	choice, ok := ui.prompt("Select option: ")
	if !ok {
		return true
	}
	switch choice {
	case "1":
		path, ok := ui.prompt("Image path: ")
		if !ok {
			return true
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("Error reading file: %v\n", err)
			return false
		}
		if err := ui.machine.Upload(data, mimeTypeFor(path)); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	case "2":
		ui.showLibrary(ctx)
	case "3":
		if err := ui.machine.SignOut(); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	case "4":
		fmt.Println("Exiting...")
		return true
	default:
		fmt.Println("Invalid choice")
	}
	return false
}

func (ui *studioUI) actionMenu() bool {
	fmt.Println("\n--- Image ready ---")
	fmt.Println("1. Edit the image first")
	fmt.Println("2. Animate it as-is")
	fmt.Println("3. Start over")

	choice, ok := ui.prompt("Select option: ")
	if !ok {
		return true
	}
	switch choice {
	case "1":
		_ = ui.machine.ChooseEdit()
	case "2":
		_ = ui.machine.ChooseAnimate()
	case "3":
		_ = ui.machine.Reset()
	default:
		fmt.Println("Invalid choice")
	}
	return false
}

func (ui *studioUI) editMenu(ctx context.Context) bool {
	fmt.Println("\n--- Edit image ---")
	fmt.Println("1. Apply an edit instruction")
	if ui.machine.Draft().Edited() {
		fmt.Println("2. Revert to the original upload")
	}
	fmt.Println("3. Continue to animation")
	fmt.Println("4. Start over")

	choice, ok := ui.prompt("Select option: ")
	if !ok {
		return true
	}
	switch choice {
	case "1":
		instruction, ok := ui.prompt("Describe the edit: ")
		if !ok {
			return true
		}
		fmt.Println("Editing...")
		if err := ui.machine.ApplyEdit(ctx, instruction); err != nil {
			fmt.Printf("Error: %v\n", err)
		} else {
			fmt.Println("Edit applied.")
		}
	case "2":
		_ = ui.machine.RevertEdit()
	case "3":
		if err := ui.machine.ChooseAnimate(); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	case "4":
		_ = ui.machine.Reset()
	default:
		fmt.Println("Invalid choice")
	}
	return false
}

func (ui *studioUI) animationMenu(ctx context.Context) bool {
	fmt.Println("\n--- Choose animation ---")
	for i, opt := range domain.AnimationOptions {
		fmt.Printf("%d. %s - %s\n", i+1, opt.Title, opt.Description)
	}

	choice, ok := ui.prompt("Animation number: ")
	if !ok {
		return true
	}
	animation, valid := pickAnimation(choice)
	if !valid {
		fmt.Println("Invalid choice")
		return false
	}

	fmt.Println("Optional add-on effect (blank for none):")
	for i, opt := range domain.AnimationOptions {
		if opt.ID != animation {
			fmt.Printf("%d. %s\n", i+1, opt.Title)
		}
	}
	addOnChoice, ok := ui.prompt("Add-on number: ")
	if !ok {
		return true
	}
	addOn := ""
	if addOnChoice != "" {
		if addOn, valid = pickAnimation(addOnChoice); !valid {
			fmt.Println("Invalid choice")
			return false
		}
	}

	aspectChoice, ok := ui.prompt("Aspect ratio (1 = 16:9 landscape, 2 = 9:16 portrait): ")
	if !ok {
		return true
	}
	aspect := domain.AspectLandscape
	if aspectChoice == "2" {
		aspect = domain.AspectPortrait
	}

	if err := ui.machine.SelectAnimation(animation, addOn, aspect); err != nil {
		fmt.Printf("Error: %v\n", err)
		return false
	}

	stopSpinner := startLoadingMessages()
	video, err := ui.machine.Generate(ctx)
	stopSpinner()
	if err != nil {
		fmt.Printf("Generation failed: %v\n", err)
		return false
	}
	fmt.Printf("\nDone! Video %s is ready.\n", video.ID)
	return false
}

func (ui *studioUI) resultMenu(ctx context.Context, video flow.Video) bool {
	fmt.Println("\n--- Your ad is ready ---")
	fmt.Printf("Prompt: %s\n", video.Prompt)
	fmt.Println("1. Save video to disk")
	fmt.Println("2. Create another ad")
	fmt.Println("3. Show my videos")
	fmt.Println("4. Exit")

	choice, ok := ui.prompt("Select option: ")
	if !ok {
		return true
	}
	switch choice {
	case "1":
		ui.saveVideo(video)
	case "2":
		_ = ui.machine.Reset()
	case "3":
		ui.showLibrary(ctx)
	case "4":
		fmt.Println("Exiting...")
		return true
	default:
		fmt.Println("Invalid choice")
	}
	return false
}

func (ui *studioUI) showLibrary(ctx context.Context) {
	videos, err := ui.machine.Videos(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(videos) == 0 {
		fmt.Println("No videos yet.")
		return
	}
	fmt.Printf("\n%d video(s), newest first:\n", len(videos))
	for _, v := range videos {
		fmt.Printf("  %s  %s\n", v.ID, v.Prompt)
	}
}

func (ui *studioUI) saveVideo(video flow.Video) {
	data, ok := decodeDataURI(video.Src)
	if !ok {
		fmt.Printf("Video is hosted at: %s\n", video.Src)
		return
	}
	if err := os.MkdirAll(ui.outputDir, 0o755); err != nil {
		fmt.Printf("Error creating output dir: %v\n", err)
		return
	}
	path := filepath.Join(ui.outputDir, video.ID+".mp4")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Printf("Error saving video: %v\n", err)
		return
	}
	fmt.Printf("Saved: %s\n", path)
}

// startLoadingMessages cycles the waiting copy while a job is in flight and
// returns a stop function.
func startLoadingMessages() func() {
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		i := 0
		fmt.Println(flow.LoadingMessages[0])
		ticker := time.NewTicker(8 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				i = (i + 1) % len(flow.LoadingMessages)
				fmt.Println(flow.LoadingMessages[i])
			}
		}
	}()
	return func() {
		close(done)
		<-stopped
	}
}

func pickAnimation(choice string) (string, bool) {
	for i, opt := range domain.AnimationOptions {
		if choice == fmt.Sprintf("%d", i+1) || choice == opt.ID {
			return opt.ID, true
		}
	}
	return "", false
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

func decodeDataURI(src string) ([]byte, bool) {
	const marker = ";base64,"
	if !strings.HasPrefix(src, "data:") {
		return nil, false
	}
	idx := strings.Index(src, marker)
	if idx < 0 {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(src[idx+len(marker):])
	if err != nil {
		return nil, false
	}
	return data, true
}
